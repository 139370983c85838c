package domain

import "errors"

var (
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrNoMatches         = errors.New("no matches yet")
)
