package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/skillswap/skillswap-backend/internal/domain"
	"github.com/skillswap/skillswap-backend/internal/usecase/exchange"
)

type ProfileHandler struct {
	exchangeUseCase *exchange.ExchangeUseCase
	submitDelay     time.Duration
}

func NewProfileHandler(exchangeUseCase *exchange.ExchangeUseCase, submitDelay time.Duration) *ProfileHandler {
	return &ProfileHandler{
		exchangeUseCase: exchangeUseCase,
		submitDelay:     submitDelay,
	}
}

// SubmitProfile handles POST /profiles
// @Summary Submit a profile
// @Description Store a profile and discover skill matches against existing members
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body exchange.SubmitProfileRequest true "Profile data"
// @Success 201 {object} exchange.SubmitResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profiles [post]
func (h *ProfileHandler) SubmitProfile(c *gin.Context) {
	var req exchange.SubmitProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	if h.submitDelay > 0 {
		select {
		case <-time.After(h.submitDelay):
		case <-c.Request.Context().Done():
			return
		}
	}

	result, err := h.exchangeUseCase.SubmitProfile(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSubmission) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "all fields are required",
				Details: err.Error(),
			})
			return
		}
		log.Error().Err(err).Msg("Failed to submit profile")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to submit profile",
		})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListProfiles handles GET /profiles
// @Summary List profiles
// @Description List community members, most recent first, optionally filtered by q
// @Tags profiles
// @Produce json
// @Param q query string false "Search term"
// @Success 200 {array} domain.Profile
// @Router /profiles [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var profiles []*domain.Profile
	if q := c.Query("q"); q != "" {
		profiles = h.exchangeUseCase.SearchProfiles(q)
	} else {
		profiles = h.exchangeUseCase.ListProfiles()
	}
	if profiles == nil {
		profiles = []*domain.Profile{}
	}

	c.JSON(http.StatusOK, profiles)
}
