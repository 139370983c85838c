package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillswap/skillswap-backend/internal/domain"
	"github.com/skillswap/skillswap-backend/internal/usecase/exchange"
)

type MatchHandler struct {
	exchangeUseCase *exchange.ExchangeUseCase
}

func NewMatchHandler(exchangeUseCase *exchange.ExchangeUseCase) *MatchHandler {
	return &MatchHandler{
		exchangeUseCase: exchangeUseCase,
	}
}

// MatchResponse is a match annotated with its highlight state
type MatchResponse struct {
	*domain.Match
	IsNew bool `json:"is_new"`
}

// ClearNewRequest lists match ids to unflag; empty clears all
type ClearNewRequest struct {
	IDs []string `json:"ids"`
}

// ListMatches handles GET /matches
// @Summary List matches
// @Tags matches
// @Produce json
// @Success 200 {array} MatchResponse
// @Router /matches [get]
func (h *MatchHandler) ListMatches(c *gin.Context) {
	matches := h.exchangeUseCase.ListMatches()

	response := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		response = append(response, MatchResponse{
			Match: m,
			IsNew: h.exchangeUseCase.IsNew(m.ID),
		})
	}

	c.JSON(http.StatusOK, response)
}

// RandomMatch handles GET /matches/random
// @Summary Pick a random match
// @Tags matches
// @Produce json
// @Success 200 {object} MatchResponse
// @Failure 404 {object} ErrorResponse
// @Router /matches/random [get]
func (h *MatchHandler) RandomMatch(c *gin.Context) {
	m, ok := h.exchangeUseCase.PickRandomMatch()
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: domain.ErrNoMatches.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, MatchResponse{
		Match: m,
		IsNew: h.exchangeUseCase.IsNew(m.ID),
	})
}

// NewMatchIDs handles GET /matches/new
// @Summary List ids of freshly found matches
// @Tags matches
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /matches/new [get]
func (h *MatchHandler) NewMatchIDs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ids": h.exchangeUseCase.NewMatchIDs(),
	})
}

// ClearNew handles DELETE /matches/new
// @Summary Clear new-match highlights
// @Tags matches
// @Accept json
// @Param request body ClearNewRequest false "Ids to clear"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /matches/new [delete]
func (h *MatchHandler) ClearNew(c *gin.Context) {
	// An absent or empty body clears every flag.
	var req ClearNewRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "invalid request body",
			})
			return
		}
	}

	h.exchangeUseCase.ClearNew(req.IDs...)
	c.Status(http.StatusNoContent)
}
