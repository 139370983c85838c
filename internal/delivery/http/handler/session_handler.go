package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skillswap/skillswap-backend/internal/usecase/exchange"
)

type SessionHandler struct {
	exchangeUseCase *exchange.ExchangeUseCase
	onReset         func(time.Time)
}

func NewSessionHandler(exchangeUseCase *exchange.ExchangeUseCase, onReset func(time.Time)) *SessionHandler {
	return &SessionHandler{
		exchangeUseCase: exchangeUseCase,
		onReset:         onReset,
	}
}

// Stats handles GET /stats
// @Summary Session statistics
// @Tags session
// @Produce json
// @Success 200 {object} exchange.Stats
// @Router /stats [get]
func (h *SessionHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.exchangeUseCase.Stats())
}

// Reset handles POST /session/reset
// @Summary Start a fresh session
// @Tags session
// @Success 204
// @Router /session/reset [post]
func (h *SessionHandler) Reset(c *gin.Context) {
	h.exchangeUseCase.Reset()
	if h.onReset != nil {
		h.onReset(time.Now())
	}
	c.Status(http.StatusNoContent)
}
