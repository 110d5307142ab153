package api

import (
	"net/http"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/service/ledger"
	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	service ledger.LedgerUseCase
}

func NewLedgerHandler(service ledger.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// Register mounts the ledger routes. A user_id query parameter is honoured
// for admins only.
func (h *LedgerHandler) Register(router *gin.RouterGroup) {
	router.GET("/ledger", h.entries)
	router.GET("/balance", h.balance)
}

func (h *LedgerHandler) entries(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	userID, ok := queryInt64(c, "user_id")
	if !ok {
		return
	}
	entries, err := h.service.Entries(c.Request.Context(), actor, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *LedgerHandler) balance(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	userID, ok := queryInt64(c, "user_id")
	if !ok {
		return
	}
	balance, err := h.service.Balance(c.Request.Context(), actor, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}
