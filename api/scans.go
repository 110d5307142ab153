package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/service/settlement"
	"github.com/gin-gonic/gin"
)

const defaultScanHistoryLimit = 50

type ScanHandler struct {
	service settlement.SettlementUseCase
}

type presentRequest struct {
	Credential string `json:"credential"`
}

type passengersResponse struct {
	Passengers []domain.Reservation `json:"passengers"`
	Filters    passengersFilters    `json:"filters"`
}

type passengersFilters struct {
	Status      string `json:"status"`
	DepartureID int64  `json:"departure_id,omitempty"`
}

func NewScanHandler(service settlement.SettlementUseCase) *ScanHandler {
	return &ScanHandler{service: service}
}

func (h *ScanHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.present)
	router.GET("", h.history)
	router.GET("/passengers", h.passengers)
}

func (h *ScanHandler) present(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req presentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondDomainError(c, domain.Invalid("body", err.Error()))
		return
	}
	result, err := h.service.Present(c.Request.Context(), req.Credential, actor)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ScanHandler) history(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	limit := defaultScanHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			RespondDomainError(c, domain.Invalid("limit", "must be a positive integer"))
			return
		}
		limit = min(v, settlement.MaxScanHistory)
	}
	scans, err := h.service.ScanHistory(c.Request.Context(), actor, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if scans == nil {
		scans = []settlement.Scan{}
	}
	c.JSON(http.StatusOK, scans)
}

func (h *ScanHandler) passengers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	departureID, ok := queryInt64(c, "departure_id")
	if !ok {
		return
	}
	status := c.DefaultQuery("status", settlement.StatusAll)

	list, err := h.service.Passengers(c.Request.Context(), actor, departureID, status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if list == nil {
		list = []domain.Reservation{}
	}
	c.JSON(http.StatusOK, passengersResponse{
		Passengers: list,
		Filters:    passengersFilters{Status: status, DepartureID: departureID},
	})
}
