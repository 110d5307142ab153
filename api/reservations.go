package api

import (
	"fmt"
	"net/http"

	"github.com/Domenick1991/busreservation/internal/boardingpass"
	"github.com/Domenick1991/busreservation/internal/clock"
	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/service/departures"
	"github.com/Domenick1991/busreservation/internal/service/reservation"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ReservationHandler struct {
	service    reservation.ReservationUseCase
	departures departures.DepartureUseCase
	clock      clock.Clock
}

type createReservationRequest struct {
	DepartureID   int64            `json:"departure_id"`
	SeatNumber    int              `json:"seat_number"`
	Price         *decimal.Decimal `json:"price"`
	PassengerName string           `json:"passenger_name"`
	RouteOverride string           `json:"route_override"`
}

// NewReservationHandler falls back to the wall clock when clk is nil.
func NewReservationHandler(service reservation.ReservationUseCase, departures departures.DepartureUseCase, clk clock.Clock) *ReservationHandler {
	if clk == nil {
		clk = clock.Real()
	}
	return &ReservationHandler{service: service, departures: departures, clock: clk}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
	router.GET("/:id/boarding-pass", h.boardingPass)
}

func (h *ReservationHandler) create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondDomainError(c, domain.Invalid("body", err.Error()))
		return
	}

	res, err := h.service.Create(c.Request.Context(), actor, reservation.CreateInput{
		DepartureID:   req.DepartureID,
		SeatNumber:    req.SeatNumber,
		Price:         req.Price,
		PassengerName: req.PassengerName,
		RouteOverride: req.RouteOverride,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *ReservationHandler) list(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	list, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if list == nil {
		list = []domain.Reservation{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *ReservationHandler) get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.service.Get(c.Request.Context(), id, actor)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.service.Cancel(c.Request.Context(), id, actor)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReservationHandler) boardingPass(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.service.Get(c.Request.Context(), id, actor)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	switch res.Status {
	case domain.ReservationStatusCancelled:
		RespondDomainError(c, domain.ErrReservationCancelled)
		return
	case domain.ReservationStatusScanned:
		RespondDomainError(c, domain.ErrAlreadyScanned)
		return
	}
	dep, err := h.departures.GetByID(c.Request.Context(), res.DepartureID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	// Late boarding stays possible until departure, so the pass outlives ValidUntil.
	if dep.HasDeparted(h.clock.Now()) {
		RespondDomainError(c, domain.ErrDepartureAlreadyLeft)
		return
	}
	pdf, err := boardingpass.Render(res, dep)
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "render_failed", "could not render boarding pass")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, boardingpass.Filename(res)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
