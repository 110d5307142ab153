package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/service/departures"
	"github.com/gin-gonic/gin"
)

type DepartureHandler struct {
	service departures.DepartureUseCase
}

func NewDepartureHandler(service departures.DepartureUseCase) *DepartureHandler {
	return &DepartureHandler{service: service}
}

func (h *DepartureHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *DepartureHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if list == nil {
		list = []domain.Departure{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *DepartureHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	dep, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dep)
}

// pathID parses the :id parameter, answering 400 when it is not a positive
// integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.Invalid("id", "must be a positive integer"))
		return 0, false
	}
	return id, true
}

func queryInt64(c *gin.Context, key string) (int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		RespondDomainError(c, domain.Invalid(key, "must be a non-negative integer"))
		return 0, false
	}
	return v, true
}
