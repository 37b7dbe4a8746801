package v1

import (
	"net/http"

	"github.com/funnytourism/tourprice/internal/api/dto"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/service"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service    service.BookingService
	commission service.CommissionService
	log        *logger.Logger
}

func NewBookingHandler(service service.BookingService, commission service.CommissionService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:    service,
		commission: commission,
		log:        log,
	}
}

// @Summary Create a booking
// @Description Price and store a booking. Agent bookings also open the commission ledger.
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param booking body dto.CreateBookingRequest true "Booking"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	// agents can only book on their own account
	if agentID := types.GetAgentID(c.Request.Context()); agentID != "" {
		if req.AgentID != nil && *req.AgentID != agentID {
			c.Error(ierr.NewError("agent token does not match booking agent").
				WithHint("You can only create bookings for your own agency").
				Mark(ierr.ErrPermissionDenied))
			return
		}
		req.AgentID = &agentID
	}

	resp, err := h.service.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a booking
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} booking.Booking
// @Failure 404 {object} ierr.ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	resp, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List bookings
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param filter query types.BookingFilter false "Filter"
// @Success 200 {object} dto.ListResponse[booking.Booking]
// @Failure 400 {object} ierr.ErrorResponse
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filter := types.NewBookingFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}
	if agentID := types.GetAgentID(c.Request.Context()); agentID != "" {
		filter.AgentID = agentID
	}

	resp, err := h.service.ListBookings(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get the ledger of a booking
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.LedgerResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /bookings/{id}/ledger [get]
func (h *BookingHandler) GetBookingLedger(c *gin.Context) {
	resp, err := h.commission.GetLedgerByBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
