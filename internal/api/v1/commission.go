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

type CommissionHandler struct {
	service service.CommissionService
	log     *logger.Logger
}

func NewCommissionHandler(service service.CommissionService, log *logger.Logger) *CommissionHandler {
	return &CommissionHandler{
		service: service,
		log:     log,
	}
}

// @Summary Open a commission ledger
// @Description Open the ledger of an existing agent booking. Staff only. Bookings created through the API open theirs automatically.
// @Tags Commission
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ledger body dto.CreateLedgerRequest true "Ledger"
// @Success 201 {object} dto.LedgerResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /ledgers [post]
func (h *CommissionHandler) CreateLedger(c *gin.Context) {
	if types.GetAgentID(c.Request.Context()) != "" {
		c.Error(ierr.NewError("agents cannot open commission ledgers").
			WithHint("Only staff can open commission ledgers").
			Mark(ierr.ErrPermissionDenied))
		return
	}

	var req dto.CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateLedger(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a ledger
// @Tags Commission
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ledger ID"
// @Success 200 {object} dto.LedgerResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /ledgers/{id} [get]
func (h *CommissionHandler) GetLedger(c *gin.Context) {
	resp, err := h.service.GetLedger(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List ledgers
// @Tags Commission
// @Produce json
// @Security BearerAuth
// @Param filter query types.LedgerFilter false "Filter"
// @Success 200 {object} dto.ListResponse[dto.LedgerResponse]
// @Failure 400 {object} ierr.ErrorResponse
// @Router /ledgers [get]
func (h *CommissionHandler) ListLedgers(c *gin.Context) {
	filter := types.NewLedgerFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}
	if agentID := types.GetAgentID(c.Request.Context()); agentID != "" {
		filter.AgentID = agentID
	}

	resp, err := h.service.ListLedgers(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Record a payment
// @Description Append a payment to a ledger. Fails with 409 when the ledger keeps changing underneath the request.
// @Tags Commission
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ledger ID"
// @Param payment body dto.RecordPaymentRequest true "Payment"
// @Success 201 {object} dto.RecordPaymentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /ledgers/{id}/payments [post]
func (h *CommissionHandler) RecordPayment(c *gin.Context) {
	if types.GetAgentID(c.Request.Context()) != "" {
		c.Error(ierr.NewError("agents cannot record ledger payments").
			WithHint("Only staff can record payments").
			Mark(ierr.ErrPermissionDenied))
		return
	}

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.RecordPayment(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary List ledger payments
// @Tags Commission
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ledger ID"
// @Success 200 {array} commission.PaymentRecord
// @Failure 404 {object} ierr.ErrorResponse
// @Router /ledgers/{id}/payments [get]
func (h *CommissionHandler) ListPayments(c *gin.Context) {
	resp, err := h.service.ListPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
