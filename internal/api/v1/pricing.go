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

type PricingHandler struct {
	service service.PricingService
	log     *logger.Logger
}

func NewPricingHandler(service service.PricingService, log *logger.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		log:     log,
	}
}

// @Summary List starting-from prices
// @Description Lowest price of every catalog item, or "Contact for pricing" when an item has no usable tiers
// @Tags Pricing
// @Produce json
// @Param filter query types.ItemFilter false "Filter"
// @Success 200 {object} dto.ListResponse[dto.FromPriceResponse]
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /items/from-prices [get]
func (h *PricingHandler) ListFromPrices(c *gin.Context) {
	filter := types.NewItemFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListFromPrices(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get starting-from price
// @Description Lowest price of an item for list displays
// @Tags Pricing
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} dto.FromPriceResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /items/{id}/from-price [get]
func (h *PricingHandler) GetFromPrice(c *gin.Context) {
	resp, err := h.service.GetFromPrice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get tier table
// @Description Normalized party size tiers of an item
// @Tags Pricing
// @Produce json
// @Param id path string true "Item ID"
// @Param channel query string false "public or agent" default(public)
// @Success 200 {object} dto.TierTableResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /items/{id}/tiers [get]
func (h *PricingHandler) GetTierTable(c *gin.Context) {
	channel := types.PricingChannel(c.DefaultQuery("channel", string(types.PricingChannelPublic)))

	resp, err := h.service.GetTierTable(c.Request.Context(), c.Param("id"), channel)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Quote a party
// @Description Price a party at its exact size, with room supplements for hotel packages
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.QuoteRequest true "Party"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /items/{id}/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	// guests always see consumer prices and agents always see their own
	switch ctx := c.Request.Context(); {
	case types.GetAgentID(ctx) != "":
		req.Channel = types.PricingChannelAgent
	case types.GetUserID(ctx) == types.DefaultUserID:
		req.Channel = types.PricingChannelPublic
	}

	resp, err := h.service.Quote(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
