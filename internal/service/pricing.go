package service

import (
	"context"

	"github.com/funnytourism/tourprice/internal/api/dto"
	"github.com/funnytourism/tourprice/internal/cache"
	"github.com/funnytourism/tourprice/internal/domain/item"
	"github.com/funnytourism/tourprice/internal/domain/pricing"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/sentry"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/iter"
)

// PricingService answers catalog and checkout pricing questions for items
type PricingService interface {
	GetTierTable(ctx context.Context, itemID string, channel types.PricingChannel) (*dto.TierTableResponse, error)
	GetFromPrice(ctx context.Context, itemID string) (*dto.FromPriceResponse, error)
	ListFromPrices(ctx context.Context, filter *types.ItemFilter) (*dto.ListResponse[*dto.FromPriceResponse], error)
	Quote(ctx context.Context, itemID string, req *dto.QuoteRequest) (*dto.QuoteResponse, error)
}

type pricingService struct {
	ServiceParams
	normalizer *pricing.Normalizer
}

func NewPricingService(params ServiceParams) PricingService {
	return newPricingService(params)
}

func newPricingService(params ServiceParams) *pricingService {
	return &pricingService{
		ServiceParams: params,
		normalizer:    pricing.NewNormalizer(params.Logger),
	}
}

// tierTable returns the normalized table of an item for a channel. Agents use
// the B2B document when it yields any tier and consumer pricing otherwise.
// Tables are cached per item version, so an edited item is normalized again.
func (s *pricingService) tierTable(ctx context.Context, i *item.Item, channel types.PricingChannel) *pricing.TierTable {
	key := cache.GenerateKey(cache.PrefixTierTable, i.ID, channel, i.UpdatedAt.UnixNano())
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if table, ok := cached.(*pricing.TierTable); ok {
			return table
		}
	}

	var table *pricing.TierTable
	if channel == types.PricingChannelAgent && i.B2BPricing != "" {
		table = s.normalizer.Normalize(ctx, i.B2BPricing, i.Category)
	}
	if table.IsEmpty() {
		table = s.normalizer.Normalize(ctx, i.Pricing, i.Category)
	}

	s.Cache.Set(ctx, key, table, s.Config.Cache.TierTableTTL)
	return table
}

func (s *pricingService) GetTierTable(ctx context.Context, itemID string, channel types.PricingChannel) (*dto.TierTableResponse, error) {
	if err := channel.Validate(); err != nil {
		return nil, err
	}
	i, err := s.ItemRepo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	table := s.tierTable(ctx, i, channel)
	return &dto.TierTableResponse{
		ItemID:  i.ID,
		Channel: channel,
		Empty:   table.IsEmpty(),
		Tiers:   append([]pricing.Tier{}, table.Tiers...),
	}, nil
}

func (s *pricingService) GetFromPrice(ctx context.Context, itemID string) (*dto.FromPriceResponse, error) {
	i, err := s.ItemRepo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return dto.NewFromPriceResponse(i, s.tierTable(ctx, i, types.PricingChannelPublic)), nil
}

func (s *pricingService) ListFromPrices(ctx context.Context, filter *types.ItemFilter) (*dto.ListResponse[*dto.FromPriceResponse], error) {
	if filter == nil {
		filter = types.NewItemFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	items, err := s.ItemRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	span, spanCtx := s.Sentry.StartServiceSpan(ctx, "pricing.list_from_prices", map[string]interface{}{
		"items": len(items),
	})
	mapper := iter.Mapper[*item.Item, *dto.FromPriceResponse]{
		MaxGoroutines: s.Config.Pricing.CatalogWorkers,
	}
	prices := mapper.Map(items, func(i **item.Item) *dto.FromPriceResponse {
		return dto.NewFromPriceResponse(*i, s.tierTable(spanCtx, *i, types.PricingChannelPublic))
	})
	sentry.FinishSpan(span, nil)

	return dto.NewListResponse(prices), nil
}

func (s *pricingService) Quote(ctx context.Context, itemID string, req *dto.QuoteRequest) (*dto.QuoteResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	i, err := s.ItemRepo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	quote, err := s.quoteItem(ctx, i, req)
	if err != nil {
		return nil, err
	}
	return dto.NewQuoteResponse(i, req.GetChannel(), quote), nil
}

// quoteItem prices req against an already loaded item
func (s *pricingService) quoteItem(ctx context.Context, i *item.Item, req *dto.QuoteRequest) (*pricing.Quote, error) {
	if !i.IsActive {
		return nil, ierr.NewErrorf("item %s is not active", i.ID).
			WithHint("This item is no longer available for booking").
			Mark(ierr.ErrInvalidOperation)
	}

	table := s.tierTable(ctx, i, req.GetChannel())
	quote, err := pricing.BuildQuote(table, req.ToPricingRequest(i, s.singleSupplementRate()))
	if err != nil {
		if ierr.IsNoPriceAvailable(err) {
			s.Logger.WithContext(ctx).Infow("no price available for party",
				"item_id", i.ID,
				"channel", req.GetChannel(),
				"party_size", req.PartySize,
				"category", req.Category,
			)
		}
		return nil, err
	}
	return quote, nil
}

func (s *pricingService) singleSupplementRate() decimal.Decimal {
	return decimal.NewFromFloat(s.Config.Pricing.SingleSupplementPercent).Div(decimal.NewFromInt(100))
}
