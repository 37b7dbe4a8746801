package internal

import (
	"context"
	"fmt"
	"os"

	"github.com/funnytourism/tourprice/internal/config"
	"github.com/funnytourism/tourprice/internal/domain/pricing"
	"github.com/funnytourism/tourprice/internal/postgres"
	"github.com/funnytourism/tourprice/internal/repository"
	"github.com/funnytourism/tourprice/internal/types"
)

// PrintTiers shows how the stored documents of ITEM_ID normalize, including
// the parse errors that the API reports as "Contact for pricing"
func PrintTiers() error {
	itemID := os.Getenv("ITEM_ID")
	if itemID == "" {
		return fmt.Errorf("ITEM_ID is required")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := newScriptLogger(cfg)
	if err != nil {
		return err
	}
	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	i, err := repository.NewItemRepository(db, log).Get(context.Background(), itemID)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s) %s\n", i.Code, i.Category, i.Title)
	for _, channel := range []types.PricingChannel{types.PricingChannelPublic, types.PricingChannelAgent} {
		table, err := pricing.Parse(i.PricingDocument(channel), i.Category)
		if err != nil {
			fmt.Printf("\n[%s] parse error: %v\n", channel, err)
			continue
		}
		fmt.Printf("\n[%s] %d tiers\n", channel, len(table.Tiers))
		for _, tier := range table.Tiers {
			fmt.Printf("  %-40s %s\n", tier.String(), tier.Basis)
		}
		if tier, ok := pricing.FromTier(table); ok {
			fmt.Printf("  from price: %s %s\n", types.FormatAmount(tier.UnitAmount, i.GetCurrency()), tier.Basis)
		} else {
			fmt.Printf("  from price: %s\n", types.ContactForPricing)
		}
	}
	return nil
}
