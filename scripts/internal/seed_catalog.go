package internal

import (
	"context"
	"fmt"
	"os"

	"github.com/funnytourism/tourprice/internal/config"
	"github.com/funnytourism/tourprice/internal/domain/agent"
	"github.com/funnytourism/tourprice/internal/domain/item"
	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/postgres"
	"github.com/funnytourism/tourprice/internal/repository"
	"github.com/funnytourism/tourprice/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

type catalogFile struct {
	Items []struct {
		Code     string             `json:"code"`
		Title    string             `json:"title"`
		Category types.ItemCategory `json:"category"`
		// either a JSON object or the string form the admin forms store
		Pricing    jsoniter.RawMessage `json:"pricing"`
		B2BPricing jsoniter.RawMessage `json:"b2b_pricing"`
		Currency   string              `json:"currency"`
	} `json:"items"`
	Agents []struct {
		CompanyName    string          `json:"company_name"`
		Email          string          `json:"email"`
		CommissionRate decimal.Decimal `json:"commission_rate"`
		NetRate        bool            `json:"net_rate"`
	} `json:"agents"`
}

// SeedCatalog loads CATALOG_FILE and creates its items and agents.
// Entries that already exist are skipped so the script can be re-run.
func SeedCatalog() error {
	path := os.Getenv("CATALOG_FILE")
	if path == "" {
		return fmt.Errorf("CATALOG_FILE is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog catalogFile
	if err := jsoniter.Unmarshal(data, &catalog); err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
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

	ctx := types.SetUserID(context.Background(), "seed-script")
	itemRepo := repository.NewItemRepository(db, log)
	agentRepo := repository.NewAgentRepository(db, log)

	created, skipped := 0, 0
	for _, entry := range catalog.Items {
		if err := entry.Category.Validate(); err != nil {
			return fmt.Errorf("item %s: %w", entry.Code, err)
		}
		i := &item.Item{
			ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ITEM),
			Code:       entry.Code,
			Title:      entry.Title,
			Category:   entry.Category,
			Pricing:    rawDocument(entry.Pricing),
			B2BPricing: rawDocument(entry.B2BPricing),
			Currency:   entry.Currency,
			IsActive:   true,
			BaseModel:  types.GetDefaultBaseModel(ctx),
		}
		if i.Currency == "" {
			i.Currency = cfg.Pricing.Currency
		}
		if err := itemRepo.Create(ctx, i); err != nil {
			if ierr.IsAlreadyExists(err) {
				log.Infow("item already exists, skipping", "code", entry.Code)
				skipped++
				continue
			}
			return err
		}
		created++
	}

	for _, entry := range catalog.Agents {
		a := &agent.Agent{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AGENT),
			CompanyName:    entry.CompanyName,
			Email:          entry.Email,
			CommissionRate: entry.CommissionRate,
			NetRate:        entry.NetRate,
			IsActive:       true,
			BaseModel:      types.GetDefaultBaseModel(ctx),
		}
		if err := agentRepo.Create(ctx, a); err != nil {
			if ierr.IsAlreadyExists(err) {
				log.Infow("agent already exists, skipping", "email", entry.Email)
				skipped++
				continue
			}
			return err
		}
		created++
	}

	log.Infow("catalog seeded", "created", created, "skipped", skipped)
	return nil
}

// rawDocument keeps string documents as their content and objects as JSON text
func rawDocument(raw jsoniter.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := jsoniter.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
