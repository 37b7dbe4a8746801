package pricing

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Tier is one party size bracket of a tier table.
// PartySizeCeil is nil for the open-ended last bracket of a category.
type Tier struct {
	PartySizeFloor   int              `json:"party_size_floor"`
	PartySizeCeil    *int             `json:"party_size_ceil,omitempty"`
	Category         string           `json:"category"`
	UnitAmount       decimal.Decimal  `json:"unit_amount" swaggertype:"string"`
	Basis            types.PriceBasis `json:"basis"`
	SingleSupplement *decimal.Decimal `json:"single_supplement,omitempty" swaggertype:"string"`
	TripleRate       *decimal.Decimal `json:"triple_rate,omitempty" swaggertype:"string"`
}

// Contains reports whether size falls inside the bracket
func (t Tier) Contains(size int) bool {
	if size < t.PartySizeFloor {
		return false
	}
	return t.PartySizeCeil == nil || size <= *t.PartySizeCeil
}

func (t Tier) String() string {
	if t.PartySizeCeil == nil {
		return fmt.Sprintf("%s[%d+]=%s", t.Category, t.PartySizeFloor, t.UnitAmount)
	}
	return fmt.Sprintf("%s[%d-%d]=%s", t.Category, t.PartySizeFloor, *t.PartySizeCeil, t.UnitAmount)
}

// TierTable is the canonical form of a pricing document. Tiers are sorted by
// category then floor. An empty table means the item is priced on request.
type TierTable struct {
	Tiers []Tier `json:"tiers"`
}

// NewTierTable drops tiers without a positive amount and sorts the rest
func NewTierTable(tiers []Tier) *TierTable {
	kept := lo.Filter(tiers, func(t Tier, _ int) bool {
		return t.UnitAmount.IsPositive() && t.PartySizeFloor >= 1
	})
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Category != kept[j].Category {
			return kept[i].Category < kept[j].Category
		}
		return kept[i].PartySizeFloor < kept[j].PartySizeFloor
	})
	if kept == nil {
		kept = []Tier{}
	}
	return &TierTable{Tiers: kept}
}

// EmptyTierTable returns the table of an item that is priced on request
func EmptyTierTable() *TierTable {
	return &TierTable{Tiers: []Tier{}}
}

func (t *TierTable) IsEmpty() bool {
	return t == nil || len(t.Tiers) == 0
}

// Categories returns the distinct tier categories in table order
func (t *TierTable) Categories() []string {
	if t.IsEmpty() {
		return []string{}
	}
	return lo.Uniq(lo.Map(t.Tiers, func(tier Tier, _ int) string { return tier.Category }))
}

// TiersFor returns the tiers of one category in floor order
func (t *TierTable) TiersFor(category string) []Tier {
	if t.IsEmpty() {
		return []Tier{}
	}
	return lo.Filter(t.Tiers, func(tier Tier, _ int) bool { return tier.Category == category })
}

func (t *TierTable) HasCategory(category string) bool {
	if t.IsEmpty() {
		return false
	}
	return lo.ContainsBy(t.Tiers, func(tier Tier) bool { return tier.Category == category })
}

// Validate checks the table invariants: positive amounts, ordering and no
// overlapping brackets within a category.
func (t *TierTable) Validate() error {
	if t == nil {
		return ierr.NewError("tier table is nil").
			Mark(ierr.ErrValidation)
	}
	for i, tier := range t.Tiers {
		if !tier.UnitAmount.IsPositive() {
			return ierr.NewErrorf("tier %s has a non-positive amount", tier).
				WithReportableDetails(map[string]any{"index": i}).
				Mark(ierr.ErrValidation)
		}
		if tier.PartySizeCeil != nil && *tier.PartySizeCeil < tier.PartySizeFloor {
			return ierr.NewErrorf("tier %s has a ceiling below its floor", tier).
				WithReportableDetails(map[string]any{"index": i}).
				Mark(ierr.ErrValidation)
		}
		if i == 0 {
			continue
		}
		prev := t.Tiers[i-1]
		if prev.Category > tier.Category ||
			(prev.Category == tier.Category && prev.PartySizeFloor > tier.PartySizeFloor) {
			return ierr.NewErrorf("tier %s is out of order", tier).
				WithReportableDetails(map[string]any{"index": i}).
				Mark(ierr.ErrValidation)
		}
		if prev.Category == tier.Category && (prev.PartySizeCeil == nil || *prev.PartySizeCeil >= tier.PartySizeFloor) {
			return ierr.NewErrorf("tier %s overlaps %s", tier, prev).
				WithReportableDetails(map[string]any{"index": i}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

func (t *TierTable) String() string {
	if t.IsEmpty() {
		return "TierTable{}"
	}
	return "TierTable{" + strings.Join(lo.Map(t.Tiers, func(tier Tier, _ int) string { return tier.String() }), ", ") + "}"
}

// FromPrice returns the lowest unit amount in the table. It is meant for
// "From €X" list displays only, never for charging.
func FromPrice(table *TierTable) (decimal.Decimal, bool) {
	tier, ok := FromTier(table)
	if !ok {
		return decimal.Zero, false
	}
	return tier.UnitAmount, true
}

// FromTier returns the tier with the lowest unit amount. Transfer tables mix
// per person and per vehicle tiers, so displays read the basis from it.
func FromTier(table *TierTable) (Tier, bool) {
	if table.IsEmpty() {
		return Tier{}, false
	}
	return lo.MinBy(table.Tiers, func(a, b Tier) bool {
		return a.UnitAmount.LessThan(b.UnitAmount)
	}), true
}

// bracket is a floor with its amount before ceilings are assigned
type bracket struct {
	floor  int
	amount decimal.Decimal
	hotel  *HotelRates
}

// chainBrackets turns ascending floors into contiguous tiers: each bracket
// ends one below the next floor and the last one is open-ended.
func chainBrackets(category string, basis types.PriceBasis, brackets []bracket) []Tier {
	slices.SortFunc(brackets, func(a, b bracket) int { return a.floor - b.floor })

	tiers := make([]Tier, 0, len(brackets))
	for i, b := range brackets {
		tier := Tier{
			PartySizeFloor: b.floor,
			Category:       category,
			UnitAmount:     b.amount,
			Basis:          basis,
		}
		if i+1 < len(brackets) {
			tier.PartySizeCeil = lo.ToPtr(brackets[i+1].floor - 1)
		}
		if b.hotel != nil {
			tier.SingleSupplement = b.hotel.SingleSupplement
			tier.TripleRate = b.hotel.Triple
		}
		tiers = append(tiers, tier)
	}
	return tiers
}

// Tiers converts the hotel document. Pax tiers win over the flat shape; the
// brackets of each hotel category are chained from the keys that price it.
func (d HotelDocument) Tiers() []Tier {
	if len(d.PaxTiers) > 0 {
		tiers := make([]Tier, 0)
		for _, category := range types.HotelCategories {
			brackets := make([]bracket, 0, len(d.PaxTiers))
			for size, categories := range d.PaxTiers {
				if rates, ok := categories[category]; ok {
					brackets = append(brackets, bracket{floor: size, amount: rates.Double, hotel: lo.ToPtr(rates)})
				}
			}
			tiers = append(tiers, chainBrackets(category, types.PriceBasisPerPerson, brackets)...)
		}
		if len(tiers) > 0 {
			return tiers
		}
	}

	tiers := make([]Tier, 0, len(d.Flat))
	for _, category := range types.HotelCategories {
		if rates, ok := d.Flat[category]; ok {
			tiers = append(tiers, chainBrackets(category, types.PriceBasisPerPerson, []bracket{
				{floor: 1, amount: rates.Double, hotel: lo.ToPtr(rates)},
			})...)
		}
	}
	return tiers
}

// Tiers converts the land-only document. Sized rates take precedence; the
// per person rate is used only when no sized rate exists.
func (d LandDocument) Tiers() []Tier {
	sized := lo.Filter([]bracket{
		{floor: 2, amount: lo.FromPtr(d.TwoAdults)},
		{floor: 4, amount: lo.FromPtr(d.FourAdults)},
		{floor: 6, amount: lo.FromPtr(d.SixAdults)},
	}, func(b bracket, _ int) bool { return b.amount.IsPositive() })

	if len(sized) > 0 {
		return chainBrackets(types.TierCategoryStandard, types.PriceBasisPerPerson, sized)
	}
	if d.PerPerson != nil {
		return chainBrackets(types.TierCategoryStandard, types.PriceBasisPerPerson, []bracket{
			{floor: 1, amount: *d.PerPerson},
		})
	}
	return []Tier{}
}

// Tiers converts the daily tour document. A private rate for "up to N" guests
// covers the sizes above the previous threshold; the largest threshold is
// also quoted for bigger groups.
func (d DailyTourDocument) Tiers() []Tier {
	tiers := make([]Tier, 0, len(d.PrivateUpTo)+1)
	if d.SICPrice != nil {
		tiers = append(tiers, Tier{
			PartySizeFloor: 1,
			Category:       types.TierCategorySIC,
			UnitAmount:     *d.SICPrice,
			Basis:          types.PriceBasisPerPerson,
		})
	}

	thresholds := lo.Keys(d.PrivateUpTo)
	slices.Sort(thresholds)
	floor := 1
	for i, n := range thresholds {
		tier := Tier{
			PartySizeFloor: floor,
			Category:       types.TierCategoryPrivate,
			UnitAmount:     d.PrivateUpTo[n],
			Basis:          types.PriceBasisPerPerson,
		}
		if i+1 < len(thresholds) {
			tier.PartySizeCeil = lo.ToPtr(n)
		}
		tiers = append(tiers, tier)
		floor = n + 1
	}
	return tiers
}

// Tiers converts the transfer document. Shared seats are sold per person and
// private vehicles per vehicle; larger parties are handled on request.
func (d TransferDocument) Tiers() []Tier {
	if d.OnRequestOnly {
		return []Tier{}
	}

	tiers := make([]Tier, 0, 4)
	if d.SICPricePerPerson != nil {
		tiers = append(tiers, Tier{
			PartySizeFloor: 1,
			PartySizeCeil:  lo.ToPtr(types.MaxTransferPartySize),
			Category:       types.TierCategorySIC,
			UnitAmount:     *d.SICPricePerPerson,
			Basis:          types.PriceBasisPerPerson,
		})
	}

	vehicles := []struct {
		floor, ceil int
		amount      *decimal.Decimal
	}{
		{1, 2, d.Price1to2Pax},
		{3, 5, d.Price3to5Pax},
		{6, types.MaxTransferPartySize, d.Price6to10Pax},
	}
	for _, v := range vehicles {
		if v.amount == nil {
			continue
		}
		tiers = append(tiers, Tier{
			PartySizeFloor: v.floor,
			PartySizeCeil:  lo.ToPtr(v.ceil),
			Category:       types.TierCategoryPrivate,
			UnitAmount:     *v.amount,
			Basis:          types.PriceBasisPerVehicle,
		})
	}
	return tiers
}
