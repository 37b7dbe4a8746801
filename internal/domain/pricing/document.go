package pricing

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

// Field names of the stored pricing documents. They are written by the admin
// forms and cannot be renamed without a data migration.
const (
	fieldPaxTiers         = "paxTiers"
	fieldDouble           = "double"
	fieldTriple           = "triple"
	fieldSingle           = "single"
	fieldSingleSupplement = "singleSupplement"

	fieldPerPerson  = "perPerson"
	fieldTwoAdults  = "twoAdults"
	fieldFourAdults = "fourAdults"
	fieldSixAdults  = "sixAdults"

	fieldSICPrice          = "sicPrice"
	fieldPrivateMinPrefix  = "privateMin"
	fieldSICPricePerPerson = "sicPricePerPerson"
	fieldPrice1to2Pax      = "price1to2Pax"
	fieldPrice3to5Pax      = "price3to5Pax"
	fieldPrice6to10Pax     = "price6to10Pax"
	fieldOnRequestOnly     = "onRequestOnly"
)

var documentJSON = jsoniter.Config{
	UseNumber:              true,
	EscapeHTML:             false,
	ValidateJsonRawMessage: true,
}.Froze()

// HotelRates are the per person rates of one hotel category
type HotelRates struct {
	Double           decimal.Decimal
	Triple           *decimal.Decimal
	SingleSupplement *decimal.Decimal
}

// HotelDocument is the pricing of a package that includes accommodation.
// PaxTiers is keyed by the smallest party size the rates apply to; Flat holds
// the legacy single-bracket shape.
type HotelDocument struct {
	PaxTiers map[int]map[string]HotelRates
	Flat     map[string]HotelRates
}

// LandDocument is the pricing of a land-only package
type LandDocument struct {
	PerPerson  *decimal.Decimal
	TwoAdults  *decimal.Decimal
	FourAdults *decimal.Decimal
	SixAdults  *decimal.Decimal
}

// DailyTourDocument is the pricing of a daily tour. PrivateUpTo maps a party
// size threshold N to the per person private rate for parties of up to N guests.
type DailyTourDocument struct {
	SICPrice    *decimal.Decimal
	PrivateUpTo map[int]decimal.Decimal
}

// TransferDocument is the pricing of an airport or city transfer
type TransferDocument struct {
	SICPricePerPerson *decimal.Decimal
	Price1to2Pax      *decimal.Decimal
	Price3to5Pax      *decimal.Decimal
	Price6to10Pax     *decimal.Decimal
	OnRequestOnly     bool
}

// decodeDocument turns any accepted raw representation into a JSON object.
// A nil or blank input decodes to a nil map without error.
func decodeDocument(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case string:
		return decodeDocumentBytes([]byte(v))
	case *string:
		if v == nil {
			return nil, nil
		}
		return decodeDocumentBytes([]byte(*v))
	case []byte:
		return decodeDocumentBytes(v)
	case json.RawMessage:
		return decodeDocumentBytes(v)
	default:
		return nil, ierr.NewErrorf("unsupported pricing document type %T", raw).
			WithHint("Pricing could not be read").
			Mark(ierr.ErrPricingParse, ierr.ErrValidation)
	}
}

func decodeDocumentBytes(data []byte) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var decoded any
	if err := documentJSON.Unmarshal(data, &decoded); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Pricing could not be read").
			Mark(ierr.ErrPricingParse, ierr.ErrValidation)
	}

	switch v := decoded.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case string:
		// some legacy rows hold the document encoded twice
		if nested := strings.TrimSpace(v); strings.HasPrefix(nested, "{") {
			return decodeDocumentBytes([]byte(nested))
		}
	}

	return nil, ierr.NewErrorf("pricing document must be a JSON object, got %T", decoded).
		WithHint("Pricing could not be read").
		Mark(ierr.ErrPricingParse, ierr.ErrValidation)
}

// positiveAmount reads a price field. Anything that is not a positive number
// (null, "", 0, negatives, garbage) counts as absent.
func positiveAmount(v any) (decimal.Decimal, bool) {
	var d decimal.Decimal
	switch val := v.(type) {
	case json.Number:
		parsed, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero, false
		}
		d = parsed
	case jsoniter.Number:
		parsed, err := decimal.NewFromString(string(val))
		if err != nil {
			return decimal.Zero, false
		}
		d = parsed
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Zero, false
		}
		d = decimal.NewFromFloat(val)
	case int:
		d = decimal.NewFromInt(int64(val))
	case int64:
		d = decimal.NewFromInt(val)
	case decimal.Decimal:
		d = val
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(val), "€"))
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		d = parsed
	default:
		return decimal.Zero, false
	}

	if !d.IsPositive() || !types.IsAmountInRange(d) {
		return decimal.Zero, false
	}
	return d, true
}

func optionalAmount(v any) *decimal.Decimal {
	d, ok := positiveAmount(v)
	if !ok {
		return nil
	}
	return &d
}

func boolField(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return err == nil && b
	default:
		return false
	}
}

// partySizeKey parses a tier key. Only positive integers are accepted.
func partySizeKey(key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func parseHotelRates(v any) (HotelRates, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return HotelRates{}, false
	}
	double, ok := positiveAmount(obj[fieldDouble])
	if !ok {
		return HotelRates{}, false
	}

	rates := HotelRates{
		Double:           double,
		Triple:           optionalAmount(obj[fieldTriple]),
		SingleSupplement: optionalAmount(obj[fieldSingleSupplement]),
	}

	// legacy documents carry the full single room rate instead of the supplement
	if rates.SingleSupplement == nil {
		if single, ok := positiveAmount(obj[fieldSingle]); ok && single.GreaterThan(double) {
			supplement := single.Sub(double)
			rates.SingleSupplement = &supplement
		}
	}
	return rates, true
}

func parseHotelCategories(obj map[string]any) map[string]HotelRates {
	out := make(map[string]HotelRates)
	for _, category := range types.HotelCategories {
		if rates, ok := parseHotelRates(obj[category]); ok {
			out[category] = rates
		}
	}
	return out
}

func parseHotelDocument(doc map[string]any) HotelDocument {
	result := HotelDocument{
		PaxTiers: make(map[int]map[string]HotelRates),
		Flat:     parseHotelCategories(doc),
	}

	paxTiers, ok := doc[fieldPaxTiers].(map[string]any)
	if !ok {
		return result
	}

	// sort keys so that duplicates such as "2" and "02" resolve deterministically
	keys := make([]string, 0, len(paxTiers))
	for key := range paxTiers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		size, ok := partySizeKey(key)
		if !ok {
			continue
		}
		if _, seen := result.PaxTiers[size]; seen {
			continue
		}
		obj, ok := paxTiers[key].(map[string]any)
		if !ok {
			continue
		}
		if categories := parseHotelCategories(obj); len(categories) > 0 {
			result.PaxTiers[size] = categories
		}
	}
	return result
}

func parseLandDocument(doc map[string]any) LandDocument {
	return LandDocument{
		PerPerson:  optionalAmount(doc[fieldPerPerson]),
		TwoAdults:  optionalAmount(doc[fieldTwoAdults]),
		FourAdults: optionalAmount(doc[fieldFourAdults]),
		SixAdults:  optionalAmount(doc[fieldSixAdults]),
	}
}

func parseDailyTourDocument(doc map[string]any) DailyTourDocument {
	result := DailyTourDocument{
		SICPrice:    optionalAmount(doc[fieldSICPrice]),
		PrivateUpTo: make(map[int]decimal.Decimal),
	}
	for key, value := range doc {
		if !strings.HasPrefix(key, fieldPrivateMinPrefix) {
			continue
		}
		size, ok := partySizeKey(strings.TrimPrefix(key, fieldPrivateMinPrefix))
		if !ok {
			continue
		}
		if amount, ok := positiveAmount(value); ok {
			result.PrivateUpTo[size] = amount
		}
	}
	return result
}

func parseTransferDocument(doc map[string]any) TransferDocument {
	return TransferDocument{
		SICPricePerPerson: optionalAmount(doc[fieldSICPricePerPerson]),
		Price1to2Pax:      optionalAmount(doc[fieldPrice1to2Pax]),
		Price3to5Pax:      optionalAmount(doc[fieldPrice3to5Pax]),
		Price6to10Pax:     optionalAmount(doc[fieldPrice6to10Pax]),
		OnRequestOnly:     boolField(doc[fieldOnRequestOnly]),
	}
}
