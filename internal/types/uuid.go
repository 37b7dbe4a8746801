package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex ledger_01HZX3M5K6Q2V7J9T0B4N8C1RD
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortIDWithPrefix returns an upper-cased short ID with a prefix.
// Total length is capped at 14 characters, e.g. `TOUR-XYZ12A8Q9`.
func GenerateShortIDWithPrefix(prefix string) string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.NewReplacer("-", "", "_", "").Replace(id)

	availableLen := 14 - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	if len(id) > availableLen {
		id = id[:availableLen]
	}

	return strings.ToUpper(prefix + id)
}

const (
	UUID_PREFIX_ITEM    = "item"
	UUID_PREFIX_AGENT   = "agent"
	UUID_PREFIX_BOOKING = "bkg"
	UUID_PREFIX_LEDGER  = "ledger"
	UUID_PREFIX_PAYMENT = "pay"
	UUID_PREFIX_EVENT   = "event"
)

// Booking reference prefixes shown to guests and agents
const (
	SHORT_ID_PREFIX_PACKAGE    = "PKG-"
	SHORT_ID_PREFIX_DAILY_TOUR = "TOUR-"
	SHORT_ID_PREFIX_TRANSFER   = "TRF-"
)
