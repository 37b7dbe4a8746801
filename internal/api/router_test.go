package api

import (
	"bytes"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	v1 "github.com/funnytourism/tourprice/internal/api/v1"
	"github.com/funnytourism/tourprice/internal/cache"
	"github.com/funnytourism/tourprice/internal/config"
	"github.com/funnytourism/tourprice/internal/domain/agent"
	"github.com/funnytourism/tourprice/internal/domain/item"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/rest/middleware"
	"github.com/funnytourism/tourprice/internal/service"
	"github.com/funnytourism/tourprice/internal/testutil"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const testSecret = "router-test-secret"

type RouterSuite struct {
	suite.Suite
	router *gin.Engine
	ledger *testutil.InMemoryLedgerStore
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	ctx := testutil.SetupContext()
	cfg := config.GetDefaultConfig()
	cfg.Auth.Secret = testSecret
	log := logger.NewNoopLogger()

	items := testutil.NewInMemoryItemStore()
	agents := testutil.NewInMemoryAgentStore()
	s.ledger = testutil.NewInMemoryLedgerStore()

	s.Require().NoError(items.Create(ctx, &item.Item{
		ID:         "itm_hotel",
		Code:       "PKG-CAP-01",
		Title:      "Cappadocia Escape",
		Category:   types.ItemCategoryWithHotel,
		Pricing:    `{"paxTiers":{"2":{"threestar":{"double":415}},"6":{"threestar":{"double":355}}}}`,
		B2BPricing: `{"paxTiers":{"2":{"threestar":{"double":380}}}}`,
		Currency:   types.DefaultCurrency,
		IsActive:   true,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}))
	s.Require().NoError(agents.Create(ctx, &agent.Agent{
		ID:             "agent_1",
		CompanyName:    "Bosphorus Tours",
		Email:          "ops@bosphorus.test",
		CommissionRate: decimal.NewFromInt(10),
		IsActive:       true,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}))

	params := service.ServiceParams{
		Logger:         log,
		Config:         cfg,
		DB:             &testutil.NoopTransactioner{},
		Cache:          cache.NewInMemoryCache(cfg, log),
		ItemRepo:       items,
		AgentRepo:      agents,
		BookingRepo:    testutil.NewInMemoryBookingStore(),
		LedgerRepo:     s.ledger,
		EventPublisher: testutil.NewInMemoryPublisher(),
	}
	commission := service.NewCommissionService(params)

	s.router = NewRouter(Handlers{
		Health:     v1.NewHealthHandler(),
		Pricing:    v1.NewPricingHandler(service.NewPricingService(params), log),
		Booking:    v1.NewBookingHandler(service.NewBookingService(params), commission, log),
		Commission: v1.NewCommissionHandler(commission, log),
	}, cfg, log)
}

func (s *RouterSuite) token(subject, agentID string) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		AgentID: agentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	s.Require().NoError(err)
	return token
}

func (s *RouterSuite) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := jsoniter.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.HeaderAuthorization, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp map[string]any
	_ = jsoniter.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func (s *RouterSuite) TestHealth() {
	w, resp := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("ok", resp["status"])
}

func (s *RouterSuite) TestPublicPricing() {
	w, resp := s.do(http.MethodGet, "/v1/items/itm_hotel/from-price", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("From €355", resp["display"])

	w, resp = s.do(http.MethodGet, "/v1/items/from-prices", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(1, resp["total"])

	// guests cannot ask for agent prices
	w, resp = s.do(http.MethodPost, "/v1/items/itm_hotel/quote", "", map[string]any{"party_size": 2, "channel": "agent"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("830", resp["total"])
	s.Equal("public", resp["channel"])
}

func (s *RouterSuite) TestQuoteErrors() {
	w, resp := s.do(http.MethodPost, "/v1/items/itm_hotel/quote", "", map[string]any{"party_size": 2, "category": "fivestar"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("no_price_available", resp["error"].(map[string]any)["code"])

	w, _ = s.do(http.MethodPost, "/v1/items/itm_hotel/quote", "", map[string]any{"party_size": 0})
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/v1/items/itm_missing/from-price", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestPrivateRoutesNeedToken() {
	w, _ := s.do(http.MethodGet, "/v1/bookings", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RouterSuite) TestAgentBookingAndPayments() {
	agentToken := s.token("usr_agent", "agent_1")
	staffToken := s.token("usr_staff", "")

	w, resp := s.do(http.MethodPost, "/v1/agent/items/itm_hotel/quote", agentToken, map[string]any{"party_size": 2})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("760", resp["total"])

	w, resp = s.do(http.MethodPost, "/v1/bookings", agentToken, map[string]any{
		"item_id":     "itm_hotel",
		"party_size":  2,
		"guest_name":  "Mehmet Demir",
		"guest_email": "mehmet@example.com",
	})
	s.Require().Equal(http.StatusCreated, w.Code, "%v", resp)
	bookingID := resp["id"].(string)
	ledger := resp["ledger"].(map[string]any)
	s.Equal("agent_1", ledger["agent_id"])
	s.Equal("76", ledger["amount_due"])
	ledgerID := ledger["id"].(string)

	// agents cannot book for another agency
	w, _ = s.do(http.MethodPost, "/v1/bookings", agentToken, map[string]any{
		"item_id":     "itm_hotel",
		"party_size":  2,
		"guest_name":  "Mehmet Demir",
		"guest_email": "mehmet@example.com",
		"agent_id":    "agent_2",
	})
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPost, "/v1/ledgers/"+ledgerID+"/payments", agentToken, map[string]any{"amount": "10"})
	s.Equal(http.StatusForbidden, w.Code)

	w, resp = s.do(http.MethodPost, "/v1/ledgers/"+ledgerID+"/payments", staffToken, map[string]any{"amount": "50"})
	s.Require().Equal(http.StatusCreated, w.Code, "%v", resp)
	s.Equal("usr_staff", resp["payment"].(map[string]any)["recorded_by"])

	w, resp = s.do(http.MethodPost, "/v1/ledgers/"+ledgerID+"/payments", staffToken, map[string]any{"amount": "30"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("exceeds_remaining", resp["error"].(map[string]any)["code"])

	s.ledger.InjectConflicts(2)
	w, resp = s.do(http.MethodPost, "/v1/ledgers/"+ledgerID+"/payments", staffToken, map[string]any{"amount": "5"})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("concurrent_modification", resp["error"].(map[string]any)["code"])

	w, resp = s.do(http.MethodGet, "/v1/bookings/"+bookingID+"/ledger", staffToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("26", resp["remaining_amount"])
	s.Len(resp["payments"], 1)

	w, _ = s.do(http.MethodGet, "/v1/ledgers/led_missing/payments", staffToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestAgentsOnlySeeTheirOwnRecords() {
	ownToken := s.token("usr_agent", "agent_1")
	otherToken := s.token("usr_other_agent", "agent_2")
	staffToken := s.token("usr_staff", "")

	w, resp := s.do(http.MethodPost, "/v1/bookings", ownToken, map[string]any{
		"item_id":     "itm_hotel",
		"party_size":  2,
		"guest_name":  "Mehmet Demir",
		"guest_email": "mehmet@example.com",
	})
	s.Require().Equal(http.StatusCreated, w.Code, "%v", resp)
	bookingID := resp["id"].(string)
	ledgerID := resp["ledger"].(map[string]any)["id"].(string)

	for _, path := range []string{
		"/v1/bookings/" + bookingID,
		"/v1/bookings/" + bookingID + "/ledger",
		"/v1/ledgers/" + ledgerID,
		"/v1/ledgers/" + ledgerID + "/payments",
	} {
		w, _ = s.do(http.MethodGet, path, otherToken, nil)
		s.Equal(http.StatusNotFound, w.Code, "foreign agent on %s", path)

		w, _ = s.do(http.MethodGet, path, ownToken, nil)
		s.Equal(http.StatusOK, w.Code, "own agent on %s", path)

		w, _ = s.do(http.MethodGet, path, staffToken, nil)
		s.Equal(http.StatusOK, w.Code, "staff on %s", path)
	}

	// a booking without a ledger cannot be given one by an agent
	w, resp = s.do(http.MethodPost, "/v1/bookings", staffToken, map[string]any{
		"item_id":     "itm_hotel",
		"party_size":  2,
		"guest_name":  "Zeynep Kaya",
		"guest_email": "zeynep@example.com",
	})
	s.Require().Equal(http.StatusCreated, w.Code, "%v", resp)
	directID := resp["id"].(string)

	w, _ = s.do(http.MethodGet, "/v1/bookings/"+directID, ownToken, nil)
	s.Equal(http.StatusNotFound, w.Code)

	ledgerReq := map[string]any{
		"booking_id":      directID,
		"booking_type":    "Package",
		"agent_id":        "agent_1",
		"gross_price":     "830",
		"commission_rate": "90",
	}
	w, _ = s.do(http.MethodPost, "/v1/ledgers", ownToken, ledgerReq)
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPost, "/v1/ledgers", staffToken, ledgerReq)
	s.Equal(http.StatusBadRequest, w.Code, "direct bookings have no agent")

	ledgerReq["booking_id"] = "bkg_missing"
	w, _ = s.do(http.MethodPost, "/v1/ledgers", staffToken, ledgerReq)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestUnboundedInputsAreRejected() {
	agentToken := s.token("usr_agent", "agent_1")
	staffToken := s.token("usr_staff", "")

	w, resp := s.do(http.MethodPost, "/v1/bookings", agentToken, map[string]any{
		"item_id":     "itm_hotel",
		"party_size":  2,
		"guest_name":  "Mehmet Demir",
		"guest_email": "mehmet@example.com",
	})
	s.Require().Equal(http.StatusCreated, w.Code, "%v", resp)
	ledgerID := resp["ledger"].(map[string]any)["id"].(string)

	for _, amount := range []string{"1e300000000", "1e-300000000"} {
		w, resp = s.do(http.MethodPost, "/v1/ledgers/"+ledgerID+"/payments", staffToken, map[string]any{"amount": amount})
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("invalid_amount", resp["error"].(map[string]any)["code"])
	}

	w, _ = s.do(http.MethodPost, "/v1/items/itm_hotel/quote", "", map[string]any{"rooms": []int64{math.MaxInt64, math.MaxInt64}})
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/v1/items/itm_hotel/quote", "", map[string]any{"rooms": []int{2, 11}})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestFromPriceReportsBasis() {
	w, resp := s.do(http.MethodGet, "/v1/items/itm_hotel/from-price", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("per_person", resp["basis"])
}
