package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hostify/internal/config"
	"hostify/internal/database"
	"hostify/internal/models"
	"hostify/internal/services"
)

func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{OrderPrefix: "ORD", InvoiceDueDays: 7, CompanyName: "Hostify"}
	log := zap.NewNop()
	dispatcher := services.NewDispatcher(db, nil, log)
	t.Cleanup(dispatcher.Close)

	cart := services.NewCartService(db)
	svc := &Services{
		Catalog:    services.NewCatalogService(db),
		Cart:       cart,
		Orders:     services.NewOrderService(db, cart, dispatcher, cfg, log),
		Tickets:    services.NewTicketService(db, dispatcher, cfg, log),
		Settings:   services.NewSettingsService(db, nil, log),
		Dispatcher: dispatcher,
	}

	e := echo.New()
	e.Validator = NewValidator()
	RegisterRoutes(e, svc)
	return e, db
}

func doJSON(e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedCatalog(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()
	require.NoError(t, db.Create(&models.User{UUID: "u-1", Email: "c@example.com"}).Error)
	p := models.Product{Slug: "starter", Name: "Starter", Active: true, PriceMonthly: 9.99}
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, db.Create(&models.DomainTld{Tld: ".com", RegisterPrice: 12.99, Popular: true, Active: true}).Error)
	return &p
}

func TestValidateCartEndpoint(t *testing.T) {
	e, db := newTestServer(t)
	p := seedCatalog(t, db)

	body := `{"items":[
		{"type":"product","product_id":` + jsonUint(p.ID) + `,"billing_cycle":"monthly"},
		{"type":"domain","tld":".com","action":"register","years":1,"domain_name":"mysite"}
	]}`
	rec := doJSON(e, http.MethodPost, "/orders/validate-cart", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cart services.PricedCart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 22.98, cart.Subtotal)
	assert.Equal(t, 0.0, cart.Tax)
	assert.Equal(t, 22.98, cart.Total)
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	e, db := newTestServer(t)
	p := seedCatalog(t, db)

	body := `{"items":[{"type":"product","product_id":` + jsonUint(p.ID) + `}],"payment_method":"card","billing_address":"{}"}`

	rec := doJSON(e, http.MethodPost, "/orders", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/orders", body, map[string]string{"X-User-ID": "1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		Order struct {
			UUID        string  `json:"uuid"`
			OrderNumber string  `json:"order_number"`
			Total       float64 `json:"total"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Order.UUID)
	assert.Equal(t, 9.99, out.Order.Total)
}

func TestAdminStatusUpdateGuardedByRole(t *testing.T) {
	e, db := newTestServer(t)
	p := seedCatalog(t, db)

	body := `{"items":[{"type":"product","product_id":` + jsonUint(p.ID) + `}],"payment_method":"card","billing_address":"{}"}`
	rec := doJSON(e, http.MethodPost, "/orders", body, map[string]string{"X-User-ID": "1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var out struct {
		Order struct {
			UUID string `json:"uuid"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	update := `{"status":"active","payment_status":"paid"}`
	rec = doJSON(e, http.MethodPut, "/admin/orders/"+out.Order.UUID+"/status", update,
		map[string]string{"X-User-ID": "1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPut, "/admin/orders/"+out.Order.UUID+"/status", update,
		map[string]string{"X-User-ID": "1", "X-User-Role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.Service{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApplyCouponEndpointRejectsBelowMinimum(t *testing.T) {
	e, db := newTestServer(t)
	require.NoError(t, db.Create(&models.Coupon{
		Code: "SAVE10", Type: models.DiscountPercentage, Value: 10, MinOrder: 50, Active: true,
	}).Error)

	rec := doJSON(e, http.MethodPost, "/orders/apply-coupon", `{"code":"SAVE10","subtotal":20}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/orders/apply-coupon", `{"code":"SAVE10","subtotal":100}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Discount float64 `json:"discount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 10.0, out.Discount)
}

func TestPublicSettingsEndpoint(t *testing.T) {
	e, db := newTestServer(t)
	require.NoError(t, db.Create(&models.Setting{Key: "site_name", Value: "Hostify", Type: "string", Public: true}).Error)
	require.NoError(t, db.Create(&models.Setting{Key: "secret", Value: "x", Public: false}).Error)

	rec := doJSON(e, http.MethodGet, "/settings/public", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Hostify", out["site_name"])
	_, leaked := out["secret"]
	assert.False(t, leaked)
}

func jsonUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
