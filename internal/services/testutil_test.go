package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hostify/internal/config"
	"hostify/internal/database"
	"hostify/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		OrderPrefix:     "ORD",
		InvoiceDueDays:  7,
		CompanyName:     "Hostify",
		DNSProbeTimeout: 2,
	}
}

func newTestDispatcher(t *testing.T, db *gorm.DB) *Dispatcher {
	t.Helper()
	d := NewDispatcher(db, nil, zap.NewNop())
	t.Cleanup(d.Close)
	return d
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{UUID: "u-1", Email: "customer@example.com", Name: "Pat"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedProduct(t *testing.T, db *gorm.DB, slug string, monthly, annual float64) *models.Product {
	t.Helper()
	p := models.Product{
		Slug:         slug,
		Name:         "Plan " + slug,
		Type:         "hosting",
		Active:       true,
		PriceMonthly: monthly,
		PriceAnnual:  annual,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func seedTld(t *testing.T, db *gorm.DB, tld string, register float64, popular bool) *models.DomainTld {
	t.Helper()
	row := models.DomainTld{
		Tld:           tld,
		RegisterPrice: register,
		RenewPrice:    register + 2,
		TransferPrice: register - 1,
		Popular:       popular,
		Active:        true,
	}
	require.NoError(t, db.Create(&row).Error)
	return &row
}

func seedCoupon(t *testing.T, db *gorm.DB, c models.Coupon) *models.Coupon {
	t.Helper()
	if c.Code == "" {
		c.Code = "SAVE10"
	}
	c.Active = true
	require.NoError(t, db.Create(&c).Error)
	return &c
}

func timePtr(v time.Time) *time.Time { return &v }
