package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("VNP_URL", "")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html", cfg.VNPayURL)
	assert.Equal(t, "http://localhost:8080", cfg.FrontendURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("VNP_TMN_CODE", "TMNTEST")
	t.Setenv("VNP_HASH_SECRET", "secret")

	cfg := LoadConfig()

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "TMNTEST", cfg.VNPayTmnCode)
	assert.Equal(t, "secret", cfg.VNPayHashSecret)
}
