package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr        string `mapstructure:"HTTP_ADDR"`
	DatabasePath    string `mapstructure:"DB_PATH"`
	RedisAddr       string `mapstructure:"REDIS_ADDR"` // empty disables caching
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int    `mapstructure:"REDIS_DB"`
	OrderPrefix     string `mapstructure:"ORDER_PREFIX"`
	InvoiceDueDays  int    `mapstructure:"INVOICE_DUE_DAYS"`
	MailgunBaseURL  string `mapstructure:"MAILGUN_BASE_URL"`
	MailgunDomain   string `mapstructure:"MAILGUN_DOMAIN"`
	MailgunKey      string `mapstructure:"MAILGUN_KEY"`
	MailFrom        string `mapstructure:"MAIL_FROM"`
	AdminEmail      string `mapstructure:"ADMIN_EMAIL"`
	AIBaseURL       string `mapstructure:"AI_BASE_URL"`
	AIModel         string `mapstructure:"AI_MODEL"`
	CompanyName     string `mapstructure:"COMPANY_NAME"`
	DNSProbeTimeout int    `mapstructure:"DNS_PROBE_TIMEOUT"` // seconds
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("DB_PATH", "hostify.db")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("ORDER_PREFIX", "ORD")
	viper.SetDefault("INVOICE_DUE_DAYS", 7)
	viper.SetDefault("MAILGUN_BASE_URL", "https://api.mailgun.net/v3")
	viper.SetDefault("MAIL_FROM", "billing@hostify.example")
	viper.SetDefault("ADMIN_EMAIL", "admin@hostify.example")
	viper.SetDefault("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("AI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("COMPANY_NAME", "Hostify")
	viper.SetDefault("DNS_PROBE_TIMEOUT", 5)

	viper.SetEnvPrefix("HOSTIFY")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetConfigFile(".env")
	// Ignore err if .env doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
