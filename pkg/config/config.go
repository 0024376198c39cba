package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "greencart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	API      APIConfig
	Checkout CheckoutConfig
	Receipt  ReceiptConfig
	Ledger   LedgerConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GREENCART_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"GREENCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GREENCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points at the storefront REST backend.
type APIConfig struct {
	BaseURL string `envconfig:"GREENCART_API_BASE_URL" default:"http://localhost:5000"`
	// Token is the bearer credential handed explicitly to the client; the
	// flow never reads ambient token storage.
	Token string `envconfig:"GREENCART_API_TOKEN"`
}

func (a APIConfig) validate() error {
	parsed, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base url %q: %w", a.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api base url %q must be http or https", a.BaseURL)
	}
	return nil
}

// CheckoutConfig drives the hosted payment widget.
type CheckoutConfig struct {
	RazorpayKeyID string `envconfig:"GREENCART_RAZORPAY_KEY_ID" default:"rzp_test_90ZGyZNVzzFKRH"`
	ScriptURL     string `envconfig:"GREENCART_CHECKOUT_SCRIPT_URL" default:"https://checkout.razorpay.com/v1/checkout.js"`
	ListenAddr    string `envconfig:"GREENCART_CHECKOUT_LISTEN_ADDR" default:"127.0.0.1:0"`
	BrandName     string `envconfig:"GREENCART_BRAND_NAME" default:"Green Cart"`
	ThemeColor    string `envconfig:"GREENCART_THEME_COLOR" default:"#4CAF50"`
}

// ReceiptConfig drives receipt rendering and delivery.
type ReceiptConfig struct {
	OutputDir   string        `envconfig:"GREENCART_RECEIPT_OUTPUT_DIR" default:"."`
	RenderDelay time.Duration `envconfig:"GREENCART_RECEIPT_RENDER_DELAY" default:"800ms"`
}

// LedgerConfig configures the local receipt artifact ledger. An empty path
// disables the ledger entirely.
type LedgerConfig struct {
	SQLitePath string `envconfig:"GREENCART_LEDGER_SQLITE_PATH"`
}
