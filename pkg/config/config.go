package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App       AppConfig
	Cart      CartConfig
	Checkout  CheckoutConfig
	Lifecycle LifecycleConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.Cart.DeliveryFeeAmount(); err != nil {
		return nil, err
	}
	if err := cfg.Lifecycle.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AGROCONNECT_APP_ENV" required:"true"`
	Port         string `envconfig:"AGROCONNECT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AGROCONNECT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGROCONNECT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CartConfig struct {
	// DeliveryFee is the flat fee added to every order, in currency units.
	DeliveryFee string `envconfig:"AGROCONNECT_CART_DELIVERY_FEE" default:"2000"`
	Currency    string `envconfig:"AGROCONNECT_CART_CURRENCY" default:"TZS"`
}

// DeliveryFeeAmount parses the configured flat delivery fee.
func (c CartConfig) DeliveryFeeAmount() (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(strings.TrimSpace(c.DeliveryFee))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing delivery fee: %w", err)
	}
	if fee.IsNegative() {
		return decimal.Zero, fmt.Errorf("delivery fee cannot be negative")
	}
	return fee, nil
}

type CheckoutConfig struct {
	// SubmitDelay is how long the built-in simulated submitter blocks,
	// standing in for the round trip to a real order backend.
	SubmitDelay  time.Duration `envconfig:"AGROCONNECT_CHECKOUT_SUBMIT_DELAY" default:"2s"`
	MaxAttempts  int           `envconfig:"AGROCONNECT_CHECKOUT_MAX_ATTEMPTS" default:"3"`
	RetryBackoff time.Duration `envconfig:"AGROCONNECT_CHECKOUT_RETRY_BACKOFF" default:"200ms"`
}

type LifecycleConfig struct {
	TickInterval time.Duration `envconfig:"AGROCONNECT_LIFECYCLE_TICK_INTERVAL" default:"15s"`
	// DispatchAfter is the age past the last tracking update at which a
	// pending or confirmed order goes in transit.
	DispatchAfter time.Duration `envconfig:"AGROCONNECT_LIFECYCLE_DISPATCH_AFTER" default:"15s"`
	// DeliverAfter is the age past dispatch at which an order is delivered.
	DeliverAfter     time.Duration `envconfig:"AGROCONNECT_LIFECYCLE_DELIVER_AFTER" default:"30s"`
	DeliveryEstimate time.Duration `envconfig:"AGROCONNECT_LIFECYCLE_DELIVERY_ESTIMATE" default:"30m"`
}

func (l LifecycleConfig) validate() error {
	if l.TickInterval <= 0 {
		return fmt.Errorf("lifecycle tick interval must be positive")
	}
	if l.DispatchAfter <= 0 || l.DeliverAfter <= 0 {
		return fmt.Errorf("lifecycle transition delays must be positive")
	}
	if l.DeliveryEstimate <= 0 {
		return fmt.Errorf("delivery estimate must be positive")
	}
	return nil
}

type RateLimitConfig struct {
	SearchPerSecond   float64 `envconfig:"AGROCONNECT_RATE_LIMIT_SEARCH_PER_SECOND" default:"5"`
	SearchBurst       int     `envconfig:"AGROCONNECT_RATE_LIMIT_SEARCH_BURST" default:"10"`
	CheckoutPerSecond float64 `envconfig:"AGROCONNECT_RATE_LIMIT_CHECKOUT_PER_SECOND" default:"1"`
	CheckoutBurst     int     `envconfig:"AGROCONNECT_RATE_LIMIT_CHECKOUT_BURST" default:"3"`
}
