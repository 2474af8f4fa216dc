package config

import (
	"time"

	"github.com/shopspring/decimal"
)

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"mocha:session:"`
	EventPrefix  string        `envconfig:"EVENT_PREFIX" default:"mocha:events:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Fee struct {
	// Percentage is the fraction of the amount charged as fee (0.01 is 1%).
	Percentage decimal.Decimal `envconfig:"PERCENTAGE" default:"0.01"`
}

// Rates are the fixed exchange rates into the payout currency.
type Rates struct {
	USD decimal.Decimal `envconfig:"USD" default:"23.5"`
	GBP decimal.Decimal `envconfig:"GBP" default:"29"`
	EUR decimal.Decimal `envconfig:"EUR" default:"24"`
}

type Wizard struct {
	Variant        string        `envconfig:"VARIANT" default:"known-sender"`
	Brand          string        `envconfig:"BRAND" default:"Mocha"`
	TypingDelay    time.Duration `envconfig:"TYPING_DELAY" default:"300ms"`
	FollowUpDelay  time.Duration `envconfig:"FOLLOW_UP_DELAY" default:"800ms"`
	PaymentLatency time.Duration `envconfig:"PAYMENT_LATENCY" default:"2s"`
	ReceiptLatency time.Duration `envconfig:"RECEIPT_LATENCY" default:"1500ms"`
}

type Session struct {
	Store         string        `envconfig:"STORE" default:"memory"`
	TTL           time.Duration `envconfig:"TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"5m"`
}

type Demo struct {
	Enabled        bool   `envconfig:"ENABLED" default:"false"`
	WhatsAppNumber string `envconfig:"WHATSAPP_NUMBER" default:""`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[mocha]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Fee       *Fee       `envconfig:"FEE"`
	Rates     *Rates     `envconfig:"RATES"`
	Wizard    *Wizard    `envconfig:"WIZARD"`
	Session   *Session   `envconfig:"SESSION"`
	Redis     *Redis     `envconfig:"REDIS"`
	Demo      *Demo      `envconfig:"DEMO"`
}
