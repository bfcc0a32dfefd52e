package config

import (
	"fmt"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// SettlementCurrency is the currency code every gateway session is opened
// in, regardless of the booking's display currency.
func SettlementCurrency() string {
	c := os.Getenv("SETTLEMENT_CURRENCY")
	if c == "" {
		return "USD"
	}
	return c
}

func AppHost() string {
	return os.Getenv("APP_HOST")
}

const DATE_DISPLAY_FORMAT = "Jan 2"

// Hosts are paid out one day after checkout.
const PAYOUT_DELAY = 24 * time.Hour

const (
	EMAIL_MAX_ATTEMPTS = 3
	EMAIL_RETRY_DELAY  = 5 * time.Second
)

const IPN_QUEUE = "PaymentNotifications"
