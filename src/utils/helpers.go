package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math"
	"math/big"
	"os"
	"path"
	"stayhub/src/models"
	"strconv"
	"strings"
	"time"

	"github.com/yeqown/go-qrcode"
)

const confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const confirmationCodeLength = 10

// ConvertCurrency converts amount between two currencies whose rates are
// relative to the same base unit, rounding to the target's decimal places.
// Missing currencies or a zero rate mean "unavailable" and short-circuit to
// the raw amount; this function never fails.
func ConvertCurrency(amount float64, from *models.Currency, to *models.Currency) float64 {
	if from == nil || to == nil {
		return amount
	}
	if from.ExchangeRate == 0 || to.ExchangeRate == 0 {
		return amount
	}
	converted := amount * to.ExchangeRate / from.ExchangeRate
	places := to.DecimalPlaces
	if places <= 0 {
		places = 2
	}
	return RoundTo(converted, places)
}

func RoundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// GenerateConfirmationCode returns a 10-character code over [A-Z0-9].
// Uniqueness is enforced by the column constraint; callers retry on
// collision.
func GenerateConfirmationCode() string {
	var sb strings.Builder
	max := big.NewInt(int64(len(confirmationAlphabet)))
	for i := 0; i < confirmationCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			log.Printf("Error reading random bytes: %s\n", err.Error())
			n = big.NewInt(int64(i % len(confirmationAlphabet)))
		}
		sb.WriteByte(confirmationAlphabet[n.Int64()])
	}
	return sb.String()
}

// NewTransactionID builds the gateway-facing transaction identifier. The
// Tran-<bookingId>-<epochMillis> layout is the only place the booking id
// survives the round trip through the provider, so it must not change.
func NewTransactionID(bookingID uint) string {
	return fmt.Sprintf("Tran-%d-%d", bookingID, time.Now().UnixMilli())
}

// ParseTransactionID recovers the booking id from a transaction
// identifier. Malformed input yields an error, never a panic.
func ParseTransactionID(tranID string) (uint, error) {
	parts := strings.Split(tranID, "-")
	if len(parts) != 3 || parts[0] != "Tran" {
		return 0, fmt.Errorf("malformed transaction id %q", tranID)
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("malformed transaction id %q", tranID)
	}
	if _, err := strconv.ParseInt(parts[2], 10, 64); err != nil {
		return 0, fmt.Errorf("malformed transaction id %q", tranID)
	}
	return uint(id), nil
}

// ConfirmationQRFile renders the confirmation code to a QR image in the
// temp dir and returns the file path for mail attachment.
func ConfirmationQRFile(code string) (string, error) {
	if code == "" {
		return "", errors.New("empty confirmation code")
	}
	qrc, err := qrcode.New(code)
	if err != nil {
		return "", err
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	tempdir := os.Getenv("TEMP_DIR")
	filepath := path.Join(wd, tempdir, fmt.Sprintf("confirmation-%s.jpeg", code))
	if err := qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return "", err
	}
	return filepath, nil
}

func IsProd() bool {
	return os.Getenv("API_ENV") == "production"
}

// WithSuffix appends the environment suffix to a shared resource name so
// staging and production never consume each other's queues.
func WithSuffix(name string) string {
	suffix := os.Getenv("RESOURCE_SUFFIX")
	if suffix == "" {
		return name
	}
	return fmt.Sprintf("%s-%s", name, suffix)
}
