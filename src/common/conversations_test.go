package common

import (
	"fmt"
	"stayhub/src/models"
	"stayhub/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testBooking() *models.Booking {
	start := time.Date(2026, time.September, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	return &models.Booking{
		ID:        17,
		NumGuests: 3,
		StartDate: start,
		EndDate:   end,
		Property: &models.Property{
			ID:   5,
			Slug: "sea-view-loft",
			Descriptions: []models.PropertyDescription{
				{Locale: "de", Title: "Loft mit Meerblick"},
				{Locale: "en", Title: "Sea View Loft"},
			},
		},
	}
}

func TestSettlementSummary(t *testing.T) {
	booking := testBooking()

	assert.Equal(t,
		"Booking CONFIRMED · 3 guests, Sep 12 – Sep 15",
		SettlementSummary(booking, types.SETTLEMENT_CONFIRMED))
	assert.Equal(t, "Payment was cancelled", SettlementSummary(booking, types.SETTLEMENT_CANCELED))
	assert.Equal(t, "Payment was unsuccessful", SettlementSummary(booking, types.SETTLEMENT_FAILED))
}

func TestSettlementMetadataConfirmed(t *testing.T) {
	t.Setenv("APP_HOST", "https://app.example.com")
	t.Setenv("S3_ASSETS_BUCKET", "")
	t.Setenv("ASSET_HOST", "https://assets.example.com")

	booking := testBooking()
	booking.Property.CoverImageKey = "covers/5.jpg"
	metadata := SettlementMetadata(booking, types.SETTLEMENT_CONFIRMED)

	assert.Equal(t, uint(17), metadata.BookingID)
	assert.Equal(t, "Sea View Loft", metadata.Title)
	assert.Equal(t, "Sep 12", metadata.StartDate)
	assert.Equal(t, "Sep 15", metadata.EndDate)
	assert.Equal(t, "https://assets.example.com/covers/5.jpg", metadata.Image)
	assert.Equal(t, "Show Details", metadata.ActionText)
	assert.Equal(t, "https://app.example.com/bookings/17", metadata.ActionLink)
}

func TestSettlementMetadataFailed(t *testing.T) {
	t.Setenv("APP_HOST", "https://app.example.com")

	booking := testBooking()
	for _, outcome := range []types.SettlementOutcome{types.SETTLEMENT_FAILED, types.SETTLEMENT_CANCELED} {
		metadata := SettlementMetadata(booking, outcome)
		assert.Equal(t, "Try again", metadata.ActionText)
		assert.Equal(t,
			fmt.Sprintf("https://app.example.com/properties/sea-view-loft/book?booking=%d", booking.ID),
			metadata.ActionLink)
	}
}

func TestListingTitleLocaleFallback(t *testing.T) {
	t.Setenv("DEFAULT_LOCALE", "")

	property := &models.Property{
		Descriptions: []models.PropertyDescription{
			{Locale: "de", Title: "Loft mit Meerblick"},
			{Locale: "en", Title: "Sea View Loft"},
		},
	}
	assert.Equal(t, "Sea View Loft", listingTitle(property))

	// No match for the platform locale falls back to the first row.
	property.Descriptions = property.Descriptions[:1]
	assert.Equal(t, "Loft mit Meerblick", listingTitle(property))

	assert.Equal(t, "", listingTitle(nil))
	assert.Equal(t, "", listingTitle(&models.Property{}))
}

func TestPropertySlug(t *testing.T) {
	assert.Equal(t, "sea-view-loft", propertySlug(&models.Property{Slug: "sea-view-loft"}))

	generated := propertySlug(&models.Property{
		Descriptions: []models.PropertyDescription{{Locale: "en", Title: "Sea View Loft"}},
	})
	assert.Equal(t, "sea-view-loft", generated)

	assert.Equal(t, "", propertySlug(nil))
}

func TestGuestMessageBody(t *testing.T) {
	assert.Equal(t, "Your booking is confirmed.", guestMessageBody(types.SETTLEMENT_CONFIRMED))
	assert.Equal(t, "Payment was cancelled.", guestMessageBody(types.SETTLEMENT_CANCELED))
	assert.Equal(t, "Payment was unsuccessful.", guestMessageBody(types.SETTLEMENT_FAILED))
}

func TestMetadataToJSONB(t *testing.T) {
	metadata := types.MessageMetadata{
		BookingID:  17,
		Status:     string(types.SETTLEMENT_CONFIRMED),
		Title:      "Sea View Loft",
		ActionText: "Show Details",
	}
	data, err := metadataToJSONB(&metadata)
	assert.Nil(t, err)
	assert.Equal(t, float64(17), (*data)["booking_id"])
	assert.Equal(t, "Sea View Loft", (*data)["title"])
}
