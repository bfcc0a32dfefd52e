package common

import (
	"context"
	"fmt"
	"log"
	"os"
	"stayhub/src/config"
	"stayhub/src/db"
	"stayhub/src/lib"
	"stayhub/src/lib/mailer"
	"stayhub/src/models"
	"stayhub/src/types"
	"stayhub/src/utils"
	"sync"

	"firebase.google.com/go/v4/messaging"
	"gorm.io/gorm"
)

// NotifySettlement informs both parties of a settlement outcome: a push to
// the guest (the party whose payment it was), an in-app notification row
// for each side and a summary email to each side. Persistence has already
// committed when this runs, so every failure here is logged and swallowed.
func NotifySettlement(booking *models.Booking, outcome types.SettlementOutcome) {
	persistNotifications(booking, outcome)
	sendPush(booking, outcome)

	// Host and guest emails are independent; send them concurrently. The
	// retry policy is uniform across success, fail and cancel outcomes.
	var wg sync.WaitGroup
	for _, input := range []*lib.SendMailInput{guestEmail(booking, outcome), hostEmail(booking, outcome)} {
		if input == nil {
			continue
		}
		wg.Add(1)
		go func(in *lib.SendMailInput) {
			defer wg.Done()
			if err := mailer.Send(in); err != nil {
				log.Printf("[notify] email to %v not delivered for booking %d: %s\n", in.To, booking.ID, err.Error())
			}
		}(input)
	}
	wg.Wait()
}

func persistNotifications(booking *models.Booking, outcome types.SettlementOutcome) {
	title := notificationTitle(outcome)
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		for _, userID := range []uint{booking.GuestID, booking.HostID} {
			body := SettlementSummary(booking, outcome)
			notification := models.Notification{
				UserID:        userID,
				ReferenceType: "booking",
				ReferenceID:   fmt.Sprintf("%d", booking.ID),
				Title:         title,
				Body:          &body,
				Type:          string(outcome),
			}
			if err := tx.Create(&notification).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[notify] Error persisting notifications for booking %d: %s\n", booking.ID, err.Error())
	}
}

func sendPush(booking *models.Booking, outcome types.SettlementOutcome) {
	if booking.Guest == nil || booking.Guest.UID == "" {
		log.Printf("[FCM] no device identity for guest %d, skipping push\n", booking.GuestID)
		return
	}
	ctx := context.Background()
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	token := rd.JSONGet(ctx, fmt.Sprintf("%s:fcm", booking.Guest.UID), "$.token").Val()
	if token == "" {
		log.Printf("[FCM] no cached token for guest %d, skipping push\n", booking.GuestID)
		return
	}
	fcm, err := lib.GetFirebaseMessaging()
	if err != nil {
		log.Printf("[FCM] could not retrieve messaging client: %s\n", err.Error())
		return
	}
	res, err := fcm.Send(ctx, &messaging.Message{
		Token: token,
		Data: map[string]string{
			"title":      notificationTitle(outcome),
			"body":       SettlementSummary(booking, outcome),
			"booking_id": fmt.Sprintf("%d", booking.ID),
			"outcome":    string(outcome),
		},
	})
	if err != nil {
		log.Printf("[FCM] error sending notification message: %s\n", err.Error())
		return
	}
	log.Printf("[FCM] notification sent for booking %d: %s\n", booking.ID, res)
}

func notificationTitle(outcome types.SettlementOutcome) string {
	switch outcome {
	case types.SETTLEMENT_CONFIRMED:
		return "Booking confirmed"
	case types.SETTLEMENT_CANCELED:
		return "Payment cancelled"
	default:
		return "Payment failed"
	}
}

func guestEmail(booking *models.Booking, outcome types.SettlementOutcome) *lib.SendMailInput {
	if booking.Guest == nil || booking.Guest.Email == "" {
		return nil
	}
	total := booking.TotalPrice - booking.TotalDiscount + booking.TotalGuestFee + booking.CleaningCharge
	input := lib.SendMailInput{
		From:     os.Getenv("EMAIL_FROM"),
		FromName: os.Getenv("EMAIL_FROM_NAME"),
		To:       []string{booking.Guest.Email},
		Subject:  fmt.Sprintf("%s · %s", notificationTitle(outcome), listingTitle(booking.Property)),
		Body: fmt.Sprintf("%s\n\nStay: %s – %s\nTotal: %s\n",
			SettlementSummary(booking, outcome),
			booking.StartDate.Format(config.DATE_DISPLAY_FORMAT),
			booking.EndDate.Format(config.DATE_DISPLAY_FORMAT),
			formatAmount(total, booking.Currency, booking.Guest.Currency),
		),
	}
	if outcome == types.SETTLEMENT_CONFIRMED && booking.ConfirmationCode != nil {
		input.Body += fmt.Sprintf("\nConfirmation code: %s\n", *booking.ConfirmationCode)
		if qr, err := utils.ConfirmationQRFile(*booking.ConfirmationCode); err == nil {
			input.Attachments = append(input.Attachments, qr)
		} else {
			log.Printf("[notify] could not render confirmation QR for booking %d: %s\n", booking.ID, err.Error())
		}
	}
	return &input
}

func hostEmail(booking *models.Booking, outcome types.SettlementOutcome) *lib.SendMailInput {
	if booking.Host == nil || booking.Host.Email == "" {
		return nil
	}
	earning := booking.TotalPrice - booking.TotalHostFee
	body := fmt.Sprintf("%s\n\nStay: %s – %s\n",
		SettlementSummary(booking, outcome),
		booking.StartDate.Format(config.DATE_DISPLAY_FORMAT),
		booking.EndDate.Format(config.DATE_DISPLAY_FORMAT),
	)
	if outcome == types.SETTLEMENT_CONFIRMED {
		body += fmt.Sprintf("Payout: %s, due %s\n",
			formatAmount(earning, booking.Currency, booking.Host.Currency),
			booking.EndDate.Add(config.PAYOUT_DELAY).Format(config.DATE_DISPLAY_FORMAT),
		)
	}
	return &lib.SendMailInput{
		From:     os.Getenv("EMAIL_FROM"),
		FromName: os.Getenv("EMAIL_FROM_NAME"),
		To:       []string{booking.Host.Email},
		Subject:  fmt.Sprintf("%s · %s", notificationTitle(outcome), listingTitle(booking.Property)),
		Body:     body,
	}
}

// formatAmount renders an amount in the recipient's currency when it
// differs from the booking's, using the one conversion authority.
func formatAmount(amount float64, from *models.Currency, to *models.Currency) string {
	if to == nil || (from != nil && from.ID == to.ID) {
		if from == nil {
			return fmt.Sprintf("%.2f", amount)
		}
		return fmt.Sprintf("%s%.2f %s", from.Symbol, amount, from.Code)
	}
	converted := utils.ConvertCurrency(amount, from, to)
	return fmt.Sprintf("%s%.2f %s", to.Symbol, converted, to.Code)
}
