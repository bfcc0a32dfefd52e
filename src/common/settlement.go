package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"stayhub/src/config"
	"stayhub/src/db"
	"stayhub/src/lib"
	"stayhub/src/models"
	"stayhub/src/models/scopes"
	"stayhub/src/types"
	"stayhub/src/utils"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

const confirmationCodeAttempts = 3

// SettlementResult carries everything the post-commit side effects and the
// redirecting handler need after a settlement transaction lands.
type SettlementResult struct {
	Booking models.Booking
	Payment models.Payment
	Payout  *models.Payout
	Outcome types.SettlementOutcome

	Conversation *models.Conversation
}

// SettleSuccess validates a success callback against the gateway and, if
// the provider vouches for it, confirms the booking, records the payment
// and schedules the host payout in one transaction. Side effects
// (messages, notifications, event stream) run after commit.
func SettleSuccess(ctx context.Context, tranID string, valID string) (*SettlementResult, error) {
	bookingID, err := utils.ParseTransactionID(tranID)
	if err != nil {
		log.Printf("[settlement] %s: %s\n", tranID, err.Error())
		return nil, ErrNotFound
	}

	validation, err := lib.GetGatewayClient().ValidateTransaction(ctx, valID)
	if err != nil {
		log.Printf("[settlement] validation call failed for %s: %s\n", tranID, err.Error())
		return nil, err
	}
	if validation.Status != types.GATEWAY_VALID {
		log.Printf("[settlement] gateway rejected %s (val_id=%s)\n", tranID, valID)
		return nil, ErrInvalidTransaction
	}
	// The val_id could belong to any transaction; only settle when the
	// provider vouches for this exact one.
	if validation.TranID != tranID {
		log.Printf("[settlement] validation for %s returned transaction %q (val_id=%s)\n", tranID, validation.TranID, valID)
		return nil, ErrInvalidTransaction
	}

	result := SettlementResult{Outcome: types.SETTLEMENT_CONFIRMED}
	gdb := db.GetDb()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		payment, booking, err := lockSettlementRows(tx, tranID, bookingID)
		if err != nil {
			return err
		}
		if booking.PaymentStatus == types.PAYMENT_PAID {
			return ErrIdempotencyConflict
		}

		now := time.Now()
		tranDate := validation.TransactionDate
		if tranDate == nil {
			tranDate = &now
		}
		raw := validation.Raw
		if err := tx.
			Model(&models.Payment{}).
			Where("transaction_id = ?", tranID).
			Updates(map[string]any{
				"status":           types.PAYMENT_PAID,
				"amount":           validation.Amount,
				"transaction_date": tranDate,
				"card_issuer":      validation.CardIssuer,
				"gateway_response": &raw,
			}).
			Error; err != nil {
			return err
		}

		updates := map[string]any{
			"booking_status": types.BOOKING_CONFIRMED,
			"payment_status": types.PAYMENT_PAID,
		}
		if booking.ConfirmationCode == nil {
			code, err := newConfirmationCode(tx)
			if err != nil {
				return err
			}
			updates["confirmation_code"] = code
			updates["confirmed_at"] = now
			booking.ConfirmationCode = &code
			booking.ConfirmedAt = &now
		}
		// Compare-and-swap on payment_status: a concurrent duplicate
		// callback that already won must not be overwritten.
		res := tx.
			Model(&models.Booking{}).
			Where("id = ? AND payment_status <> ?", booking.ID, types.PAYMENT_PAID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrIdempotencyConflict
		}
		booking.BookingStatus = types.BOOKING_CONFIRMED
		booking.PaymentStatus = types.PAYMENT_PAID

		if booking.SpecialOfferID != nil {
			if err := tx.
				Model(&models.SpecialOffer{}).
				Scopes(scopes.WithID(*booking.SpecialOfferID), scopes.WithPendingStatus).
				Update("status", types.OFFER_ACCEPTED).
				Error; err != nil {
				return err
			}
		}

		payout, err := schedulePayout(tx, booking)
		if err != nil {
			return err
		}

		payment.Status = types.PAYMENT_PAID
		payment.Amount = validation.Amount
		payment.TransactionDate = tranDate
		result.Booking = *booking
		result.Payment = *payment
		result.Payout = payout
		return nil
	})
	if err != nil {
		return nil, err
	}

	runSettlementSideEffects(&result)
	return &result, nil
}

// SettleFailure records a fail or cancel callback. The booking stays
// retryable: its status is put back to pending and only the payment
// columns carry the outcome. A booking already paid is never touched.
func SettleFailure(ctx context.Context, tranID string, outcome types.SettlementOutcome) (*SettlementResult, error) {
	if outcome != types.SETTLEMENT_FAILED && outcome != types.SETTLEMENT_CANCELED {
		return nil, fmt.Errorf("unexpected failure outcome %q", outcome)
	}
	bookingID, err := utils.ParseTransactionID(tranID)
	if err != nil {
		log.Printf("[settlement] %s: %s\n", tranID, err.Error())
		return nil, ErrNotFound
	}

	paymentStatus := types.PAYMENT_FAILED
	if outcome == types.SETTLEMENT_CANCELED {
		paymentStatus = types.PAYMENT_CANCELED
	}

	result := SettlementResult{Outcome: outcome}
	gdb := db.GetDb()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		payment, booking, err := lockSettlementRows(tx, tranID, bookingID)
		if err != nil {
			return err
		}
		if booking.PaymentStatus == types.PAYMENT_PAID {
			return ErrIdempotencyConflict
		}

		if err := tx.
			Model(&models.Payment{}).
			Where("transaction_id = ?", tranID).
			Update("status", paymentStatus).
			Error; err != nil {
			return err
		}
		res := tx.
			Model(&models.Booking{}).
			Where("id = ? AND payment_status <> ?", booking.ID, types.PAYMENT_PAID).
			Updates(map[string]any{
				"booking_status": types.BOOKING_PENDING,
				"payment_status": paymentStatus,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrIdempotencyConflict
		}
		booking.BookingStatus = types.BOOKING_PENDING
		booking.PaymentStatus = paymentStatus

		payment.Status = paymentStatus
		result.Booking = *booking
		result.Payment = *payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	runSettlementSideEffects(&result)
	return &result, nil
}

func lockSettlementRows(tx *gorm.DB, tranID string, bookingID uint) (*models.Payment, *models.Booking, error) {
	var payment models.Payment
	if err := tx.
		Model(&models.Payment{}).
		Where("transaction_id = ?", tranID).
		First(&payment).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if payment.BookingID != bookingID {
		log.Printf("[settlement] booking mismatch for %s: parsed=%d stored=%d\n", tranID, bookingID, payment.BookingID)
		return nil, nil, ErrNotFound
	}
	var booking models.Booking
	if err := tx.
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Preload("Property").
		Preload("Property.Descriptions").
		Preload("Guest").
		Preload("Guest.Currency").
		Preload("Host").
		Preload("Host.Currency").
		Preload("Currency").
		First(&booking).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return &payment, &booking, nil
}

// schedulePayout creates the host earning record for a freshly paid
// booking. The bookingId lookup plus the unique index make the operation
// single-shot per booking even under duplicate delivery.
func schedulePayout(tx *gorm.DB, booking *models.Booking) (*models.Payout, error) {
	var count int64
	if err := tx.
		Model(&models.Payout{}).
		Where("booking_id = ?", booking.ID).
		Count(&count).
		Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	var methodID *uint
	var method models.PayoutMethod
	err := tx.
		Model(&models.PayoutMethod{}).
		Where(&models.PayoutMethod{UserID: booking.HostID, IsDefault: true}).
		First(&method).
		Error
	if err == nil {
		methodID = &method.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	// No default payout method is tolerated: the payout is created with a
	// null method reference to be backfilled once the host configures one.

	payout := models.Payout{
		HostID:         booking.HostID,
		BookingID:      booking.ID,
		PayoutMethodID: methodID,
		CurrencyID:     booking.CurrencyID,
		Amount:         booking.TotalPrice - booking.TotalHostFee,
		PayoutDate:     booking.EndDate.Add(config.PAYOUT_DELAY),
		Status:         types.PAYOUT_SCHEDULED,
	}
	if err := tx.Create(&payout).Error; err != nil {
		return nil, err
	}
	return &payout, nil
}

func newConfirmationCode(tx *gorm.DB) (string, error) {
	for i := 0; i < confirmationCodeAttempts; i++ {
		code := utils.GenerateConfirmationCode()
		var count int64
		if err := tx.
			Model(&models.Booking{}).
			Where("confirmation_code = ?", code).
			Count(&count).
			Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique confirmation code")
}

// runSettlementSideEffects posts the conversation messages, notifies both
// parties and publishes the settlement event. Persistence has already
// committed, so nothing here may fail the callback.
func runSettlementSideEffects(result *SettlementResult) {
	conversation, err := PostSettlementMessage(&result.Booking, result.Outcome)
	if err != nil {
		log.Printf("[settlement] Error posting messages for booking %d: %s\n", result.Booking.ID, err.Error())
	} else {
		result.Conversation = conversation
	}

	NotifySettlement(&result.Booking, result.Outcome)

	if result.Payout != nil {
		if err := lib.CreatePayoutSchedule(result.Payout.ID.String(), result.Payout.PayoutDate); err != nil {
			log.Printf("[settlement] Error scheduling payout release for %s: %s\n", result.Payout.ID.String(), err.Error())
		}
		// In-process backstop in case the EventBridge delivery is missed.
		if _, err := lib.CreateOneTimeCronJob(
			gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(result.Payout.PayoutDate)),
			gocron.NewTask(MarkDuePayouts),
		); err != nil {
			log.Printf("[settlement] Error registering release sweep for %s: %s\n", result.Payout.ID.String(), err.Error())
		}
	}

	if err := lib.KafkaProduceMessage("settlements", lib.SettlementTopic, map[string]any{
		"booking_id":     result.Booking.ID,
		"transaction_id": result.Payment.TransactionID,
		"outcome":        result.Outcome,
		"amount":         result.Payment.Amount,
		"settled_at":     time.Now().UTC(),
	}); err != nil {
		log.Printf("[settlement] Error publishing settlement event for %d: %s\n", result.Booking.ID, err.Error())
	}
}
