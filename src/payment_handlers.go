package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"stayhub/src/common"
	"stayhub/src/config"
	"stayhub/src/db"
	"stayhub/src/lib"
	"stayhub/src/models"
	"stayhub/src/types"
	"stayhub/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// paymentRoutes wires the gateway-facing surface: session open plus the
// four callback endpoints the hosted payment page and the provider's
// server-to-server notifier hit. These stay outside the auth middleware;
// the provider authenticates through the validation call, not through us.
func paymentRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	payment := apiv1.Group("/payment")

	payment.POST("/init", func(ctx *gin.Context) {
		var body types.InitPaymentRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		var settlementCurrency models.Currency
		var payment models.Payment
		gdb := db.GetDb()
		err := gdb.Transaction(func(tx *gorm.DB) error {
			if err := tx.
				Model(&models.Booking{}).
				Where("id = ?", body.BookingID).
				Preload("Currency").
				First(&booking).
				Error; err != nil {
				return err
			}
			if err := tx.
				Model(&models.Currency{}).
				Where("code = ?", config.SettlementCurrency()).
				First(&settlementCurrency).
				Error; err != nil {
				return err
			}

			payable := body.TotalPrice - body.TotalDiscount + body.TotalGuestFee + body.CleaningCharge
			amount := utils.ConvertCurrency(payable, booking.Currency, &settlementCurrency)

			// The payment row must exist before the provider is asked for a
			// session; its tran_id is the only key callbacks hand back.
			payment = models.Payment{
				TransactionID: utils.NewTransactionID(booking.ID),
				BookingID:     booking.ID,
				UserID:        booking.GuestID,
				Status:        types.PAYMENT_PENDING,
				Amount:        amount,
				Currency:      settlementCurrency.Code,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			log.Printf("[payment/init] Error preparing session for booking %d: %s\n", body.BookingID, err.Error())
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		apiHost := os.Getenv("API_HOST")
		redirectURL, err := lib.GetGatewayClient().CreateSession(ctx, &lib.CreateSessionInput{
			TranID:        payment.TransactionID,
			Amount:        payment.Amount,
			Currency:      payment.Currency,
			ProductName:   fmt.Sprintf("Booking #%d", booking.ID),
			CustomerName:  body.CustomerName,
			CustomerEmail: body.CustomerEmail,
			CustomerPhone: body.CustomerPhone,
			SuccessURL:    fmt.Sprintf("%s/api/v1/payment/success", apiHost),
			FailURL:       fmt.Sprintf("%s/api/v1/payment/fail", apiHost),
			CancelURL:     fmt.Sprintf("%s/api/v1/payment/cancel", apiHost),
			IPNURL:        fmt.Sprintf("%s/api/v1/payment/ipn", apiHost),
		})
		if err != nil {
			log.Printf("[payment/init] Gateway rejected session for %s: %s\n", payment.TransactionID, err.Error())
			if err := gdb.
				Model(&models.Payment{}).
				Where("transaction_id = ?", payment.TransactionID).
				Update("status", types.PAYMENT_FAILED).
				Error; err != nil {
				log.Printf("[payment/init] Error marking payment %s failed: %s\n", payment.TransactionID, err.Error())
			}
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not open payment session"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"redirect_url": redirectURL})
	})

	payment.POST("/success", func(ctx *gin.Context) {
		var body types.SuccessCallbackRequestBody
		if err := ctx.ShouldBind(&body); err != nil {
			ctx.Redirect(http.StatusSeeOther, errorPageURL())
			return
		}
		result, err := common.SettleSuccess(ctx, body.TranID, body.ValID)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrIdempotencyConflict):
				// Repeat delivery of an already-settled success: acknowledge
				// without re-running side effects.
				log.Printf("[payment/success] duplicate callback for %s\n", body.TranID)
				ctx.Redirect(http.StatusSeeOther, messagesPageURL())
			case errors.Is(err, common.ErrInvalidTransaction):
				ctx.Redirect(http.StatusSeeOther, failPageURL(body.TranID))
			default:
				log.Printf("[payment/success] Error settling %s: %s\n", body.TranID, err.Error())
				ctx.Redirect(http.StatusSeeOther, errorPageURL())
			}
			return
		}
		if result.Conversation != nil {
			ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("%s/conversations/%d", config.AppHost(), result.Conversation.ID))
			return
		}
		ctx.Redirect(http.StatusSeeOther, messagesPageURL())
	})

	payment.POST("/fail", func(ctx *gin.Context) {
		settleFailureRoute(ctx, types.SETTLEMENT_FAILED)
	})

	payment.POST("/cancel", func(ctx *gin.Context) {
		settleFailureRoute(ctx, types.SETTLEMENT_CANCELED)
	})

	payment.POST("/ipn", func(ctx *gin.Context) {
		var body types.IPNRequestBody
		if err := ctx.ShouldBind(&body); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		raw, err := json.Marshal(&body)
		if err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		// Ack fast, settle async: the consumer applies the same
		// validate-and-settle path as /payment/success.
		if err := lib.SQSProduceMessage(utils.WithSuffix(config.IPN_QUEUE), string(raw)); err != nil {
			log.Printf("[payment/ipn] Error enqueueing notification for %s: %s\n", body.TranID, err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.Status(http.StatusOK)
	})

	return payment
}

func settleFailureRoute(ctx *gin.Context, outcome types.SettlementOutcome) {
	var body types.FailureCallbackRequestBody
	if err := ctx.ShouldBind(&body); err != nil {
		ctx.Redirect(http.StatusSeeOther, errorPageURL())
		return
	}
	if _, err := common.SettleFailure(ctx, body.TranID, outcome); err != nil {
		if errors.Is(err, common.ErrIdempotencyConflict) {
			log.Printf("[payment/%s] callback for settled booking %s acknowledged\n", outcome, body.TranID)
			ctx.Redirect(http.StatusSeeOther, messagesPageURL())
			return
		}
		log.Printf("[payment/%s] Error settling %s: %s\n", outcome, body.TranID, err.Error())
		ctx.Redirect(http.StatusSeeOther, errorPageURL())
		return
	}
	ctx.Redirect(http.StatusSeeOther, messagesPageURL())
}

func messagesPageURL() string {
	return fmt.Sprintf("%s/conversations", config.AppHost())
}

func failPageURL(tranID string) string {
	return fmt.Sprintf("%s/payment/failed?tran_id=%s", config.AppHost(), tranID)
}

func errorPageURL() string {
	return fmt.Sprintf("%s/payment/error", config.AppHost())
}
