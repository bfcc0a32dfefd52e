package common

import (
	"context"
	"errors"
	"log"
	"stayhub/src/config"
	awslib "stayhub/src/lib/aws"
	"stayhub/src/types"
	"stayhub/src/utils"

	"github.com/tidwall/gjson"
)

// PaymentNotificationsConsumer drains the IPN queue. The HTTP handler only
// acknowledges and enqueues; the settle logic applied here is the same
// validate-and-settle path the synchronous success callback uses, so a
// lost browser redirect cannot lose a settlement.
func PaymentNotificationsConsumer() {
	qname := utils.WithSuffix(config.IPN_QUEUE)
	c := awslib.NewSQSConsumer(qname, func(body string) {
		if !gjson.Valid(body) {
			log.Printf("[%s] Received invalid json body. Aborting\n", qname)
			return
		}
		tranID := gjson.Get(body, "tran_id").String()
		valID := gjson.Get(body, "val_id").String()
		status := gjson.Get(body, "status").String()
		if tranID == "" {
			log.Printf("[%s] Message without tran_id. Aborting\n", qname)
			return
		}

		ctx := context.Background()
		var err error
		switch status {
		case "VALID", "VALIDATED":
			_, err = SettleSuccess(ctx, tranID, valID)
		case "CANCELLED":
			_, err = SettleFailure(ctx, tranID, types.SETTLEMENT_CANCELED)
		default:
			_, err = SettleFailure(ctx, tranID, types.SETTLEMENT_FAILED)
		}
		if err != nil {
			if errors.Is(err, ErrIdempotencyConflict) {
				// At-least-once delivery; the first delivery already won.
				log.Printf("[%s] duplicate delivery for %s acknowledged\n", qname, tranID)
				return
			}
			log.Printf("[%s] Error settling %s: %s\n", qname, tranID, err.Error())
		}
	})
	c.Listen()
}
