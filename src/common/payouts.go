package common

import (
	"log"
	"stayhub/src/db"
	"stayhub/src/models"
	"stayhub/src/models/scopes"
	"stayhub/src/types"
	"time"

	"gorm.io/gorm"
)

// MarkDuePayouts flips scheduled payouts whose payout date has passed to
// due. It backs up the per-payout EventBridge schedules, so running it on
// an interval is safe and cheap.
func MarkDuePayouts() {
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Payout{}).
			Scopes(scopes.PayoutsDueBy(time.Now())).
			Update("status", types.PAYOUT_DUE)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			log.Printf("[payouts] marked %d payouts due\n", res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		log.Printf("[payouts] Error processing due payouts: %s\n", err.Error())
	}
}
