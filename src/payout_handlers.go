package main

import (
	"errors"
	"log"
	"net/http"
	"stayhub/src/db"
	"stayhub/src/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func payoutHandlers(g *gin.RouterGroup) {
	payouts := g.Group("/payouts")

	payouts.GET("", func(ctx *gin.Context) {
		userID := ctx.GetUint("id")
		var payouts []models.Payout
		if err := db.GetDb().
			Model(&models.Payout{}).
			Where("host_id = ?", userID).
			Preload("Booking").
			Preload("PayoutMethod").
			Order("payout_date ASC").
			Find(&payouts).
			Error; err != nil {
			log.Printf("[payouts] Error listing payouts for user %d: %s\n", userID, err.Error())
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": payouts})
	})

	payouts.GET("/:id", func(ctx *gin.Context) {
		userID := ctx.GetUint("id")
		var payout models.Payout
		if err := db.GetDb().
			Model(&models.Payout{}).
			Where("id = ? AND host_id = ?", ctx.Param("id"), userID).
			Preload("Booking").
			Preload("PayoutMethod").
			First(&payout).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "payout not found"})
				return
			}
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": payout})
	})
}
