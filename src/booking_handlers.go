package main

import (
	"errors"
	"log"
	"net/http"
	"stayhub/src/db"
	"stayhub/src/models"
	"stayhub/src/models/scopes"
	"stayhub/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func bookingHandlers(g *gin.RouterGroup) {
	bookings := g.Group("/bookings")

	bookings.GET("", func(ctx *gin.Context) {
		userID := ctx.GetUint("id")
		var bookings []models.Booking
		if err := db.GetDb().
			Model(&models.Booking{}).
			Where("guest_id = ?", userID).
			Preload("Property").
			Preload("Property.Descriptions").
			Preload("Currency").
			Order("created_at DESC").
			Find(&bookings).
			Error; err != nil {
			log.Printf("[bookings] Error listing bookings for user %d: %s\n", userID, err.Error())
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": bookings})
	})

	bookings.GET("/:id", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		userID := ctx.GetUint("id")
		var booking models.Booking
		if err := db.GetDb().
			Model(&models.Booking{}).
			Scopes(scopes.WithID(params.ID)).
			Where("guest_id = ? OR host_id = ?", userID, userID).
			Preload("Property").
			Preload("Property.Descriptions").
			Preload("Guest").
			Preload("Currency").
			Preload("Payments").
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": booking})
	})

	host := g.Group("/host")
	host.GET("/bookings", func(ctx *gin.Context) {
		userID := ctx.GetUint("id")
		var bookings []models.Booking
		if err := db.GetDb().
			Model(&models.Booking{}).
			Where("host_id = ?", userID).
			Preload("Property").
			Preload("Guest").
			Preload("Currency").
			Order("start_date ASC").
			Find(&bookings).
			Error; err != nil {
			log.Printf("[bookings] Error listing host bookings for user %d: %s\n", userID, err.Error())
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": bookings})
	})
}
