package main

import (
	"errors"
	"log"
	"net/http"
	"stayhub/src/db"
	"stayhub/src/models"
	"stayhub/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func conversationHandlers(g *gin.RouterGroup) {
	conversations := g.Group("/conversations")

	conversations.GET("", func(ctx *gin.Context) {
		userID := ctx.GetUint("id")
		var threads []models.Conversation
		if err := db.GetDb().
			Model(&models.Conversation{}).
			Joins("JOIN conversation_participants AS participants ON participants.conversation_id = conversations.id").
			Where("participants.user_id = ?", userID).
			Preload("Property").
			Preload("Property.Descriptions").
			Preload("Participants").
			Order("last_message_at DESC NULLS LAST").
			Find(&threads).
			Error; err != nil {
			log.Printf("[conversations] Error listing threads for user %d: %s\n", userID, err.Error())
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": threads})
	})

	conversations.GET("/:id/messages", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		userID := ctx.GetUint("id")
		gdb := db.GetDb()

		// Membership check before exposing the thread.
		var participant models.ConversationParticipant
		if err := gdb.
			Model(&models.ConversationParticipant{}).
			Where("conversation_id = ? AND user_id = ?", params.ID, userID).
			First(&participant).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
				return
			}
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		var messages []models.ConversationMessage
		if err := gdb.
			Model(&models.ConversationMessage{}).
			Joins("JOIN conversation_bookings AS cb ON cb.id = conversation_messages.conversation_booking_id").
			Where("cb.conversation_id = ?", params.ID).
			Order("conversation_messages.created_at ASC").
			Find(&messages).
			Error; err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": messages})
	})
}
