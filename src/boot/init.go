package boot

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path"
	"stayhub/src/common"
	"stayhub/src/db"
	"stayhub/src/lib"
	"stayhub/src/models"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Currency{},
		&models.Property{},
		&models.PropertyDescription{},
		&models.SpecialOffer{},
		&models.Booking{},
		&models.Payment{},
		&models.Payout{},
		&models.PayoutMethod{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.ConversationBooking{},
		&models.ConversationMessage{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitBroker() {
	go lib.KafkaCreateTopics(lib.SettlementTopic)
	go common.PaymentNotificationsConsumer()
}

// InitScheduler starts the in-process sweep that flips scheduled payouts
// to due once their release date passes. The EventBridge schedule per
// payout is the primary trigger; this sweep backstops missed deliveries.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	id, err := lib.CreateCronJob(common.MarkDuePayouts, 1*time.Hour)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	log.Printf("Payout sweep job registered: %s\n", *id)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}

// DownloadSDKFileFromS3 fetches the Firebase admin credentials into the
// secrets dir when the container starts without them mounted.
func DownloadSDKFileFromS3() {
	filename := "admin-sdk-credentials.json"
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/secrets"
	}
	sdkFilePath := path.Join(secretsDir, filename)
	_, err := os.Stat(sdkFilePath)
	if errors.Is(err, os.ErrNotExist) {
		log.Println("File not found. Downloading...")
		client := lib.AWSGetS3Client()
		secretsBucket := os.Getenv("S3_SECRETS_BUCKET")
		object, err := client.GetObject(context.Background(), &s3.GetObjectInput{
			Bucket: aws.String(secretsBucket),
			Key:    aws.String(filename),
		})
		if err != nil {
			log.Printf("[S3] Error retrieving object: %s\n", err.Error())
			return
		}
		defer object.Body.Close()
		file, err := os.Create(sdkFilePath)
		if err != nil {
			log.Printf("Could not create file %s: %s\n", filename, err.Error())
			return
		}
		defer file.Close()
		body, err := io.ReadAll(object.Body)
		if err != nil {
			log.Printf("Couldn't read object body from %s: %s\n", filename, err.Error())
			return
		}
		if _, err = file.Write(body); err != nil {
			log.Printf("Error writing to file: %s\n", err.Error())
			return
		}
		log.Println("File has been written")
	}
}
