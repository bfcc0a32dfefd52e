package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsched "github.com/aws/aws-sdk-go-v2/service/scheduler"
	schedulerTypes "github.com/aws/aws-sdk-go-v2/service/scheduler/types"
	"github.com/go-co-op/gocron/v2"
)

var scheduler gocron.Scheduler

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return nil, err
	}
	scheduler = sched
	return sched, nil
}

func CreateCronJob(handler any, duration time.Duration, args ...any) (*string, error) {
	sched, err := GetScheduler()
	if err != nil {
		return nil, err
	}
	j, err := sched.NewJob(
		gocron.DurationJob(duration),
		gocron.NewTask(handler, args...),
	)
	if err != nil {
		return nil, err
	}
	id := j.ID().String()
	return &id, nil
}

func CreateOneTimeCronJob(def gocron.JobDefinition, task gocron.Task) (*string, error) {
	sched, err := GetScheduler()
	if err != nil {
		return nil, err
	}
	j, err := sched.NewJob(def, task)
	if err != nil {
		return nil, err
	}
	id := j.ID().String()
	return &id, nil
}

// CreatePayoutSchedule registers a one-shot EventBridge schedule that
// fires when a payout becomes releasable. A skipped schedule is not an
// error for settlement; the gocron sweep picks the payout up regardless.
func CreatePayoutSchedule(payoutID string, releaseAt time.Time) error {
	roleArn := os.Getenv("SCHEDULER_ROLE_ARN")
	targetArn := os.Getenv("PAYOUT_RELEASE_TARGET_ARN")
	if roleArn == "" || targetArn == "" {
		return nil
	}
	client := AWSGetSchedulerClient()
	if client == nil {
		return fmt.Errorf("scheduler client unavailable")
	}
	expr := releaseAt.UTC().Format("2006-01-02T15:04:05")
	input := fmt.Sprintf(`{"payout_id":%q}`, payoutID)
	sched, err := client.CreateSchedule(context.TODO(), &awsched.CreateScheduleInput{
		Name:      aws.String(fmt.Sprintf("payout_release_%s", payoutID)),
		StartDate: aws.Time(releaseAt.UTC()),
		Target: &schedulerTypes.Target{
			Arn:     aws.String(targetArn),
			RoleArn: aws.String(roleArn),
			Input:   aws.String(input),
			RetryPolicy: &schedulerTypes.RetryPolicy{
				MaximumRetryAttempts: aws.Int32(3),
			},
		},
		FlexibleTimeWindow:    &schedulerTypes.FlexibleTimeWindow{Mode: schedulerTypes.FlexibleTimeWindowModeOff},
		ScheduleExpression:    aws.String(fmt.Sprintf("at(%s)", expr)),
		ActionAfterCompletion: schedulerTypes.ActionAfterCompletionDelete,
	})
	if err != nil {
		log.Printf("Failed to create payout schedule: %s\n", err.Error())
		return err
	}
	log.Printf("Created payout schedule at: %s\n", *sched.ScheduleArn)
	return nil
}
