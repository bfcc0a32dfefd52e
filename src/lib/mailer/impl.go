// Package mailer wraps the raw SMTP sender in the delivery policy
// settlement requires: a bounded retry, after which the failure is logged
// and swallowed so a mail outage can never abort a settled payment.
package mailer

import (
	"log"
	"stayhub/src/config"
	"stayhub/src/lib"
	"time"
)

func Send(input *lib.SendMailInput) error {
	return sendWithRetry(input, config.EMAIL_MAX_ATTEMPTS, config.EMAIL_RETRY_DELAY)
}

func sendWithRetry(input *lib.SendMailInput, attempts int, delay time.Duration) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := lib.SendMail(input); err != nil {
			lastErr = err
			log.Printf("[mailer] attempt %d/%d to %v failed: %s\n", attempt, attempts, input.To, err.Error())
			if attempt < attempts {
				time.Sleep(delay)
			}
			continue
		}
		return nil
	}
	log.Printf("[mailer] giving up on %q to %v: %s\n", input.Subject, input.To, lastErr.Error())
	return lastErr
}
