package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yoonsu/baedalgo-backend/internal/app/service"
	"github.com/yoonsu/baedalgo-backend/pkg/logger"
)

// DocumentExpiryScheduler flips approved compliance documents past their
// validity date to expired
type DocumentExpiryScheduler struct {
	cron                *cron.Cron
	verificationService service.VerificationService
}

func NewDocumentExpiryScheduler(verificationService service.VerificationService) *DocumentExpiryScheduler {
	return &DocumentExpiryScheduler{
		cron:                cron.New(),
		verificationService: verificationService,
	}
}

// Start registers the nightly expiry sweep (03:00 server time)
func (s *DocumentExpiryScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled document expiry sweep", nil)

		count, err := s.verificationService.ExpireDocuments(time.Now())
		if err != nil {
			logger.Error("Document expiry sweep failed", err)
			return
		}

		logger.Info("Document expiry sweep finished", map[string]interface{}{
			"expired": count,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for document expiry", err)
		return err
	}

	s.cron.Start()
	logger.Info("Document expiry scheduler started (daily at 03:00)", nil)

	return nil
}

// Stop stops the scheduler
func (s *DocumentExpiryScheduler) Stop() {
	logger.Info("Stopping document expiry scheduler...", nil)
	s.cron.Stop()
	logger.Info("Document expiry scheduler stopped", nil)
}
