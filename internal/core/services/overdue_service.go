package services

import (
	"context"
	"log"
	"time"

	"rentvideo/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// OverdueService runs the daily overdue-rental report. It scans for
// rentals that have stayed open longer than the configured number of
// days and logs them; copies are only released through a return.
type OverdueService struct {
	rentalRepo  repositories.RentalRepository
	tokenRepo   repositories.RefreshTokenRepository
	overdueDays int
	cron        *cron.Cron
}

// NewOverdueService creates a new overdue service
func NewOverdueService(db *gorm.DB, overdueDays int) *OverdueService {
	return &OverdueService{
		rentalRepo:  repositories.NewRentalRepository(db),
		tokenRepo:   repositories.NewRefreshTokenRepository(db),
		overdueDays: overdueDays,
		cron:        cron.New(),
	}
}

// Start schedules the daily report at 08:30, plus nightly housekeeping,
// and starts the scheduler
func (s *OverdueService) Start() error {
	_, err := s.cron.AddFunc("30 8 * * *", func() {
		if err := s.Report(context.Background()); err != nil {
			log.Printf("Overdue report failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	// Purge expired refresh tokens nightly
	_, err = s.cron.AddFunc("0 3 * * *", func() {
		if err := s.tokenRepo.DeleteExpired(context.Background()); err != nil {
			log.Printf("Refresh token cleanup failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Overdue report scheduled daily at 08:30 (threshold: %d days)", s.overdueDays)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *OverdueService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Report logs every rental open longer than the overdue threshold
func (s *OverdueService) Report(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -s.overdueDays)

	rentals, err := s.rentalRepo.ListOpenOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	if len(rentals) == 0 {
		log.Println("Overdue report: no overdue rentals")
		return nil
	}

	for _, r := range rentals {
		days := daysBetween(r.RentalDate, time.Now())
		username := ""
		title := ""
		if r.User != nil {
			username = r.User.Username
		}
		if r.Video != nil {
			title = r.Video.Title
		}
		log.Printf("Overdue rental #%d: user=%s video=%q out for %d days", r.ID, username, title, days)
	}

	log.Printf("Overdue report: %d rental(s) overdue", len(rentals))
	return nil
}
