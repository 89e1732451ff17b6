package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"eduportal/internal/config"
	"eduportal/internal/domain"
	"eduportal/internal/pkg/logger"
	"eduportal/internal/server"
)

// seed fills an empty database with a demo counselor, a lead the
// student upload page can open (/upload/1042) and the site content.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Must(cfg.AppEnv, cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	ctx := context.Background()
	store, err := server.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store failed", zap.Error(err))
	}
	defer func() { _ = store.Close(ctx) }()

	if err := seed(ctx, store, log); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("seed completed")
}

func seed(ctx context.Context, store *server.Store, log *zap.Logger) error {
	jane := &domain.Counselor{
		CounselorID: 1,
		Name:        "Jane Doe",
		Username:    "jane",
		Email:       "jane@example.com",
		Designation: "Senior Counselor",
		Role:        "counselor",
	}
	if err := jane.SetPassword("jane123"); err != nil {
		return err
	}
	if err := skipExisting(store.Counselors.Create(ctx, jane)); err != nil {
		return fmt.Errorf("counselor: %w", err)
	}
	log.Info("counselor ready", zap.String("username", "jane"), zap.String("password", "jane123"))

	lead := &domain.Lead{
		LeadID:    1042,
		Name:      "Aida Karimova",
		Email:     "aida@example.com",
		Phone:     "+8801700000000",
		Country:   "Germany",
		Program:   "MSc Computer Science",
		Source:    "website",
		Status:    domain.LeadStatusNew,
		Documents: []domain.Document{},
	}
	if err := skipExisting(store.Leads.Create(ctx, lead)); err != nil {
		return fmt.Errorf("lead: %w", err)
	}
	log.Info("lead ready", zap.Int64("id", lead.LeadID))

	c := store.Content
	steps := []struct {
		name   string
		create func() error
	}{
		{"hero", func() error {
			return c.Hero.Create(ctx, &domain.HeroSection{
				Title:           "Study abroad with confidence",
				Subtitle:        "Admissions, visas and scholarships",
				PrimaryButton:   "Book a consultation",
				SecondaryButton: "Explore programs",
			})
		}},
		{"stats", func() error {
			return c.Stats.Create(ctx, &domain.Stats{SuccessfullyDeparted: "1200+", FilesOpened: "3000+", InterestedStudents: "15000+"})
		}},
		{"contact", func() error {
			return c.Contacts.Create(ctx, &domain.Contact{
				Address:     "House 12, Road 5, Dhanmondi, Dhaka",
				Email1:      "info@example.com",
				Phone1:      "+8801700000001",
				OfficeHours: "Sat-Thu 10:00-18:00",
			})
		}},
		{"service", func() error {
			return c.Services.Create(ctx, &domain.Service{Title: "Visa guidance", Description: "Document checks and interview preparation."})
		}},
		{"faq", func() error {
			return c.FAQs.Create(ctx, &domain.FAQ{
				Question: "Which documents do I need to open a file?",
				Answer:   "Academic transcript, IELTS result and passport.",
				Category: "Admissions",
			})
		}},
	}

	for _, step := range steps {
		if err := step.create(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
		log.Info("content created", zap.String("collection", step.name))
	}
	return nil
}

func skipExisting(err error) error {
	if errors.Is(err, domain.ErrConflict) {
		return nil
	}
	return err
}
