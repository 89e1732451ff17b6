package server

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduportal/internal/config"
	"eduportal/internal/database"
	"eduportal/internal/domain"
	"eduportal/internal/modules/content"
	"eduportal/internal/modules/counselor"
	"eduportal/internal/modules/intake"
	"eduportal/internal/modules/lead"
	"eduportal/internal/repository"
	"eduportal/internal/repository/mongorepo"
)

// LeadStore is what the lead and intake modules need from lead storage.
type LeadStore interface {
	lead.LeadRepository
	intake.LeadRepository
}

// Store bundles the repositories of one backend.
type Store struct {
	Leads      LeadStore
	Counselors counselor.Repository
	Content    content.Stores

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }

// OpenStore connects the backend DATABASE_URL names: MongoDB for
// mongodb:// URIs, gorm (PostgreSQL or SQLite) otherwise.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Store, error) {
	if cfg.UsesMongo() {
		client, db, err := database.ConnectMongo(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := mongorepo.EnsureIndexes(ctx, db, log); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return NewMongoStore(client, db), nil
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return NewSQLStore(db), nil
}

func NewSQLStore(db *gorm.DB) *Store {
	return &Store{
		Leads:      repository.NewLeadRepository(db),
		Counselors: repository.NewCounselorRepository(db),
		Content: content.Stores{
			Hero:       repository.NewCollection[domain.HeroSection](db),
			Stats:      repository.NewCollection[domain.Stats](db),
			Services:   repository.NewCollection[domain.Service](db),
			Partners:   repository.NewCollection[domain.Partner](db),
			FAQs:       repository.NewCollection[domain.FAQ](db),
			Contacts:   repository.NewCollection[domain.Contact](db),
			Admins:     repository.NewCollection[domain.Admin](db),
			Materials:  repository.NewCollection[domain.Material](db),
			Categories: repository.NewCollection[domain.Category](db),
			Blogs:      repository.NewCollection[domain.Blog](db),
		},
		ping: func(ctx context.Context) error { return repository.Ping(ctx, db) },
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

func NewMongoStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Leads:      mongorepo.NewLeadRepository(db),
		Counselors: mongorepo.NewCounselorRepository(db),
		Content: content.Stores{
			Hero:       mongorepo.NewCollection[domain.HeroSection](db),
			Stats:      mongorepo.NewCollection[domain.Stats](db),
			Services:   mongorepo.NewCollection[domain.Service](db),
			Partners:   mongorepo.NewCollection[domain.Partner](db),
			FAQs:       mongorepo.NewCollection[domain.FAQ](db),
			Contacts:   mongorepo.NewCollection[domain.Contact](db),
			Admins:     mongorepo.NewCollection[domain.Admin](db),
			Materials:  mongorepo.NewCollection[domain.Material](db),
			Categories: mongorepo.NewCollection[domain.Category](db),
			Blogs:      mongorepo.NewCollection[domain.Blog](db),
		},
		ping:  func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
		close: client.Disconnect,
	}
}
