package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Sohammathur/Chat-Application--AI/config"
	httpapi "github.com/Sohammathur/Chat-Application--AI/internal/api/http"
	"github.com/Sohammathur/Chat-Application--AI/internal/projects/repository"
	"github.com/Sohammathur/Chat-Application--AI/internal/projects/service"
	"github.com/Sohammathur/Chat-Application--AI/internal/storage/mongo"
	"github.com/Sohammathur/Chat-Application--AI/internal/storage/postgres"
	"github.com/Sohammathur/Chat-Application--AI/internal/users"
)

// UserStore is implemented by both users.Repo and users.MongoRepo.
type UserStore interface {
	EnsureUser(ctx context.Context, id, email string) error
	Get(ctx context.Context, id string) (*users.User, error)
	Emails(ctx context.Context, ids []string) (map[string]string, error)
	ListExcept(ctx context.Context, id string) ([]users.User, error)
}

// Stores is the persistence layer selected by STORE_DRIVER.
type Stores struct {
	Projects service.Repository
	Users    UserStore
	Pinger   httpapi.Pinger
	Close    func(ctx context.Context) error
}

// OpenStores connects to the configured database and prepares its schema.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		return openPostgres(ctx, &cfg.Database)
	case config.StoreDriverMongo:
		return openMongo(ctx, &cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func openPostgres(ctx context.Context, cfg *config.DatabaseConfig) (*Stores, error) {
	pg, err := postgres.NewConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}

	mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := postgres.Migrate(mctx, pg.DB); err != nil {
		pg.Close()
		return nil, err
	}

	return &Stores{
		Projects: repository.NewProjectRepository(pg.DB),
		Users:    users.NewRepo(pg.DB),
		Pinger:   httpapi.PingFunc(pg.Ping),
		Close: func(context.Context) error {
			pg.Close()
			return nil
		},
	}, nil
}

func openMongo(ctx context.Context, cfg *config.MongoConfig) (*Stores, error) {
	m, err := mongo.NewConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}

	projects := repository.NewMongoProjectRepository(m.Database.Collection(repository.ProjectsCollection))

	ictx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := projects.EnsureIndexes(ictx); err != nil {
		_ = m.Close(context.Background())
		return nil, err
	}

	return &Stores{
		Projects: projects,
		Users:    users.NewMongoRepo(m.Database.Collection(users.UsersCollection)),
		Pinger:   httpapi.PingFunc(m.Ping),
		Close:    m.Close,
	}, nil
}
