package backoffice

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config holds the configuration for the back-office service
type Config struct {
	DB          *gorm.DB
	RedisClient *redis.Client // nil disables caching
	CacheTTL    time.Duration
	CachePrefix string
	AutoMigrate bool
	Publisher   Publisher // nil disables event fan-out
	Logger      *zap.SugaredLogger
}

// Service owns all reads and writes against the agent_levels and
// permissions tables.
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	cacheTTL    time.Duration
	cachePrefix string
	publisher   Publisher
	log         *zap.SugaredLogger
}

// NewService initializes the back-office service
func NewService(cfg Config) (*Service, error) {
	if cfg.DB == nil {
		return nil, fmt.Errorf("database is required")
	}

	if cfg.CachePrefix == "" {
		cfg.CachePrefix = "backoffice:"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}

	if cfg.AutoMigrate {
		if err := cfg.DB.AutoMigrate(&AgentLevel{}, &Permission{}); err != nil {
			return nil, fmt.Errorf("failed to auto-migrate: %w", err)
		}
		if err := migrateAddedColumns(cfg.DB); err != nil {
			return nil, err
		}
	}

	return &Service{
		db:          cfg.DB,
		redisClient: cfg.RedisClient,
		cacheTTL:    cfg.CacheTTL,
		cachePrefix: cfg.CachePrefix,
		publisher:   cfg.Publisher,
		log:         cfg.Logger,
	}, nil
}

// SetPublisher installs the event sink. Intended for the composition root,
// where the hub needs the service as its snapshot source before it can be
// handed back as the publisher.
func (s *Service) SetPublisher(p Publisher) { s.publisher = p }

// migrateAddedColumns backfills columns that shipped after the first
// release, for databases created before AutoMigrate knew about them.
func migrateAddedColumns(db *gorm.DB) error {
	added := []struct {
		table, column, ddl string
	}{
		{"agent_levels", "backgroundColor", `ALTER TABLE agent_levels ADD COLUMN backgroundColor TEXT DEFAULT ''`},
		{"agent_levels", "borderColor", `ALTER TABLE agent_levels ADD COLUMN borderColor TEXT DEFAULT ''`},
		{"permissions", "restrictions", `ALTER TABLE permissions ADD COLUMN restrictions TEXT`},
	}
	for _, a := range added {
		if db.Migrator().HasColumn(a.table, a.column) {
			continue
		}
		if err := db.Exec(a.ddl).Error; err != nil {
			return fmt.Errorf("failed to add column %s.%s: %w", a.table, a.column, err)
		}
	}
	return nil
}

func (s *Service) publish(e Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(e)
}
