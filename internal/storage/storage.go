package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"moodmatch/backend/internal/config"
	"moodmatch/backend/internal/emotion"
	"moodmatch/backend/internal/models"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	// ErrAlreadyMatched means one of the users already holds an active match.
	ErrAlreadyMatched = errors.New("user already holds an active match")
	// ErrSelfMatch is returned when both sides of a match are the same user.
	ErrSelfMatch = errors.New("cannot match a user with themselves")
	// ErrDuplicateUser is returned when the email or username is taken.
	ErrDuplicateUser = errors.New("email or username already registered")
)

// Peer is a candidate returned by FindPeer.
type Peer struct {
	UserID      uint
	DisplayName string
	// RecordID is the peer's current emotion record.
	RecordID uint
}

type Storage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	SaveEmotion(ctx context.Context, rec *models.EmotionRecord) error
	GetLatestEmotion(ctx context.Context, userID uint) (*models.EmotionRecord, error)
	ListEmotions(ctx context.Context, userID uint, limit int) ([]models.EmotionRecord, error)

	FindPeer(ctx context.Context, userID uint, label emotion.Label) (*Peer, error)
	CreateMatch(ctx context.Context, a, b uint, label emotion.Label) (*models.Match, error)
	GetMatch(ctx context.Context, matchID uint) (*models.Match, error)
	GetActiveMatch(ctx context.Context, userID uint) (*models.Match, error)
	ListActiveMatches(ctx context.Context) ([]models.Match, error)
	EndMatch(ctx context.Context, matchID uint) (bool, error)

	SaveMessage(ctx context.Context, msg *models.ChatMessage) error
	GetChatHistory(ctx context.Context, matchID uint) ([]models.ChatMessage, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor. rdb may be nil.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Open connects to the configured relational database.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer; one connection also keeps
		// in-memory databases alive and shared.
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

// OpenRedis returns nil, nil when no address is configured.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// Ping checks the database and, when configured, Redis.
func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if s.Redis != nil {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}
