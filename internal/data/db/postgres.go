package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	types "github.com/peerlink/peerlink-backend/internal/domain"
	"github.com/peerlink/peerlink-backend/internal/platform/envutil"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(logg *logger.Logger) (*PostgresService, error) {
	serviceLog := logg.With("service", "PostgresService")

	postgresHost := envutil.GetEnv("POSTGRES_HOST", "localhost", logg)
	postgresPort := envutil.GetEnv("POSTGRES_PORT", "5432", logg)
	postgresUser := envutil.GetEnv("POSTGRES_USER", "postgres", logg)
	postgresPassword := envutil.GetEnv("POSTGRES_PASSWORD", "", logg)
	postgresName := envutil.GetEnv("POSTGRES_NAME", "peerlink", logg)

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser,
		postgresPassword,
		postgresHost,
		postgresPort,
		postgresName,
	)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}

func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Connection{},
		&types.Notification{},
		&types.Meeting{},
		&types.Group{},
		&types.GroupMember{},
		&types.ChatMessage{},
	)
}
