package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Postgres struct {
	db  *gorm.DB
	sql *sql.DB
}

// OpenPostgres connects through pgx and migrates the episode table.
func OpenPostgres(ctx context.Context, dsn string, log *zap.Logger) (*Postgres, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	sqlDB := stdlib.OpenDB(*cfg)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&EpisodeRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("postgres store ready", zap.String("host", cfg.Host), zap.String("database", cfg.Database))
	return &Postgres{db: db, sql: sqlDB}, nil
}

func (p *Postgres) SaveEpisode(ctx context.Context, rec *EpisodeRecord) error {
	if err := p.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("save episode %s/%d: %w", rec.ArenaCode, rec.Episode, err)
	}
	return nil
}

func (p *Postgres) ListEpisodes(ctx context.Context, arenaCode string, limit int) ([]EpisodeRecord, error) {
	var recs []EpisodeRecord
	q := p.db.WithContext(ctx).Where("arena_code = ?", arenaCode).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list episodes %s: %w", arenaCode, err)
	}
	return recs, nil
}

func (p *Postgres) Close() error {
	return p.sql.Close()
}
