package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PoolConfig bounds the database/sql pool behind gorm.
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPool suits one API process talking to one Postgres.
func DefaultPool() PoolConfig {
	return PoolConfig{MaxIdleConns: 10, MaxOpenConns: 50, ConnMaxLifetime: time.Hour}
}

func newLogger(isProd bool) logger.Interface {
	level := logger.Info
	if isProd {
		level = logger.Warn
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			// Embeddings are hundreds of floats; keep them out of the SQL log
			ParameterizedQueries: true,
			Colorful:             !isProd,
		},
	)
}

// Open connects through dialector and applies pool.
func Open(dialector gorm.Dialector, isProd bool, pool PoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogger(isProd),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)

	return db, nil
}

func NewGormDBFromDSN(dsn string, isProd bool) (*gorm.DB, error) {
	return Open(postgres.Open(dsn), isProd, DefaultPool())
}
