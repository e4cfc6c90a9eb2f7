package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"custcrm/internal/model"
)

// Models lists every table the application owns, in drop-safe order.
var Models = []interface{}{
	&model.Customer{},
	&model.User{},
}

// NewMySQL returns a connected GORM DB instance, retrying with exponential
// backoff up to attempts times.
func NewMySQL(ctx context.Context, dsn string, attempts int, log zerolog.Logger) (*gorm.DB, error) {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				dbErr = sqlDB.PingContext(ctx)
			}
			if dbErr == nil {
				log.Info().Int("attempts", attempt).Msg("connected to database")
				return db, nil
			}
			err = dbErr
		}

		lastErr = err
		if attempt < attempts {
			backoff := calcBackoff(attempt)
			log.Warn().Err(err).
				Int("attempt", attempt).
				Int("max_attempts", attempts).
				Dur("backoff", backoff).
				Msg("database not reachable, retrying")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("connect mysql: %w", ctx.Err())
			}
		}
	}
	return nil, fmt.Errorf("connect mysql after %d attempts: %w", attempts, lastErr)
}

// Migrate creates or updates the schema, dropping existing tables first when reset is set.
func Migrate(db *gorm.DB, reset bool, log zerolog.Logger) error {
	if reset {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		for _, table := range Models {
			if err := db.Migrator().DropTable(table); err != nil {
				log.Warn().Err(err).Msg("failed to drop table (may not exist)")
			}
		}
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// calcBackoff returns exponential backoff duration capped at 16 seconds.
func calcBackoff(attempt int) time.Duration {
	backoff := time.Duration(1<<(attempt-1)) * time.Second
	if backoff > 16*time.Second {
		backoff = 16 * time.Second
	}
	return backoff
}
