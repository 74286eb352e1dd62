package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gamehub/internal/model"
)

// models lists every table, parents first so foreign keys resolve.
var models = []interface{}{
	&model.User{},
	&model.Game{},
	&model.Comment{},
	&model.GameReaction{},
	&model.UserBan{},
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		// Unique index violations surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// NewPostgres returns a connected GORM DB instance backed by pgx.
func NewPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// Open connects using the named driver ("mysql" or "postgres").
func Open(driver, mysqlDSN, postgresDSN string) (*gorm.DB, error) {
	switch driver {
	case "mysql":
		return NewMySQL(mysqlDSN)
	case "postgres":
		return NewPostgres(postgresDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table, children first.
func Reset(db *gorm.DB) error {
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
