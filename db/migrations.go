package db

import (
	"errors"
	"fmt"
	"log"

	"github.com/gorilla/securecookie"
	"github.com/jinzhu/gorm"
	"gopkg.in/gormigrate.v1"
)

type MigrationContext struct {
	// SessionKeyLength is the size of the generated cookie key, 32 if unset
	SessionKeyLength int
}

func (db *DB) Migrate(ctx MigrationContext) error {
	options := &gormigrate.Options{
		TableName:      "migrations",
		IDColumnName:   "id",
		IDColumnSize:   255,
		UseTransaction: false,
	}

	// $ date '+%Y%m%d%H%M'
	migrations := []*gormigrate.Migration{
		construct(ctx, "202410190900", migrateInitSchema),
		construct(ctx, "202410190915", migrateSessionKey),
	}

	return gormigrate.
		New(db.DB, options, migrations).
		Migrate()
}

func construct(ctx MigrationContext, id string, f func(*gorm.DB, MigrationContext) error) *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: id,
		Migrate: func(db *gorm.DB) error {
			tx := db.Begin()
			defer tx.Commit()
			if err := f(tx, ctx); err != nil {
				return fmt.Errorf("%q: %w", id, err)
			}
			log.Printf("migration '%s' finished", id)
			return nil
		},
		Rollback: func(*gorm.DB) error {
			return nil
		},
	}
}

func migrateInitSchema(tx *gorm.DB, _ MigrationContext) error {
	return tx.AutoMigrate(
		Setting{},
	).
		Error
}

func migrateSessionKey(tx *gorm.DB, ctx MigrationContext) error {
	err := tx.
		Where("key=?", SessionKey).
		First(&Setting{}).
		Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	length := ctx.SessionKeyLength
	if length == 0 {
		length = 32
	}
	key := securecookie.GenerateRandomKey(length)
	if key == nil {
		return fmt.Errorf("generate session key")
	}
	return tx.Create(&Setting{
		Key:   SessionKey,
		Value: string(key),
	}).
		Error
}
