package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// Step is one named migration statement.
type Step struct {
	Name string
	SQL  string
}

// VectorExtension installs pgvector in the current database if missing.
var VectorExtension = Step{Name: "enable pgvector", SQL: "CREATE EXTENSION IF NOT EXISTS vector"}

// Migrate enables pgvector, auto-migrates models, then runs the post-migration
// steps. A failing post step is logged and skipped; the schema itself is
// already usable at that point.
func Migrate(db *gorm.DB, post []Step, models ...any) error {
	if err := db.Exec(VectorExtension.SQL).Error; err != nil {
		return fmt.Errorf("%s: %w", VectorExtension.Name, err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	for _, step := range post {
		if err := db.Exec(step.SQL).Error; err != nil {
			log.Printf("Warn: %s failed: %v", step.Name, err)
			continue
		}
		log.Printf("Migration step done: %s", step.Name)
	}
	return nil
}
