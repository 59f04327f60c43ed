package main

import (
	"log"

	"dimensa-be/internal/config"
	"dimensa-be/internal/model"
	"dimensa-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	post := []database.Step{
		{
			Name: "metadata GIN index",
			SQL:  `CREATE INDEX IF NOT EXISTS idx_memory_records_metadata ON memory_records USING gin (metadata)`,
		},
		{
			Name: "session/time index",
			SQL:  `CREATE INDEX IF NOT EXISTS idx_memory_records_session_created ON memory_records (session_id, created_at DESC)`,
		},
	}

	if err := database.Migrate(db, post, &model.MemoryRecord{}); err != nil {
		log.Fatalf("Error: migration failed: %v", err)
	}

	log.Println("✅ Success: memory_records schema is up to date.")
}
