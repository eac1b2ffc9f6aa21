package main

import (
	"flag"
	"log"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/dealwise/deal-assistant/internal/infrastructure/database"
	"github.com/dealwise/deal-assistant/pkg/config"
)

func main() {
	var dir string
	var down bool
	flag.StringVar(&dir, "dir", "migrations", "directory containing migration files")
	flag.BoolVar(&down, "down", false, "roll back the most recent migration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database connection: %v", err)
	}

	migrations := &migrate.FileMigrationSource{Dir: dir}
	direction := migrate.Up
	if down {
		direction = migrate.Down
	}

	n, err := migrate.ExecMax(sqlDB, "postgres", migrations, direction, boolToMax(down))
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	log.Printf("Applied %d migration(s)", n)
}

// boolToMax limits rollbacks to one step; upward migrations are unbounded
func boolToMax(down bool) int {
	if down {
		return 1
	}
	return 0
}
