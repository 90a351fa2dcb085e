package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/uptrace/bun/driver/pgdriver"
)

var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1_create_seen_images",
			Up: []string{`
				CREATE TABLE IF NOT EXISTS seen_images (
					user_id   BIGINT NOT NULL,
					source_id TEXT   NOT NULL,
					image_id  TEXT   NOT NULL,
					seen_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
					PRIMARY KEY (user_id, source_id, image_id)
				)
			`},
			Down: []string{`DROP TABLE seen_images`},
		},
	},
}

// NewPostgres opens a connection using either a full DSN or a plain
// host:port with local development defaults, and applies migrations.
func NewPostgres(url, host string) (*sql.DB, error) {
	var connector *pgdriver.Connector
	if url != "" {
		connector = pgdriver.NewConnector(pgdriver.WithDSN(url))
	} else {
		connector = pgdriver.NewConnector(
			pgdriver.WithAddr(host),
			pgdriver.WithUser("postgres"),
			pgdriver.WithPassword("postgres"),
			pgdriver.WithDatabase("catpic_bot"),
			pgdriver.WithInsecure(true),
		)
	}

	db := sql.OpenDB(connector)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging db: %w", err)
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return nil, fmt.Errorf("applying migrations: %w", err)
	}
	slog.Info("database ready", "migrationsApplied", n)

	return db, nil
}
