package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brunobenavent/api-futbol/internal/config"
	"github.com/brunobenavent/api-futbol/internal/infrastructure/repository/postgres"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const dbPingTimeout = 5 * time.Second

// openDatabase opens a traced sqlx pool against DB_URL and verifies it with a ping.
func openDatabase(cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	dsn := postgres.NormalizeDSN(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(postgres.DatabaseName(dsn)),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connected", "db_name", postgres.DatabaseName(dsn))
	return db, nil
}

const maxTracedQueryLength = 512

// traceQuery flattens a query for span attributes: "--" comments are dropped,
// whitespace runs collapse to one space and long statements are cut.
func traceQuery(query string) string {
	var b strings.Builder
	for _, line := range strings.Split(query, "\n") {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		for _, field := range strings.Fields(line) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(field)
		}
	}

	flat := b.String()
	if len(flat) <= maxTracedQueryLength {
		return flat
	}
	return flat[:maxTracedQueryLength] + "..."
}
