package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobscout/internal/filter"
	"go-jobscout/internal/scraper"
)

type PostgresSink struct {
	db *pgxpool.Pool
}

func NewPostgresSink(ctx context.Context, connString string) (*PostgresSink, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &PostgresSink{db: pool}, nil
}

// Put inserts a job or updates the existing row for the same
// (source, url) pair, keeping the freshest title/company.
func (s *PostgresSink) Put(ctx context.Context, job scraper.Job, decision filter.Decision) (string, error) {
	query := `
		INSERT INTO jobs (id, source, url, title, company, location, salary, summary,
			experience_level, confidence, extraction_confidence, posted_at, discovered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (source, url)
		DO UPDATE SET title = EXCLUDED.title, company = EXCLUDED.company,
			experience_level = EXCLUDED.experience_level, confidence = EXCLUDED.confidence
		RETURNING id`

	var id string
	err := s.db.QueryRow(ctx, query,
		uuid.NewString(), job.SourceSite, job.RawURL, job.Title, job.Company,
		job.Location, job.Salary, job.Summary,
		string(decision.ExperienceLevel), decision.Confidence,
		job.ExtractionConfidence, job.PostedAt, job.DiscoveredAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to save job: %w", err)
	}

	return id, nil
}

func (s *PostgresSink) Close(_ context.Context) error {
	if s.db != nil {
		s.db.Close()
	}
	return nil
}
