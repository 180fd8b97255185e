package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/build-flow-labs/esgrate/internal/platform/logger"
	"github.com/build-flow-labs/esgrate/schema"
)

// PostgresStore keeps history in PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// OpenPostgres connects to url and applies migrations.
func OpenPostgres(ctx context.Context, url string, log *logger.Logger) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	err = migrate(ctx, db, "postgres", "migrations/postgres", log)
	_ = db.Close()
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool, log: log}, nil
}

func (s *PostgresStore) Save(ctx context.Context, r *schema.Record) error {
	if err := ValidCompany(r.CompanyID); err != nil {
		return err
	}
	env, answers, err := encodeRecord(r)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO records (`+recordColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		r.ID, r.CompanyID, r.CompanyName, r.Date, r.Timestamp.UTC(),
		r.Scores.Total, r.Scores.E, r.Scores.S, r.Scores.G, r.Rating,
		env, answers, r.RubricVersion, r.Fingerprint,
	)
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, company, id string) (*schema.Record, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+recordColumns+" FROM records WHERE company_id = $1 AND id = $2", company, id)
	r, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("record %s/%s: %w", company, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying record: %w", err)
	}
	if err := s.refresh(ctx, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PostgresStore) List(ctx context.Context, opts ListOptions) ([]schema.Record, error) {
	q, args := listQuery(opts, dollar)
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []schema.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	for i := range out {
		if err := s.refresh(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PostgresStore) refresh(ctx context.Context, r *schema.Record) error {
	if !Rescore(r) {
		return nil
	}
	s.log.Info("rescored record", "company", r.CompanyID, "id", r.ID, "total", r.Scores.Total)
	_, err := s.pool.Exec(ctx,
		"UPDATE records SET total = $1, e = $2, s = $3, g = $4, rating = $5, rubric_version = $6 WHERE id = $7",
		r.Scores.Total, r.Scores.E, r.Scores.S, r.Scores.G, r.Rating, r.RubricVersion, r.ID)
	if err != nil {
		return fmt.Errorf("updating rescored record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Achievements(ctx context.Context, company string) ([]schema.Achievement, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+achievementColumns+" FROM achievements WHERE company_id = $1 ORDER BY seq", company)
	if err != nil {
		return nil, fmt.Errorf("listing achievements: %w", err)
	}
	defer rows.Close()

	var out []schema.Achievement
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Unlock(ctx context.Context, company string, add []schema.Achievement) error {
	if err := ValidCompany(company); err != nil {
		return err
	}
	if len(add) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var seq int
		if err := tx.QueryRow(ctx,
			"SELECT COUNT(*) FROM achievements WHERE company_id = $1", company).Scan(&seq); err != nil {
			return fmt.Errorf("counting achievements: %w", err)
		}
		for _, a := range add {
			tag, err := tx.Exec(ctx,
				`INSERT INTO achievements (company_id, `+achievementColumns+`, seq) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (company_id, id) DO NOTHING`,
				company, a.ID, a.Name, a.Description, a.Icon, a.Category, a.UnlockedDate, a.UnlockedBy, seq)
			if err != nil {
				return fmt.Errorf("inserting achievement %s: %w", a.ID, err)
			}
			if tag.RowsAffected() > 0 {
				seq++
			}
		}
		return nil
	})
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
