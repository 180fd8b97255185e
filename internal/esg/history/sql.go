package history

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/build-flow-labs/esgrate/internal/platform/logger"
	"github.com/build-flow-labs/esgrate/schema"
)

//go:embed migrations
var migrations embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

func migrate(ctx context.Context, db *sql.DB, dialect, dir string, log *logger.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

type gooseLogger struct{ log *logger.Logger }

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.SugaredLogger.Infof(strings.TrimSpace(format), v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.SugaredLogger.Fatalf(strings.TrimSpace(format), v...)
}

const (
	recordColumns      = "id, company_id, company_name, date, ts, total, e, s, g, rating, environmental, answers, rubric_version, fingerprint"
	achievementColumns = "id, name, description, icon, category, unlocked_date, unlocked_by"
	tsLayout           = "2006-01-02T15:04:05.000000000Z07:00"
)

type scanner interface {
	Scan(dest ...any) error
}

// dbTime scans timestamps stored either natively or as RFC 3339 text.
type dbTime struct{ time.Time }

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
	return nil
}

func (t *dbTime) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func scanRecord(row scanner) (schema.Record, error) {
	var (
		r       schema.Record
		ts      dbTime
		env     []byte
		answers []byte
	)
	err := row.Scan(&r.ID, &r.CompanyID, &r.CompanyName, &r.Date, &ts,
		&r.Scores.Total, &r.Scores.E, &r.Scores.S, &r.Scores.G, &r.Rating,
		&env, &answers, &r.RubricVersion, &r.Fingerprint)
	if err != nil {
		return r, err
	}
	r.Timestamp = ts.UTC()
	if len(env) > 0 {
		r.EnvironmentalData = &schema.EnvironmentalData{}
		if err := json.Unmarshal(env, r.EnvironmentalData); err != nil {
			return r, fmt.Errorf("decoding environmental data of %s: %w", r.ID, err)
		}
	}
	if err := json.Unmarshal(answers, &r.Answers); err != nil {
		return r, fmt.Errorf("decoding answers of %s: %w", r.ID, err)
	}
	return r, nil
}

func scanAchievement(row scanner) (schema.Achievement, error) {
	var a schema.Achievement
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.Category, &a.UnlockedDate, &a.UnlockedBy)
	return a, err
}

// encodeRecord returns the JSON columns of r. env is nil when r has no
// environmental data.
func encodeRecord(r *schema.Record) (env *string, answers string, err error) {
	if r.EnvironmentalData != nil {
		b, err := json.Marshal(r.EnvironmentalData)
		if err != nil {
			return nil, "", err
		}
		s := string(b)
		env = &s
	}
	if r.Answers == nil {
		return env, "{}", nil
	}
	b, err := json.Marshal(r.Answers)
	if err != nil {
		return nil, "", err
	}
	return env, string(b), nil
}

// listQuery builds the SELECT for opts using ph to render the n-th
// placeholder.
func listQuery(opts ListOptions, ph func(n int) string) (string, []any) {
	var (
		where []string
		args  []any
	)
	if opts.Company != "" {
		args = append(args, opts.Company)
		where = append(where, "company_id = "+ph(len(args)))
	}
	if opts.Rating != "" {
		args = append(args, opts.Rating)
		where = append(where, "rating = "+ph(len(args)))
	}

	var b strings.Builder
	b.WriteString("SELECT " + recordColumns + " FROM records")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY " + orderColumn(opts.SortField))
	if opts.SortDesc {
		b.WriteString(" DESC")
	}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		b.WriteString(" LIMIT " + ph(len(args)))
	}
	return b.String(), args
}

func questionMark(int) string { return "?" }

func dollar(n int) string { return "$" + strconv.Itoa(n) }

// SQLStore keeps history in a database/sql database. OpenSQLite returns
// one backed by modernc.org/sqlite.
type SQLStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSQLStore wraps an already migrated database.
func NewSQLStore(db *sql.DB, log *logger.Logger) *SQLStore {
	return &SQLStore{db: db, log: log}
}

// OpenSQLite opens dsn with the sqlite driver and applies migrations.
func OpenSQLite(ctx context.Context, dsn string, log *logger.Logger) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// one connection, so :memory: databases survive between queries
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}
	if err := migrate(ctx, db, "sqlite3", "migrations/sqlite", log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLStore(db, log), nil
}

func (s *SQLStore) Save(ctx context.Context, r *schema.Record) error {
	if err := ValidCompany(r.CompanyID); err != nil {
		return err
	}
	env, answers, err := encodeRecord(r)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CompanyID, r.CompanyName, r.Date, r.Timestamp.UTC().Format(tsLayout),
		r.Scores.Total, r.Scores.E, r.Scores.S, r.Scores.G, r.Rating,
		env, answers, r.RubricVersion, r.Fingerprint,
	)
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, company, id string) (*schema.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE company_id = ? AND id = ?", company, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
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

func (s *SQLStore) List(ctx context.Context, opts ListOptions) ([]schema.Record, error) {
	q, args := listQuery(opts, questionMark)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer func() { _ = rows.Close() }()

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
	for i := range out {
		if err := s.refresh(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// refresh rescores a stale record and persists the new scores.
func (s *SQLStore) refresh(ctx context.Context, r *schema.Record) error {
	if !Rescore(r) {
		return nil
	}
	s.log.Info("rescored record", "company", r.CompanyID, "id", r.ID, "total", r.Scores.Total)
	_, err := s.db.ExecContext(ctx,
		"UPDATE records SET total = ?, e = ?, s = ?, g = ?, rating = ?, rubric_version = ? WHERE id = ?",
		r.Scores.Total, r.Scores.E, r.Scores.S, r.Scores.G, r.Rating, r.RubricVersion, r.ID)
	if err != nil {
		return fmt.Errorf("updating rescored record: %w", err)
	}
	return nil
}

func (s *SQLStore) Achievements(ctx context.Context, company string) ([]schema.Achievement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+achievementColumns+" FROM achievements WHERE company_id = ? ORDER BY seq", company)
	if err != nil {
		return nil, fmt.Errorf("listing achievements: %w", err)
	}
	defer func() { _ = rows.Close() }()

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

func (s *SQLStore) Unlock(ctx context.Context, company string, add []schema.Achievement) error {
	if err := ValidCompany(company); err != nil {
		return err
	}
	if len(add) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM achievements WHERE company_id = ?", company).Scan(&seq); err != nil {
		return fmt.Errorf("counting achievements: %w", err)
	}
	for _, a := range add {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO achievements (company_id, `+achievementColumns+`, seq) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (company_id, id) DO NOTHING`,
			company, a.ID, a.Name, a.Description, a.Icon, a.Category, a.UnlockedDate, a.UnlockedBy, seq)
		if err != nil {
			return fmt.Errorf("inserting achievement %s: %w", a.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			seq++
		}
	}
	return tx.Commit()
}

func (s *SQLStore) Close() error { return s.db.Close() }
