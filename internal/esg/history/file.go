package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/build-flow-labs/esgrate/internal/platform/logger"
	"github.com/build-flow-labs/esgrate/schema"
)

const (
	recordSuffix     = ".record.json"
	achievementsFile = "achievements.json"
)

// FileStore keeps records as JSON files, one directory per company, with
// an in-memory index for listing.
type FileStore struct {
	mu           sync.RWMutex
	dir          string
	records      []schema.Record
	achievements map[string][]schema.Achievement
	log          *logger.Logger
}

// NewFileStore creates dir if needed and loads every record in it.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	s := &FileStore{dir: dir, log: log}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads all record and achievement files into the index. Records
// scored under an older rubric are rescored and written back.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	companies, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.records = nil
			s.achievements = map[string][]schema.Achievement{}
			return nil
		}
		return fmt.Errorf("reading storage dir: %w", err)
	}

	var records []schema.Record
	achievements := make(map[string][]schema.Achievement)
	for _, c := range companies {
		if !c.IsDir() || ValidCompany(c.Name()) != nil {
			continue
		}
		companyDir := filepath.Join(s.dir, c.Name())
		files, err := os.ReadDir(companyDir)
		if err != nil {
			return fmt.Errorf("reading %s: %w", companyDir, err)
		}
		for _, f := range files {
			path := filepath.Join(companyDir, f.Name())
			switch {
			case f.Name() == achievementsFile:
				var list []schema.Achievement
				if err := readJSON(path, &list); err != nil {
					s.log.Warn("skipping corrupt achievements file", "path", path, "error", err)
					continue
				}
				achievements[c.Name()] = list
			case strings.HasSuffix(f.Name(), recordSuffix):
				var r schema.Record
				if err := readJSON(path, &r); err != nil {
					s.log.Warn("skipping corrupt record", "path", path, "error", err)
					continue
				}
				if Rescore(&r) {
					s.log.Info("rescored record", "company", r.CompanyID, "id", r.ID, "total", r.Scores.Total)
					if err := writeJSON(path, r); err != nil {
						return err
					}
				}
				records = append(records, r)
			}
		}
	}

	s.records = records
	s.achievements = achievements
	return nil
}

func (s *FileStore) recordPath(company, id string) string {
	return filepath.Join(s.dir, company, id+recordSuffix)
}

// Save writes r to disk and adds it to the index.
func (s *FileStore) Save(_ context.Context, r *schema.Record) error {
	if err := ValidCompany(r.CompanyID); err != nil {
		return err
	}
	if ValidCompany(r.ID) != nil {
		return fmt.Errorf("invalid record id %q", r.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Join(s.dir, r.CompanyID), 0o755); err != nil {
		return fmt.Errorf("creating company dir: %w", err)
	}
	if err := writeJSON(s.recordPath(r.CompanyID, r.ID), r); err != nil {
		return err
	}
	s.records = append(s.records, *r)
	return nil
}

// Get returns one record.
func (s *FileStore) Get(_ context.Context, company, id string) (*schema.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.CompanyID == company && r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, fmt.Errorf("record %s/%s: %w", company, id, ErrNotFound)
}

// List returns records matching opts.
func (s *FileStore) List(_ context.Context, opts ListOptions) ([]schema.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterRecords(s.records, opts), nil
}

// Achievements returns the achievements unlocked by company.
func (s *FileStore) Achievements(_ context.Context, company string) ([]schema.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]schema.Achievement(nil), s.achievements[company]...), nil
}

// Unlock adds achievements not yet unlocked by company.
func (s *FileStore) Unlock(_ context.Context, company string, add []schema.Achievement) error {
	if err := ValidCompany(company); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged, changed := mergeAchievements(s.achievements[company], add)
	if !changed {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(s.dir, company), 0o755); err != nil {
		return fmt.Errorf("creating company dir: %w", err)
	}
	if err := writeJSON(filepath.Join(s.dir, company, achievementsFile), merged); err != nil {
		return err
	}
	s.achievements[company] = merged
	return nil
}

func (s *FileStore) Close() error { return nil }

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// writeJSON replaces path atomically.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %s: %w", path, err)
	}
	return nil
}
