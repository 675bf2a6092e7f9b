// Package storage keeps search results and test suite history in a BadgerDB
// database. Everything in it can be recomputed, so by default it lives in the
// user's cache directory.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when no usable record exists for a key.
var ErrNotFound = errors.New("storage: not found")

// Key prefixes
const (
	prefixAnalysis = "analysis/"
	prefixSuite    = "suite/"
)

// Analysis is the stored outcome of one search.
type Analysis struct {
	FEN      string        `json:"fen"`
	Depth    int           `json:"depth"`
	Move     string        `json:"move"` // coordinate form
	Score    int           `json:"score"`
	PV       []string      `json:"pv"`
	Nodes    uint64        `json:"nodes"`
	Elapsed  time.Duration `json:"elapsed"`
	Strategy string        `json:"strategy"`
	SavedAt  time.Time     `json:"saved_at"`
}

// SuiteRun summarizes one pass over an EPD test suite.
type SuiteRun struct {
	Suite     string        `json:"suite"`
	Strategy  string        `json:"strategy"`
	MoveTime  time.Duration `json:"move_time"`
	Passed    int           `json:"passed"`
	Total     int           `json:"total"`
	Failed    []string      `json:"failed"` // ids of the positions that failed
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Percent returns the share of positions solved.
func (r *SuiteRun) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total) * 100
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens or creates the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}
	return &Storage{db: db}, nil
}

// DirEnv overrides the database directory chosen by DefaultDir.
const DirEnv = "ROTORCHESS_DB"

// DefaultDir returns the database directory, creating it if needed: $DirEnv
// when set, else rotorchess/analysis under the user cache directory.
func DefaultDir() (string, error) {
	dir := os.Getenv(DirEnv)
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("locate cache directory: %w", err)
		}
		dir = filepath.Join(cache, "rotorchess", "analysis")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create database directory: %w", err)
	}
	return dir, nil
}

// OpenDefault opens the database in DefaultDir.
func OpenDefault() (*Storage, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	log.Printf("[storage] database directory: %s", dir)
	return Open(dir)
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// positionKey drops the move counters so transposed games share a record.
func positionKey(fen string) []byte {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return []byte(prefixAnalysis + strings.Join(fields, " "))
}

// SaveAnalysis stores a, unless the record already held for the position
// comes from a deeper search.
func (s *Storage) SaveAnalysis(a *Analysis) error {
	if a.SavedAt.IsZero() {
		a.SavedAt = time.Now()
	}
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	key := positionKey(a.FEN)

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			var old Analysis
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &old) }); err != nil {
				return err
			}
			if old.Depth > a.Depth {
				return nil
			}
		}
		return txn.Set(key, data)
	})
}

// LoadAnalysis returns the stored analysis of fen if it reached at least
// minDepth, and ErrNotFound otherwise.
func (s *Storage) LoadAnalysis(fen string, minDepth int) (*Analysis, error) {
	var a Analysis
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(positionKey(fen))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &a)
		})
	})
	if err != nil {
		return nil, err
	}
	if a.Depth < minDepth {
		return nil, ErrNotFound
	}
	return &a, nil
}

func suitePrefix(suite string) []byte {
	return []byte(prefixSuite + suite + "/")
}

// RecordSuiteRun appends run to the history of its suite.
func (s *Storage) RecordSuiteRun(run *SuiteRun) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}
	// Big-endian timestamps keep the runs of a suite in time order.
	key := binary.BigEndian.AppendUint64(suitePrefix(run.Suite), uint64(run.StartedAt.UnixNano()))

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// SuiteRuns returns the recorded runs of suite, oldest first.
func (s *Storage) SuiteRuns(suite string) ([]SuiteRun, error) {
	var runs []SuiteRun
	prefix := suitePrefix(suite)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var run SuiteRun
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &run)
			}); err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return nil
	})
	return runs, err
}
