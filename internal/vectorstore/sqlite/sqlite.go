package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"kgram/internal/domain"
	"kgram/internal/vectorstore"
)

// Storage keeps the vectors of one run in a SQLite database. Several runs
// can share a file; each is keyed by its run id.
type Storage struct {
	db        *sql.DB
	runID     string
	dimension int
}

type Config struct {
	Path string
	// RunID selects the run; empty generates a new one.
	RunID string
}

// NewStorage opens (creating if needed) the database at cfg.Path.
func NewStorage(cfg Config) (*Storage, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite: path is required")
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", cfg.Path, err)
	}
	// one connection keeps :memory: databases coherent
	db.SetMaxOpenConns(1)
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Storage{db: db, runID: runID}, nil
}

// RunID identifies this run's rows.
func (s *Storage) RunID() string { return s.runID }

func (s *Storage) Init(dimension int) error {
	if dimension < 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	_, err := s.db.Exec(
		`INSERT INTO runs(id, created_at, dimension) VALUES(?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET dimension = excluded.dimension`,
		s.runID, time.Now().UTC().Format(time.RFC3339), dimension)
	if err != nil {
		return fmt.Errorf("sqlite: init run %s: %w", s.runID, err)
	}
	return nil
}

func (s *Storage) Upsert(docs []domain.DocumentVector) error {
	for _, d := range docs {
		if len(d.Vector) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	return s.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO documents(run_id, id, position, ones, vector) VALUES(?, ?, ?, ?, ?)
			ON CONFLICT(run_id, id) DO UPDATE SET position = excluded.position, ones = excluded.ones, vector = excluded.vector`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, d := range docs {
			if _, err := stmt.Exec(s.runID, d.DocumentID, d.Position, d.Vector.Ones(), EncodeVector(d.Vector)); err != nil {
				return fmt.Errorf("sqlite: upsert %s: %w", d.DocumentID, err)
			}
		}
		return nil
	})
}

// WriteVocabulary stores the column k-grams of this run.
func (s *Storage) WriteVocabulary(terms []string) error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM vocabulary WHERE run_id = ?`, s.runID); err != nil {
			return err
		}
		stmt, err := tx.Prepare(`INSERT INTO vocabulary(run_id, idx, kgram) VALUES(?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, g := range terms {
			if _, err := stmt.Exec(s.runID, i, g); err != nil {
				return fmt.Errorf("sqlite: vocabulary %d: %w", i, err)
			}
		}
		return nil
	})
}

// Vocabulary returns this run's k-grams in column order.
func (s *Storage) Vocabulary() ([]string, error) {
	rows, err := s.db.Query(`SELECT kgram FROM vocabulary WHERE run_id = ? ORDER BY idx`, s.runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var terms []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		terms = append(terms, g)
	}
	return terms, rows.Err()
}

// Documents returns this run's rows in matrix order.
func (s *Storage) Documents() ([]domain.DocumentVector, error) {
	rows, err := s.db.Query(`SELECT id, position, vector FROM documents WHERE run_id = ? ORDER BY position`, s.runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []domain.DocumentVector
	for rows.Next() {
		var (
			d    domain.DocumentVector
			blob []byte
		)
		if err := rows.Scan(&d.DocumentID, &d.Position, &blob); err != nil {
			return nil, err
		}
		v, err := DecodeVector(blob, s.dimension)
		if err != nil {
			return nil, err
		}
		d.Vector = v
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Storage) Search(vector domain.Vector, topK int) ([]domain.SearchResult, error) {
	docs, err := s.Documents()
	if err != nil {
		return nil, err
	}
	return vectorstore.TopK(docs, vector, topK), nil
}

// Clear drops this run's documents and vocabulary.
func (s *Storage) Clear() error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM documents WHERE run_id = ?`, s.runID); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM vocabulary WHERE run_id = ?`, s.runID)
		return err
	})
}

func (s *Storage) Close() error { return s.db.Close() }

func (s *Storage) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
