package sqlite

import (
	"database/sql"
	"fmt"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	dimension  INTEGER NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS documents (
	run_id   TEXT NOT NULL,
	id       TEXT NOT NULL,
	position INTEGER NOT NULL,
	ones     INTEGER NOT NULL,
	vector   BLOB NOT NULL,
	PRIMARY KEY (run_id, id)
)`, `
CREATE TABLE IF NOT EXISTS vocabulary (
	run_id TEXT NOT NULL,
	idx    INTEGER NOT NULL,
	kgram  TEXT NOT NULL,
	PRIMARY KEY (run_id, idx)
)`}

// EnsureSchema creates the run, document and vocabulary tables if missing.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite: ensure schema: %w", err)
		}
	}
	return nil
}

// EncodeVector packs a presence vector eight positions per byte, lowest
// position in the least significant bit.
func EncodeVector(v []uint8) []byte {
	out := make([]byte, (len(v)+7)/8)
	for i, b := range v {
		if b != 0 {
			out[i/8] |= 1 << (i % 8)
		}
	}
	return out
}

// DecodeVector unpacks dimension positions from b.
func DecodeVector(b []byte, dimension int) ([]uint8, error) {
	if len(b) != (dimension+7)/8 {
		return nil, fmt.Errorf("sqlite: vector blob has %d bytes, want %d", len(b), (dimension+7)/8)
	}
	out := make([]uint8, dimension)
	for i := range out {
		out[i] = (b[i/8] >> (i % 8)) & 1
	}
	return out, nil
}
