package wire

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"

	_ "modernc.org/sqlite"
)

// Cache memoizes a source text's compiled Envelope (AST + input types)
// keyed by its content hash, so a host that re-parses the same script
// repeatedly (a hot request-mapping expression, say) can skip the
// parse/infer/extract pipeline on a hit. A miss reports ok=false with a
// nil error; a database or decoding failure (including use after Close)
// is returned as an error. Cache never compiles anything itself.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if absent) a SQLite-backed cache at path.
// An in-memory cache can be had with path ":memory:".
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS envelopes (
		source_hash TEXT PRIMARY KEY,
		envelope    BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

func hashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached Envelope for source, if present.
func (c *Cache) Get(source string) (*Envelope, bool, error) {
	var data []byte
	err := c.db.QueryRow(`SELECT envelope FROM envelopes WHERE source_hash = ?`, hashSource(source)).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	env, err := UnmarshalEnvelope(data)
	if err != nil {
		return nil, false, err
	}
	return env, true, nil
}

// Put stores env under source's content hash, replacing any prior entry.
func (c *Cache) Put(source string, env *Envelope) error {
	data, err := MarshalEnvelope(env)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(
		`INSERT INTO envelopes (source_hash, envelope) VALUES (?, ?)
		 ON CONFLICT(source_hash) DO UPDATE SET envelope = excluded.envelope`,
		hashSource(source), data,
	)
	return err
}
