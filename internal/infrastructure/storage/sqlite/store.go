// Package sqlite persists the record list in a SQLite key-value table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"labelkit/internal/domain/labels"
	"labelkit/internal/infrastructure/storage/snapshot"
	"labelkit/pkg/logger"
)

// Codec names the encoding of a stored value.
type Codec string

const (
	CodecNone Codec = "none"
	CodecZstd Codec = "zstd"
)

// DefaultCompressThreshold is the payload size above which values are compressed.
const DefaultCompressThreshold = 4 * 1024

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	codec      TEXT NOT NULL DEFAULT 'none',
	updated_at INTEGER NOT NULL
)`

// Store keeps the snapshot under a single row of the kv table.
type Store struct {
	db                *sql.DB
	key               string
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
	log               *logger.Logger
}

var _ labels.Repository = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithCompressThreshold sets the compression threshold in bytes.
func WithCompressThreshold(n int) Option {
	return func(s *Store) { s.compressThreshold = n }
}

// WithKey overrides the row key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(ctx context.Context, path string, log *logger.Logger, opts ...Option) (*Store, error) {
	if log == nil {
		log = logger.Default()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// single writer; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	s := &Store{
		db:                db,
		key:               snapshot.Key,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: DefaultCompressThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = log.WithComponent("sqlite_store").With("path", path, "key", s.key)
	return s, nil
}

// LoadAll reads the stored list. A missing row is an empty list; an
// undecodable payload is logged and treated as empty.
func (s *Store) LoadAll(ctx context.Context) ([]labels.Record, error) {
	var (
		value []byte
		codec Codec
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, codec FROM kv WHERE key = ?`, s.key,
	).Scan(&value, &codec)
	if errors.Is(err, sql.ErrNoRows) {
		return []labels.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", s.key, err)
	}

	if codec == CodecZstd {
		value, err = s.decoder.DecodeAll(value, nil)
		if err != nil {
			s.log.WithContext(ctx).Warnw("stored labels undecompressable, starting empty", "error", err)
			return []labels.Record{}, nil
		}
	}

	records, err := snapshot.Decode(value)
	if err != nil {
		s.log.WithContext(ctx).Warnw("stored labels unreadable, starting empty", "error", err)
		return []labels.Record{}, nil
	}
	return records, nil
}

// SaveAll replaces the stored list in one statement.
func (s *Store) SaveAll(ctx context.Context, records []labels.Record) error {
	value, err := snapshot.Encode(records)
	if err != nil {
		return err
	}

	codec := CodecNone
	if len(value) > s.compressThreshold {
		value = s.encoder.EncodeAll(value, nil)
		codec = CodecZstd
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, codec, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			codec = excluded.codec,
			updated_at = excluded.updated_at`,
		s.key, value, string(codec), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", s.key, err)
	}

	s.log.WithContext(ctx).Debugw("labels saved", "records", len(records), "codec", codec, "bytes", len(value))
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the codec and the database handle.
func (s *Store) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}
