// Package archive publishes reproducibility bundles: the report and its
// metadata go to a blob store as JSON, and one row per run goes to a
// SQLite index so runs can be listed and fetched back by id.
package archive

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/katalvlaran/fbctest/archive/blob"
	"github.com/katalvlaran/fbctest/config"
	"github.com/katalvlaran/fbctest/frog"
	"github.com/katalvlaran/fbctest/logging"
)

// Sentinel errors.
var (
	ErrNilStore = errors.New("archive: nil blob store")
	ErrNotFound = errors.New("archive: run not found")
)

const (
	reportName   = "report.json"
	metadataName = "metadata.json"
	runsPrefix   = "runs/"
	contentJSON  = "application/json"

	// fixed width so that text order is time order
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

const schema = `CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	model_filename TEXT NOT NULL,
	model_md5      TEXT NOT NULL,
	created_at     TEXT NOT NULL,
	report_key     TEXT NOT NULL,
	metadata_key   TEXT NOT NULL
)`

// Run is one indexed bundle.
type Run struct {
	ID            string    `json:"id"`
	ModelFilename string    `json:"model_filename"`
	ModelMD5      string    `json:"model_md5"`
	CreatedAt     time.Time `json:"created_at"`
	ReportKey     string    `json:"report_key"`
	MetadataKey   string    `json:"metadata_key"`
}

// Archive pairs the run index with a blob store.
type Archive struct {
	db     *sql.DB
	store  blob.Store
	logger *zap.Logger
	now    func() time.Time
}

// Option configures an Archive.
type Option func(*Archive)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Archive) { a.logger = logging.OrNop(l) }
}

// WithClock replaces time.Now for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Archive) {
		if now != nil {
			a.now = now
		}
	}
}

// New opens (creating if needed) the SQLite index at dbPath and binds it
// to store.
func New(dbPath string, store blob.Store, opts ...Option) (*Archive, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("archive: create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("archive: open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive: create runs table: %w", err)
	}

	a := &Archive{db: db, store: store, logger: zap.NewNop(), now: time.Now}
	for _, fn := range opts {
		fn(a)
	}

	return a, nil
}

// Open builds the blob store and the index described by cfg.
func Open(ctx context.Context, cfg config.ArchiveConfig, opts ...Option) (*Archive, error) {
	store, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		return nil, err
	}

	return New(cfg.Database, store, opts...)
}

// Close releases the index.
func (a *Archive) Close() error { return a.db.Close() }

// Put stores one bundle under a fresh run id.
//
// Implementation:
//   - Stage 1: encode report and metadata as JSON.
//   - Stage 2: write both payloads under runs/<id>/.
//   - Stage 3: insert the run row; on failure the payloads are removed.
func (a *Archive) Put(ctx context.Context, d frog.ReportData, md frog.Metadata) (Run, error) {
	var rep, meta bytes.Buffer
	if err := frog.WriteReport(&rep, d); err != nil {
		return Run{}, err
	}
	if err := frog.WriteMetadata(&meta, md); err != nil {
		return Run{}, err
	}

	id := uuid.NewString()
	run := Run{
		ID:            id,
		ModelFilename: md[frog.KeyModelFilename],
		ModelMD5:      md[frog.KeyModelMD5],
		CreatedAt:     a.now().UTC(),
		ReportKey:     runsPrefix + id + "/" + reportName,
		MetadataKey:   runsPrefix + id + "/" + metadataName,
	}
	putOpts := blob.PutOptions{ContentType: contentJSON, Metadata: map[string]string{"run": id}}
	if _, err := a.store.Put(ctx, run.ReportKey, &rep, putOpts); err != nil {
		return Run{}, fmt.Errorf("archive: store report: %w", err)
	}
	if _, err := a.store.Put(ctx, run.MetadataKey, &meta, putOpts); err != nil {
		a.discard(ctx, run.ReportKey)
		return Run{}, fmt.Errorf("archive: store metadata: %w", err)
	}

	_, err := a.db.ExecContext(ctx,
		`INSERT INTO runs (id, model_filename, model_md5, created_at, report_key, metadata_key) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.ModelFilename, run.ModelMD5, run.CreatedAt.Format(timeLayout), run.ReportKey, run.MetadataKey)
	if err != nil {
		a.discard(ctx, run.ReportKey)
		a.discard(ctx, run.MetadataKey)
		return Run{}, fmt.Errorf("archive: insert run: %w", err)
	}
	a.logger.Info("archived run",
		zap.String("id", run.ID),
		zap.String("model", run.ModelFilename),
		zap.String("driver", string(a.store.Driver())))

	return run, nil
}

// PutDir archives a report directory written by frog.WriteDir.
func (a *Archive) PutDir(ctx context.Context, dir string) (Run, error) {
	d, md, err := frog.ReadDir(dir)
	if err != nil {
		return Run{}, err
	}

	return a.Put(ctx, d, md)
}

// List returns every run, oldest first. A non-empty md5 restricts the
// list to runs of that model file.
func (a *Archive) List(ctx context.Context, md5 string) ([]Run, error) {
	query := `SELECT id, model_filename, model_md5, created_at, report_key, metadata_key FROM runs`
	var args []any
	if md5 != "" {
		query += ` WHERE model_md5 = ?`
		args = append(args, md5)
	}
	query += ` ORDER BY created_at, id`

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("archive: select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: select runs: %w", err)
	}

	return runs, nil
}

// Get returns the index row of run id.
// Errors: ErrNotFound.
func (a *Archive) Get(ctx context.Context, id string) (Run, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT id, model_filename, model_md5, created_at, report_key, metadata_key FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return r, err
}

// Fetch loads the report and metadata of run id.
// Errors: ErrNotFound, blob errors, frog.ErrFormat.
func (a *Archive) Fetch(ctx context.Context, id string) (frog.ReportData, frog.Metadata, error) {
	run, err := a.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	_, rc, err := a.store.Get(ctx, run.ReportKey)
	if err != nil {
		return nil, nil, fmt.Errorf("archive: fetch report: %w", err)
	}
	d, err := frog.ReadReport(rc)
	_ = rc.Close()
	if err != nil {
		return nil, nil, err
	}

	_, rc, err = a.store.Get(ctx, run.MetadataKey)
	if err != nil {
		return nil, nil, fmt.Errorf("archive: fetch metadata: %w", err)
	}
	md, err := frog.ReadMetadata(rc)
	_ = rc.Close()
	if err != nil {
		return nil, nil, err
	}

	return d, md, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r       Run
		created string
	)
	if err := s.Scan(&r.ID, &r.ModelFilename, &r.ModelMD5, &created, &r.ReportKey, &r.MetadataKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("archive: scan run: %w", err)
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("archive: run %s created_at: %w", r.ID, err)
	}
	r.CreatedAt = t

	return r, nil
}

func (a *Archive) discard(ctx context.Context, key string) {
	if _, err := a.store.Delete(ctx, key); err != nil {
		a.logger.Warn("discard blob", zap.String("key", key), zap.Error(err))
	}
}
