// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps a SQLite history of pipeline runs: the configuration,
// the funnel, and every normalized paper with the last stage it survived.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-review/internal/filter"
	"github.com/pdiddy/dataset-review/internal/provenance"
	"github.com/pdiddy/dataset-review/pkg/types"
)

const dbFile = "review.db"

// Store manages the run history database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at cfg.Dir/review.db and creates
// the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			input TEXT NOT NULL,
			config TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS funnel (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			stage TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			paper_id INTEGER NOT NULL,
			title TEXT,
			authors TEXT,
			year INTEGER,
			primary_language TEXT,
			source_ids TEXT,
			original INTEGER,
			tasks TEXT,
			platforms TEXT,
			annotation_style TEXT,
			annotation_level TEXT,
			availability TEXT,
			n_documents TEXT,
			n_individuals TEXT,
			n_conversations TEXT,
			survived INTEGER NOT NULL,
			PRIMARY KEY (run_id, paper_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_survived ON papers(run_id, survived)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is one pipeline execution to be recorded.
type Run struct {
	StartedAt time.Time
	Input     string
	Config    types.PipelineConfig
	Result    filter.Result
}

// RecordRun stores run and returns its ID. Every paper of the initial
// snapshot is stored once, in the form it had in the last stage it
// survived, together with that stage's funnel position. The original flag
// is derived from the paper's sources, not taken from the record.
func (s *Store) RecordRun(ctx context.Context, run Run) (int64, error) {
	cfgYAML, err := yaml.Marshal(run.Config)
	if err != nil {
		return 0, fmt.Errorf("marshaling config: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, input, config) VALUES (?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano), run.Input, string(cfgYAML),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	latest := make(map[int]types.Paper)
	survived := make(map[int]int)
	var order []int
	for pos, sc := range run.Result.Funnel {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO funnel (run_id, position, stage, count) VALUES (?, ?, ?, ?)`,
			runID, pos, sc.Stage, sc.Count,
		); err != nil {
			return 0, fmt.Errorf("inserting funnel stage %s: %w", sc.Stage, err)
		}
		snapshot, _ := run.Result.Snapshot(sc.Stage)
		for _, p := range snapshot {
			if pos == 0 {
				order = append(order, p.ID)
			}
			latest[p.ID] = p
			survived[p.ID] = pos
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (run_id, paper_id, title, authors, year, primary_language,
			source_ids, original, tasks, platforms, annotation_style, annotation_level,
			availability, n_documents, n_individuals, n_conversations, survived)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range order {
		p := latest[id]
		authorsJSON, err := json.Marshal(p.Authors)
		if err != nil {
			return 0, fmt.Errorf("encoding authors of paper %d: %w", p.ID, err)
		}
		sourcesJSON, err := json.Marshal(p.SourceIDs)
		if err != nil {
			return 0, fmt.Errorf("encoding sources of paper %d: %w", p.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			runID, p.ID, p.Title, string(authorsJSON), p.Year, p.PrimaryLanguage,
			string(sourcesJSON), provenance.IsOriginal(p),
			encodeTags(p.Tasks), encodeTags(p.Platforms), encodeTags(p.AnnotationStyle),
			string(p.AnnotationLevel), string(p.Availability),
			encodeSize(p.NDocuments), encodeSize(p.NIndividuals), encodeSize(p.NConversations),
			survived[id],
		)
		if err != nil {
			return 0, fmt.Errorf("inserting paper %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Delete removes a run with its funnel and papers.
func (s *Store) Delete(ctx context.Context, runID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("deleting run %d: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %d not found", runID)
	}
	return nil
}
