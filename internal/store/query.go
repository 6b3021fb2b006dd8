// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/dataset-review/internal/filter"
	"github.com/pdiddy/dataset-review/pkg/types"
)

// RunSummary describes one stored run.
type RunSummary struct {
	ID        int64     `json:"id" yaml:"id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Input     string    `json:"input" yaml:"input"`
	Initial   int       `json:"initial" yaml:"initial"`
	Final     int       `json:"final" yaml:"final"`
}

// ListRuns returns the most recent runs first. A non-positive limit uses the
// store default.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.started_at, r.input,
			COALESCE((SELECT f.count FROM funnel f WHERE f.run_id = r.id ORDER BY position ASC LIMIT 1), 0),
			COALESCE((SELECT f.count FROM funnel f WHERE f.run_id = r.id ORDER BY position DESC LIMIT 1), 0)
		 FROM runs r
		 ORDER BY r.id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rs      RunSummary
			started string
		)
		if err := rows.Scan(&rs.ID, &started, &rs.Input, &rs.Initial, &rs.Final); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rs.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		out = append(out, rs)
	}
	return out, rows.Err()
}

// LatestRunID returns the ID of the most recent run.
func (s *Store) LatestRunID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("no runs recorded")
	}
	if err != nil {
		return 0, fmt.Errorf("looking up latest run: %w", err)
	}
	return id, nil
}

// Funnel returns the stage counts of a run in pipeline order.
func (s *Store) Funnel(ctx context.Context, runID int64) ([]filter.StageCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage, count FROM funnel WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying funnel: %w", err)
	}
	defer rows.Close()

	var out []filter.StageCount
	for rows.Next() {
		var sc filter.StageCount
		if err := rows.Scan(&sc.Stage, &sc.Count); err != nil {
			return nil, fmt.Errorf("scanning funnel: %w", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	return out, nil
}

// PaperQuery selects stored papers of one run.
type PaperQuery struct {
	RunID int64

	// Stage keeps papers that survived the named stage. Empty keeps all.
	Stage string

	// Task and Platform keep papers carrying the tag.
	Task     string
	Platform string

	Language     string
	Availability types.Availability

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// StoredPaper is a paper with the last funnel stage it survived.
type StoredPaper struct {
	types.Paper
	Stage string `json:"stage" yaml:"stage"`
}

// Papers returns the papers of a run matching q, ordered by paper ID.
func (s *Store) Papers(ctx context.Context, q PaperQuery) ([]StoredPaper, error) {
	limit := q.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT p.paper_id, p.title, p.authors, p.year, p.primary_language, p.source_ids,
			p.original, p.tasks, p.platforms, p.annotation_style, p.annotation_level,
			p.availability, p.n_documents, p.n_individuals, p.n_conversations, f.stage
		 FROM papers p
		 JOIN funnel f ON f.run_id = p.run_id AND f.position = p.survived
		 WHERE p.run_id = ?`)
	args = append(args, q.RunID)

	if q.Stage != "" {
		pos, err := s.stagePosition(ctx, q.RunID, q.Stage)
		if err != nil {
			return nil, err
		}
		qb.WriteString(` AND p.survived >= ?`)
		args = append(args, pos)
	}
	if q.Task != "" {
		qb.WriteString(` AND p.tasks != 'na' AND EXISTS (SELECT 1 FROM json_each(p.tasks) WHERE value = ?)`)
		args = append(args, q.Task)
	}
	if q.Platform != "" {
		qb.WriteString(` AND p.platforms != 'na' AND EXISTS (SELECT 1 FROM json_each(p.platforms) WHERE value = ?)`)
		args = append(args, q.Platform)
	}
	if q.Language != "" {
		qb.WriteString(` AND p.primary_language = ?`)
		args = append(args, q.Language)
	}
	if q.Availability != "" {
		qb.WriteString(` AND p.availability = ?`)
		args = append(args, string(q.Availability))
	}
	qb.WriteString(` ORDER BY p.paper_id LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var out []StoredPaper
	for rows.Next() {
		var (
			sp                       StoredPaper
			authorsJSON, sourcesJSON string
			tasks, platforms, styles sql.NullString
			nDocs, nInds, nConvs     sql.NullString
			level, availability      string
		)
		if err := rows.Scan(
			&sp.ID, &sp.Title, &authorsJSON, &sp.Year, &sp.PrimaryLanguage, &sourcesJSON,
			&sp.Original, &tasks, &platforms, &styles, &level,
			&availability, &nDocs, &nInds, &nConvs, &sp.Stage,
		); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &sp.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors of paper %d: %w", sp.ID, err)
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &sp.SourceIDs); err != nil {
			return nil, fmt.Errorf("decoding sources of paper %d: %w", sp.ID, err)
		}
		sp.AnnotationLevel = types.AnnotationLevel(level)
		sp.Availability = types.Availability(availability)

		if sp.Tasks, err = decodeTags(tasks); err != nil {
			return nil, err
		}
		if sp.Platforms, err = decodeTags(platforms); err != nil {
			return nil, err
		}
		if sp.AnnotationStyle, err = decodeTags(styles); err != nil {
			return nil, err
		}
		if sp.NDocuments, err = decodeSize(nDocs); err != nil {
			return nil, err
		}
		if sp.NIndividuals, err = decodeSize(nInds); err != nil {
			return nil, err
		}
		if sp.NConversations, err = decodeSize(nConvs); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (s *Store) stagePosition(ctx context.Context, runID int64, stage string) (int, error) {
	var pos int
	err := s.db.QueryRowContext(ctx,
		`SELECT position FROM funnel WHERE run_id = ? AND stage = ?`, runID, stage).Scan(&pos)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("stage %q not found in run %d", stage, runID)
	}
	if err != nil {
		return 0, fmt.Errorf("looking up stage %q: %w", stage, err)
	}
	return pos, nil
}
