package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/twozhakes/internal/canon"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("evaluation not found")

// Evaluation is one journaled parse → operate → extract run.
type Evaluation struct {
	ID  string
	Seq int64

	// RecordedAt is the wall time in Unix milliseconds. It is informational;
	// history is ordered by Seq.
	RecordedAt int64

	// Source names what produced the record: a command or "recipe:<name>".
	Source string

	Zone         string
	Input        string
	InputInstant int64
	Steps        []string
	Extract      map[string]string
	Result       int64
	Digest       string
}

// ComputeDigest hashes the evaluation's content: zone, input, steps,
// extracted values and result. ID, Seq, RecordedAt and Source are excluded
// so identical evaluations share a digest.
func (e Evaluation) ComputeDigest() (string, error) {
	return canon.Digest(canon.DomainEvaluation, map[string]any{
		"zone":    e.Zone,
		"input":   e.Input,
		"instant": e.InputInstant,
		"steps":   nonNilSteps(e.Steps),
		"extract": nonNilExtract(e.Extract),
		"result":  e.Result,
	})
}

// Append journals e and returns it with ID, Seq and Digest filled in.
// An empty ID is generated; a record whose ID already exists is ignored.
func (s *Store) Append(ctx context.Context, e Evaluation) (Evaluation, error) {
	if e.ID == "" {
		e.ID = s.idgen.Generate()
	}
	digest, err := e.ComputeDigest()
	if err != nil {
		return e, fmt.Errorf("append evaluation: %w", err)
	}
	e.Digest = digest

	stepsJSON, err := canon.Marshal(nonNilSteps(e.Steps))
	if err != nil {
		return e, fmt.Errorf("append evaluation: %w", err)
	}
	extractJSON, err := canon.Marshal(nonNilExtract(e.Extract))
	if err != nil {
		return e, fmt.Errorf("append evaluation: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO evaluations
		(id, seq, recorded_at, source, zone, input, input_instant, steps, extract, result_instant, digest)
		SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?, ?, ?, ?, ?, ?
		FROM evaluations WHERE true
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.RecordedAt,
		e.Source,
		e.Zone,
		e.Input,
		e.InputInstant,
		string(stepsJSON),
		string(extractJSON),
		e.Result,
		e.Digest,
	)
	if err != nil {
		return e, fmt.Errorf("append evaluation: %w", err)
	}

	stored, err := s.Get(ctx, e.ID)
	if err != nil {
		return e, fmt.Errorf("append evaluation: %w", err)
	}
	return stored, nil
}

const selectEvaluation = `
	SELECT id, seq, recorded_at, source, zone, input, input_instant, steps, extract, result_instant, digest
	FROM evaluations
`

// Get returns the evaluation with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Evaluation, error) {
	evals, err := s.query(ctx, `WHERE id = ?`, id)
	if err != nil {
		return Evaluation{}, fmt.Errorf("get evaluation: %w", err)
	}
	if len(evals) == 0 {
		return Evaluation{}, fmt.Errorf("get evaluation %s: %w", id, ErrNotFound)
	}
	return evals[0], nil
}

// Recent returns up to limit evaluations, newest first. A limit of zero
// or less returns every evaluation.
func (s *Store) Recent(ctx context.Context, limit int) ([]Evaluation, error) {
	if limit <= 0 {
		limit = -1
	}
	evals, err := s.query(ctx, `
		ORDER BY seq DESC, id ASC COLLATE BINARY
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent evaluations: %w", err)
	}
	return evals, nil
}

// FindByDigest returns every evaluation with the given digest, oldest first.
func (s *Store) FindByDigest(ctx context.Context, digest string) ([]Evaluation, error) {
	evals, err := s.query(ctx, `
		WHERE digest = ?
		ORDER BY seq ASC, id ASC COLLATE BINARY
	`, digest)
	if err != nil {
		return nil, fmt.Errorf("find by digest: %w", err)
	}
	return evals, nil
}

// Count returns the number of journaled evaluations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM evaluations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count evaluations: %w", err)
	}
	return n, nil
}

// query runs selectEvaluation followed by clause and decodes every row.
func (s *Store) query(ctx context.Context, clause string, args ...any) ([]Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, selectEvaluation+clause, args...)
	if err != nil {
		return nil, err
	}
	return scanEvaluations(rows)
}

func scanEvaluations(rows *sql.Rows) ([]Evaluation, error) {
	defer rows.Close()

	var out []Evaluation
	for rows.Next() {
		var e Evaluation
		var steps, extract string
		if err := rows.Scan(
			&e.ID, &e.Seq, &e.RecordedAt, &e.Source, &e.Zone, &e.Input,
			&e.InputInstant, &steps, &extract, &e.Result, &e.Digest,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err := json.Unmarshal([]byte(steps), &e.Steps); err != nil {
			return nil, fmt.Errorf("decode steps of %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(extract), &e.Extract); err != nil {
			return nil, fmt.Errorf("decode extract of %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}

func nonNilSteps(steps []string) []string {
	if steps == nil {
		return []string{}
	}
	return steps
}

func nonNilExtract(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
