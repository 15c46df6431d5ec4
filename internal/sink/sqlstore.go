package sink

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/classifier"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

var pairColumns = []string{
	"run_id", "seq", "child_id", "parent_id", "outcome", "hops",
	"source_synset", "target_synset", "path", "child_synsets", "parent_synsets",
}

type txClient interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}

// SQLStore persists runs and their pair results. The same schema and
// statements serve PostgreSQL and SQLite; only the placeholder format and the
// migration dialect differ.
type SQLStore struct {
	name      string
	db        *sql.DB
	client    txClient
	dialect   goose.Dialect
	sq        squirrel.StatementBuilderType
	batchSize int
	logger    *slog.Logger
}

func NewPostgresStore(c *postgres.Client, batchSize int) *SQLStore {
	return newSQLStore("postgres", c.DB, c, goose.DialectPostgres, squirrel.Dollar, batchSize)
}

func NewSQLiteStore(c *sqlite.Client, batchSize int) *SQLStore {
	return newSQLStore("sqlite", c.DB, c, goose.DialectSQLite3, squirrel.Question, batchSize)
}

func newSQLStore(name string, db *sql.DB, c txClient, dialect goose.Dialect, ph squirrel.PlaceholderFormat, batchSize int) *SQLStore {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &SQLStore{
		name:      name,
		db:        db,
		client:    c,
		dialect:   dialect,
		sq:        squirrel.StatementBuilder.PlaceholderFormat(ph),
		batchSize: batchSize,
		logger:    logger.WithComponent("sql-store").With("sink", name),
	}
}

func (s *SQLStore) Name() string { return s.name }

func (s *SQLStore) Ping(ctx context.Context) error { return s.client.Ping(ctx) }

func (s *SQLStore) Close() error { return s.client.Close() }

// Migrate applies the embedded schema migrations.
func (s *SQLStore) Migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}
	provider, err := goose.NewProvider(s.dialect, s.db, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	if len(results) > 0 {
		s.logger.Info("schema migrated", "applied", len(results))
	}
	return nil
}

// Publish writes the run row and every pair result in one transaction. Pair
// rows go out in multi-row inserts of batchSize.
func (s *SQLStore) Publish(ctx context.Context, run *Run) error {
	return s.client.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.insertRun(ctx, tx, run); err != nil {
			return err
		}
		for start := 0; start < len(run.Results); start += s.batchSize {
			end := min(start+s.batchSize, len(run.Results))
			if err := s.insertPairs(ctx, tx, run.ID, start, run.Results[start:end]); err != nil {
				return err
			}
		}
		s.logger.Debug("run stored", "run_id", run.ID, "pairs", len(run.Results))
		return nil
	})
}

func (s *SQLStore) insertRun(ctx context.Context, tx *sql.Tx, run *Run) error {
	sum := run.Summary
	query, args, err := s.sq.Insert("comparison_runs").
		Columns("run_id", "started_at", "finished_at", "max_hops", "total_pairs",
			"agree", "disagree", "partial_child", "partial_parent", "unmatchable", "average_hops").
		Values(run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), sum.MaxHops, sum.Total,
			sum.Count(classifier.Agree), sum.Count(classifier.Disagree),
			sum.Count(classifier.PartialChildOnly), sum.Count(classifier.PartialParentOnly),
			sum.Count(classifier.Unmatchable), sum.AverageHops()).
		ToSql()
	if err != nil {
		return fmt.Errorf("building run insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	return nil
}

func (s *SQLStore) insertPairs(ctx context.Context, tx *sql.Tx, runID string, offset int, results []classifier.PairResult) error {
	insert := s.sq.Insert("pair_results").Columns(pairColumns...)
	for i, r := range results {
		rec := NewPairRecord(runID, offset+i, r)
		var hops, source, target, path any
		if rec.Hops != nil {
			encoded, err := json.Marshal(rec.Path)
			if err != nil {
				return fmt.Errorf("encoding path: %w", err)
			}
			hops, source, target, path = *rec.Hops, rec.Source, rec.Target, string(encoded)
		}
		insert = insert.Values(rec.RunID, rec.Seq, rec.Child, rec.Parent, rec.Outcome,
			hops, source, target, path, rec.ChildSynsets, rec.ParentSynsets)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("building pair insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting pairs %d-%d: %w", offset, offset+len(results)-1, err)
	}
	return nil
}

// RunRecord is a stored run row.
type RunRecord struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	MaxHops     int
	Total       int
	Counts      map[classifier.Outcome]int
	AverageHops float64
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	q := s.sq.Select("run_id", "started_at", "finished_at", "max_hops", "total_pairs",
		"agree", "disagree", "partial_child", "partial_parent", "unmatchable", "average_hops").
		From("comparison_runs").
		OrderBy("finished_at DESC", "run_id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building run query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			r                                   RunRecord
			agree, disagree, child, parent, unm int
		)
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.MaxHops, &r.Total,
			&agree, &disagree, &child, &parent, &unm, &r.AverageHops); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Counts = map[classifier.Outcome]int{
			classifier.Agree:             agree,
			classifier.Disagree:          disagree,
			classifier.PartialChildOnly:  child,
			classifier.PartialParentOnly: parent,
			classifier.Unmatchable:       unm,
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// PairRecords returns the stored results of a run in input order, optionally
// restricted to one outcome.
func (s *SQLStore) PairRecords(ctx context.Context, runID string, outcome *classifier.Outcome) ([]PairRecord, error) {
	where := squirrel.Eq{"run_id": runID}
	if outcome != nil {
		where["outcome"] = outcome.String()
	}
	query, args, err := s.sq.Select(pairColumns...).
		From("pair_results").
		Where(where).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building pair query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pairs of %s: %w", runID, err)
	}
	defer rows.Close()

	var out []PairRecord
	for rows.Next() {
		var (
			rec                  PairRecord
			hops                 sql.NullInt64
			source, target, path sql.NullString
		)
		if err := rows.Scan(&rec.RunID, &rec.Seq, &rec.Child, &rec.Parent, &rec.Outcome, &hops,
			&source, &target, &path, &rec.ChildSynsets, &rec.ParentSynsets); err != nil {
			return nil, fmt.Errorf("scanning pair: %w", err)
		}
		if hops.Valid {
			h := int(hops.Int64)
			rec.Hops = &h
			rec.Source = source.String
			rec.Target = target.String
			if err := json.Unmarshal([]byte(path.String), &rec.Path); err != nil {
				return nil, fmt.Errorf("decoding path of pair %d: %w", rec.Seq, err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
