package sink

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/limaJavier/lzcup/pkg/logger"

	_ "github.com/lib/pq"
)

const createTable = `
	CREATE TABLE IF NOT EXISTS solve_records (
		id          UUID PRIMARY KEY,
		session_id  UUID NOT NULL,
		timestamp   TEXT NOT NULL,
		run_name    TEXT NOT NULL,
		instance    INTEGER NOT NULL,
		rmax        INTEGER NOT NULL,
		m           INTEGER NOT NULL,
		threads     INTEGER NOT NULL,
		config      TEXT NOT NULL,
		heuristic   BOOLEAN NOT NULL,
		timeout     INTEGER NOT NULL,
		model       INTEGER NOT NULL,
		time        DOUBLE PRECISION NOT NULL,
		opt1        INTEGER NOT NULL,
		opt2        INTEGER NOT NULL,
		score       INTEGER NOT NULL,
		schedule    TEXT NOT NULL,
		close_games TEXT NOT NULL,
		optimal     BOOLEAN NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)
`

const insertRecord = `
	INSERT INTO solve_records (
		id, session_id, timestamp, run_name, instance, rmax, m, threads, config, heuristic,
		timeout, model, time, opt1, opt2, score, schedule, close_games, optimal, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
`

// DB is the subset of *sql.DB the Postgres sink needs.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PostgresSink inserts every record into the solve_records table.
type PostgresSink struct {
	db    DB
	owned *sql.DB
}

// OpenPostgres connects to dsn and prepares the table.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, apperrors.IOFailure(err, "postgres")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, apperrors.IOFailure(err, "postgres")
	}

	sink, err := NewPostgresSink(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	sink.owned = db

	logger.Info().Msg("postgres sink connected")
	return sink, nil
}

// NewPostgresSink uses an existing connection. The caller keeps ownership of db.
func NewPostgresSink(ctx context.Context, db DB) (*PostgresSink, error) {
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return nil, apperrors.IOFailure(err, "postgres")
	}
	return &PostgresSink{db: db}, nil
}

func (sink *PostgresSink) Write(ctx context.Context, record Record) error {
	_, err := sink.db.ExecContext(ctx, insertRecord,
		uuid.New(), record.Session, record.Timestamp, record.RunName, record.Instance,
		record.Rmax, record.M, record.Threads, record.Config, record.Heuristic,
		record.Timeout, record.Model, record.Time, record.Opt1, record.Opt2,
		record.Score, record.Schedule, record.CloseGames, record.Optimal, time.Now(),
	)
	if err != nil {
		return apperrors.IOFailure(err, "postgres").WithField("model", record.Model)
	}
	return nil
}

func (sink *PostgresSink) Close() error {
	if sink.owned == nil {
		return nil
	}
	if err := sink.owned.Close(); err != nil {
		return apperrors.IOFailure(err, "postgres")
	}
	return nil
}
