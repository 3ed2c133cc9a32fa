package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/rollwright/voterroll/constants"
	"github.com/rollwright/voterroll/internal/entity"
)

// SQLiteStore implements VoterStore over an embedded database. It backs the
// offline/local mode and tests; the table shape mirrors the Postgres store.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	ddl := strings.ReplaceAll(votersDDL, "timestamptz", "timestamp")
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap voters table: %w", err)
	}
	logger.Info("sqlite store ready", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) UpsertVoters(ctx context.Context, records []entity.VoterRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	// $10..$15 before $1..$9 so "$1" cannot shadow "$10".
	stmt := strings.NewReplacer(
		"$10", "?", "$11", "?", "$12", "?", "$13", "?", "$14", "?", "$15", "?",
		"$1", "?", "$2", "?", "$3", "?", "$4", "?", "$5", "?",
		"$6", "?", "$7", "?", "$8", "?", "$9", "?",
	).Replace(upsertSQL)
	for _, r := range records {
		if _, err := tx.ExecContext(ctx, stmt, upsertArgs(r)...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert voters: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) DeleteVoter(ctx context.Context, epicNo string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM voters WHERE epic_no = ?`, epicNo)
	if err != nil {
		return fmt.Errorf("delete voter: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM voters`)
	if err != nil {
		return fmt.Errorf("delete all voters: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListVoters(ctx context.Context) ([]entity.VoterRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+selectCols+` FROM voters ORDER BY last_updated DESC`)
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("rows close error", "error", err)
		}
	}()
	return scanSQLVoters(rows)
}

func (s *SQLiteStore) SearchVoters(ctx context.Context, query string) ([]entity.VoterRecord, error) {
	like := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+selectCols+` FROM voters
		 WHERE lower(name) LIKE ? OR lower(epic_no) LIKE ?
		 ORDER BY last_updated DESC
		 LIMIT ?`, like, like, constants.SearchResultCap)
	if err != nil {
		return nil, fmt.Errorf("search voters: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("rows close error", "error", err)
		}
	}()
	return scanSQLVoters(rows)
}

func scanSQLVoters(rows *sql.Rows) ([]entity.VoterRecord, error) {
	var out []entity.VoterRecord
	for rows.Next() {
		var r entity.VoterRecord
		var gender string
		if err := rows.Scan(
			&r.EpicNo, &r.Name, &r.Age, &gender, &r.ParentSpouseName,
			&r.AssemblyConstituency, &r.ParliamentaryConstituency, &r.District, &r.State,
			&r.PartNo, &r.PartName, &r.SerialNo,
			&r.PollingStation.Name, &r.PollingStation.Address, &r.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan voter: %w", err)
		}
		r.Gender = entity.Gender(gender)
		out = append(out, r)
	}
	return out, rows.Err()
}
