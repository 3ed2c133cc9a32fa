package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rollwright/voterroll/constants"
	"github.com/rollwright/voterroll/internal/entity"
)

const votersDDL = `
CREATE TABLE IF NOT EXISTS voters (
	epic_no                    text PRIMARY KEY,
	name                       text NOT NULL,
	age                        integer NOT NULL DEFAULT 0,
	gender                     text NOT NULL DEFAULT 'M',
	parent_spouse_name         text NOT NULL DEFAULT '',
	assembly_constituency      text NOT NULL DEFAULT '',
	parliamentary_constituency text NOT NULL DEFAULT '',
	district                   text NOT NULL DEFAULT '',
	state                      text NOT NULL DEFAULT '',
	part_no                    text NOT NULL DEFAULT '',
	part_name                  text NOT NULL DEFAULT '',
	serial_no                  text NOT NULL DEFAULT '',
	station_name               text NOT NULL DEFAULT '',
	station_address            text NOT NULL DEFAULT '',
	last_updated               timestamptz NOT NULL
)`

const upsertSQL = `
INSERT INTO voters (
	epic_no, name, age, gender, parent_spouse_name,
	assembly_constituency, parliamentary_constituency, district, state,
	part_no, part_name, serial_no, station_name, station_address, last_updated
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
ON CONFLICT (epic_no) DO UPDATE SET
	name = EXCLUDED.name,
	age = EXCLUDED.age,
	gender = EXCLUDED.gender,
	parent_spouse_name = EXCLUDED.parent_spouse_name,
	assembly_constituency = EXCLUDED.assembly_constituency,
	parliamentary_constituency = EXCLUDED.parliamentary_constituency,
	district = EXCLUDED.district,
	state = EXCLUDED.state,
	part_no = EXCLUDED.part_no,
	part_name = EXCLUDED.part_name,
	serial_no = EXCLUDED.serial_no,
	station_name = EXCLUDED.station_name,
	station_address = EXCLUDED.station_address,
	last_updated = EXCLUDED.last_updated`

const selectCols = `
	epic_no, name, age, gender, parent_spouse_name,
	assembly_constituency, parliamentary_constituency, district, state,
	part_no, part_name, serial_no, station_name, station_address, last_updated`

// PostgresStore implements VoterStore over a pgx pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := pool.Exec(ctx, votersDDL); err != nil {
		return nil, fmt.Errorf("bootstrap voters table: %w", err)
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) UpsertVoters(ctx context.Context, records []entity.VoterRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(upsertSQL, upsertArgs(r)...)
	}
	br := s.pool.SendBatch(ctx, batch)
	defer func() {
		if err := br.Close(); err != nil {
			s.logger.Warn("upsert batch close error", "error", err)
		}
	}()
	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert voters: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) DeleteVoter(ctx context.Context, epicNo string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM voters WHERE epic_no = $1`, epicNo)
	if err != nil {
		return fmt.Errorf("delete voter: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM voters`)
	if err != nil {
		return fmt.Errorf("delete all voters: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListVoters(ctx context.Context) ([]entity.VoterRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+selectCols+` FROM voters ORDER BY last_updated DESC`)
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	defer rows.Close()
	return scanVoters(rows)
}

func (s *PostgresStore) SearchVoters(ctx context.Context, query string) ([]entity.VoterRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+selectCols+` FROM voters
		 WHERE name ILIKE '%' || $1 || '%' OR epic_no ILIKE '%' || $1 || '%'
		 ORDER BY last_updated DESC
		 LIMIT $2`, query, constants.SearchResultCap)
	if err != nil {
		return nil, fmt.Errorf("search voters: %w", err)
	}
	defer rows.Close()
	return scanVoters(rows)
}

func upsertArgs(r entity.VoterRecord) []any {
	return []any{
		r.EpicNo, r.Name, r.Age, string(r.Gender), r.ParentSpouseName,
		r.AssemblyConstituency, r.ParliamentaryConstituency, r.District, r.State,
		r.PartNo, r.PartName, r.SerialNo,
		r.PollingStation.Name, r.PollingStation.Address, r.LastUpdated,
	}
}

func scanVoters(rows pgx.Rows) ([]entity.VoterRecord, error) {
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
