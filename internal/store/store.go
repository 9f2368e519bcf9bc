package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/poimap-cli/internal/geodata"
)

// ErrNotFound is returned when a dataset id is unknown.
var ErrNotFound = errors.New("dataset not found")

// DB persists normalized datasets and their points in SQLite.
type DB struct {
	conn *sql.DB
}

// DatasetInfo is a stored dataset without its points.
type DatasetInfo struct {
	ID        string
	Name      string
	Mapping   geodata.ColumnMapping
	Stats     geodata.NormalizeStats
	Points    int
	CreatedAt time.Time
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir store dir: %w", err)
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := conn.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

// Close releases the connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS datasets (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  mapping_json TEXT NOT NULL,
  stats_json TEXT NOT NULL,
  warnings_json TEXT NOT NULL DEFAULT '[]',
  createdAt TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS points (
  datasetId TEXT NOT NULL,
  rowNo INTEGER NOT NULL,
  lat REAL NOT NULL,
  lon REAL NOT NULL,
  cost REAL NOT NULL,
  name TEXT NOT NULL,
  PRIMARY KEY(datasetId, rowNo),
  FOREIGN KEY(datasetId) REFERENCES datasets(id) ON DELETE CASCADE
);
`
	_, err := d.conn.Exec(schema)
	return err
}

// SaveDataset stores ds and its points in one transaction and returns the new id.
func (d *DB) SaveDataset(ctx context.Context, ds *geodata.Dataset) (string, error) {
	mappingJSON, err := json.Marshal(ds.Mapping)
	if err != nil {
		return "", fmt.Errorf("marshal mapping: %w", err)
	}
	statsJSON, err := json.Marshal(ds.Stats)
	if err != nil {
		return "", fmt.Errorf("marshal stats: %w", err)
	}
	warnings := ds.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return "", fmt.Errorf("marshal warnings: %w", err)
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO datasets (id, name, mapping_json, stats_json, warnings_json, createdAt)
VALUES (?, ?, ?, ?, ?, ?)`,
		id, ds.Name, string(mappingJSON), string(statsJSON), string(warningsJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return "", fmt.Errorf("insert dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO points (datasetId, rowNo, lat, lon, cost, name)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare points: %w", err)
	}
	defer stmt.Close()

	for i, p := range ds.Points {
		if _, err := stmt.ExecContext(ctx, id, i, p.Lat, p.Lon, p.Cost, p.Name); err != nil {
			return "", fmt.Errorf("insert point %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// ListDatasets returns stored datasets, oldest first.
func (d *DB) ListDatasets(ctx context.Context) ([]DatasetInfo, error) {
	rows, err := d.conn.QueryContext(ctx, `
SELECT d.id, d.name, d.mapping_json, d.stats_json, d.createdAt,
       (SELECT COUNT(*) FROM points p WHERE p.datasetId = d.id)
FROM datasets d
ORDER BY d.createdAt, d.rowid`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var out []DatasetInfo
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// LoadDataset reads a dataset and its points in stored order.
func (d *DB) LoadDataset(ctx context.Context, id string) (*geodata.Dataset, error) {
	var name, mappingJSON, statsJSON, warningsJSON string
	err := d.conn.QueryRowContext(ctx, `
SELECT name, mapping_json, stats_json, warnings_json FROM datasets WHERE id = ?`, id,
	).Scan(&name, &mappingJSON, &statsJSON, &warningsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	ds := &geodata.Dataset{Name: name}
	if err := json.Unmarshal([]byte(mappingJSON), &ds.Mapping); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &ds.Stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	if err := json.Unmarshal([]byte(warningsJSON), &ds.Warnings); err != nil {
		return nil, fmt.Errorf("decode warnings: %w", err)
	}

	rows, err := d.conn.QueryContext(ctx, `
SELECT lat, lon, cost, name FROM points WHERE datasetId = ? ORDER BY rowNo`, id)
	if err != nil {
		return nil, fmt.Errorf("load points: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p geodata.Point
		if err := rows.Scan(&p.Lat, &p.Lon, &p.Cost, &p.Name); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		ds.Points = append(ds.Points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load points: %w", err)
	}
	if len(ds.Warnings) == 0 {
		ds.Warnings = nil
	}
	return ds, nil
}

// DeleteDataset removes a dataset and its points.
func (d *DB) DeleteDataset(ctx context.Context, id string) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM points WHERE datasetId = ?`, id); err != nil {
		return fmt.Errorf("delete points: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(s scanner) (DatasetInfo, error) {
	var info DatasetInfo
	var mappingJSON, statsJSON, created string
	if err := s.Scan(&info.ID, &info.Name, &mappingJSON, &statsJSON, &created, &info.Points); err != nil {
		return info, fmt.Errorf("scan dataset: %w", err)
	}
	if err := json.Unmarshal([]byte(mappingJSON), &info.Mapping); err != nil {
		return info, fmt.Errorf("decode mapping: %w", err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &info.Stats); err != nil {
		return info, fmt.Errorf("decode stats: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		info.CreatedAt = t
	}
	return info, nil
}
