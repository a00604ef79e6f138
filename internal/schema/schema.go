package schema

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/Zahumennov/contacs-updater/internal/config"
)

// Manager provisions the storage objects the service needs: the database,
// the contacts table and its full-text index, plus the optional one-time
// seed import. Every operation is idempotent; a second invocation observes
// the existing state and changes nothing.
type Manager struct {
	cfg config.Config
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{cfg: cfg}
}

// Bootstrap runs the full provisioning sequence. Any creation failure is
// returned; callers should treat it as fatal before serving traffic.
func (m *Manager) Bootstrap(ctx context.Context) error {
	if err := m.EnsureDatabase(ctx); err != nil {
		return fmt.Errorf("ensure database: %w", err)
	}
	if err := m.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensure table: %w", err)
	}
	if err := m.EnsureSearchIndex(ctx); err != nil {
		return fmt.Errorf("ensure search index: %w", err)
	}
	if m.cfg.SeedCSVPath != "" {
		if err := m.SeedFromCSV(ctx, m.cfg.SeedCSVPath); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}

// EnsureDatabase checks the pg_database catalog through the administrative
// database and creates the target database when it is missing.
func (m *Manager) EnsureDatabase(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, m.cfg.AdminDSN())
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)",
		m.cfg.DBName,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("schema: database %q already exists", m.cfg.DBName)
		return nil
	}

	// CREATE DATABASE does not accept bind parameters.
	_, err = conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{m.cfg.DBName}.Sanitize())
	if err != nil {
		return err
	}
	log.Printf("schema: created database %q", m.cfg.DBName)
	return nil
}

// EnsureTable creates the contacts table when it is missing.
func (m *Manager) EnsureTable(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, m.cfg.DSN())
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			first_name VARCHAR(100),
			last_name VARCHAR(100),
			email VARCHAR(100)
		)`, m.cfg.TableName,
	))
	if err != nil {
		return err
	}
	log.Printf("schema: table %q ready", m.cfg.TableName)
	return nil
}

// IndexName returns the name of the full-text index for the configured table.
func (m *Manager) IndexName() string {
	return m.cfg.TableName + "_search_idx"
}

// EnsureSearchIndex checks pg_indexes for the full-text index and builds it
// when absent. The index covers the concatenation of the three text columns
// under the configured text-search language. A failed probe is logged and
// treated as absence.
func (m *Manager) EnsureSearchIndex(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, m.cfg.DSN())
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE tablename = $1 AND indexname = $2)",
		m.cfg.TableName, m.IndexName(),
	).Scan(&exists)
	if err != nil {
		log.Printf("schema: index existence check failed: %v", err)
	}
	if exists {
		log.Printf("schema: index %q already exists", m.IndexName())
		return nil
	}

	_, err = conn.Exec(ctx, fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS %s ON %s
		 USING GIN (to_tsvector('%s', first_name || ' ' || last_name || ' ' || email))`,
		m.IndexName(), m.cfg.TableName, m.cfg.SearchLanguage,
	))
	if err != nil {
		return err
	}
	log.Printf("schema: created full-text index %q", m.IndexName())
	return nil
}

// SeedFromCSV imports contacts from a delimited file, skipping the header
// row. It only runs against an empty table; once any contact exists the
// seed is a no-op. A missing file is logged and skipped.
func (m *Manager) SeedFromCSV(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("schema: seed file %q not found, skipping", path)
			return nil
		}
		return err
	}
	defer f.Close()

	conn, err := pgx.Connect(ctx, m.cfg.DSN())
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	var hasRows bool
	err = conn.QueryRow(ctx, fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s)", m.cfg.TableName)).Scan(&hasRows)
	if err != nil {
		return err
	}
	if hasRows {
		return nil
	}

	rows, err := ReadSeedRows(f)
	if err != nil {
		return err
	}

	insert := fmt.Sprintf(
		"INSERT INTO %s (first_name, last_name, email) VALUES ($1, $2, $3)",
		m.cfg.TableName,
	)
	for _, row := range rows {
		if _, err := conn.Exec(ctx, insert, row[0], row[1], row[2]); err != nil {
			return err
		}
	}
	log.Printf("schema: seeded %d contacts from %q", len(rows), path)
	return nil
}

// ReadSeedRows parses the seed file: header row skipped, first three cells
// of each row taken as first_name, last_name, email.
func ReadSeedRows(r io.Reader) ([][3]string, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) <= 1 {
		return nil, nil
	}

	rows := make([][3]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 3 {
			continue
		}
		rows = append(rows, [3]string{rec[0], rec[1], rec[2]})
	}
	return rows, nil
}
