package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Manager owns the pooled *sqlx.DB. When Config.Enabled is false, NewManager
// returns a Manager whose Repo is nil; callers check Enabled() before using
// it, the same no-op shape as db.Manager for a disabled connection.
type Manager struct {
	db      *sqlx.DB
	cfg     Config
	enabled bool
	Repo    *ArchiveRepo
}

// NewManager opens a pooled connection when cfg.Enabled, otherwise returns a
// disabled Manager that does no network I/O. This mirrors connection.go's
// NewManager, which treats Enabled as the single gate for whether Postgres
// is consulted at all.
func NewManager(cfg Config) (*Manager, error) {
	if !cfg.Enabled {
		return &Manager{cfg: cfg, enabled: false}, nil
	}

	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	log.Info().Int("max_open_conns", cfg.MaxOpenConns).Msg("postgres opportunity archive sink enabled")

	return &Manager{
		db:      db,
		cfg:     cfg,
		enabled: true,
		Repo:    NewArchiveRepo(db, cfg.QueryTimeout),
	}, nil
}

func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
