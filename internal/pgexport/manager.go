package pgexport

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Repos bundles the three export repositories sharing one connection pool.
type Repos struct {
	AUCS           *AUCSRepo
	SubscoresRaw   *SubscoresRawRepo
	Explainability *ExplainabilityRepo
}

// Manager owns the PostgreSQL connection pool backing the export repos.
// Export is opt-in: a disabled Manager holds a nil pool and nil Repos, so
// callers can wire it unconditionally and check IsEnabled before use.
type Manager struct {
	db     *sqlx.DB
	config Config
	repos  *Repos
}

// NewManager opens a pool and pings it when config.Enabled; otherwise it
// returns a disabled Manager with no database dependency, mirroring the
// pipeline's ability to run entirely without an export sink.
func NewManager(config Config) (*Manager, error) {
	if !config.Enabled {
		return &Manager{config: config}, nil
	}
	if config.DSN == "" {
		return nil, fmt.Errorf("pgexport: DSN is required when enabled")
	}

	db, err := sqlx.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgexport: open database: %w", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pgexport: ping database: %w", err)
	}

	return &Manager{
		db:     db,
		config: config,
		repos: &Repos{
			AUCS:           NewAUCSRepo(db, config.QueryTimeout),
			SubscoresRaw:   NewSubscoresRawRepo(db, config.QueryTimeout),
			Explainability: NewExplainabilityRepo(db, config.QueryTimeout),
		},
	}, nil
}

// Repos returns the repository bundle, or nil when export is disabled.
func (m *Manager) Repos() *Repos { return m.repos }

// IsEnabled reports whether this Manager holds a live connection pool.
func (m *Manager) IsEnabled() bool { return m.config.Enabled && m.db != nil }

// DB returns the underlying pool, for migrations or direct queries.
func (m *Manager) DB() *sqlx.DB { return m.db }

// Close releases the connection pool. Safe to call on a disabled Manager.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
