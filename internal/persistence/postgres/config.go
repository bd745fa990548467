// Package postgres implements an optional, disabled-by-default sink that
// mirrors each OpportunityArchive push into a queryable Postgres table.
// Grounded on db.Config/db.Manager's "Enabled bool" + pooled *sqlx.DB
// pattern and postgres.NewTradesRepo's repository shape, adapted from trade
// records to Opportunity rows.
package postgres

import "time"

// Config mirrors db.Config's shape: disabled unless explicitly turned on,
// with pool sizing and a per-query timeout.
type Config struct {
	DSN             string        `yaml:"dsn"`
	Enabled         bool          `yaml:"enabled"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:         false,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		QueryTimeout:    10 * time.Second,
	}
}
