package postgres

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// RunMigrations mirrors the teacher's log-only migration stub: this project
// delegates actual schema application to goose rather than embedding a
// migration runner, so this just validates preconditions and points the
// operator at the command to run.
func (m *Manager) RunMigrations() error {
	if !m.enabled {
		return fmt.Errorf("postgres opportunity archive is not enabled - cannot run migrations")
	}

	log.Info().Msg("opportunity archive migrations would be executed here")
	log.Info().Msg(`use 'goose -dir db/migrations postgres "$PG_DSN" up' to run migrations manually`)
	return nil
}
