package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skinarb/skinarb/internal/profit"
)

// ArchiveRepo mirrors each profit.Snapshot into an "opportunities" table,
// grounded on tradesRepo's query/scan/duplicate-detection shape (parameterized
// INSERT, pq.Error code 23505 for duplicates, prepared
// statement + transaction for batch inserts). It is an additive sink: the
// always-on backend remains profit.ArchiveStore's atomic JSON file.
type ArchiveRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewArchiveRepo(db *sqlx.DB, timeout time.Duration) *ArchiveRepo {
	return &ArchiveRepo{db: db, timeout: timeout}
}

// InsertSnapshot records one scan's opportunities inside a single
// transaction so a scan is either fully visible to readers or not at all.
func (r *ArchiveRepo) InsertSnapshot(ctx context.Context, runID string, snap profit.Snapshot) error {
	if len(snap.Opportunities) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout*time.Duration(len(snap.Opportunities)/100+1))
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO opportunities (
			run_id, item_name, buy_venue, buy_price, buy_url,
			steam_price, net_steam_price, profit_absolute, profit_percentage,
			steam_url, mode, scanned_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, o := range snap.Opportunities {
		_, err := stmt.ExecContext(ctx,
			runID, o.ItemName, o.BuyVenue, o.BuyPrice, o.BuyURL,
			o.SteamPrice, o.NetSteamPrice, o.ProfitAbsolute, o.ProfitPercentage,
			o.SteamURL, string(snap.Mode), o.Timestamp)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return fmt.Errorf("duplicate opportunity row for run %s: %w", runID, err)
			}
			return fmt.Errorf("failed to insert opportunity: %w", err)
		}
	}

	return tx.Commit()
}

// TopByPercentage returns the highest profit_percentage opportunities across
// all recorded runs within a time range, for ad-hoc historical queries the
// JSON archive's fixed maxHistory window can't answer.
func (r *ArchiveRepo) TopByPercentage(ctx context.Context, since time.Time, limit int) ([]profit.Opportunity, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT item_name, buy_venue, buy_price, buy_url, steam_price,
		       net_steam_price, profit_absolute, profit_percentage, steam_url, scanned_at
		FROM opportunities
		WHERE scanned_at >= $1
		ORDER BY profit_percentage DESC, profit_absolute DESC, item_name ASC
		LIMIT $2`

	rows, err := r.db.QueryxContext(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top opportunities: %w", err)
	}
	defer rows.Close()

	var out []profit.Opportunity
	for rows.Next() {
		var o profit.Opportunity
		if err := rows.Scan(
			&o.ItemName, &o.BuyVenue, &o.BuyPrice, &o.BuyURL, &o.SteamPrice,
			&o.NetSteamPrice, &o.ProfitAbsolute, &o.ProfitPercentage, &o.SteamURL, &o.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan opportunity row: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating opportunity rows: %w", err)
	}
	return out, nil
}

// CountByVenue groups recorded opportunities by buy venue within a time
// range, mirroring tradesRepo.CountByVenue's grouped-count shape.
func (r *ArchiveRepo) CountByVenue(ctx context.Context, since time.Time) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT buy_venue, COUNT(*)
		FROM opportunities
		WHERE scanned_at >= $1
		GROUP BY buy_venue
		ORDER BY buy_venue`

	rows, err := r.db.QueryxContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count opportunities by venue: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var venueName string
		var count int64
		if err := rows.Scan(&venueName, &count); err != nil {
			return nil, fmt.Errorf("failed to scan venue count: %w", err)
		}
		counts[venueName] = count
	}
	return counts, nil
}
