// Package pricing persists cloud compute prices and answers cost queries
// for the schema generator. Prices are refreshed by the worker and the
// nightly cron job; estimates fall back to static tables when no fresh
// price is available.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoFreshPrice means the store holds no price inside the freshness
// window for the requested compute class.
var ErrNoFreshPrice = errors.New("no fresh compute price available")

const (
	// hoursPerMonth converts an hourly rate into a monthly estimate.
	hoursPerMonth = 730

	// defaultFreshness bounds how old a stored price may be before the
	// estimator falls back to the static table.
	defaultFreshness = 48 * time.Hour
)

// PriceRow is one compute price point from a cloud provider catalog.
type PriceRow struct {
	SKUID        string
	Provider     string // aws | gcp
	Region       string
	InstanceType string
	VCPU         *int
	MemoryGB     *float64
	PricePerHour *float64
	Currency     string
	Unit         string
	FetchedAt    time.Time
	Metadata     map[string]interface{}
}

// Store reads and writes compute prices.
type Store struct {
	db        *pgxpool.Pool
	freshness time.Duration
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db, freshness: defaultFreshness}
}

func tableFor(provider string) (string, error) {
	switch provider {
	case "aws":
		return "aws_compute_prices", nil
	case "gcp":
		return "gcp_compute_prices", nil
	default:
		return "", fmt.Errorf("unknown price provider %q", provider)
	}
}

// UpsertBatch writes rows for one provider in a single transaction.
func (s *Store) UpsertBatch(ctx context.Context, provider string, rows []PriceRow) error {
	table, err := tableFor(provider)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin price upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	sql := `
INSERT INTO ` + table + `
  (sku_id, provider, region, instance_type, vcpu, memory_gb, price_per_hour, currency, unit, fetched_at, metadata, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
ON CONFLICT (sku_id, region) DO UPDATE
  SET instance_type = EXCLUDED.instance_type,
      vcpu = EXCLUDED.vcpu,
      memory_gb = EXCLUDED.memory_gb,
      price_per_hour = EXCLUDED.price_per_hour,
      currency = EXCLUDED.currency,
      unit = EXCLUDED.unit,
      fetched_at = EXCLUDED.fetched_at,
      metadata = EXCLUDED.metadata,
      updated_at = now()
;`
	for _, r := range rows {
		meta, _ := json.Marshal(r.Metadata)
		if _, err := tx.Exec(ctx, sql,
			r.SKUID, provider, r.Region, r.InstanceType, r.VCPU, r.MemoryGB,
			r.PricePerHour, r.Currency, r.Unit, r.FetchedAt.UTC(), meta,
		); err != nil {
			return fmt.Errorf("upsert %s price %s: %w", provider, r.SKUID, err)
		}
	}
	return tx.Commit(ctx)
}

// MonthlyComputeCost returns the cheapest fresh on-demand price, across
// providers, for an instance covering the requested vcpu and memory. It
// satisfies the schema generator's price source.
func (s *Store) MonthlyComputeCost(ctx context.Context, vcpu int, memoryGB float64) (float64, error) {
	const q = `
select min(price_per_hour)
from (
    select price_per_hour from aws_compute_prices
    where vcpu >= $1 and memory_gb >= $2
      and price_per_hour > 0 and currency = 'USD'
      and fetched_at > $3
    union all
    select price_per_hour from gcp_compute_prices
    where vcpu >= $1 and memory_gb >= $2
      and price_per_hour > 0 and currency = 'USD'
      and fetched_at > $3
) prices;
`
	cutoff := time.Now().Add(-s.freshness)

	var hourly *float64
	err := s.db.QueryRow(ctx, q, vcpu, memoryGB, cutoff).Scan(&hourly)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && hourly == nil) {
		return 0, ErrNoFreshPrice
	}
	if err != nil {
		return 0, fmt.Errorf("query compute price: %w", err)
	}

	return *hourly * hoursPerMonth, nil
}

// Freshest returns the newest fetched_at per provider, for the status page.
func (s *Store) Freshest(ctx context.Context) (map[string]time.Time, error) {
	const q = `
select 'aws', max(fetched_at) from aws_compute_prices
union all
select 'gcp', max(fetched_at) from gcp_compute_prices;
`
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query price freshness: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time, 2)
	for rows.Next() {
		var provider string
		var at *time.Time
		if err := rows.Scan(&provider, &at); err != nil {
			return nil, err
		}
		if at != nil {
			out[provider] = *at
		}
	}
	return out, rows.Err()
}
