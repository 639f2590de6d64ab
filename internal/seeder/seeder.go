// Package seeder populates the back office schema with synthetic but
// internally consistent commercial data. Steps run in dependency order
// and each step only fills what is missing, so repeated runs are safe.
package seeder

import (
	"context"
	"math/rand"
	"time"

	"backoffice/internal/store"
	"backoffice/internal/util"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Seeder generates synthetic rows for every table in the schema
type Seeder struct {
	store  store.Store
	rng    *rand.Rand
	faker  *gofakeit.Faker
	logger *zap.Logger
	now    func() time.Time
}

// New creates a seeder whose draws are fully determined by seed
func New(st store.Store, seed int64) *Seeder {
	return &Seeder{
		store:  st,
		rng:    rand.New(rand.NewSource(seed)),
		faker:  gofakeit.New(seed),
		logger: util.GetLogger(),
		now:    time.Now,
	}
}

// Run executes all population steps in dependency order. customers and
// orders are the target row counts for those tables; existing rows
// count toward the target.
func (s *Seeder) Run(ctx context.Context, customers, orders int) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"products", s.seedProducts},
		{"devices", s.seedDevices},
		{"hardware", s.seedHardware},
		{"peripherals", s.seedPeripherals},
		{"customers", func(ctx context.Context) error { return s.seedCustomers(ctx, customers) }},
		{"orders", func(ctx context.Context) error { return s.seedOrders(ctx, orders) }},
		{"order_items", s.seedLineItems},
		{"sales", s.seedSales},
		{"payments", s.seedPayments},
		{"applied_discounts", s.seedAppliedDiscounts},
		{"loyalty_accounts", s.seedLoyalty},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			s.logger.Error("Seeding step failed",
				zap.String("table", step.name),
				zap.Error(err))
			return err
		}
	}

	s.logger.Info("Seeding complete")
	return nil
}

// weighted returns an index into weights, drawn proportionally
func (s *Seeder) weighted(weights ...int) int {
	total := 0
	for _, w := range weights {
		total += w
	}

	draw := s.rng.Intn(total)
	for i, w := range weights {
		if draw < w {
			return i
		}
		draw -= w
	}
	return len(weights) - 1
}

// moneyBetween draws a uniform amount in [lo, hi], rounded to cents
func (s *Seeder) moneyBetween(lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(lo + s.rng.Float64()*(hi-lo)).Round(2)
}

// rateBetween draws a uniform rate in [lo, hi]
func (s *Seeder) rateBetween(lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(lo + s.rng.Float64()*(hi-lo))
}

// daysAgo returns the date n days before now, truncated to midnight UTC
func (s *Seeder) daysAgo(n int) time.Time {
	t := s.now().AddDate(0, 0, -n)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Seeder) countRows(table string, n int) {
	util.SeederRowsInserted.WithLabelValues(table).Add(float64(n))
	s.logger.Info("Seeded table",
		zap.String("table", table),
		zap.Int("inserted", n))
}
