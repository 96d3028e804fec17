// Package numerator provides sequential document numbering backed by a
// counter table. Receipt numbers must be dense and collision-free under
// concurrent settlement, so allocation happens inside the settlement
// transaction: the service reads its querier through a provider that
// resolves the active transaction from the context.
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// Strategy defines the number allocation strategy.
type Strategy int

const (
	// StrategyStrict allocates every number with UPSERT ... RETURNING.
	// Guarantees sequential numbers without gaps. Used for receipts.
	StrategyStrict Strategy = iota

	// StrategyCached reserves ranges of numbers in memory. Faster, but
	// restarts leave gaps. Suitable for internal references only.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	Strategy Strategy
	// RangeSize is the count of numbers reserved per DB round-trip in
	// Cached strategy. Default 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// Querier is the minimal database surface the numerator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierProvider resolves the querier for the current context. When the
// context carries a transaction, the counter update joins it, so a rolled
// back settlement releases its number.
type QuerierProvider func(ctx context.Context) Querier

type cachedRange struct {
	current int64
	max     int64
}

// Service provides document numbering.
type Service struct {
	provider QuerierProvider

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a numerator service with a fixed querier.
func New(querier Querier) *Service {
	return NewWithProvider(func(context.Context) Querier { return querier })
}

// NewWithProvider creates a numerator service that resolves its querier
// per call. Pass the transaction manager's GetQuerier.
func NewWithProvider(provider QuerierProvider) *Service {
	return &Service{
		provider: provider,
		ranges:   make(map[string]*cachedRange),
	}
}

// ResetPeriod controls when the counter restarts from 1.
type ResetPeriod string

const (
	ResetDaily   ResetPeriod = "day"
	ResetMonthly ResetPeriod = "month"
	ResetYearly  ResetPeriod = "year"
	ResetNever   ResetPeriod = "never"
)

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g. "RCPT")
	Prefix string

	// IncludeDate embeds the period date into the formatted number
	IncludeDate bool

	// PadWidth is the minimum numeric width (default 5)
	PadWidth int

	// ResetPeriod: day, month, year, never
	ResetPeriod ResetPeriod
}

// ReceiptConfig returns the configuration for receipt numbers:
// RCPT-YYYYMMDD-NNNNNN, counter restarting every day.
func ReceiptConfig() Config {
	return Config{
		Prefix:      "RCPT",
		IncludeDate: true,
		PadWidth:    6,
		ResetPeriod: ResetDaily,
	}
}

// GetNextNumber allocates and formats the next number for the period.
func (s *Service) GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	key := s.buildKey(cfg, period)

	var num int64
	var err error
	switch opts.Strategy {
	case StrategyCached:
		num, err = s.getNextCached(ctx, key, opts)
	default:
		num, err = s.getNextStrict(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return s.formatNumber(cfg, period, num), nil
}

// getNextStrict fetches the next number directly from DB using UPSERT + RETURNING.
func (s *Service) getNextStrict(ctx context.Context, key string) (int64, error) {
	var num int64
	err := s.provider(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// getNextCached serves numbers from a reserved in-memory range, refilling
// from DB when exhausted. current_val tracks the last value handed out,
// so a reservation of size N claims (old_val, old_val+N].
func (s *Service) getNextCached(ctx context.Context, key string, opts *Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, exists := s.ranges[key]
	if !exists {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		var newMax int64
		err := s.provider(ctx).QueryRow(ctx, `
			INSERT INTO sys_sequences (key, current_val)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
			RETURNING current_val
		`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber overwrites the counter (for migration from legacy data).
func (s *Service) SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error {
	key := s.buildKey(cfg, period)

	var result int64
	err := s.provider(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, key)
	s.cacheMu.Unlock()

	return err
}

// buildKey creates the sequence key based on config and period.
func (s *Service) buildKey(cfg Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case ResetDaily:
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("20060102"))
	case ResetMonthly:
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case ResetYearly:
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

// formatNumber creates the final number string.
func (s *Service) formatNumber(cfg Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}

	if cfg.IncludeDate {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("20060102"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}

// ParseNumber extracts the numeric part from a formatted number.
// Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	var num int64
	patterns := []string{
		"%*[^-]-%*d-%d",
		"%*[^-]-%d",
	}
	for _, pattern := range patterns {
		if _, err := fmt.Sscanf(formatted, pattern, &num); err == nil {
			return num
		}
	}
	return -1
}
