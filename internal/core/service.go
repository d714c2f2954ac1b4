package core

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/JonMunkholm/familytree/internal/database"
	"github.com/JonMunkholm/familytree/internal/metrics"
)

// QueryTimeout bounds a single service operation.
var QueryTimeout = 30 * time.Second

// Service provides the core business logic of the family tree server.
type Service struct {
	pool    *pgxpool.Pool
	q       database.Querier
	cache   SettingsCache
	metrics *metrics.Metrics
	now     func() time.Time

	bcryptCost   int
	housekeeping HousekeepingConfig

	housekeepingRunning atomic.Bool
}

// Option configures a Service.
type Option func(*Service)

// WithSettingsCache replaces the in-process settings cache.
func WithSettingsCache(c SettingsCache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithMetrics records service activity in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// WithHousekeeping sets the housekeeping retention and directories.
func WithHousekeeping(cfg HousekeepingConfig) Option {
	return func(s *Service) { s.housekeeping = cfg.withDefaults() }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service backed by a connection pool.
func NewService(pool *pgxpool.Pool, opts ...Option) *Service {
	s := newService(database.New(pool), opts...)
	s.pool = pool
	return s
}

func newService(q database.Querier, opts ...Option) *Service {
	s := &Service{
		q:            q,
		cache:        NewMemoryCache(),
		now:          time.Now,
		bcryptCost:   bcrypt.DefaultCost,
		housekeeping: HousekeepingConfig{}.withDefaults(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Ping checks the database connection.
func (s *Service) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

// inTx runs fn in a transaction. Without a pool, fn runs against the
// service's querier directly.
func (s *Service) inTx(ctx context.Context, fn func(q database.Querier) error) error {
	if s.pool == nil {
		return fn(s.q)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := fn(database.New(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Tree looks up a tree by its short name.
func (s *Service) Tree(ctx context.Context, name string) (Tree, error) {
	row, err := s.q.GetTreeByName(ctx, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tree{}, fmt.Errorf("tree %q: %w", name, ErrTreeNotFound)
	}
	if err != nil {
		return Tree{}, fmt.Errorf("get tree: %w", err)
	}
	return treeFromRow(row), nil
}

// Trees lists every tree, sorted by name.
func (s *Service) Trees(ctx context.Context) ([]Tree, error) {
	rows, err := s.q.ListTrees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	trees := make([]Tree, len(rows))
	for i, row := range rows {
		trees[i] = treeFromRow(row)
	}
	return trees, nil
}

// Viewer resolves the role of user in tree. A nil user is a visitor.
func (s *Service) Viewer(ctx context.Context, user *User, tree Tree) (Viewer, error) {
	role, err := s.Role(ctx, user, tree)
	if err != nil {
		return Viewer{}, err
	}
	return Viewer{User: user, Role: role}, nil
}
