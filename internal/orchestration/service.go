// Package orchestration composes gateway calls into the multi-step
// operations exposed as tools: creating single-node and clustered
// instances, growing and shrinking them, lifecycle changes, alert rules,
// logs and monitoring queries.
//
// Every operation is one sequential chain of backend calls. Nothing is
// rolled back: when a step fails after the backend allocated nodes, the
// error is a *PartialAllocationError naming those nodes.
package orchestration

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"evalgo.org/megacloud-mcp/internal/catalog"
	"evalgo.org/megacloud-mcp/internal/gateway"
	"evalgo.org/megacloud-mcp/internal/logging"
)

// Service runs composite operations against the backend.
type Service struct {
	gw      *gateway.Gateway
	catalog *catalog.Catalog
	now     func() time.Time
	newName func(prefix string) string
	logger  zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the clock used for monitoring windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithNameGenerator replaces the generator of default instance names.
func WithNameGenerator(gen func(prefix string) string) Option {
	return func(s *Service) {
		s.newName = gen
	}
}

// WithCatalog replaces the embedded metric catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// NewService creates a Service over gw.
func NewService(gw *gateway.Gateway, opts ...Option) *Service {
	s := &Service{
		gw:      gw,
		catalog: catalog.Default(),
		now:     time.Now,
		newName: GenerateName,
		logger:  logging.WithComponent("orchestration"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Gateway returns the underlying gateway.
func (s *Service) Gateway() *gateway.Gateway {
	return s.gw
}

// Catalog returns the metric catalog in use.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// GenerateName returns prefix followed by an underscore and 16 random hex
// characters.
func GenerateName(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + id[:16]
}
