// Package catalog holds the monitoring metric catalog: for each middleware
// kind, a set of named metric groups, each a list of metric query fragments
// for the backend time-series endpoint.
//
// The catalog is declarative data embedded in the binary and parsed once.
// It is never mutated after loading.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"evalgo.org/megacloud-mcp/internal/errdefs"
	"evalgo.org/megacloud-mcp/models"
)

// HostKind is the catalog entry holding per-host metric sets.
const HostKind = "host"

//go:embed metrics.yaml
var embedded []byte

// Catalog is an immutable kind -> group -> metrics table.
type Catalog struct {
	kinds map[string]map[string][]models.MetricQuery
}

// Load parses a catalog document. Kind keys are stored lowercased.
func Load(data []byte) (*Catalog, error) {
	var raw map[string]map[string][]models.MetricQuery
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse metric catalog: %w", err)
	}

	kinds := make(map[string]map[string][]models.MetricQuery, len(raw))
	for kind, groups := range raw {
		for group, metrics := range groups {
			if len(metrics) == 0 {
				return nil, fmt.Errorf("metric catalog: %s/%s has no metrics", kind, group)
			}
			for i, m := range metrics {
				if m.Name == "" {
					return nil, fmt.Errorf("metric catalog: %s/%s[%d] has no name", kind, group, i)
				}
			}
		}
		kinds[strings.ToLower(kind)] = groups
	}
	return &Catalog{kinds: kinds}, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(embedded)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Kinds returns the middleware kinds with metric groups, sorted. The host
// entry is not included.
func (c *Catalog) Kinds() []string {
	kinds := make([]string, 0, len(c.kinds))
	for k := range c.kinds {
		if k == HostKind {
			continue
		}
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Supports reports whether kind has a catalog entry.
func (c *Catalog) Supports(kind string) bool {
	_, ok := c.kinds[strings.ToLower(kind)]
	return ok
}

// Groups returns the metric group names of kind, sorted.
func (c *Catalog) Groups(kind string) ([]string, error) {
	groups, ok := c.kinds[strings.ToLower(kind)]
	if !ok {
		return nil, errdefs.Unsupported("monitored middleware kind", kind, c.Kinds())
	}
	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	sort.Strings(names)
	return names, nil
}

// Metrics returns a copy of the metric fragments of group within kind.
// Group names match exactly first, then case-insensitively.
func (c *Catalog) Metrics(kind, group string) ([]models.MetricQuery, error) {
	groups, ok := c.kinds[strings.ToLower(kind)]
	if !ok {
		return nil, errdefs.Unsupported("monitored middleware kind", kind, c.Kinds())
	}

	metrics, ok := groups[group]
	if !ok {
		for name, m := range groups {
			if strings.EqualFold(name, group) {
				metrics, ok = m, true
				break
			}
		}
	}
	if !ok {
		names, _ := c.Groups(kind)
		return nil, errdefs.Unsupported("metric group", group, names)
	}
	return cloneMetrics(metrics), nil
}

// HostGroups returns the host metric set names, sorted.
func (c *Catalog) HostGroups() []string {
	names, _ := c.Groups(HostKind)
	return names
}

// HostMetrics returns the fragments of a host metric set.
func (c *Catalog) HostMetrics(group string) ([]models.MetricQuery, error) {
	return c.Metrics(HostKind, group)
}

func cloneMetrics(in []models.MetricQuery) []models.MetricQuery {
	out := make([]models.MetricQuery, len(in))
	for i, m := range in {
		out[i] = models.MetricQuery{
			Name:      m.Name,
			Functions: append([]models.MetricFunction(nil), m.Functions...),
			Groups:    append([]models.MetricGroupBy(nil), m.Groups...),
		}
	}
	return out
}
