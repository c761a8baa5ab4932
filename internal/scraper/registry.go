package scraper

import (
	"fmt"
)

// Registry keeps feed names unique and aggregates scrape metrics of all
// registered scrapers. It implements prometheus.Collector.
type Registry struct {
	names map[string]struct{}
	metrics
}

func NewRegistry() *Registry {
	return &Registry{
		names:   make(map[string]struct{}),
		metrics: makeMetrics(),
	}
}

func (r *Registry) add(name string) (observers, error) {
	if _, ok := r.names[name]; ok {
		return observers{}, fmt.Errorf("%q feed is already registered", name)
	}
	r.names[name] = struct{}{}

	return r.observers(name), nil
}
