package detect

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/feeaudit/internal/model"
	"github.com/cleared-dev/feeaudit/internal/tariff"
)

// Registry holds detectors in report order.
type Registry struct {
	detectors  []*Detector
	byCategory map[model.Category]*Detector
}

// NewRegistry creates an empty detector registry.
func NewRegistry() *Registry {
	return &Registry{byCategory: make(map[model.Category]*Detector)}
}

// Register adds a detector. Panics on duplicate category.
func (r *Registry) Register(d *Detector) {
	if _, ok := r.byCategory[d.Category]; ok {
		panic("duplicate detector category: " + string(d.Category))
	}
	r.detectors = append(r.detectors, d)
	r.byCategory[d.Category] = d
}

// Get returns the detector for a category, or nil.
func (r *Registry) Get(c model.Category) *Detector {
	return r.byCategory[model.Category(strings.ToLower(string(c)))]
}

// All returns the detectors in registration order.
func (r *Registry) All() []*Detector {
	return r.detectors
}

// Select returns a registry restricted to the named categories, keeping
// registration order. An empty list selects everything.
func (r *Registry) Select(categories ...model.Category) (*Registry, error) {
	if len(categories) == 0 {
		return r, nil
	}
	want := make(map[model.Category]bool, len(categories))
	for _, c := range categories {
		d := r.Get(c)
		if d == nil {
			return nil, fmt.Errorf("unknown category %q", c)
		}
		want[d.Category] = true
	}
	sub := NewRegistry()
	for _, d := range r.detectors {
		if want[d.Category] {
			sub.Register(d)
		}
	}
	return sub, nil
}

// DefaultRegistry returns a registry with every built-in category priced by s.
func DefaultRegistry(s tariff.Schedule) *Registry {
	r := NewRegistry()
	r.Register(newTransferDetector(s))
	r.Register(newStampDutyDetector(s))
	r.Register(newMaintenanceFeeDetector(s))
	r.Register(newMaintenanceMonthlyDetector(s))
	r.Register(newSMSAlertDetector(s))
	r.Register(newATMWithdrawalDetector(s))
	for _, l := range listings {
		r.Register(newListingDetector(l))
	}
	return r
}
