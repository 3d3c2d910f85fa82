// Package catalog holds the per-region pricing constraints for one catalog
// version. The catalog is the source of truth for which regions are billable
// and what currency and bounds each region requires.
package catalog

import (
	"play-price/core/types"
	"play-price/internal/errors"
)

// RegionCatalog is an immutable constraint table for a single catalog
// version. Loaded once, shared read-only across the run.
type RegionCatalog struct {
	version     string
	constraints map[string]types.RegionConstraint
}

// New builds a catalog from the constraints reported by the pricing service.
// Later duplicates of a region are ignored.
func New(version string, constraints []types.RegionConstraint) *RegionCatalog {
	byRegion := make(map[string]types.RegionConstraint, len(constraints))
	for _, c := range constraints {
		if _, exists := byRegion[c.Region]; exists {
			continue
		}
		byRegion[c.Region] = c
	}
	return &RegionCatalog{version: version, constraints: byRegion}
}

// Version returns the catalog version string.
func (rc *RegionCatalog) Version() string { return rc.version }

// Len returns the number of regions in the catalog.
func (rc *RegionCatalog) Len() int { return len(rc.constraints) }

// Lookup returns the constraint for a two-letter region code.
func (rc *RegionCatalog) Lookup(region string) (types.RegionConstraint, error) {
	c, ok := rc.constraints[region]
	if !ok {
		return types.RegionConstraint{}, errors.NotFound("region constraint", region).
			WithContext("catalog_version", rc.version)
	}
	return c, nil
}
