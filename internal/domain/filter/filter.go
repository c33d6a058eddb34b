// Package filter computes the visible subset of a canonical result set.
// Everything here is pure: the same inputs always yield the same output,
// order-preserving relative to the canonical set, with no side effects.
package filter

import (
	"strings"

	"github.com/mwhitby/metabrowse/internal/domain/criteria"
	"github.com/mwhitby/metabrowse/internal/domain/metadata"
)

// Visible returns the records passing every filter dimension of the
// snapshot. The canonical set is never mutated; the result is a fresh
// slice in canonical order.
func Visible(canonical []metadata.Record, c criteria.Snapshot) []metadata.Record {
	visible := make([]metadata.Record, 0, len(canonical))
	for _, rec := range canonical {
		if Matches(rec, c) {
			visible = append(visible, rec)
		}
	}
	return visible
}

// Matches evaluates every predicate against one record (logical AND).
func Matches(rec metadata.Record, c criteria.Snapshot) bool {
	return matchesType(rec, c) &&
		matchesName(rec, c) &&
		matchesAuthor(rec, c) &&
		matchesDates(rec, c) &&
		matchesPackage(rec, c) &&
		matchesSearch(rec, c)
}

func matchesType(rec metadata.Record, c criteria.Snapshot) bool {
	if c.MetadataType == "" || c.MetadataType == criteria.AllTypes {
		return true
	}
	return rec.Type == c.MetadataType
}

func matchesName(rec metadata.Record, c criteria.Snapshot) bool {
	return containsFold(rec.Name, c.NamePart)
}

func matchesAuthor(rec metadata.Record, c criteria.Snapshot) bool {
	return containsFold(rec.LastModifiedBy, c.AuthorPart)
}

func matchesDates(rec metadata.Record, c criteria.Snapshot) bool {
	if from, ok := criteria.DayStart(c.DateFrom); ok && rec.LastModifiedDate.Before(from) {
		return false
	}
	if to, ok := criteria.DayEnd(c.DateTo); ok && rec.LastModifiedDate.After(to) {
		return false
	}
	return true
}

func matchesPackage(rec metadata.Record, c criteria.Snapshot) bool {
	switch c.PackageFilter {
	case "", criteria.AllPackages:
		return true
	case criteria.LocalOnly:
		return IsLocalComponent(ComponentName(rec.Name))
	default:
		return strings.HasPrefix(ComponentName(rec.Name), c.PackageFilter+"__")
	}
}

func matchesSearch(rec metadata.Record, c criteria.Snapshot) bool {
	if c.SearchTerm == "" {
		return true
	}
	return containsFold(rec.Type, c.SearchTerm) ||
		containsFold(rec.Name, c.SearchTerm) ||
		containsFold(rec.LastModifiedBy, c.SearchTerm)
}

// ComponentName strips any dotted qualifier from a member name: the text
// after the last "." when present, else the whole name.
func ComponentName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// localSuffixes are the official suffixes a local (unpackaged) component
// may carry after a single "__" separator.
var localSuffixes = []string{"__c", "__r", "__x", "__s", "__mdt", "__b"}

// IsLocalComponent classifies a component name as local or packaged.
// No "__" means local. Exactly one "__" is local only when it is one of
// the official suffixes; otherwise the prefix is a package namespace.
// Two or more "__" groups always mean a packaged component.
func IsLocalComponent(component string) bool {
	switch strings.Count(component, "__") {
	case 0:
		return true
	case 1:
		for _, suffix := range localSuffixes {
			if strings.HasSuffix(component, suffix) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func containsFold(value, part string) bool {
	if part == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(part))
}
