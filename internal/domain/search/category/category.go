// Package category defines the searchable entity categories and their adapter sources.
package category

import (
	"fmt"
	"strings"
)

// Category is a searchable entity type.
type Category string

// Category constants, in fixed dispatch order.
const (
	Leads         Category = "leads"
	Contacts      Category = "contacts"
	Campaigns     Category = "campaigns"
	Knowledge     Category = "knowledge"
	Opportunities Category = "opportunities"
	Activities    Category = "activities"
	Forms         Category = "forms"
)

// All is the sentinel that selects every category.
const All = "all"

var ordered = []Category{Leads, Contacts, Campaigns, Knowledge, Opportunities, Activities, Forms}

// Ordered returns every category in fixed dispatch order.
func Ordered() []Category {
	out := make([]Category, len(ordered))
	copy(out, ordered)
	return out
}

// IsValid checks if the category is one of the supported values.
func (c Category) IsValid() bool {
	for _, o := range ordered {
		if c == o {
			return true
		}
	}
	return false
}

// URL returns the canonical navigation target for the category.
func (c Category) URL() string {
	switch c {
	case Campaigns:
		return "/email-marketing"
	case Activities:
		return "/calendar"
	default:
		return "/" + string(c)
	}
}

// Set is a selection of categories.
type Set map[Category]struct{}

// Has reports whether c is selected.
func (s Set) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

// Parse builds a Set from raw names. Empty input and the "all" sentinel select everything.
func Parse(names []string) (Set, error) {
	set := make(Set)
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if name == All {
			return AllSet(), nil
		}
		c := Category(name)
		if !c.IsValid() {
			return nil, fmt.Errorf("unknown category %q", raw)
		}
		set[c] = struct{}{}
	}
	if len(set) == 0 {
		return AllSet(), nil
	}
	return set, nil
}

// AllSet selects every category.
func AllSet() Set {
	set := make(Set, len(ordered))
	for _, c := range ordered {
		set[c] = struct{}{}
	}
	return set
}
