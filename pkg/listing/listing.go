// Package listing implements the filter/search/sort/paginate pattern
// shared by every list endpoint. Filter dimensions are tagged options
// rather than magic strings, so a literal search term "all" cannot
// collide with the wire-level wildcard.
package listing

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Wildcard is the wire-level value meaning "no filter applied".
const Wildcard = "all"

// Filter is an optional filter dimension. The zero value matches
// everything.
type Filter struct {
	value string
	set   bool
}

// All returns the unset filter.
func All() Filter {
	return Filter{}
}

// Match returns a filter constrained to v.
func Match(v string) Filter {
	return Filter{value: v, set: true}
}

// FromQuery translates the query-string convention: empty or "all"
// means no filter.
func FromQuery(raw string) Filter {
	if raw == "" || raw == Wildcard {
		return All()
	}
	return Match(raw)
}

func (f Filter) IsSet() bool {
	return f.set
}

func (f Filter) Value() string {
	return f.value
}

// Sort names an exposed sort field and its direction. Anything other
// than "desc" sorts ascending.
type Sort struct {
	Field string
	Desc  bool
}

// SortFromQuery builds Sort from raw query parameters.
func SortFromQuery(field, order string) Sort {
	return Sort{Field: field, Desc: order == "desc"}
}

// Page is offset/limit pagination. Limit is clamped to [1, MaxLimit].
type Page struct {
	Offset int
	Limit  int
}

// PageFromQuery clamps raw offset/limit values.
func PageFromQuery(start, limit int) Page {
	if start < 0 {
		start = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Offset: start, Limit: limit}
}

// Params bundles the common list-query inputs.
type Params struct {
	Search Filter
	Sort   Sort
	Page   Page
}

// SearchScope OR-combines substring matches over cols. No-op when the
// filter is unset.
func SearchScope(f Filter, cols ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !f.set || len(cols) == 0 {
			return db
		}
		pattern := "%" + f.value + "%"
		clause := make([]string, 0, len(cols))
		args := make([]interface{}, 0, len(cols))
		for _, col := range cols {
			clause = append(clause, col+" LIKE ?")
			args = append(args, pattern)
		}
		return db.Where(strings.Join(clause, " OR "), args...)
	}
}

// WhereScope equality-filters column. No-op when the filter is unset.
func WhereScope(f Filter, column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !f.set {
			return db
		}
		return db.Where(column+" = ?", f.value)
	}
}

// OrderScope resolves the requested sort field against the allowed
// column map. Unknown fields fall back to the resource default.
func OrderScope(s Sort, allowed map[string]string, fallback string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		col, ok := allowed[s.Field]
		if !ok {
			return db.Order(fallback)
		}
		if s.Desc {
			return db.Order(col + " DESC")
		}
		return db.Order(col)
	}
}

// PageScope applies offset/limit.
func PageScope(p Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset).Limit(p.Limit)
	}
}
