package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrInvalidFilter is returned when a predicate names a column the entity does not expose
var ErrInvalidFilter = errors.New("invalid filter")

type predicateKind int

const (
	predEq predicateKind = iota
	predIn
	predSearch
	predSince
	predBefore
)

// Predicate is a single named condition. Build them with Eq, In, Search, Since and Before.
type Predicate struct {
	kind    predicateKind
	columns []string
	value   interface{}
}

// Eq matches rows where column equals value
func Eq(column string, value interface{}) Predicate {
	return Predicate{kind: predEq, columns: []string{column}, value: value}
}

// In matches rows where column is one of values. An empty slice matches nothing.
func In(column string, values []string) Predicate {
	return Predicate{kind: predIn, columns: []string{column}, value: values}
}

// Search matches rows where any of columns contains term, case-insensitively
func Search(term string, columns ...string) Predicate {
	return Predicate{kind: predSearch, columns: columns, value: strings.TrimSpace(term)}
}

// Since matches rows where column >= t
func Since(column string, t time.Time) Predicate {
	return Predicate{kind: predSince, columns: []string{column}, value: t}
}

// Before matches rows where column < t
func Before(column string, t time.Time) Predicate {
	return Predicate{kind: predBefore, columns: []string{column}, value: t}
}

// Columns is the allow-list of filterable columns for one entity
type Columns map[string]struct{}

// NewColumns builds an allow-list
func NewColumns(names ...string) Columns {
	c := make(Columns, len(names))
	for _, n := range names {
		c[n] = struct{}{}
	}
	return c
}

func (c Columns) has(name string) bool {
	_, ok := c[name]
	return ok
}

// Filter is a conjunction of predicates
type Filter []Predicate

// Apply validates every predicate against allowed and composes them onto db
func (f Filter) Apply(db *gorm.DB, allowed Columns) (*gorm.DB, error) {
	for _, p := range f {
		if len(p.columns) == 0 {
			return nil, fmt.Errorf("%w: predicate without column", ErrInvalidFilter)
		}
		for _, col := range p.columns {
			if !allowed.has(col) {
				return nil, fmt.Errorf("%w: unknown column %q", ErrInvalidFilter, col)
			}
		}
		db = p.apply(db)
	}
	return db, nil
}

func (p Predicate) apply(db *gorm.DB) *gorm.DB {
	col := p.columns[0]
	switch p.kind {
	case predEq:
		return db.Where(col+" = ?", p.value)
	case predIn:
		values, _ := p.value.([]string)
		if len(values) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where(col+" IN ?", values)
	case predSearch:
		term, _ := p.value.(string)
		if term == "" {
			return db
		}
		pattern := "%" + escapeLike(term) + "%"
		clauses := make([]string, 0, len(p.columns))
		args := make([]interface{}, 0, len(p.columns))
		for _, c := range p.columns {
			clauses = append(clauses, c+" ILIKE ?")
			args = append(args, pattern)
		}
		// gorm parenthesises an OR group when it is joined with other conditions
		return db.Where(strings.Join(clauses, " OR "), args...)
	case predSince:
		return db.Where(col+" >= ?", p.value)
	case predBefore:
		return db.Where(col+" < ?", p.value)
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralises LIKE wildcards so the search term is matched literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
