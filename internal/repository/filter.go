package repository

import (
	"fmt"
	"strings"
	"time"
)

// TimeFilter is an optional inclusive window over a timestamp column.
// Each bound is applied independently; a nil bound is unbounded.
type TimeFilter struct {
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether neither bound is set
func (f TimeFilter) IsZero() bool {
	return f.Start == nil && f.End == nil
}

// Contains reports whether t falls inside the window
func (f TimeFilter) Contains(t time.Time) bool {
	if f.Start != nil && t.Before(*f.Start) {
		return false
	}
	if f.End != nil && t.After(*f.End) {
		return false
	}
	return true
}

// Predicates translates the present bounds into SQL range predicates on
// column, numbering placeholders from argIndex.
func (f TimeFilter) Predicates(column string, argIndex int) ([]string, []any) {
	var conditions []string
	var args []any

	if f.Start != nil {
		conditions = append(conditions, fmt.Sprintf("%s >= $%d", column, argIndex))
		args = append(args, *f.Start)
		argIndex++
	}
	if f.End != nil {
		conditions = append(conditions, fmt.Sprintf("%s <= $%d", column, argIndex))
		args = append(args, *f.End)
	}

	return conditions, args
}

// whereBuilder accumulates AND-ed conditions with positional placeholders
type whereBuilder struct {
	conditions []string
	args       []any
}

func (b *whereBuilder) eq(column string, value any) {
	b.args = append(b.args, value)
	b.conditions = append(b.conditions, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *whereBuilder) raw(condition string) {
	b.conditions = append(b.conditions, condition)
}

func (b *whereBuilder) window(column string, f TimeFilter) {
	conds, args := f.Predicates(column, len(b.args)+1)
	b.conditions = append(b.conditions, conds...)
	b.args = append(b.args, args...)
}

func (b *whereBuilder) sql() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conditions, " AND ")
}
