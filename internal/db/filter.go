package db

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/career-tracker/internal/store"
)

// column layout of a domain table, used to translate a store.Filter
type tableSpec struct {
	dateColumn   string // empty for undated rows
	nullableDate bool
	statusColumn string // empty when the table has no status
}

// buildWhere translates filter into a WHERE clause scoped to userID. A NULL
// date fails every bound.
func buildWhere(userID uuid.UUID, filter store.Filter, spec tableSpec) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}
	argIndex := 2

	add := func(format string, value any) {
		conditions = append(conditions, fmt.Sprintf(format, argIndex))
		args = append(args, value)
		argIndex++
	}

	if filter.ID != nil {
		add("id = $%d", *filter.ID)
	}
	if filter.StatusNot != "" && spec.statusColumn != "" {
		add(spec.statusColumn+" <> $%d", filter.StatusNot)
	}

	if spec.dateColumn != "" {
		var bounds []string
		bound := func(op string, value any) {
			bounds = append(bounds, fmt.Sprintf("%s %s $%d", spec.dateColumn, op, argIndex))
			args = append(args, value)
			argIndex++
		}
		if filter.DateOnOrBefore != nil {
			bound("<=", dateArg(*filter.DateOnOrBefore))
		}
		if filter.DateOn != nil {
			bound("=", dateArg(*filter.DateOn))
		}
		if filter.DateFrom != nil {
			bound(">=", dateArg(*filter.DateFrom))
		}
		if filter.DateTo != nil {
			bound("<=", dateArg(*filter.DateTo))
		}
		conditions = append(conditions, bounds...)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// orderBy returns the ORDER BY clause used for deterministic reads. Undated
// rows can only come back from a read without date bounds.
func orderBy(spec tableSpec, filter store.Filter) string {
	if spec.dateColumn == "" {
		return "ORDER BY created_at, id"
	}
	if spec.nullableDate && !filter.HasDateBound() {
		return fmt.Sprintf("ORDER BY %s NULLS FIRST, id", spec.dateColumn)
	}
	return fmt.Sprintf("ORDER BY %s, id", spec.dateColumn)
}
