package storage

import (
	"fmt"
	"strings"
	"time"

	"palette-hq/scout/pkg/history"
)

// dialect covers the differences between the SQL backends.
type dialect struct {
	placeholder func(n int) string
	timeArg     func(t time.Time) any
	boolArg     func(b bool) any

	// noLimit is the LIMIT value meaning "all rows", or "" when OFFSET may
	// stand alone.
	noLimit string
}

var sqliteDialect = dialect{
	placeholder: func(int) string { return "?" },
	timeArg:     func(t time.Time) any { return t.UnixNano() },
	boolArg: func(b bool) any {
		if b {
			return 1
		}
		return 0
	},
	noLimit: "-1",
}

var postgresDialect = dialect{
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	timeArg:     func(t time.Time) any { return t.UTC() },
	boolArg:     func(b bool) any { return b },
}

// where builds a WHERE clause (without the keyword) and its arguments.
// Placeholders are numbered from start.
func (d dialect) where(q *history.Query, start int) (string, []any) {
	if q == nil {
		return "", nil
	}

	var conds []string
	var args []any
	add := func(expr string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(expr, d.placeholder(start+len(args)-1)))
	}

	if q.StartTime != nil {
		add("created_at >= %s", d.timeArg(*q.StartTime))
	}
	if q.EndTime != nil {
		add("created_at <= %s", d.timeArg(*q.EndTime))
	}
	if q.Channel != "" {
		add("channel = %s", q.Channel)
	}
	if q.Category != "" {
		add("category = %s", q.Category)
	}
	if q.Source != "" {
		add("source = %s", q.Source)
	}
	if q.Status != "" {
		add("status = %s", q.Status)
	}
	if q.DesignRequestsOnly {
		add("is_design_request = %s", d.boolArg(true))
	}
	if q.MinConfidence != nil {
		add("confidence >= %s", *q.MinConfidence)
	}

	return strings.Join(conds, " AND "), args
}

// selectQuery builds the full SELECT for q.
func (d dialect) selectQuery(q *history.Query) (string, []any) {
	where, args := d.where(q, 1)

	var b strings.Builder
	b.WriteString("SELECT " + recordColumns + " FROM records")
	if where != "" {
		b.WriteString(" WHERE " + where)
	}

	order := "DESC"
	if q != nil && q.Ascending {
		order = "ASC"
	}
	fmt.Fprintf(&b, " ORDER BY created_at %s, id %s", order, order)

	if q != nil {
		switch {
		case q.Limit > 0:
			fmt.Fprintf(&b, " LIMIT %d", q.Limit)
		case q.Offset > 0 && d.noLimit != "":
			b.WriteString(" LIMIT " + d.noLimit)
		}
		if q.Offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", q.Offset)
		}
	}
	return b.String(), args
}

// countQuery builds a COUNT(*) for q, ignoring pagination.
func (d dialect) countQuery(q *history.Query) (string, []any) {
	where, args := d.where(q, 1)
	query := "SELECT COUNT(*) FROM records"
	if where != "" {
		query += " WHERE " + where
	}
	return query, args
}

// deleteOldestQuery removes everything past the newest keep records.
func (d dialect) deleteOldestQuery() string {
	limit := ""
	if d.noLimit != "" {
		limit = " LIMIT " + d.noLimit
	}
	return "DELETE FROM records WHERE id IN (SELECT id FROM records ORDER BY created_at DESC, id DESC" +
		limit + " OFFSET " + d.placeholder(1) + ")"
}

func (d dialect) upsertQuery() string {
	ph := make([]string, 17)
	for i := range ph {
		ph[i] = d.placeholder(i + 1)
	}
	return "INSERT INTO records (" + recordColumns + ") VALUES (" + strings.Join(ph, ", ") +
		") ON CONFLICT (id) DO UPDATE SET " + upsertSet
}
