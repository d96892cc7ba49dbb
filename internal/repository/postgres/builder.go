package postgres

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/flexprice/invoicer/internal/types"
)

// queryBuilder assembles a filtered listing with named arguments and
// binds them to postgres placeholders at the end
type queryBuilder struct {
	table      string
	conditions []string
	args       map[string]interface{}
	orderBy    string
	limit      int
	offset     int
}

func newQueryBuilder(table string) *queryBuilder {
	return &queryBuilder{
		table: table,
		args:  make(map[string]interface{}),
	}
}

func (qb *queryBuilder) where(condition, name string, value interface{}) *queryBuilder {
	qb.conditions = append(qb.conditions, condition)
	qb.args[name] = value
	return qb
}

// search matches term as a case-insensitive substring of any column
func (qb *queryBuilder) search(term string, columns ...string) *queryBuilder {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return qb
	}

	matches := make([]string, len(columns))
	for i, col := range columns {
		matches[i] = fmt.Sprintf(`%s ILIKE :search ESCAPE '\'`, col)
	}
	qb.conditions = append(qb.conditions, "("+strings.Join(matches, " OR ")+")")
	qb.args["search"] = "%" + escapeLike(term) + "%"
	return qb
}

// order takes a column already checked against an allow list
func (qb *queryBuilder) order(column, direction string) *queryBuilder {
	dir := "DESC"
	if direction == types.OrderAsc {
		dir = "ASC"
	}
	// id breaks ties so pages are stable
	qb.orderBy = fmt.Sprintf("%s %s NULLS LAST, id %s", column, dir, dir)
	return qb
}

func (qb *queryBuilder) paginate(f *types.QueryFilter) *queryBuilder {
	if f == nil {
		return qb
	}
	qb.limit = f.GetLimit()
	qb.offset = f.GetOffset()
	return qb
}

func (qb *queryBuilder) whereClause() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(qb.conditions, " AND ")
}

func (qb *queryBuilder) selectQuery() (string, []interface{}, error) {
	query := "SELECT * FROM " + qb.table + qb.whereClause()
	if qb.orderBy != "" {
		query += " ORDER BY " + qb.orderBy
	}
	if qb.limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", qb.limit)
	}
	if qb.offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", qb.offset)
	}
	return qb.bind(query)
}

func (qb *queryBuilder) countQuery() (string, []interface{}, error) {
	return qb.bind("SELECT COUNT(*) FROM " + qb.table + qb.whereClause())
}

func (qb *queryBuilder) bind(query string) (string, []interface{}, error) {
	named, args, err := sqlx.Named(query, qb.args)
	if err != nil {
		return "", nil, err
	}
	return sqlx.Rebind(sqlx.DOLLAR, named), args, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
