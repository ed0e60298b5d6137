package repository

import (
	"fmt"
	"strings"
)

// setBuilder collects SET clauses for partial updates. Only fields the
// caller explicitly adds end up in the statement, so absent JSON fields
// never touch the row.
type setBuilder struct {
	clauses []string
	args    []interface{}
}

// Add appends "column = $n" with the next placeholder index.
func (b *setBuilder) Add(column string, value interface{}) {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// AddExpr appends a raw expression such as "completed_at = NOW()".
func (b *setBuilder) AddExpr(expr string) {
	b.clauses = append(b.clauses, expr)
}

// Empty reports whether no field was added.
func (b *setBuilder) Empty() bool {
	return len(b.clauses) == 0
}

// Set returns the joined SET clause body.
func (b *setBuilder) Set() string {
	return strings.Join(b.clauses, ", ")
}

// Next returns the placeholder for an extra argument appended after the
// SET clause, such as the WHERE condition values.
func (b *setBuilder) Next(value interface{}) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

// Args returns all accumulated arguments in placeholder order.
func (b *setBuilder) Args() []interface{} {
	return b.args
}
