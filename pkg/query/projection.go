// Package query provides SQL query building utilities with projection mapping.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view property names to qualified column references (alias.column).
// It defines the table, alias, and column mappings for SQL query construction.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	current    string
	joins      []join
	columns    map[string]string
	keys       map[string]string
	columnList []string
}

type join struct {
	kind  string
	table string
	on    string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:     schema,
		table:      table,
		alias:      alias,
		current:    alias,
		columns:    make(map[string]string),
		keys:       make(map[string]string),
		columnList: make([]string, 0),
	}
}

// Project adds a column mapping from database column to view property name.
// Columns are qualified with the most recently joined alias, or the base alias
// when no join has been added.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.current, column)
	p.columns[viewName] = qualified
	p.keys[foldKey(viewName)] = viewName
	p.columnList = append(p.columnList, qualified)
	return p
}

// ProjectExpr maps a view property name to a raw SQL expression such as an
// aggregate subquery. The expression is selected as-is.
func (p *ProjectionMap) ProjectExpr(expr, viewName string) *ProjectionMap {
	p.columns[viewName] = expr
	p.keys[foldKey(viewName)] = viewName
	p.columnList = append(p.columnList, expr)
	return p
}

// Join adds a joined table. Subsequent Project calls qualify columns with the
// joined alias.
func (p *ProjectionMap) Join(schema, table, alias, kind, on string) *ProjectionMap {
	p.joins = append(p.joins, join{
		kind:  kind,
		table: fmt.Sprintf("%s.%s %s", schema, table, alias),
		on:    on,
	})
	p.current = alias
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the fully qualified table reference with alias (schema.table alias).
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// From returns the FROM clause body: the base table followed by any joins.
func (p *ProjectionMap) From() string {
	var b strings.Builder
	b.WriteString(p.Table())
	for _, j := range p.joins {
		fmt.Fprintf(&b, " %s %s ON %s", j.kind, j.table, j.on)
	}
	return b.String()
}

// Column returns the qualified column for a view property name, or the input if not mapped.
// Only code-supplied names go through Column; request input goes through Lookup.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Lookup returns the mapped column for a view property name and whether one
// exists. Names match ignoring case and underscores, so created_at resolves
// to CreatedAt.
func (p *ProjectionMap) Lookup(name string) (string, bool) {
	if col, ok := p.columns[name]; ok {
		return col, true
	}
	viewName, ok := p.keys[foldKey(name)]
	if !ok {
		return "", false
	}
	return p.columns[viewName], true
}

func foldKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

// Columns returns all mapped columns as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

// ColumnList returns all mapped columns as a slice.
func (p *ProjectionMap) ColumnList() []string {
	return p.columnList
}
