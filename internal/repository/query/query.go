// Package query собирает SELECT для списка задач.
// Значения фильтров никогда не подставляются в текст запроса, только через параметры.
package query

import (
	"strconv"
	"strings"

	"taskMaster/internal/models/task"
)

type Placeholder int

const (
	// Question - "?" для SQLite
	Question Placeholder = iota
	// Dollar - "$1, $2..." для PostgreSQL
	Dollar
)

func (p Placeholder) bind(n int) string {
	if p == Dollar {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

const Columns = `id, title, description, status, priority, created_at, updated_at`

const baseSelect = `SELECT ` + Columns + ` FROM tasks`

const orderBy = ` ORDER BY created_at DESC`

type Select struct {
	SQL  string
	Args []any

	// Filter из которого собран запрос, нужен хранилищам без SQL
	Filter task.Filter
}

// ListTasks строит запрос списка задач. Порядок условий всегда status, затем priority.
func ListTasks(filter task.Filter, ph Placeholder) Select {
	var sb strings.Builder
	sb.WriteString(baseSelect)

	args := []any{}
	conds := make([]string, 0, 2)

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "status = "+ph.bind(len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		conds = append(conds, "priority = "+ph.bind(len(args)))
	}

	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(orderBy)

	return Select{
		SQL:    sb.String(),
		Args:   args,
		Filter: filter,
	}
}
