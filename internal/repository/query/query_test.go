package query_test

import (
	"testing"

	"taskMaster/internal/models/task"
	"taskMaster/internal/repository/query"

	"github.com/stretchr/testify/assert"
)

// TestListTasks проверяет сборку запроса для всех комбинаций фильтров
func TestListTasks(t *testing.T) {
	const base = "SELECT id, title, description, status, priority, created_at, updated_at FROM tasks"

	tests := []struct {
		name         string
		filter       task.Filter
		ph           query.Placeholder
		expectedSQL  string
		expectedArgs []any
	}{
		{
			name:         "no filters",
			filter:       task.Filter{},
			ph:           query.Question,
			expectedSQL:  base + " ORDER BY created_at DESC",
			expectedArgs: []any{},
		},
		{
			name:         "status only",
			filter:       task.Filter{Status: "pending"},
			ph:           query.Question,
			expectedSQL:  base + " WHERE status = ? ORDER BY created_at DESC",
			expectedArgs: []any{"pending"},
		},
		{
			name:         "priority only",
			filter:       task.Filter{Priority: "high"},
			ph:           query.Question,
			expectedSQL:  base + " WHERE priority = ? ORDER BY created_at DESC",
			expectedArgs: []any{"high"},
		},
		{
			name:         "status and priority",
			filter:       task.Filter{Priority: "high", Status: "pending"},
			ph:           query.Question,
			expectedSQL:  base + " WHERE status = ? AND priority = ? ORDER BY created_at DESC",
			expectedArgs: []any{"pending", "high"},
		},
		{
			name:         "dollar placeholders",
			filter:       task.Filter{Status: "completed", Priority: "low"},
			ph:           query.Dollar,
			expectedSQL:  base + " WHERE status = $1 AND priority = $2 ORDER BY created_at DESC",
			expectedArgs: []any{"completed", "low"},
		},
		{
			name:         "dollar placeholder priority only",
			filter:       task.Filter{Priority: "medium"},
			ph:           query.Dollar,
			expectedSQL:  base + " WHERE priority = $1 ORDER BY created_at DESC",
			expectedArgs: []any{"medium"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := query.ListTasks(tt.filter, tt.ph)

			assert.Equal(t, tt.expectedSQL, sel.SQL)
			assert.Equal(t, tt.expectedArgs, sel.Args)
			assert.Equal(t, tt.filter, sel.Filter)
		})
	}
}

// TestListTasks_NoInterpolation значения фильтров не попадают в текст запроса
func TestListTasks_NoInterpolation(t *testing.T) {
	evil := "pending'; DROP TABLE tasks; --"

	sel := query.ListTasks(task.Filter{Status: evil}, query.Question)

	assert.NotContains(t, sel.SQL, "DROP")
	assert.Equal(t, []any{evil}, sel.Args)
}

// TestListTasks_Deterministic одинаковый вход даёт одинаковый результат
func TestListTasks_Deterministic(t *testing.T) {
	f := task.Filter{Status: "in_progress", Priority: "low"}

	first := query.ListTasks(f, query.Dollar)
	second := query.ListTasks(f, query.Dollar)

	assert.Equal(t, first, second)
}
