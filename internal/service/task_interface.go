package service

import (
	"context"

	"taskMaster/internal/models/task"
	"taskMaster/internal/repository/query"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	Placeholder() query.Placeholder
	Create(context.Context, *task.Task) error
	Select(context.Context, query.Select) ([]*task.Task, error)
	GetByID(context.Context, int64) (*task.Task, error)
	// Update возвращает число затронутых строк
	Update(context.Context, *task.Task) (int64, error)
	Delete(context.Context, int64) (int64, error)
	Counts(context.Context) (task.Counts, error)
}
