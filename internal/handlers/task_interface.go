package handlers

import (
	"context"

	"taskMaster/internal/models/task"
)

type Service interface {
	HealthCheck(context.Context) error
	List(context.Context, task.Filter) (*task.List, error)
	Get(context.Context, int64) (*task.Task, error)
	Create(context.Context, *task.Input) (*task.Task, error)
	Update(context.Context, int64, *task.Input) (*task.Task, error)
	Delete(context.Context, int64) error
	Stats(context.Context) (*task.Stats, error)
}
