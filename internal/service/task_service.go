package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"taskMaster/internal/logger"
	"taskMaster/internal/models/task"
	rep "taskMaster/internal/repository"
	"taskMaster/internal/repository/query"

	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики, в хранилище попадают только валидные данные

type TaskService struct {
	repo         TaskRepository
	strictUpdate bool
}

type Option func(*TaskService)

// WithStrictUpdate включает проверку status/priority при обновлении
func WithStrictUpdate(strict bool) Option {
	return func(s *TaskService) {
		s.strictUpdate = strict
	}
}

func NewTaskService(repo TaskRepository, options ...Option) *TaskService {
	s := &TaskService{
		repo: repo,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// ParseID разбирает id из пути. Всё, что не является положительным int64,
// считается несуществующей задачей.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		logger.Info("Service: Некорректный id", zap.String("target_id", raw))
		return 0, NewNotFound(raw)
	}
	return id, nil
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return NewStoreError("health_check", err)
	}
	return nil
}

func (s *TaskService) List(ctx context.Context, filter task.Filter) (*task.List, error) {
	sel := query.ListTasks(filter, s.repo.Placeholder())

	tasks, err := s.repo.Select(ctx, sel)
	if err != nil {
		logger.Error("Service: Ошибка получения списка задач", err,
			zap.String("status", filter.Status),
			zap.String("priority", filter.Priority))
		return nil, NewStoreError("list_tasks", err)
	}

	if tasks == nil {
		tasks = []*task.Task{}
	}

	return &task.List{
		Items: tasks,
		Total: len(tasks),
	}, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(strconv.FormatInt(id, 10))
		}
		return nil, NewStoreError("get_task", err)
	}
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, in *task.Input) (*task.Task, error) {
	fields, err := ValidateCreate(in)
	if err != nil {
		logger.Warn("Service: Ошибка валидации при создании", zap.Error(err))
		return nil, err
	}

	t := task.New(task.WithFields(fields))
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, NewStoreError("create_task", err)
	}

	logger.Info("Service: Задача создана", zap.Int64("task_id", t.ID))
	return t, nil
}

// Update перезаписывает все четыре изменяемых поля
func (s *TaskService) Update(ctx context.Context, id int64, in *task.Input) (*task.Task, error) {
	validate := ValidateUpdate
	if s.strictUpdate {
		validate = ValidateUpdateStrict
	}

	fields, err := validate(in)
	if err != nil {
		logger.Warn("Service: Ошибка валидации при обновлении", zap.Int64("task_id", id), zap.Error(err))
		return nil, err
	}

	t := task.New(task.WithID(id), task.WithFields(fields))
	affected, err := s.repo.Update(ctx, t)
	if err != nil {
		return nil, NewStoreError("update_task", err)
	}
	if affected == 0 {
		logger.Info("Service: Задача для обновления не найдена", zap.Int64("target_id", id))
		return nil, NewNotFound(strconv.FormatInt(id, 10))
	}

	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return NewStoreError("delete_task", err)
	}
	if affected == 0 {
		logger.Info("Service: Задача для удаления не найдена", zap.Int64("target_id", id))
		return NewNotFound(strconv.FormatInt(id, 10))
	}
	return nil
}

func (s *TaskService) Stats(ctx context.Context) (*task.Stats, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, NewStoreError("stats", err)
	}

	return &task.Stats{
		Total:      orZero(counts.Total),
		Pending:    orZero(counts.Pending),
		InProgress: orZero(counts.InProgress),
		Completed:  orZero(counts.Completed),
	}, nil
}

func orZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
