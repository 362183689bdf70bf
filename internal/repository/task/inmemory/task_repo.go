package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskMaster/internal/logger"
	"taskMaster/internal/models/task"
	repo "taskMaster/internal/repository"
	"taskMaster/internal/repository/query"
)

type TaskStorage struct {
	storage map[int64]*task.Task
	mtx     *sync.RWMutex
	ids     []int64
	lastID  int64
	now     func() time.Time
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Placeholder() query.Placeholder {
	return query.Question
}

func (s *TaskStorage) Close() {}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.lastID++
	now := s.now()

	taskToCreate.ID = s.lastID
	taskToCreate.CreatedAt = now
	taskToCreate.UpdatedAt = now

	stored := *taskToCreate
	s.storage[stored.ID] = &stored
	s.ids = append(s.ids, stored.ID)
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existed, ok := s.storage[taskToUpdate.ID]
	if !ok {
		return 0, nil
	}

	now := s.now()
	if now.Before(existed.UpdatedAt) {
		now = existed.UpdatedAt
	}

	existed.Title = taskToUpdate.Title
	existed.Description = taskToUpdate.Description
	existed.Status = taskToUpdate.Status
	existed.Priority = taskToUpdate.Priority
	existed.UpdatedAt = now

	taskToUpdate.CreatedAt = existed.CreatedAt
	taskToUpdate.UpdatedAt = existed.UpdatedAt
	return 1, nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	res := *taskToGet
	return &res, nil
}

// полное удаление, без пометок
func (s *TaskStorage) Delete(ctx context.Context, id int64) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return 0, nil
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return 1, nil
}

// Select выполняет фильтр из запроса, SQL здесь не нужен
func (s *TaskStorage) Select(ctx context.Context, sel query.Select) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	// новые id в конце, идём с конца, чтобы при равном created_at первыми шли новые
	for i := len(s.ids) - 1; i >= 0; i-- {
		t := s.storage[s.ids[i]]
		if sel.Filter.Status != "" && string(t.Status) != sel.Filter.Status {
			continue
		}
		if sel.Filter.Priority != "" && string(t.Priority) != sel.Filter.Priority {
			continue
		}
		copied := *t
		res = append(res, &copied)
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})

	return res, nil
}

func (s *TaskStorage) Counts(ctx context.Context) (task.Counts, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var total, pending, inProgress, completed int64
	for _, t := range s.storage {
		total++
		switch t.Status {
		case task.StatusPending:
			pending++
		case task.StatusInProgress:
			inProgress++
		case task.StatusCompleted:
			completed++
		}
	}

	return task.Counts{
		Total:      &total,
		Pending:    &pending,
		InProgress: &inProgress,
		Completed:  &completed,
	}, nil
}
