package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"taskMaster/internal/models/task"
	"taskMaster/internal/repository"
	"taskMaster/internal/repository/query"
	"taskMaster/internal/repository/task/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(title string, status task.Status, priority task.Priority) *task.Task {
	return task.New(
		task.WithTitle(title),
		task.WithStatus(status),
		task.WithPriority(priority),
	)
}

// TestTaskStorage_New тестирует создание хранилища
func TestTaskStorage_New(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NotNil(t, storage)
	assert.NoError(t, storage.HealthCheck(context.Background()))
	assert.Equal(t, query.Question, storage.Placeholder())
}

// TestTaskStorage_Create тестирует создание задачи
func TestTaskStorage_Create(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	first := newTask("First", task.StatusPending, task.PriorityMedium)
	require.NoError(t, storage.Create(ctx, first))

	second := newTask("Second", task.StatusPending, task.PriorityMedium)
	require.NoError(t, storage.Create(ctx, second))

	// id назначает хранилище, по возрастанию
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	// обе метки времени одинаковые
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	retrieved, err := storage.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, *first, *retrieved)
}

// TestTaskStorage_GetByID тестирует получение задачи по ID
func TestTaskStorage_GetByID(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("Test Get Task", task.StatusInProgress, task.PriorityHigh)
	require.NoError(t, storage.Create(ctx, created))

	retrieved, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Get Task", retrieved.Title)

	// изменение копии не трогает хранилище
	retrieved.Title = "changed"
	again, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Get Task", again.Title)

	_, err = storage.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTaskStorage_Update тестирует обновление задачи
func TestTaskStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("Original Title", task.StatusPending, task.PriorityLow)
	require.NoError(t, storage.Create(ctx, created))

	toUpdate := task.New(
		task.WithID(created.ID),
		task.WithTitle("Updated Title"),
		task.WithDescription("Updated Description"),
		task.WithStatus(task.StatusCompleted),
		task.WithPriority(task.PriorityHigh),
	)

	affected, err := storage.Update(ctx, toUpdate)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Equal(t, created.CreatedAt, toUpdate.CreatedAt)
	assert.False(t, toUpdate.UpdatedAt.Before(created.UpdatedAt))

	retrieved, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", retrieved.Title)
	assert.Equal(t, "Updated Description", retrieved.Description)
	assert.Equal(t, task.StatusCompleted, retrieved.Status)
	assert.Equal(t, task.PriorityHigh, retrieved.Priority)
	assert.Equal(t, created.CreatedAt, retrieved.CreatedAt)
}

// TestTaskStorage_Update_NonExistent обновление несуществующей задачи ничего не затрагивает
func TestTaskStorage_Update_NonExistent(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	affected, err := storage.Update(ctx, task.New(task.WithID(42), task.WithTitle("ghost")))
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	_, err = storage.GetByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTaskStorage_Delete тестирует удаление
func TestTaskStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("Task to delete", task.StatusPending, task.PriorityMedium)
	require.NoError(t, storage.Create(ctx, created))

	affected, err := storage.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, err = storage.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// повторное удаление
	affected, err = storage.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	// id не переиспользуются
	next := newTask("Next", task.StatusPending, task.PriorityMedium)
	require.NoError(t, storage.Create(ctx, next))
	assert.Equal(t, int64(2), next.ID)
}

// TestTaskStorage_Select тестирует фильтрацию и порядок
func TestTaskStorage_Select(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	pendingHigh := newTask("pending high", task.StatusPending, task.PriorityHigh)
	pendingLow := newTask("pending low", task.StatusPending, task.PriorityLow)
	completedHigh := newTask("completed high", task.StatusCompleted, task.PriorityHigh)
	for _, tt := range []*task.Task{pendingHigh, pendingLow, completedHigh} {
		require.NoError(t, storage.Create(ctx, tt))
	}

	tests := []struct {
		name     string
		filter   task.Filter
		expected []string
	}{
		{name: "no filter newest first", filter: task.Filter{}, expected: []string{"completed high", "pending low", "pending high"}},
		{name: "status", filter: task.Filter{Status: "pending"}, expected: []string{"pending low", "pending high"}},
		{name: "priority", filter: task.Filter{Priority: "high"}, expected: []string{"completed high", "pending high"}},
		{name: "status and priority", filter: task.Filter{Status: "pending", Priority: "high"}, expected: []string{"pending high"}},
		{name: "unknown value", filter: task.Filter{Status: "archived"}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := storage.Select(ctx, query.ListTasks(tt.filter, storage.Placeholder()))
			require.NoError(t, err)

			titles := make([]string, 0, len(tasks))
			for _, got := range tasks {
				titles = append(titles, got.Title)
			}
			assert.Equal(t, tt.expected, titles)
		})
	}
}

// TestTaskStorage_Counts тестирует агрегированные счётчики
func TestTaskStorage_Counts(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	counts, err := storage.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), *counts.Total)

	statuses := []task.Status{
		task.StatusPending, task.StatusPending,
		task.StatusInProgress,
		task.StatusCompleted, task.StatusCompleted, task.StatusCompleted,
	}
	for i, st := range statuses {
		require.NoError(t, storage.Create(ctx, newTask(fmt.Sprintf("Task %d", i), st, task.PriorityMedium)))
	}

	counts, err = storage.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), *counts.Total)
	assert.Equal(t, int64(2), *counts.Pending)
	assert.Equal(t, int64(1), *counts.InProgress)
	assert.Equal(t, int64(3), *counts.Completed)
}

// TestTaskStorage_ConcurrentAccess тестирует конкурентный доступ
func TestTaskStorage_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	taskCount := 100
	goroutines := 10

	var wg sync.WaitGroup
	var mtx sync.Mutex
	seen := make(map[int64]bool)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := 0; j < taskCount/goroutines; j++ {
				created := newTask(fmt.Sprintf("Task %d-%d", workerID, j), task.StatusPending, task.PriorityMedium)
				if err := storage.Create(ctx, created); err != nil {
					t.Error(err)
					return
				}
				mtx.Lock()
				seen[created.ID] = true
				mtx.Unlock()
			}
		}(i)
	}
	wg.Wait()

	// все id разные
	assert.Len(t, seen, taskCount)

	tasks, err := storage.Select(ctx, query.ListTasks(task.Filter{}, query.Question))
	require.NoError(t, err)
	assert.Len(t, tasks, taskCount)
}
