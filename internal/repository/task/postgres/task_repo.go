package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"taskMaster/internal/logger"
	"taskMaster/internal/models/task"
	repo "taskMaster/internal/repository"
	"taskMaster/internal/repository/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSQL string

type PoolConfig struct {
	MaxConnections int32
	MinConnections int32
	IdleTimeout    time.Duration
	SlowQuery      time.Duration
}

var DefaultPoolConfig = PoolConfig{
	MaxConnections: 10,
	MinConnections: 2,
	IdleTimeout:    5 * time.Minute,
	SlowQuery:      100 * time.Millisecond,
}

type Storage struct {
	pool      *pgxpool.Pool
	slowQuery time.Duration
}

func New(ctx context.Context, connString string, pc PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if pc.MaxConnections > 0 {
		config.MaxConns = pc.MaxConnections
	}
	if pc.MinConnections > 0 {
		config.MinConns = pc.MinConnections
	}
	if pc.IdleTimeout > 0 {
		config.MaxConnIdleTime = pc.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	slowQuery := pc.SlowQuery
	if slowQuery <= 0 {
		slowQuery = DefaultPoolConfig.SlowQuery
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool, slowQuery: slowQuery}, nil
}

// Init создаёт таблицу и индексы, если их нет
func (s *Storage) Init(ctx context.Context) error {
	logger.Info("Repository: Применение схемы")

	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		logger.Error("Repository: Не удалось применить схему", err)
		return fmt.Errorf("применение схемы: %w", err)
	}
	return nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Placeholder() query.Placeholder {
	return query.Dollar
}

func (s *Storage) slow(start time.Time, op string) {
	if time.Since(start) > s.slowQuery {
		logger.Warn("Repository: Медленная операция", zap.String("operation", op), zap.Duration("ms", time.Since(start)))
	}
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()
	defer s.slow(start, "create")

	// обе метки из одного NOW() - время начала транзакции
	stmt := `INSERT INTO tasks
				(title, description, status, priority, created_at, updated_at)
				VALUES ($1, $2, $3, $4, NOW(), NOW())
				RETURNING id, created_at, updated_at`

	err := s.pool.QueryRow(ctx, stmt,
		taskToCreate.Title,
		taskToCreate.Description,
		string(taskToCreate.Status),
		string(taskToCreate.Priority),
	).Scan(&taskToCreate.ID, &taskToCreate.CreatedAt, &taskToCreate.UpdatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("insert task: %w", err)
	}

	taskToCreate.CreatedAt = taskToCreate.CreatedAt.UTC()
	taskToCreate.UpdatedAt = taskToCreate.UpdatedAt.UTC()
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	start := time.Now()
	defer s.slow(start, "get_by_id")

	stmt := `SELECT ` + query.Columns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, stmt, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("select task: %w", err)
	}

	return t, nil
}

func (s *Storage) Select(ctx context.Context, sel query.Select) ([]*task.Task, error) {
	start := time.Now()
	defer s.slow(start, "select")

	rows, err := s.pool.Query(ctx, sel.SQL, sel.Args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) (int64, error) {
	start := time.Now()
	defer s.slow(start, "update")

	stmt := `UPDATE tasks
			SET title = $1,
				description = $2,
				status = $3,
				priority = $4,
				updated_at = GREATEST(updated_at, NOW())
			WHERE id = $5
			RETURNING created_at, updated_at`

	err := s.pool.QueryRow(ctx, stmt,
		taskToUpdate.Title,
		taskToUpdate.Description,
		string(taskToUpdate.Status),
		string(taskToUpdate.Priority),
		taskToUpdate.ID,
	).Scan(&taskToUpdate.CreatedAt, &taskToUpdate.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("update task: %w", err)
	}

	taskToUpdate.CreatedAt = taskToUpdate.CreatedAt.UTC()
	taskToUpdate.UpdatedAt = taskToUpdate.UpdatedAt.UTC()
	return 1, nil
}

// полное удаление из БД
func (s *Storage) Delete(ctx context.Context, id int64) (int64, error) {
	start := time.Now()
	defer s.slow(start, "delete")

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Полное удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("delete task: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (s *Storage) Counts(ctx context.Context) (task.Counts, error) {
	start := time.Now()
	defer s.slow(start, "counts")

	stmt := `SELECT
				COUNT(*),
				SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END),
				SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END),
				SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END)
			FROM tasks`

	var counts task.Counts
	err := s.pool.QueryRow(ctx, stmt).Scan(&counts.Total, &counts.Pending, &counts.InProgress, &counts.Completed)
	if err != nil {
		logger.Error("Repository: Не удалось посчитать задачи", err)
		return task.Counts{}, fmt.Errorf("count tasks: %w", err)
	}

	return counts, nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		t                task.Task
		status, priority string
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&status,
		&priority,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = task.Status(status)
	t.Priority = task.Priority(priority)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}
