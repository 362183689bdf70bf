// Package sqlite - хранилище задач в файле SQLite (modernc.org/sqlite, без cgo).
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"taskMaster/internal/logger"
	"taskMaster/internal/models/task"
	repo "taskMaster/internal/repository"
	"taskMaster/internal/repository/query"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// фиксированная ширина, чтобы сортировка строк совпадала с сортировкой по времени
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Storage struct {
	db        *sql.DB
	slowQuery time.Duration
	now       func() time.Time
}

type Option func(*Storage)

func WithSlowQuery(d time.Duration) Option {
	return func(s *Storage) {
		if d > 0 {
			s.slowQuery = d
		}
	}
}

// New открывает базу по пути path (":memory:" - база в памяти) и применяет схему.
func New(ctx context.Context, path string, options ...Option) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		logger.Error("Repository: Ошибка открытия SQLite", err, zap.String("path", path))
		return nil, fmt.Errorf("открытие базы: %w", err)
	}

	// одно соединение: SQLite сам сериализует запись, а ":memory:" живёт только в своём соединении
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	s := &Storage{
		db:        db,
		slowQuery: 100 * time.Millisecond,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range options {
		opt(s)
	}

	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Repository: Успешное подключение к SQLite", zap.String("path", path))
	return s, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Init создаёт таблицу, если её ещё нет
func (s *Storage) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		logger.Error("Repository: Не удалось применить схему", err)
		return fmt.Errorf("применение схемы: %w", err)
	}
	return nil
}

func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		logger.Error("Repository: Ошибка закрытия SQLite", err)
		return
	}
	logger.Info("Repository: Соединение с SQLite закрыто")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Placeholder() query.Placeholder {
	return query.Question
}

func (s *Storage) slow(start time.Time, op string) {
	if time.Since(start) > s.slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.String("operation", op), zap.Duration("ms", time.Since(start)))
	}
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()
	defer s.slow(start, "create")

	now := s.now()
	stmt := `INSERT INTO tasks
				(title, description, status, priority, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, stmt,
		taskToCreate.Title,
		taskToCreate.Description,
		string(taskToCreate.Status),
		string(taskToCreate.Priority),
		now.Format(timeLayout),
		now.Format(timeLayout),
	)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	taskToCreate.ID = id
	taskToCreate.CreatedAt = now
	taskToCreate.UpdatedAt = now
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	start := time.Now()
	defer s.slow(start, "get_by_id")

	row := s.db.QueryRowContext(ctx, `SELECT `+query.Columns+` FROM tasks WHERE id = ?`, id)

	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

	rows, err := s.db.QueryContext(ctx, sel.SQL, sel.Args...)
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

	now := s.now()
	stmt := `UPDATE tasks
			SET title = ?,
				description = ?,
				status = ?,
				priority = ?,
				updated_at = MAX(updated_at, ?)
			WHERE id = ?
			RETURNING created_at, updated_at`

	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, stmt,
		taskToUpdate.Title,
		taskToUpdate.Description,
		string(taskToUpdate.Status),
		string(taskToUpdate.Priority),
		now.Format(timeLayout),
		taskToUpdate.ID,
	).Scan(&createdAt, &updatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("update task: %w", err)
	}

	if taskToUpdate.CreatedAt, err = parseTime(createdAt); err != nil {
		return 0, err
	}
	if taskToUpdate.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *Storage) Delete(ctx context.Context, id int64) (int64, error) {
	start := time.Now()
	defer s.slow(start, "delete")

	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("delete task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete task: %w", err)
	}
	return affected, nil
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

	var total, pending, inProgress, completed sql.NullInt64
	err := s.db.QueryRowContext(ctx, stmt).Scan(&total, &pending, &inProgress, &completed)
	if err != nil {
		logger.Error("Repository: Не удалось посчитать задачи", err)
		return task.Counts{}, fmt.Errorf("count tasks: %w", err)
	}

	return task.Counts{
		Total:      nullable(total),
		Pending:    nullable(pending),
		InProgress: nullable(inProgress),
		Completed:  nullable(completed),
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t                    task.Task
		status, priority     string
		createdAt, updatedAt string
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&status,
		&priority,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = task.Status(status)
	t.Priority = task.Priority(priority)
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", value, err)
	}
	return t, nil
}

func nullable(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
