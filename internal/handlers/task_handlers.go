package handlers

import (
	"net/http"
	"time"

	"taskMaster/internal/handlers/dto"
	"taskMaster/internal/logger"
	"taskMaster/internal/models/task"
	"taskMaster/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const DefaultMaxBodyBytes int64 = 10 << 20

type TaskHandler struct {
	TaskService  Service
	maxBodyBytes int64
}

func NewTaskHandler(taskService Service, maxBodyBytes int64) TaskHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return TaskHandler{
		TaskService:  taskService,
		maxBodyBytes: maxBodyBytes,
	}
}

// Register вешает /health и /api/* на роутер
func (s *TaskHandler) Register(r chi.Router, apiMiddlewares ...func(http.Handler) http.Handler) {
	r.Get("/health", s.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiMiddlewares...)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.ListTasks)   // GET /api/tasks
			r.Post("/", s.CreateTask) // POST /api/tasks

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetTask)       // GET /api/tasks/{id}
				r.Put("/", s.UpdateTask)    // PUT /api/tasks/{id}
				r.Delete("/", s.DeleteTask) // DELETE /api/tasks/{id}
			})
		})

		r.Get("/stats", s.Stats) // GET /api/stats

		r.NotFound(s.NotFound)
		r.MethodNotAllowed(s.NotFound)
	})
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	body := dto.HealthResponse{
		Status:    "OK",
		Message:   "Task Management API is running",
		Timestamp: dto.FormatTime(time.Now()),
	}

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err)
		body.Status = "ERROR"
		body.Message = "Task store is unavailable"
		responseWithJSON(w, http.StatusServiceUnavailable, body)
		return
	}

	responseWithJSON(w, http.StatusOK, body)
}

func (s *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	filter := task.Filter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
	}

	list, err := s.TaskService.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, r, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("total", list.Total),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithList(w, dto.FromTaskList(list.Items), list.Total)
}

func (s *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := service.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}

	t, err := s.TaskService.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.Int64("task_id", t.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithData(w, http.StatusOK, dto.FromTask(t), "")
}

func (s *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	in, ok := s.readInput(w, r)
	if !ok {
		return
	}

	t, err := s.TaskService.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", t.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithData(w, http.StatusCreated, dto.FromTask(t), "Task created successfully")
}

func (s *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := service.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	in, ok := s.readInput(w, r)
	if !ok {
		return
	}

	t, err := s.TaskService.Update(r.Context(), id, in)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", t.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithData(w, http.StatusOK, dto.FromTask(t), "Task updated successfully")
}

func (s *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := service.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	if err := s.TaskService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithData(w, http.StatusOK, nil, "Task deleted successfully")
}

func (s *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	stats, err := s.TaskService.Stats(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "stats")
		return
	}

	logger.Info("HTTP_OUT: Статистика получена",
		zap.Int64("total", stats.Total),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithData(w, http.StatusOK, dto.FromStats(stats), "")
}

func (s *TaskHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	logger.Warn("HTTP: Неизвестный маршрут API",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	responseWithError(w, http.StatusNotFound, msgRouteNotFound)
}
