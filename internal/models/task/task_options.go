package task

type TaskOption func(*Task)

func New(options ...TaskOption) *Task {
	t := &Task{}
	t.Apply(options...)
	return t
}

func (t *Task) Apply(options ...TaskOption) {
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
}

func WithID(id int64) TaskOption {
	return func(task *Task) {
		task.ID = id
	}
}

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithStatus(status Status) TaskOption {
	return func(task *Task) {
		task.Status = status
	}
}

func WithPriority(priority Priority) TaskOption {
	return func(task *Task) {
		task.Priority = priority
	}
}

// WithFields переносит все четыре изменяемых поля
func WithFields(f Fields) TaskOption {
	return func(task *Task) {
		task.Title = f.Title
		task.Description = f.Description
		task.Status = f.Status
		task.Priority = f.Priority
	}
}
