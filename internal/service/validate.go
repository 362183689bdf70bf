package service

import (
	"strings"

	"taskMaster/internal/models/task"
)

const (
	msgCreateTitle = "Title is required and must be a non-empty string"
	msgUpdateTitle = "Title is required"
)

// ValidateCreate проверяет тело запроса на создание и подставляет значения по умолчанию.
func ValidateCreate(in *task.Input) (task.Fields, error) {
	if in.Empty() {
		return task.Fields{}, NewEmptyBody()
	}

	if !in.Title.IsString() || strings.TrimSpace(in.Title.Value) == "" {
		return task.Fields{}, NewInvalidTitle(msgCreateTitle)
	}

	// null не считается отсутствием значения
	status := task.StatusPending
	if in.Status.Present {
		status = task.Status(in.Status.Value)
		if !in.Status.IsString() || !status.Valid() {
			return task.Fields{}, NewInvalidStatus(in.Status.Value)
		}
	}

	priority := task.PriorityMedium
	if in.Priority.Present {
		priority = task.Priority(in.Priority.Value)
		if !in.Priority.IsString() || !priority.Valid() {
			return task.Fields{}, NewInvalidPriority(in.Priority.Value)
		}
	}

	return task.Fields{
		Title:       strings.TrimSpace(in.Title.Value),
		Description: description(in.Description),
		Status:      status,
		Priority:    priority,
	}, nil
}

// ValidateUpdate проверяет только заголовок, status и priority принимаются как есть.
// Отсутствующие status/priority заменяются на pending/medium, а не сохраняют прежнее значение:
// PUT с одним title переводит выполненную задачу в pending. В колонках не бывает NULL.
func ValidateUpdate(in *task.Input) (task.Fields, error) {
	if in == nil || !in.Title.IsString() || strings.TrimSpace(in.Title.Value) == "" {
		return task.Fields{}, NewInvalidTitle(msgUpdateTitle)
	}

	status := task.StatusPending
	if !in.Status.Missing() {
		status = task.Status(in.Status.Value)
	}

	priority := task.PriorityMedium
	if !in.Priority.Missing() {
		priority = task.Priority(in.Priority.Value)
	}

	return task.Fields{
		Title:       strings.TrimSpace(in.Title.Value),
		Description: description(in.Description),
		Status:      status,
		Priority:    priority,
	}, nil
}

// ValidateUpdateStrict - ValidateUpdate плюс проверка перечислений, как при создании
func ValidateUpdateStrict(in *task.Input) (task.Fields, error) {
	fields, err := ValidateUpdate(in)
	if err != nil {
		return fields, err
	}

	if in.Status.Invalid || !fields.Status.Valid() {
		return task.Fields{}, NewInvalidStatus(string(fields.Status))
	}
	if in.Priority.Invalid || !fields.Priority.Valid() {
		return task.Fields{}, NewInvalidPriority(string(fields.Priority))
	}

	return fields, nil
}

// description: null или отсутствие превращается в пустую строку,
// не строковое значение сохраняется в виде исходного JSON
func description(t task.Text) string {
	if t.Missing() {
		return ""
	}
	return t.Value
}
