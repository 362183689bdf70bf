package service_test

import (
	"encoding/json"
	"testing"

	"taskMaster/internal/models/task"
	"taskMaster/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) *task.Input {
	t.Helper()
	var in task.Input
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return &in
}

// TestValidateCreate тестирует правила создания на реальных телах запросов
func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		expected  task.Fields
		errorCode string
	}{
		{
			name:     "title only",
			body:     `{"title":"Buy milk"}`,
			expected: task.Fields{Title: "Buy milk", Status: task.StatusPending, Priority: task.PriorityMedium},
		},
		{
			name:     "title trimmed",
			body:     `{"title":"  Buy milk \n"}`,
			expected: task.Fields{Title: "Buy milk", Status: task.StatusPending, Priority: task.PriorityMedium},
		},
		{
			name:     "all fields",
			body:     `{"title":"Ship","description":"v2","status":"completed","priority":"low"}`,
			expected: task.Fields{Title: "Ship", Description: "v2", Status: task.StatusCompleted, Priority: task.PriorityLow},
		},
		{
			name:     "null description",
			body:     `{"title":"Ship","description":null}`,
			expected: task.Fields{Title: "Ship", Status: task.StatusPending, Priority: task.PriorityMedium},
		},
		{name: "empty object", body: `{}`, errorCode: service.CodeEmptyBody},
		{name: "unrelated key", body: `{"foo":1}`, errorCode: service.CodeInvalidTitle},
		{name: "empty title", body: `{"title":""}`, errorCode: service.CodeInvalidTitle},
		{name: "whitespace title", body: `{"title":"   "}`, errorCode: service.CodeInvalidTitle},
		{name: "numeric title", body: `{"title":42}`, errorCode: service.CodeInvalidTitle},
		{name: "null title", body: `{"title":null}`, errorCode: service.CodeInvalidTitle},
		{name: "bad status", body: `{"title":"x","status":"done"}`, errorCode: service.CodeInvalidStatus},
		{name: "status wrong case", body: `{"title":"x","status":"Pending"}`, errorCode: service.CodeInvalidStatus},
		{name: "numeric status", body: `{"title":"x","status":1}`, errorCode: service.CodeInvalidStatus},
		{name: "null priority", body: `{"title":"x","priority":null}`, errorCode: service.CodeInvalidPriority},
		{name: "bad priority", body: `{"title":"x","priority":"urgent"}`, errorCode: service.CodeInvalidPriority},
		{name: "upper case title key", body: `{"TITLE":"x"}`, errorCode: service.CodeInvalidTitle},
		{name: "capitalized keys", body: `{"Title":"Buy milk","Status":"completed"}`, errorCode: service.CodeInvalidTitle},
		{
			name:     "capitalized status key ignored",
			body:     `{"title":"Buy milk","Status":"done"}`,
			expected: task.Fields{Title: "Buy milk", Status: task.StatusPending, Priority: task.PriorityMedium},
		},
		{
			name:     "repeated status last wins",
			body:     `{"title":"x","status":5,"status":"completed"}`,
			expected: task.Fields{Title: "x", Status: task.StatusCompleted, Priority: task.PriorityMedium},
		},
		{
			name:     "repeated title last wins",
			body:     `{"title":null,"title":"x"}`,
			expected: task.Fields{Title: "x", Status: task.StatusPending, Priority: task.PriorityMedium},
		},
		{name: "repeated title ends with null", body: `{"title":"x","title":null}`, errorCode: service.CodeInvalidTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := service.ValidateCreate(decode(t, tt.body))
			if tt.errorCode != "" {
				assertCode(t, err, tt.errorCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, fields)
		})
	}
}

// TestValidateCreate_Messages тестирует тексты ошибок
func TestValidateCreate_Messages(t *testing.T) {
	tests := []struct {
		body    string
		message string
	}{
		{body: `{}`, message: "Request body is required"},
		{body: `{"title":" "}`, message: "Title is required and must be a non-empty string"},
		{body: `{"title":"x","status":"done"}`, message: "Status must be one of: pending, in_progress, completed"},
		{body: `{"title":"x","priority":"urgent"}`, message: "Priority must be one of: low, medium, high"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			_, err := service.ValidateCreate(decode(t, tt.body))
			be, ok := service.AsBusinessError(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, be.Message)
		})
	}
}

// TestValidateUpdate тестирует мягкие правила обновления
func TestValidateUpdate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		expected  task.Fields
		errorCode string
	}{
		{
			name:     "title only gets defaults",
			body:     `{"title":"Renamed"}`,
			expected: task.Fields{Title: "Renamed", Status: task.StatusPending, Priority: task.PriorityMedium},
		},
		{
			name:     "unknown status stored as is",
			body:     `{"title":"Renamed","status":"archived","priority":"urgent"}`,
			expected: task.Fields{Title: "Renamed", Status: "archived", Priority: "urgent"},
		},
		{
			name:     "null status gets default",
			body:     `{"title":"Renamed","status":null}`,
			expected: task.Fields{Title: "Renamed", Status: task.StatusPending, Priority: task.PriorityMedium},
		},
		{
			name:     "numeric status kept as raw json",
			body:     `{"title":"Renamed","status":7}`,
			expected: task.Fields{Title: "Renamed", Status: "7", Priority: task.PriorityMedium},
		},
		{name: "empty object", body: `{}`, errorCode: service.CodeInvalidTitle},
		{name: "blank title", body: `{"title":" "}`, errorCode: service.CodeInvalidTitle},
		{name: "boolean title", body: `{"title":true}`, errorCode: service.CodeInvalidTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := service.ValidateUpdate(decode(t, tt.body))
			if tt.errorCode != "" {
				assertCode(t, err, tt.errorCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, fields)
		})
	}

	t.Run("nil body", func(t *testing.T) {
		_, err := service.ValidateUpdate(nil)
		assertCode(t, err, service.CodeInvalidTitle)
	})
}

// TestValidateUpdateStrict тестирует строгий режим обновления
func TestValidateUpdateStrict(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		errorCode string
	}{
		{name: "valid", body: `{"title":"x","status":"completed","priority":"high"}`},
		{name: "defaults", body: `{"title":"x"}`},
		{name: "unknown status", body: `{"title":"x","status":"archived"}`, errorCode: service.CodeInvalidStatus},
		{name: "numeric priority", body: `{"title":"x","priority":3}`, errorCode: service.CodeInvalidPriority},
		{name: "title checked first", body: `{"status":"archived"}`, errorCode: service.CodeInvalidTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateUpdateStrict(decode(t, tt.body))
			if tt.errorCode != "" {
				assertCode(t, err, tt.errorCode)
				return
			}
			assert.NoError(t, err)
		})
	}
}
