package task

import (
	"bytes"
	"encoding/json"
)

// Text - необязательное строковое поле входящего JSON.
// Present: ключ был в теле, Null: значение null, Invalid: значение не строка
// (в Value тогда лежит исходный JSON).
type Text struct {
	Value   string
	Present bool
	Null    bool
	Invalid bool
}

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text{Present: true}
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		t.Null = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		t.Invalid = true
		t.Value = string(data)
		return nil
	}
	t.Value = s
	return nil
}

// IsString - ключ есть и содержит строку
func (t Text) IsString() bool {
	return t.Present && !t.Null && !t.Invalid
}

// Missing - ключа нет или он null
func (t Text) Missing() bool {
	return !t.Present || t.Null
}

func String(s string) Text {
	return Text{Value: s, Present: true}
}

// Input - тело запроса на создание или обновление задачи
type Input struct {
	Title       Text `json:"title"`
	Description Text `json:"description"`
	Status      Text `json:"status"`
	Priority    Text `json:"priority"`

	// Keys - число ключей верхнего уровня в теле запроса
	Keys int `json:"-"`
}

func (in *Input) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// ключи сравниваются точно, без регистронезависимого поиска encoding/json
	*in = Input{Keys: len(raw)}
	fields := map[string]*Text{
		"title":       &in.Title,
		"description": &in.Description,
		"status":      &in.Status,
		"priority":    &in.Priority,
	}
	for key, value := range raw {
		if field, ok := fields[key]; ok {
			if err := field.UnmarshalJSON(value); err != nil {
				return err
			}
		}
	}
	return nil
}

// Empty - тело отсутствует или не содержит ни одного ключа
func (in *Input) Empty() bool {
	if in == nil {
		return true
	}
	if in.Keys > 0 {
		return false
	}
	return !in.Title.Present && !in.Description.Present && !in.Status.Present && !in.Priority.Present
}

// Fields - нормализованные значения четырёх изменяемых полей
type Fields struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
}
