package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/existflow/pintask/internal/model"
)

// fieldRule describes how one field of a stored record is upgraded.
// Absent and null values count as missing.
type fieldRule struct {
	Field      string
	From       []string        // Older names, first present one wins
	Default    json.RawMessage // Used when still missing, nil leaves it absent
	EmptyIsNil bool            // An empty string is treated as missing
}

// taskSchema is every change made to the stored task shape
var taskSchema = []fieldRule{
	{Field: "title", From: []string{"text"}, Default: json.RawMessage(`""`)},
	{Field: "completed", Default: json.RawMessage(`false`)},
	{Field: "timer", From: []string{"timerDuration"}},
	{Field: "dueDate", EmptyIsNil: true},
	{Field: "timerStartTime", EmptyIsNil: true},
}

// noteSchema is every change made to the stored note shape
var noteSchema = []fieldRule{
	{Field: "title", Default: json.RawMessage(`""`)},
	{Field: "content", Default: json.RawMessage(`""`)},
	{Field: "pinned", Default: json.RawMessage(`false`)},
}

// DecodeTasks decodes a stored task array, upgrading older shapes
func DecodeTasks(data []byte) ([]model.Task, error) {
	records, err := decodeRecords(data, taskSchema)
	if err != nil {
		return nil, err
	}
	tasks := make([]model.Task, 0, len(records))
	for i, rec := range records {
		var t model.Task
		if err := json.Unmarshal(rec, &t); err != nil {
			return nil, fmt.Errorf("%w: task %d: %v", ErrMalformed, i, err)
		}
		if t.Timer < 0 {
			t.Timer = 0
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// DecodeNotes decodes a stored note array, upgrading older shapes
func DecodeNotes(data []byte) ([]model.Note, error) {
	records, err := decodeRecords(data, noteSchema)
	if err != nil {
		return nil, err
	}
	notes := make([]model.Note, 0, len(records))
	for i, rec := range records {
		var n model.Note
		if err := json.Unmarshal(rec, &n); err != nil {
			return nil, fmt.Errorf("%w: note %d: %v", ErrMalformed, i, err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func decodeRecords(data []byte, schema []fieldRule) ([]json.RawMessage, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	out := make([]json.RawMessage, 0, len(raw))
	for i, rec := range raw {
		if rec == nil {
			return nil, fmt.Errorf("%w: record %d is null", ErrMalformed, i)
		}
		upgrade(rec, schema)
		b, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func upgrade(rec map[string]json.RawMessage, schema []fieldRule) {
	for _, r := range schema {
		if !present(rec[r.Field], r.EmptyIsNil) {
			delete(rec, r.Field)
			for _, old := range r.From {
				if present(rec[old], r.EmptyIsNil) {
					rec[r.Field] = rec[old]
					break
				}
			}
		}
		for _, old := range r.From {
			delete(rec, old)
		}
		if _, ok := rec[r.Field]; !ok && r.Default != nil {
			rec[r.Field] = r.Default
		}
	}
}

func present(v json.RawMessage, emptyIsNil bool) bool {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return false
	}
	if emptyIsNil && bytes.Equal(v, []byte(`""`)) {
		return false
	}
	return true
}
