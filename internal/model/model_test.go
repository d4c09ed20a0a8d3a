package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask_TrimsAndClampsTimer(t *testing.T) {
	task := NewTask("  buy milk ", " two litres ", -5)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "buy milk", task.Title)
	assert.Equal(t, "two litres", task.Description)
	assert.False(t, task.HasTimer())
	assert.False(t, task.Completed)
}

func TestNewID_IsTimeOrdered(t *testing.T) {
	a := NewID()
	time.Sleep(2 * time.Millisecond)
	b := NewID()
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b)
}

func TestFilterAndCountTasks(t *testing.T) {
	tasks := []Task{
		{ID: "1", Title: "a"},
		{ID: "2", Title: "b", Completed: true},
		{ID: "3", Title: "c"},
	}

	assert.Len(t, FilterTasks(tasks, FilterAll), 3)
	active := FilterTasks(tasks, FilterActive)
	require.Len(t, active, 2)
	assert.Equal(t, "1", active[0].ID)
	assert.Equal(t, "3", active[1].ID)
	done := FilterTasks(tasks, FilterCompleted)
	require.Len(t, done, 1)
	assert.Equal(t, "2", done[0].ID)

	a, c := CountTasks(tasks)
	assert.Equal(t, 2, a)
	assert.Equal(t, 1, c)
}

func TestFindTask_ByPrefix(t *testing.T) {
	tasks := []Task{{ID: "abc123"}, {ID: "abd456"}, {ID: "ab"}}

	got, ok := FindTask(tasks, "abc")
	require.True(t, ok)
	assert.Equal(t, "abc123", got.ID)

	got, ok = FindTask(tasks, "ab")
	require.True(t, ok)
	assert.Equal(t, "ab", got.ID)

	_, ok = FindTask(tasks, "a")
	assert.False(t, ok)
	_, ok = FindTask(tasks, " ")
	assert.False(t, ok)
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	earlierToday := time.Date(2024, 5, 10, 1, 0, 0, 0, time.UTC)

	assert.True(t, (&Task{DueDate: &yesterday}).IsOverdue(now))
	assert.False(t, (&Task{DueDate: &earlierToday}).IsOverdue(now))
	assert.False(t, (&Task{DueDate: &yesterday, Completed: true}).IsOverdue(now))
	assert.False(t, (&Task{}).IsOverdue(now))
}

func TestSortNotes_PinnedFirstThenRecent(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	notes := []Note{
		{ID: "old", UpdatedAt: base},
		{ID: "pinned-old", Pinned: true, UpdatedAt: base.Add(time.Hour)},
		{ID: "new", UpdatedAt: base.Add(3 * time.Hour)},
		{ID: "pinned-new", Pinned: true, UpdatedAt: base.Add(2 * time.Hour)},
	}

	sorted := SortNotes(notes)

	var ids []string
	for _, n := range sorted {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"pinned-new", "pinned-old", "new", "old"}, ids)
	assert.Equal(t, "old", notes[0].ID, "input must not be reordered")

	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Pinned == sorted[i].Pinned {
			assert.False(t, sorted[i].UpdatedAt.After(sorted[i-1].UpdatedAt))
		} else {
			assert.True(t, sorted[i-1].Pinned)
		}
	}
}

func TestSearchNotes_CaseInsensitive(t *testing.T) {
	notes := []Note{
		{ID: "1", Title: "Shopping", Content: "eggs"},
		{ID: "2", Title: "work", Content: "Quarterly REPORT"},
	}

	assert.Len(t, SearchNotes(notes, ""), 2)
	got := SearchNotes(notes, "report")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
	assert.Len(t, SearchNotes(notes, "SHOP"), 1)
	assert.Empty(t, SearchNotes(notes, "zzz"))
}

func TestNoteIsBlank(t *testing.T) {
	assert.True(t, (&Note{Title: " ", Content: "\n"}).IsBlank())
	assert.False(t, (&Note{Content: "x"}).IsBlank())
}

func TestAppStateClone_IsDeep(t *testing.T) {
	due := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	s := EmptyState()
	s.Todos = append(s.Todos, Task{ID: "t", DueDate: &due})
	s.Notes = append(s.Notes, Note{ID: "n", Title: "x"})

	c := s.Clone()
	c.Todos[0].Title = "changed"
	*c.Todos[0].DueDate = due.AddDate(1, 0, 0)
	c.Notes[0].Title = "changed"

	assert.Empty(t, s.Todos[0].Title)
	assert.Equal(t, due, *s.Todos[0].DueDate)
	assert.Equal(t, "x", s.Notes[0].Title)
}

func TestFindTask_BySuffix(t *testing.T) {
	a := NewTask("first", "", 0)
	b := NewTask("second", "", 0)
	tasks := []Task{a, b}

	got, ok := FindTask(tasks, ShortID(b.ID))
	require.True(t, ok)
	assert.Equal(t, b.ID, got.ID)
	assert.Len(t, ShortID(a.ID), 8)
}
