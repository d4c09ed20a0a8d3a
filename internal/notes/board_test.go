package notes

import (
	"context"
	"testing"
	"time"

	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/storage"
	"github.com/existflow/pintask/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func newBoard(t *testing.T) (*Board, *store.Store, *FakeClock) {
	t.Helper()
	st := store.New(nil, nil)
	clock := NewFakeClock(start)
	return NewBoard(st, WithClock(clock)), st, clock
}

func TestCreate_AddsEmptyNote(t *testing.T) {
	b, st, _ := newBoard(t)

	sess := b.Create()

	notes := st.State().Notes
	require.Len(t, notes, 1)
	assert.Equal(t, sess.ID(), notes[0].ID)
	assert.Empty(t, notes[0].Title)
	assert.Empty(t, notes[0].Content)
	assert.False(t, notes[0].Pinned)
	assert.Equal(t, start, notes[0].CreatedAt)
}

func TestSave_BlankNoteIsDeleted(t *testing.T) {
	b, st, _ := newBoard(t)

	sess := b.Create()
	sess.Title = "   "
	sess.Content = "\n\t"
	_, kept := sess.Save()

	assert.False(t, kept)
	assert.Empty(t, st.State().Notes)
}

func TestSave_TrimsAndRefreshesUpdatedAt(t *testing.T) {
	b, st, clock := newBoard(t)

	sess := b.Create()
	clock.Advance(time.Minute)
	sess.Title = "  groceries "
	sess.Content = " milk\n"
	n, kept := sess.Save()

	require.True(t, kept)
	assert.Equal(t, "groceries", n.Title)
	assert.Equal(t, "milk", n.Content)
	assert.Equal(t, start.Add(time.Minute), n.UpdatedAt)
	assert.Equal(t, start, n.CreatedAt)
	assert.Equal(t, []model.Note{n}, st.State().Notes)
}

func TestSave_TitleOnlyIsKept(t *testing.T) {
	b, st, _ := newBoard(t)

	sess := b.Create()
	sess.Title = "reminder"
	_, kept := sess.Save()

	assert.True(t, kept)
	assert.Len(t, st.State().Notes, 1)
}

func TestSave_ClearingExistingNoteDeletesIt(t *testing.T) {
	b, st, _ := newBoard(t)
	sess := b.Create()
	sess.Content = "draft"
	n, _ := sess.Save()

	edit := b.Edit(n)
	edit.Content = ""
	_, kept := edit.Save()

	assert.False(t, kept)
	assert.Empty(t, st.State().Notes)
}

func TestSave_OnlyOnce(t *testing.T) {
	b, st, clock := newBoard(t)
	sess := b.Create()
	sess.Title = "once"
	first, _ := sess.Save()

	clock.Advance(time.Hour)
	sess.Title = "twice"
	_, kept := sess.Save()

	assert.False(t, kept)
	assert.Equal(t, first, st.State().Notes[0])
}

func TestDiscard_LeavesNoteUntouched(t *testing.T) {
	b, st, _ := newBoard(t)
	sess := b.Create()
	sess.Title = "ignored"
	sess.Discard()

	notes := st.State().Notes
	require.Len(t, notes, 1)
	assert.Empty(t, notes[0].Title)
}

func TestTogglePin_RefreshesUpdatedAtAndSorts(t *testing.T) {
	b, st, clock := newBoard(t)

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		clock.Advance(time.Minute)
		sess := b.Create()
		sess.Title = title
		sess.Save()
		ids = append(ids, sess.ID())
	}

	clock.Advance(time.Minute)
	require.True(t, b.TogglePin(st.State(), ids[0]))

	sorted := model.SortNotes(st.State().Notes)
	require.Len(t, sorted, 3)
	assert.Equal(t, "a", sorted[0].Title)
	assert.True(t, sorted[0].Pinned)
	assert.Equal(t, start.Add(4*time.Minute), sorted[0].UpdatedAt)
	assert.Equal(t, "c", sorted[1].Title)
	assert.Equal(t, "b", sorted[2].Title)

	assert.False(t, b.TogglePin(st.State(), "missing"))
}

func TestBoard_PersistsThroughStore(t *testing.T) {
	adapter := storage.NewAdapter(storage.NewMemoryBackend())
	st := store.New(adapter, nil)
	b := NewBoard(st, WithClock(NewFakeClock(start)))

	sess := b.Create()
	sess.Title = "kept"
	sess.Save()

	blank := b.Create()
	blank.Save()

	loaded, found, err := adapter.LoadNotes(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, loaded, 1)
	assert.Equal(t, "kept", loaded[0].Title)
}

func TestColor_StableAndCycles(t *testing.T) {
	b, _, _ := newBoard(t)

	c := b.Color("note-1")
	assert.Contains(t, Palette, c)
	assert.Equal(t, c, b.Color("note-1"))

	seen := map[Color]bool{c: true}
	for i := 0; i < len(Palette)-1; i++ {
		seen[b.CycleColor("note-1")] = true
	}
	assert.Len(t, seen, len(Palette))
	assert.Equal(t, c, b.CycleColor("note-1"))

	b.Delete("note-1")
	assert.Equal(t, c, b.Color("note-1"))
}
