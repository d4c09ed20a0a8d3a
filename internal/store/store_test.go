package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	states []model.AppState
}

func (r *recordingBroadcaster) Broadcast(s model.AppState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recordingBroadcaster) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func task(id, title string) model.Task {
	return model.Task{ID: id, Title: title, CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func note(id, title string) model.Note {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return model.Note{ID: id, Title: title, CreatedAt: at, UpdatedAt: at}
}

func seeded() model.AppState {
	s := model.EmptyState()
	s, _ = Reduce(s, AddTask{Task: task("t1", "one")})
	s, _ = Reduce(s, AddTask{Task: task("t2", "two")})
	s, _ = Reduce(s, AddNote{Note: note("n1", "first")})
	return s
}

func TestReduce_AddTaskKeepsInsertionOrder(t *testing.T) {
	s := seeded()
	require.Len(t, s.Todos, 2)
	assert.Equal(t, "t1", s.Todos[0].ID)
	assert.Equal(t, "t2", s.Todos[1].ID)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := seeded()
	snapshot := before.Clone()

	Reduce(before, ToggleTask{ID: "t1"})
	Reduce(before, UpdateTask{Task: task("t2", "changed")})
	Reduce(before, DeleteNote{ID: "n1"})

	assert.Equal(t, snapshot, before)
}

func TestReduce_MissingIDIsNoop(t *testing.T) {
	s := seeded()

	actions := []Action{
		UpdateTask{Task: task("nope", "x")},
		DeleteTask{ID: "nope"},
		ToggleTask{ID: "nope"},
		UpdateNote{Note: note("nope", "x")},
		DeleteNote{ID: "nope"},
	}
	for _, a := range actions {
		next, change := Reduce(s, a)
		assert.Equal(t, s, next, "%T", a)
		assert.Equal(t, Change{}, change, "%T", a)
	}
}

func TestReduce_NilActionIsNoop(t *testing.T) {
	s := seeded()
	next, change := Reduce(s, nil)
	assert.Equal(t, s, next)
	assert.Equal(t, Change{}, change)
}

func TestReduce_ToggleIsInvolution(t *testing.T) {
	s := seeded()

	once, change := Reduce(s, ToggleTask{ID: "t2"})
	assert.True(t, change.Todos)
	assert.True(t, once.Todos[1].Completed)
	assert.Equal(t, s.Todos[0], once.Todos[0])

	twice, _ := Reduce(once, ToggleTask{ID: "t2"})
	assert.Equal(t, s, twice)
}

func TestReduce_UpdateReplacesWholesale(t *testing.T) {
	s := seeded()
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	updated := task("t1", "renamed")
	updated.DueDate = &due

	next, change := Reduce(s, UpdateTask{Task: updated})
	assert.True(t, change.Todos)
	assert.False(t, change.Notes)
	assert.Equal(t, updated, next.Todos[0])
	assert.Equal(t, "two", next.Todos[1].Title)
}

func TestReduce_DeleteRemovesEntry(t *testing.T) {
	next, change := Reduce(seeded(), DeleteTask{ID: "t1"})
	assert.True(t, change.Todos)
	require.Len(t, next.Todos, 1)
	assert.Equal(t, "t2", next.Todos[0].ID)

	next, change = Reduce(next, DeleteNote{ID: "n1"})
	assert.True(t, change.Notes)
	assert.Empty(t, next.Notes)
}

func TestReduce_TimerAndFloating(t *testing.T) {
	s := seeded()

	s, change := Reduce(s, SetTimer{Timer: model.TimerState{TimeLeft: 90, IsRunning: true}})
	assert.Equal(t, Change{}, change)
	assert.Equal(t, model.TimerState{TimeLeft: 90, IsRunning: true}, s.Timer)

	left := 30
	s, _ = Reduce(s, PatchTimer{TimeLeft: &left})
	assert.Equal(t, model.TimerState{TimeLeft: 30, IsRunning: true}, s.Timer)

	zero := 0
	s, _ = Reduce(s, PatchTimer{TimeLeft: &zero})
	assert.False(t, s.Timer.IsRunning, "a timer with nothing left cannot run")

	running := true
	s, _ = Reduce(s, PatchTimer{IsRunning: &running})
	assert.False(t, s.Timer.IsRunning)

	s, _ = Reduce(s, SetTimer{Timer: model.TimerState{TimeLeft: -5, IsRunning: true}})
	assert.Equal(t, model.TimerState{}, s.Timer)

	s, change = Reduce(s, SetFloating{Enabled: true})
	assert.True(t, s.IsPiPMode)
	assert.Equal(t, Change{}, change)
}

func TestReduce_SyncOverridesLocal(t *testing.T) {
	local := seeded()
	local, _ = Reduce(local, ToggleTask{ID: "t1"})

	snapshot := model.EmptyState()
	snapshot.Todos = []model.Task{task("r1", "remote")}
	snapshot.IsPiPMode = true

	s, change := Reduce(local, SyncState{State: snapshot})
	assert.Equal(t, Change{Todos: true, Notes: true}, change)
	assert.Equal(t, snapshot, s)

	// Later updates act on the snapshot, not the old local state.
	s, _ = Reduce(s, UpdateTask{Task: task("t1", "ghost")})
	assert.Equal(t, snapshot, s)
	s, _ = Reduce(s, ToggleTask{ID: "r1"})
	assert.True(t, s.Todos[0].Completed)
}

func TestReduce_SyncNormalizesNilCollections(t *testing.T) {
	s, _ := Reduce(seeded(), SyncState{State: model.AppState{}})
	assert.NotNil(t, s.Todos)
	assert.NotNil(t, s.Notes)
	assert.Empty(t, s.Todos)
}

func TestStore_PersistsOnlyChangedCollections(t *testing.T) {
	mem := storage.NewMemoryBackend()
	bc := &recordingBroadcaster{}
	st := New(storage.NewAdapter(mem), bc)

	st.Dispatch(AddTask{Task: task("t1", "one")})
	assert.Equal(t, 1, mem.Writes("todos"))
	assert.Equal(t, 0, mem.Writes("notes"))

	st.Dispatch(AddNote{Note: note("n1", "")})
	assert.Equal(t, 1, mem.Writes("notes"))

	st.Dispatch(SetFloating{Enabled: true})
	st.Dispatch(SetTimer{Timer: model.TimerState{TimeLeft: 10, IsRunning: true}})
	st.Dispatch(ToggleTask{ID: "missing"})
	assert.Equal(t, 1, mem.Writes("todos"))
	assert.Equal(t, 1, mem.Writes("notes"))

	// Broadcast goes out on every transition, persisted or not.
	assert.Equal(t, 5, bc.count())
	last := bc.states[len(bc.states)-1]
	assert.True(t, last.IsPiPMode)
	assert.Equal(t, 10, last.Timer.TimeLeft)
}

func TestStore_DispatchNilHasNoEffects(t *testing.T) {
	mem := storage.NewMemoryBackend()
	bc := &recordingBroadcaster{}
	st := New(storage.NewAdapter(mem), bc)

	st.Dispatch(nil)
	assert.Zero(t, bc.count())
	assert.Zero(t, mem.Writes("todos"))
}

func TestStore_WithoutCollaborators(t *testing.T) {
	st := New(nil, nil)
	st.Dispatch(AddTask{Task: task("t1", "one")})
	assert.Len(t, st.State().Todos, 1)
	assert.Len(t, st.Load(context.Background()).Todos, 1)
}

func TestStore_StateIsACopy(t *testing.T) {
	st := New(nil, nil)
	st.Dispatch(AddTask{Task: task("t1", "one")})

	s := st.State()
	s.Todos[0].Title = "mutated"
	assert.Equal(t, "one", st.State().Todos[0].Title)
}

func TestStore_LoadReplaysAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryBackend()
	adapter := storage.NewAdapter(mem)

	due := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	t1 := task("t1", "one")
	t1.DueDate = &due
	t1.Timer = 25
	tasks := []model.Task{t1, task("t2", "two")}
	notes := []model.Note{note("n1", "a"), note("n2", "b")}
	require.NoError(t, adapter.SaveTasks(ctx, tasks))
	require.NoError(t, adapter.SaveNotes(ctx, notes))
	originalTasks, _, _ := mem.Get(ctx, "todos")
	originalNotes, _, _ := mem.Get(ctx, "notes")

	bc := &recordingBroadcaster{}
	st := New(adapter, bc)
	state := st.Load(ctx)

	assert.Equal(t, tasks, state.Todos)
	assert.Equal(t, notes, state.Notes)
	assert.Equal(t, 1, bc.count())

	reTasks, err := json.Marshal(state.Todos)
	require.NoError(t, err)
	reNotes, err := json.Marshal(state.Notes)
	require.NoError(t, err)
	assert.JSONEq(t, string(originalTasks), string(reTasks))
	assert.JSONEq(t, string(originalNotes), string(reNotes))

	// Write-back after load stores the same content.
	stored, _, _ := mem.Get(ctx, "todos")
	assert.JSONEq(t, string(originalTasks), string(stored))
}

func TestStore_LoadUpgradesLegacyNotes(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryBackend()
	require.NoError(t, mem.Put(ctx, "notes",
		[]byte(`[{"id":"1","content":"old","createdAt":"2023-01-01T00:00:00Z","updatedAt":"2023-01-01T00:00:00Z"}]`)))

	st := New(storage.NewAdapter(mem), nil)
	state := st.Load(ctx)

	require.Len(t, state.Notes, 1)
	assert.Equal(t, "", state.Notes[0].Title)
	assert.False(t, state.Notes[0].Pinned)

	stored, _, _ := mem.Get(ctx, "notes")
	assert.Contains(t, string(stored), `"pinned":false`)
}

func TestStore_LoadMalformedStartsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryBackend()
	require.NoError(t, mem.Put(ctx, "todos", []byte(`{{{`)))
	require.NoError(t, mem.Put(ctx, "notes",
		[]byte(`[{"id":"n1","title":"ok","content":"","pinned":true,"createdAt":"2023-01-01T00:00:00Z","updatedAt":"2023-01-01T00:00:00Z"}]`)))

	st := New(storage.NewAdapter(mem), nil)

	var state model.AppState
	require.NotPanics(t, func() { state = st.Load(ctx) })
	assert.Empty(t, state.Todos)
	assert.Len(t, state.Notes, 1)

	// The unreadable value is left alone until a real change.
	raw, _, _ := mem.Get(ctx, "todos")
	assert.Equal(t, `{{{`, string(raw))

	st.Dispatch(AddTask{Task: task("t1", "fresh")})
	raw, _, _ = mem.Get(ctx, "todos")
	assert.Contains(t, string(raw), "fresh")
}

func TestStore_LoadReadsEachKindOnce(t *testing.T) {
	p := &countingPersister{}
	st := New(p, nil)
	st.Load(context.Background())

	assert.Equal(t, 1, p.taskLoads)
	assert.Equal(t, 1, p.noteLoads)
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	st := New(nil, nil)

	var got []model.AppState
	unsubscribe := st.Subscribe(func(s model.AppState) { got = append(got, s) })

	st.Dispatch(AddTask{Task: task("t1", "one")})
	unsubscribe()
	st.Dispatch(AddTask{Task: task("t2", "two")})

	require.Len(t, got, 1)
	assert.Len(t, got[0].Todos, 1)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	st := New(storage.NewAdapter(storage.NewMemoryBackend()), &recordingBroadcaster{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st.Dispatch(AddTask{Task: task(model.NewID(), "x")})
		}(i)
	}
	wg.Wait()

	assert.Len(t, st.State().Todos, 50)
}

type countingPersister struct {
	taskLoads, noteLoads int
}

func (c *countingPersister) LoadTasks(context.Context) ([]model.Task, bool, error) {
	c.taskLoads++
	return []model.Task{task("t1", "one")}, true, nil
}

func (c *countingPersister) LoadNotes(context.Context) ([]model.Note, bool, error) {
	c.noteLoads++
	return nil, false, nil
}

func (c *countingPersister) SaveTasks(context.Context, []model.Task) error { return nil }
func (c *countingPersister) SaveNotes(context.Context, []model.Note) error { return nil }
