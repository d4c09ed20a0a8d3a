package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/existflow/pintask/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shortIDPattern = regexp.MustCompile(`\(([0-9a-f]{8})\)`)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	dataDir := filepath.Join(home, "data")
	t.Setenv("HOME", home)
	t.Setenv("PINTASK_STORAGE", "file")
	t.Setenv("PINTASK_DATA_DIR", dataDir)
	t.Setenv("PINTASK_PASSPHRASE", "")
	t.Setenv("PINTASK_LOG_CONSOLE", "false")
	t.Cleanup(func() { appConfig = nil })
	return dataDir
}

// run executes the root command with fresh flag values
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	addDesc, addDue, addTimer = "", "", 0
	listActive, listDone = false, false
	doneUndo = false
	deleteForce = false
	clearAll, clearForce = false, false
	noteContent, noteSearch = "", ""
	timerMinutes = 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, out)
	return out
}

func idFrom(t *testing.T, out string) string {
	t.Helper()
	m := shortIDPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, "no id in %q", out)
	return m[1]
}

func TestParseDue(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "today", want: today},
		{in: "Tomorrow", want: today.AddDate(0, 0, 1)},
		{in: "+3d", want: today.AddDate(0, 0, 3)},
		{in: "2024-04-01", want: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{in: "+xd", wantErr: true},
		{in: "next week", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDue(tt.in, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestAddAndList(t *testing.T) {
	dataDir := setupHome(t)

	out := mustRun(t, "add", "Buy", "milk", "--timer", "25")
	assert.Contains(t, out, `Added: "Buy milk"`)
	assert.Contains(t, out, "⏱ 25m")

	out = mustRun(t, "list")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "1 active, 0 completed")

	adapter, err := storage.Open(context.Background(), storage.Options{Driver: storage.DriverFile, DataDir: dataDir})
	require.NoError(t, err)
	defer adapter.Close()
	tasks, found, err := adapter.LoadTasks(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, 25, tasks[0].Timer)
}

func TestAdd_RejectsBadInput(t *testing.T) {
	setupHome(t)

	_, err := run(t, "add", "   ")
	assert.Error(t, err)

	_, err = run(t, "add", "x", "--due", "someday")
	assert.Error(t, err)
}

func TestDoneAndUndo(t *testing.T) {
	setupHome(t)

	id := idFrom(t, mustRun(t, "add", "Write report"))
	mustRun(t, "add", "Other")

	out := mustRun(t, "done", id)
	assert.Contains(t, out, `Completed: "Write report"`)

	out = mustRun(t, "list", "--done")
	assert.Contains(t, out, "Write report")
	assert.NotContains(t, out, "Other")

	out = mustRun(t, "done", id)
	assert.Contains(t, out, "Nothing to do")

	out = mustRun(t, "done", id, "--undo")
	assert.Contains(t, out, `Reopened: "Write report"`)

	out = mustRun(t, "list", "--active")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "Other")
}

func TestDone_UnknownID(t *testing.T) {
	setupHome(t)

	_, err := run(t, "done", "nope")
	assert.Error(t, err)
}

func TestDeleteAndClear(t *testing.T) {
	setupHome(t)

	keep := idFrom(t, mustRun(t, "add", "Keep"))
	gone := idFrom(t, mustRun(t, "add", "Gone"))
	finished := idFrom(t, mustRun(t, "add", "Finished"))

	out := mustRun(t, "delete", gone, "--force")
	assert.Contains(t, out, `Deleted: "Gone"`)

	mustRun(t, "done", finished)
	out = mustRun(t, "clear", "--force")
	assert.Contains(t, out, "Removed 1 completed tasks")

	out = mustRun(t, "list")
	assert.Contains(t, out, "Keep")
	assert.NotContains(t, out, "Gone")
	assert.NotContains(t, out, "Finished")

	mustRun(t, "note", "add", "Scratch")
	out = mustRun(t, "clear", "--all", "--force")
	assert.Contains(t, out, "Removed 1 tasks and 1 notes")

	out = mustRun(t, "list")
	assert.Contains(t, out, "No tasks found")
	_, err := run(t, "done", keep)
	assert.Error(t, err)
}

func TestNotes(t *testing.T) {
	setupHome(t)

	out := mustRun(t, "note", "add", "Groceries", "--content", "milk, eggs")
	groceries := idFrom(t, out)
	idFrom(t, mustRun(t, "note", "add", "Ideas"))

	out = mustRun(t, "note", "add")
	assert.Contains(t, out, "Empty note discarded")

	out = mustRun(t, "note", "pin", groceries)
	assert.Contains(t, out, `Pinned: "Groceries"`)

	out = mustRun(t, "note", "list")
	assert.Contains(t, out, "Notes (2)")
	assert.Less(t, strings.Index(out, "Groceries"), strings.Index(out, "Ideas"))

	out = mustRun(t, "note", "list", "--search", "EGGS")
	assert.Contains(t, out, "Groceries")
	assert.NotContains(t, out, "Ideas")

	out = mustRun(t, "note", "delete", groceries)
	assert.Contains(t, out, `Deleted note: "Groceries"`)

	out = mustRun(t, "note", "list")
	assert.Contains(t, out, "Notes (1)")
}

func TestTimer_WithoutDurationLeavesTaskUntouched(t *testing.T) {
	dataDir := setupHome(t)

	id := idFrom(t, mustRun(t, "add", "No countdown"))

	_, err := run(t, "timer", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no timer configured")

	adapter, err := storage.Open(context.Background(), storage.Options{Driver: storage.DriverFile, DataDir: dataDir})
	require.NoError(t, err)
	defer adapter.Close()
	tasks, _, err := adapter.LoadTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Nil(t, tasks[0].TimerStartTime)
}

func TestServerURL(t *testing.T) {
	setupHome(t)
	appConfig = nil

	assert.Equal(t, "http://example.com:9000", serverURL("http://example.com:9000"))
	t.Setenv("PINTASK_SERVER_ADDR", ":9100")
	assert.Equal(t, "http://localhost:9100", serverURL(""))
}
