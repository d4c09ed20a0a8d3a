package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/pintask/internal/model"
	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage sticky notes",
	Long: `Add, list, pin and delete sticky notes.

Examples:
  pintask note add "Groceries" --content "milk, eggs"
  pintask note list --search milk
  pintask note pin 0190a3f2
  pintask note delete 0190a3f2`,
}

var noteAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a note",
	RunE:  runNoteAdd,
}

var noteListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List notes, pinned first",
	RunE:    runNoteList,
}

var notePinCmd = &cobra.Command{
	Use:   "pin [note-id]",
	Short: "Pin or unpin a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotePin,
}

var noteDeleteCmd = &cobra.Command{
	Use:     "delete [note-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	RunE:    runNoteDelete,
}

var (
	noteContent string
	noteSearch  string
)

func init() {
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(notePinCmd)
	noteCmd.AddCommand(noteDeleteCmd)

	noteAddCmd.Flags().StringVarP(&noteContent, "content", "c", "", "Note content")
	noteListCmd.Flags().StringVarP(&noteSearch, "search", "s", "", "Only notes containing this text")
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sess := a.board.Create()
	sess.Title = strings.Join(args, " ")
	sess.Content = noteContent
	n, kept := sess.Save()

	out := cmd.OutOrStdout()
	if !kept {
		fmt.Fprintln(out, "Empty note discarded.")
		return nil
	}
	fmt.Fprintf(out, "✓ Note added: \"%s\" (%s)\n", noteLabel(n), model.ShortID(n.ID))
	return nil
}

func runNoteList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	notes := model.SortNotes(model.SearchNotes(a.store.State().Notes, noteSearch))
	out := cmd.OutOrStdout()
	if len(notes) == 0 {
		fmt.Fprintln(out, "No notes found. Add one with: pintask note add \"Title\"")
		return nil
	}

	fmt.Fprintf(out, "\n📝 Notes (%d)\n", len(notes))
	fmt.Fprintln(out, strings.Repeat("─", 60))
	for _, n := range notes {
		pin := "  "
		if n.Pinned {
			pin = "📌"
		}
		fmt.Fprintf(out, "  %s %-8s  %-30s  %s\n", pin, model.ShortID(n.ID), noteLabel(n), n.UpdatedAt.Format("Jan 2 15:04"))
		if n.Content != "" && n.Title != "" {
			for _, line := range strings.Split(n.Content, "\n") {
				fmt.Fprintf(out, "              %s\n", line)
			}
		}
	}
	fmt.Fprintln(out)
	return nil
}

func runNotePin(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	n, ok := model.FindNote(a.store.State().Notes, args[0])
	if !ok {
		return fmt.Errorf("note not found: %s", args[0])
	}
	a.board.TogglePin(a.store.State(), n.ID)

	if n.Pinned {
		fmt.Fprintf(cmd.OutOrStdout(), "Unpinned: \"%s\"\n", noteLabel(n))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "📌 Pinned: \"%s\"\n", noteLabel(n))
	}
	return nil
}

func runNoteDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	n, ok := model.FindNote(a.store.State().Notes, args[0])
	if !ok {
		return fmt.Errorf("note not found: %s", args[0])
	}
	a.board.Delete(n.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted note: \"%s\"\n", noteLabel(n))
	return nil
}

// noteLabel is the title, or the first content line for untitled notes
func noteLabel(n model.Note) string {
	if n.Title != "" {
		return n.Title
	}
	first, _, _ := strings.Cut(n.Content, "\n")
	return first
}
