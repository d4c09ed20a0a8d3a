package model

import (
	"sort"
	"strings"
	"time"
)

// Note represents a sticky note on the board
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"` // Sanitized markup from the editor
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewNote creates an empty note
func NewNote() Note {
	now := time.Now()
	return Note{
		ID:        NewID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsBlank reports whether both title and content are empty after trimming
func (n *Note) IsBlank() bool {
	return strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Content) == ""
}

// SortNotes returns a copy of notes ordered pinned first, then most recently updated
func SortNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	copy(out, notes)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// SearchNotes returns notes whose title or content contains query, case-insensitively
func SearchNotes(notes []Note, query string) []Note {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return notes
	}
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), query) ||
			strings.Contains(strings.ToLower(n.Content), query) {
			out = append(out, n)
		}
	}
	return out
}

// FindNote looks a note up by full id or a unique id prefix or suffix
func FindNote(notes []Note, ref string) (Note, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Note{}, false
	}
	var match Note
	n := 0
	for _, note := range notes {
		if note.ID == ref {
			return note, true
		}
		if matchesRef(note.ID, ref) {
			match = note
			n++
		}
	}
	return match, n == 1
}
