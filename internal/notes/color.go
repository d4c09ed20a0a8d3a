package notes

import "hash/fnv"

// Color is a note card colour. Colours are display-only and never persisted.
type Color string

const (
	Yellow Color = "yellow"
	Blue   Color = "blue"
	Green  Color = "green"
	Pink   Color = "pink"
	Purple Color = "purple"
)

// Palette lists the available colours in cycle order
var Palette = []Color{Yellow, Blue, Green, Pink, Purple}

// Color returns the colour of the note with id, assigning one on first use
func (b *Board) Color(id string) Color {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.colors[id]; ok {
		return c
	}
	c := Palette[paletteIndex(id)]
	b.colors[id] = c
	return c
}

// CycleColor moves the note to the next colour in the palette
func (b *Board) CycleColor(id string) Color {
	current := b.Color(id)

	b.mu.Lock()
	defer b.mu.Unlock()
	next := Palette[0]
	for i, c := range Palette {
		if c == current {
			next = Palette[(i+1)%len(Palette)]
			break
		}
	}
	b.colors[id] = next
	return next
}

func paletteIndex(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % uint32(len(Palette)))
}
