package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/cory-johannsen/adventure/internal/frontend/ansi"
	"github.com/cory-johannsen/adventure/internal/frontend/render"
)

// Display writes client output to a terminal or plain stream. It implements
// client.Display.
type Display struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewDisplay writes to out. When color is false every ANSI sequence is stripped.
func NewDisplay(out io.Writer, color bool) *Display {
	return &Display{out: out, color: color}
}

// Show writes narrative followed by a blank line.
func (d *Display) Show(narrative string) {
	d.write(strings.TrimRight(narrative, "\n") + "\n\n")
}

// Notice writes a client-side message in red.
func (d *Display) Notice(message string) {
	d.write(ansi.Colorize(ansi.Red, message) + "\n")
}

// SetInputEnabled is a no-op: the read loop waits for each action to finish.
func (d *Display) SetInputEnabled(bool) {}

// Prompt writes the input prompt.
func (d *Display) Prompt(prompt string) {
	d.write(prompt)
}

func (d *Display) write(s string) {
	if !d.color {
		s = ansi.StripANSI(s)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprint(d.out, s)
}

// Interactive reports whether f is a terminal.
func Interactive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the column count of the terminal on f, or render.DefaultWidth
// when f is not a terminal.
func Width(f *os.File) int {
	if !Interactive(f) {
		return render.DefaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return render.DefaultWidth
	}
	return w - 1
}
