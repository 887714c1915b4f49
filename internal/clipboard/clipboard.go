package clipboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aymanbagabas/go-osc52/v2"
)

// Terminal copies text by writing an OSC 52 escape sequence to the
// terminal, which works over SSH and inside multiplexers.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	getenv func(string) string
}

func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = os.Stderr
	}
	return &Terminal{out: out, getenv: os.Getenv}
}

func (t *Terminal) SetText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	seq := t.sequence(text)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := seq.WriteTo(t.out); err != nil {
		return fmt.Errorf("failed to write clipboard sequence: %w", err)
	}
	return nil
}

// sequence wraps the escape for tmux or GNU screen so it reaches the outer
// terminal.
func (t *Terminal) sequence(text string) osc52.Sequence {
	seq := osc52.New(text)
	switch {
	case t.getenv("TMUX") != "":
		return seq.Tmux()
	case strings.HasPrefix(t.getenv("TERM"), "screen"):
		return seq.Screen()
	}
	return seq
}
