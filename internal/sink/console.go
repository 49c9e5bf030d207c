package sink

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/logspool/logspool/internal/domain"
)

// Console writes dump snapshots to a local writer (stdout by default) in a
// line-per-entry, human-readable format. It implements spool.DumpTarget.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console dump target writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Dump writes the snapshot to the writer.
func (c *Console) Dump(ctx context.Context, entries []domain.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.out, "--- spool dump: %d buffered entries ---\n", len(entries)); err != nil {
		return fmt.Errorf("failed to write dump header: %w", err)
	}

	for _, e := range entries {
		if _, err := fmt.Fprintln(c.out, formatEntry(e)); err != nil {
			return fmt.Errorf("failed to write dump entry: %w", err)
		}
	}

	return nil
}

// formatEntry renders one entry as a single line. Attrs print in key order
// so output is stable.
func formatEntry(e domain.Entry) string {
	var b strings.Builder
	b.WriteString(e.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"))
	b.WriteString(" [")
	b.WriteString(strings.ToUpper(string(e.Level)))
	b.WriteString("] ")
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)

	if len(e.Attrs) > 0 {
		keys := make([]string, 0, len(e.Attrs))
		for k := range e.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%s", k, e.Attrs[k])
		}
	}

	return b.String()
}
