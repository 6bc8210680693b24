// Package trace parses the controller's serial trace stream on the host
// side. The firmware emits one line per event, a padded role tag followed
// by a message, e.g.
//
//	sem hand: release normal permit
//	mode rdr: settled on flash
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Event is one parsed trace line.
type Event struct {
	// Role is the task that emitted the line, e.g. "sem hand".
	Role string

	// Message is the rest of the line.
	Message string
}

func (e Event) String() string {
	return fmt.Sprintf("%-9s %s", e.Role+":", e.Message)
}

// Parse parses a single trace line. It returns false for lines that do not
// carry a role tag (boot banners, stray output).
func Parse(line string) (Event, bool) {
	line = strings.TrimRight(line, "\r\n")
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return Event{}, false
	}
	role := strings.TrimSpace(line[:idx])
	if role == "" || strings.ContainsAny(role, "\t") {
		return Event{}, false
	}
	msg := strings.TrimLeft(line[idx+1:], " ")
	return Event{Role: role, Message: msg}, true
}

// Handler receives parsed events. Unparseable lines are passed to the
// handler with an empty Role so nothing on the wire is silently lost.
type Handler func(Event)

// Stream reads a trace stream line by line and hands each event to the
// handler. It returns when the reader is exhausted or fails.
type Stream struct {
	r       io.Reader
	handler Handler

	// Counts tracks how many events each role emitted.
	Counts map[string]int
}

// NewStream creates a stream over r.
func NewStream(r io.Reader, handler Handler) *Stream {
	return &Stream{
		r:       r,
		handler: handler,
		Counts:  make(map[string]int),
	}
}

// Run consumes the stream until EOF or a read error.
func (s *Stream) Run() error {
	scanner := bufio.NewScanner(s.r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		ev, ok := Parse(line)
		if !ok {
			ev = Event{Message: strings.TrimRight(line, "\r\n")}
		}
		s.Counts[ev.Role]++
		if s.handler != nil {
			s.handler(ev)
		}
	}
	return scanner.Err()
}
