package core

import "fmt"

// TraceWriter is the platform hook for diagnostic output. Lines are plain
// ASCII, `<role>: <message>\r\n`, and carry no functional contract.
type TraceWriter func(string)

var (
	// tracePrintln is the registered writer. No-op by default so core
	// code can trace unconditionally.
	tracePrintln TraceWriter = func(string) {}

	// Async trace channel, drained by a background goroutine.
	traceChan chan string
)

// SetTraceWriter registers the platform-specific writer. Platforms redirect
// trace output to UART, USB CDC or a log file. Register the writer before
// InitAsyncTrace; the drain goroutine latches it at init time.
func SetTraceWriter(w TraceWriter) {
	tracePrintln = w
}

// InitAsyncTrace routes trace lines through a buffered channel so tasks on
// the timing path never block on a slow serial link. Messages are dropped
// when the buffer is full. The current writer is captured here, so later
// SetTraceWriter calls never race the drain goroutine.
func InitAsyncTrace() {
	w := tracePrintln
	traceChan = make(chan string, 32)
	go func() {
		for msg := range traceChan {
			w(msg)
		}
	}()
}

// Tracef formats and emits one role-prefixed trace line.
func Tracef(role, format string, args ...any) {
	line := fmt.Sprintf("%-9s %s\r\n", role+":", fmt.Sprintf(format, args...))
	if traceChan != nil {
		select {
		case traceChan <- line:
		default:
			// Buffer full, drop the line.
		}
		return
	}
	tracePrintln(line)
}
