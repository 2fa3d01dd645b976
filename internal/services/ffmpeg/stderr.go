package ffmpeg

import (
	"strings"
	"sync"
)

// stderrTail retains the last few kilobytes of a process's stderr so a
// terminal failure can surface the tool's own diagnostic text.
type stderrTail struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func newStderrTail() *stderrTail {
	return &stderrTail{limit: 4096}
}

func (t *stderrTail) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.limit {
		t.buf = t.buf[len(t.buf)-t.limit:]
	}
	return len(p), nil
}

func (t *stderrTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(t.buf))
}
