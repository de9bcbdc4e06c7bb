package tail

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"skyrng/internal/log"
)

// chatMarker precedes every chat message in the client log
const chatMarker = "[CHAT] "

// Follower follows a game client log file as it is appended to, emitting
// complete lines. Partial lines are buffered across reads, and log rotation
// (the file shrinking or being replaced) reopens from the start of the new
// file.
type Follower struct {
	path     string
	interval time.Duration

	lineBuffer string // partial line carried across reads
}

// New creates a follower for path, polling for new data every interval
func New(path string, interval time.Duration) *Follower {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Follower{path: path, interval: interval}
}

// Run follows the file until ctx is done, calling handle once per complete
// line. Existing content is skipped; only lines appended after Run starts
// are emitted.
func (f *Follower) Run(ctx context.Context, handle func(line string)) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { file.Close() }()

	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("failed to seek log file: %w", err)
	}

	buf := make([]byte, 32*1024)
	for {
		n, readErr := file.Read(buf)
		if n > 0 {
			offset += int64(n)
			f.processChunk(string(buf[:n]), handle)
		}

		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("failed to read log file: %w", readErr)
		}

		if n == 0 {
			if rotated, size := f.checkRotation(offset); rotated {
				file.Close()
				file, err = os.Open(f.path)
				if err != nil {
					return fmt.Errorf("failed to reopen rotated log file: %w", err)
				}
				offset = 0
				f.lineBuffer = ""
				log.Info("Tail: log file rotated, following new file", "path", f.path, "size", size)
				continue
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(f.interval):
			}
		}
	}
}

// processChunk appends a read chunk to the line buffer and emits every
// complete line in it
func (f *Follower) processChunk(text string, handle func(line string)) {
	f.lineBuffer += text

	for {
		endIdx := strings.IndexAny(f.lineBuffer, "\r\n")
		if endIdx < 0 {
			return
		}

		line := f.lineBuffer[:endIdx]
		f.lineBuffer = f.lineBuffer[endIdx+1:]

		if strings.TrimSpace(line) != "" {
			handle(line)
		}
	}
}

// checkRotation reports whether the file on disk is smaller than what has
// been read, meaning it was truncated or replaced
func (f *Follower) checkRotation(offset int64) (bool, int64) {
	info, err := os.Stat(f.path)
	if err != nil {
		return false, 0
	}
	return info.Size() < offset, info.Size()
}

// ChatMessage extracts the chat payload from a client log line
// ("[12:34:56] [Render thread/INFO]: [CHAT] ..."); ok is false for
// non-chat lines.
func ChatMessage(line string) (string, bool) {
	idx := strings.Index(line, chatMarker)
	if idx < 0 {
		return "", false
	}
	return line[idx+len(chatMarker):], true
}
