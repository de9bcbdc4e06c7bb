package tail

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMessage(t *testing.T) {
	msg, ok := ChatMessage("[12:34:56] [Render thread/INFO]: [CHAT] RNG Meter - 1,234 Stored XP")
	require.True(t, ok)
	assert.Equal(t, "RNG Meter - 1,234 Stored XP", msg)

	_, ok = ChatMessage("[12:34:56] [Render thread/INFO]: Loaded 9 advancements")
	assert.False(t, ok)
}

func TestProcessChunk_BuffersPartialLines(t *testing.T) {
	f := New("unused", time.Millisecond)
	var lines []string
	handle := func(line string) { lines = append(lines, line) }

	f.processChunk("first li", handle)
	assert.Empty(t, lines, "incomplete line must not be emitted")

	f.processChunk("ne\nsecond line\nthi", handle)
	require.Equal(t, []string{"first line", "second line"}, lines)

	f.processChunk("rd\r\n", handle)
	assert.Equal(t, []string{"first line", "second line", "third"}, lines)
}

func TestRun_EmitsOnlyAppendedLines(t *testing.T) {
	path := t.TempDir() + "/latest.log"
	require.NoError(t, os.WriteFile(path, []byte("old line\n"), 0o644))

	var mu sync.Mutex
	var lines []string

	f := New(path, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.Run(ctx, func(line string) {
			mu.Lock()
			lines = append(lines, line)
			mu.Unlock()
		})
	}()

	// give the follower a moment to seek to the end
	time.Sleep(30 * time.Millisecond)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = file.WriteString("new line one\nnew line two\n")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(lines) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"new line one", "new line two"}, lines)
}
