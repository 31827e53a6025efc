package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(chunks ...*StreamChunk) <-chan *StreamChunk {
	ch := make(chan *StreamChunk, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return ch
}

func TestCollect(t *testing.T) {
	var tokens []string
	msg, err := Collect(feed(
		&StreamChunk{Role: "assistant"},
		&StreamChunk{Content: "{\"a\":"},
		&StreamChunk{Content: "1}"},
		&StreamChunk{Finished: true},
	), func(tok string) { tokens = append(tokens, tok) })

	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}", msg.Content)
	assert.Equal(t, "assistant", string(msg.Role))
	assert.Equal(t, []string{"{\"a\":", "1}"}, tokens)
}

func TestCollect_Error(t *testing.T) {
	boom := errors.New("stream broke")
	_, err := Collect(feed(&StreamChunk{Content: "x"}, &StreamChunk{Error: boom}), nil)
	assert.ErrorIs(t, err, boom)
}
