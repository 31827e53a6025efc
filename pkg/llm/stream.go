package llm

// StreamChunk is one piece of a streamed completion.
type StreamChunk struct {
	// Error is set when the stream failed; no further chunks follow.
	Error error

	// Role is set on the first chunk, typically "assistant".
	Role string

	// Content is the text delta.
	Content string

	// Finished marks the final chunk.
	Finished bool
}

// IsError reports whether the chunk carries a failure.
func (c *StreamChunk) IsError() bool {
	return c.Error != nil
}
