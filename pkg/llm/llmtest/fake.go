// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/entrhq/wingman/pkg/llm"
	"github.com/entrhq/wingman/pkg/types"
)

// Reply is one scripted response. Chunks, when set, are streamed in order;
// otherwise Text is streamed as a single chunk.
type Reply struct {
	Text   string
	Chunks []string
	Err    error
	// Block waits for the context to be cancelled and returns its error.
	Block bool
}

// Provider replays Replies in order, repeating the last one when exhausted,
// and records every request.
type Provider struct {
	mu       sync.Mutex
	replies  []Reply
	requests [][]*types.Message
	Model    string
}

// New creates a provider that answers with replies in order.
func New(replies ...Reply) *Provider {
	return &Provider{replies: replies, Model: "fake-model"}
}

// Text is shorthand for New with plain text replies.
func Text(texts ...string) *Provider {
	replies := make([]Reply, len(texts))
	for i, t := range texts {
		replies[i] = Reply{Text: t}
	}
	return New(replies...)
}

// Requests returns the recorded requests.
func (p *Provider) Requests() [][]*types.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]*types.Message, len(p.requests))
	copy(out, p.requests)
	return out
}

// Calls returns the number of requests made.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func (p *Provider) next(messages []*types.Message) Reply {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, messages)
	if len(p.replies) == 0 {
		return Reply{}
	}
	r := p.replies[0]
	if len(p.replies) > 1 {
		p.replies = p.replies[1:]
	}
	return r
}

// StreamCompletion implements llm.Provider.
func (p *Provider) StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *llm.StreamChunk, error) {
	r := p.next(messages)
	if r.Err != nil {
		return nil, r.Err
	}

	chunks := r.Chunks
	if len(chunks) == 0 {
		chunks = []string{r.Text}
	}

	out := make(chan *llm.StreamChunk, len(chunks)+2)
	go func() {
		defer close(out)
		if r.Block {
			<-ctx.Done()
			out <- &llm.StreamChunk{Error: ctx.Err()}
			return
		}
		out <- &llm.StreamChunk{Role: string(types.RoleAssistant)}
		for _, c := range chunks {
			select {
			case out <- &llm.StreamChunk{Content: c}:
			case <-ctx.Done():
				out <- &llm.StreamChunk{Error: ctx.Err()}
				return
			}
		}
		out <- &llm.StreamChunk{Finished: true}
	}()
	return out, nil
}

// Complete implements llm.Provider.
func (p *Provider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	stream, err := p.StreamCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}
	return llm.Collect(stream, nil)
}

// GetModelInfo implements llm.Provider.
func (p *Provider) GetModelInfo() *types.ModelInfo {
	return &types.ModelInfo{Provider: "fake", Name: p.Model, SupportsStreaming: true}
}

// GetModel implements llm.Provider.
func (p *Provider) GetModel() string {
	return p.Model
}
