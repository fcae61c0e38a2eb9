package api

import (
	"context"
	"io"
	"sync"

	"github.com/diogo/chatbot/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	// Mock return values
	Chunks      [][]byte
	ReadErr     error
	SendErr     error
	NilBody     bool
	SendFunc    func(ctx context.Context, msg models.Message) (io.ReadCloser, error)
	EndpointVal string

	// Call recorders
	mu          sync.Mutex
	SendCalls   int
	LastMessage models.Message
	CloseCalled bool
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) Send(ctx context.Context, msg models.Message) (io.ReadCloser, error) {
	m.mu.Lock()
	m.SendCalls++
	m.LastMessage = msg
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	if m.SendErr != nil {
		return nil, m.SendErr
	}
	if m.NilBody {
		return nil, nil
	}
	body := NewChunkedBody(m.Chunks...)
	body.Err = m.ReadErr
	return body, nil
}

func (m *MockClient) Endpoint() string {
	if m.EndpointVal == "" {
		return models.DefaultEndpoint
	}
	return m.EndpointVal
}

func (m *MockClient) Close() {
	m.CloseCalled = true
}

// ChunkedBody is an io.ReadCloser that yields exactly one chunk per Read,
// like a network stream delivering pieces as they arrive. Once the chunks
// are exhausted it returns Err, or io.EOF when Err is nil.
type ChunkedBody struct {
	chunks [][]byte
	index  int
	offset int
	Err    error
	Closed bool
}

// NewChunkedBody creates a ChunkedBody over the given chunks
func NewChunkedBody(chunks ...[]byte) *ChunkedBody {
	return &ChunkedBody{chunks: chunks}
}

// NewChunkedStringBody is NewChunkedBody for string chunks
func NewChunkedStringBody(chunks ...string) *ChunkedBody {
	bs := make([][]byte, len(chunks))
	for i, c := range chunks {
		bs[i] = []byte(c)
	}
	return NewChunkedBody(bs...)
}

func (b *ChunkedBody) Read(p []byte) (int, error) {
	for b.index < len(b.chunks) {
		chunk := b.chunks[b.index][b.offset:]
		if len(chunk) == 0 {
			b.index++
			b.offset = 0
			continue
		}
		n := copy(p, chunk)
		b.offset += n
		if b.offset >= len(b.chunks[b.index]) {
			b.index++
			b.offset = 0
		}
		return n, nil
	}
	if b.Err != nil {
		return 0, b.Err
	}
	return 0, io.EOF
}

func (b *ChunkedBody) Close() error {
	b.Closed = true
	return nil
}
