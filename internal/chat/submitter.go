// Package chat implements message submission: the optimistic user message,
// the request, and the streamed assistant reply.
package chat

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	apierrors "github.com/diogo/chatbot/internal/errors"
	"github.com/diogo/chatbot/internal/models"
	"github.com/diogo/chatbot/internal/store"
)

// readBufferSize is the largest chunk taken from the body in one read
const readBufferSize = 4096

// Sender issues the completion request and returns the streaming body
type Sender interface {
	Send(ctx context.Context, msg models.Message) (io.ReadCloser, error)
}

// Notifier surfaces user-visible notifications
type Notifier interface {
	Notify(n Notification)
}

// Notification is a toast-style message
type Notification struct {
	Title       string
	Description string
	Err         error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notification)

// Notify calls f(n)
func (f NotifierFunc) Notify(n Notification) { f(n) }

// State is the phase of a submission
type State int

const (
	StateIdle State = iota
	StateSending
	StateStreaming
	StateFailed
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	case StateFailed:
		return "failed"
	case StateInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Result describes a finished submission
type Result struct {
	UserMessage      models.Message
	AssistantMessage models.Message // zero when the request failed
	Chunks           int
	Bytes            int
	State            State // final state: StateIdle on success
}

// Submitter runs the submission flow against a message store
type Submitter struct {
	store    *store.MessageStore
	sender   Sender
	notifier Notifier
	logger   *zap.Logger
}

// SubmitterOption configures a Submitter
type SubmitterOption func(*Submitter)

// WithNotifier sets where failure notifications go
func WithNotifier(n Notifier) SubmitterOption {
	return func(s *Submitter) {
		s.notifier = n
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) SubmitterOption {
	return func(s *Submitter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSubmitter creates a Submitter
func NewSubmitter(st *store.MessageStore, sender Sender, opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		store:    st,
		sender:   sender,
		notifier: NotifierFunc(func(Notification) {}),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit sends text as a new user message and streams the reply into a new
// assistant message. Submissions are not serialized; callers that need a
// single in-flight send must enforce it themselves.
//
// On a failed request the user message is rolled back and no assistant
// message is created. If the stream breaks after it started, the partial
// reply is kept and a StreamError is returned.
func (s *Submitter) Submit(ctx context.Context, text string) (Result, error) {
	userMsg := models.NewUserMessage(text)
	result := Result{UserMessage: userMsg, State: StateSending}

	s.store.AddMessage(userMsg)
	s.logger.Debug("submitting message", zap.String("message_id", userMsg.ID), zap.Int("length", len(text)))

	body, err := s.sender.Send(ctx, userMsg)
	if err == nil && body == nil {
		err = apierrors.ErrNoStream
	}
	if err != nil {
		s.store.RemoveMessage(userMsg.ID)
		result.State = StateFailed
		s.logger.Warn("send failed, rolled back user message",
			zap.String("message_id", userMsg.ID),
			zap.Error(err))
		s.notifyFailure(err)
		return result, err
	}
	defer func() { _ = body.Close() }()

	assistant := models.NewAssistantMessage()
	result.AssistantMessage = assistant
	result.State = StateStreaming

	s.store.AddMessage(assistant)
	s.store.SetIsMessageUpdating(true)

	streamErr := s.consume(ctx, body, assistant.ID, &result)

	s.store.SetIsMessageUpdating(false)
	if final, ok := s.store.Message(assistant.ID); ok {
		result.AssistantMessage = final
	}

	if streamErr != nil {
		result.State = StateInterrupted
		err := apierrors.NewStreamError(result.Bytes, streamErr)
		s.logger.Warn("stream interrupted",
			zap.String("message_id", assistant.ID),
			zap.Int("bytes", result.Bytes),
			zap.Error(streamErr))
		s.notifyFailure(err)
		return result, err
	}

	result.State = StateIdle
	s.logger.Debug("stream complete",
		zap.String("message_id", assistant.ID),
		zap.Int("chunks", result.Chunks),
		zap.Int("bytes", result.Bytes))
	return result, nil
}

// consume reads body until EOF, appending decoded text to the message id
func (s *Submitter) consume(ctx context.Context, body io.Reader, id string, result *Result) error {
	decoder := NewDecoder()
	buf := make([]byte, readBufferSize)

	appendText := func(text string) {
		if text == "" {
			return
		}
		s.store.UpdateMessage(id, func(prev string) string { return prev + text })
	}
	flush := func() {
		if pending := decoder.Pending(); pending > 0 {
			s.logger.Debug("stream ended inside a UTF-8 sequence",
				zap.String("message_id", id),
				zap.Int("pending_bytes", pending))
		}
		appendText(decoder.Flush())
	}

	for {
		if err := ctx.Err(); err != nil {
			flush()
			return err
		}

		n, err := body.Read(buf)
		if n > 0 {
			result.Chunks++
			result.Bytes += n
			appendText(decoder.Decode(buf[:n]))
		}
		if errors.Is(err, io.EOF) {
			flush()
			return nil
		}
		if err != nil {
			flush()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
	}
}

func (s *Submitter) notifyFailure(err error) {
	s.notifier.Notify(Notification{
		Title:       models.ErrorNotificationTitle,
		Description: models.ErrorNotificationDescription,
		Err:         err,
	})
}
