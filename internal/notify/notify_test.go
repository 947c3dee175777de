package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Notify(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestDispatcherDeliversAsync(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, testLogger())

	event := Event{FormID: uuid.New(), FormName: "Contact", Recipients: []string{"o@example.com"}}
	d.Dispatch(event)
	d.Close()

	require.Equal(t, 1, sink.count())
	assert.Equal(t, "Contact", sink.events[0].FormName)
}

func TestDispatcherSinkFailureOnlyLogged(t *testing.T) {
	sink := &recordingSink{err: errors.New("smtp down")}
	d := NewDispatcher(sink, testLogger())

	// Dispatch must not surface the failure nor panic on delivery.
	d.Dispatch(Event{FormID: uuid.New()})
	d.Close()

	assert.Equal(t, 1, sink.count())
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	sink := sinkFunc(func(context.Context, Event) error {
		<-block
		return nil
	})
	var dropped atomic.Int32
	d := NewDispatcher(sink, testLogger(), WithBuffer(1),
		WithDropCallback(func() { dropped.Add(1) }))

	// First event occupies the delivery goroutine, second fills the buffer,
	// third must drop without blocking the caller.
	done := make(chan struct{})
	go func() {
		d.Dispatch(Event{})
		d.Dispatch(Event{})
		d.Dispatch(Event{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full buffer")
	}
	close(block)
	d.Close()

	assert.GreaterOrEqual(t, dropped.Load(), int32(1),
		"every drop must report through the callback")
}

type sinkFunc func(ctx context.Context, event Event) error

func (f sinkFunc) Notify(ctx context.Context, event Event) error { return f(ctx, event) }

type fakeSES struct {
	inputs []*ses.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	return &ses.SendEmailOutput{}, nil
}

func TestSESSinkComposesEmail(t *testing.T) {
	fake := &fakeSES{}
	sink := NewSESSinkWithClient(fake, "no-reply@canopyforms.dev")

	err := sink.Notify(context.Background(), Event{
		FormID:     uuid.New(),
		FormName:   "Beta Signup",
		Recipients: []string{"owner@example.com", "team@example.com"},
		ReceivedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)

	input := fake.inputs[0]
	assert.Equal(t, "no-reply@canopyforms.dev", *input.Source)
	assert.Equal(t, []string{"owner@example.com", "team@example.com"}, input.Destination.ToAddresses)
	assert.Contains(t, *input.Message.Subject.Data, "Beta Signup")
	assert.Contains(t, *input.Message.Body.Text.Data, "2026-03-01 09:30 UTC")
}

func TestSESSinkSkipsWithoutRecipients(t *testing.T) {
	fake := &fakeSES{}
	sink := NewSESSinkWithClient(fake, "no-reply@canopyforms.dev")

	require.NoError(t, sink.Notify(context.Background(), Event{FormName: "X"}))
	assert.Empty(t, fake.inputs)
}
