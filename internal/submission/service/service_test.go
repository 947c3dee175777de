package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	formmodels "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
	formstore "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/store"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/notify"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/platform/privacy"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/ratelimit"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/models"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/store"
	dErrors "github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/domain-errors"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type capturedNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *capturedNotifier) Dispatch(event notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *capturedNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

// failingLimiter simulates a broken limiter backend.
type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return false, errors.New("redis unreachable")
}

func contactForm() *formmodels.Form {
	return &formmodels.Form{
		ID:   uuid.New(),
		Name: "Contact",
		Fields: []formmodels.Field{
			{Name: "email", Type: formmodels.FieldTypeEmail, Label: "Email", Required: true},
			{Name: "message", Type: formmodels.FieldTypeTextarea, Label: "Message"},
		},
		AllowedDomains: []string{"example.com"},
		HoneypotField:  "website",
		NotifyEmails:   []string{"owner@example.com"},
		CreatedAt:      time.Now(),
	}
}

type fixture struct {
	svc      *Service
	form     *formmodels.Form
	subs     *store.InMemory
	notifier *capturedNotifier
}

func newFixture(t *testing.T, form *formmodels.Form, opts ...Option) *fixture {
	t.Helper()

	forms := formstore.NewInMemory()
	require.NoError(t, forms.Put(context.Background(), form))

	subs := store.NewInMemory()
	notifier := &capturedNotifier{}

	base := []Option{WithNotifier(notifier)}
	svc := NewService(
		forms,
		subs,
		ratelimit.NewMemoryLimiter(),
		privacy.NewHasher("test-key"),
		testLogger(),
		append(base, opts...)...,
	)
	return &fixture{svc: svc, form: form, subs: subs, notifier: notifier}
}

func requestCtx(ip, ua string) context.Context {
	return requestcontext.WithClientMetadata(context.Background(), ip, ua)
}

func validRequest(form *formmodels.Form) Request {
	return Request{
		FormID: form.ID,
		Payload: map[string]any{
			"email":   "Visitor@Example.com",
			"message": "hello there",
		},
		Origin: "https://example.com",
	}
}

func TestSubmitAcceptsAndNotifies(t *testing.T) {
	f := newFixture(t, contactForm())
	ctx := requestCtx("203.0.113.7", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")

	sub, err := f.svc.Submit(ctx, validRequest(f.form))
	require.NoError(t, err)

	assert.Equal(t, f.form.ID, sub.FormID)
	assert.Equal(t, models.StatusNew, sub.Status)
	assert.False(t, sub.IsSpam)
	assert.Equal(t, "hello there", sub.Data["message"])

	stored, ok := f.subs.Get(sub.ID)
	require.True(t, ok)
	assert.Equal(t, sub.ID, stored.ID)

	require.Equal(t, 1, f.notifier.count())
	assert.Equal(t, []string{"owner@example.com"}, f.notifier.events[0].Recipients)
}

func TestSubmitNeverStoresRawIP(t *testing.T) {
	f := newFixture(t, contactForm())
	ctx := requestCtx("203.0.113.7", "curl/8.0")

	sub, err := f.svc.Submit(ctx, validRequest(f.form))
	require.NoError(t, err)

	assert.NotEmpty(t, sub.Meta.IPHash)
	assert.NotContains(t, sub.Meta.IPHash, "203.0.113.7")
	assert.Equal(t, privacy.NewHasher("test-key").HashIP("203.0.113.7"), sub.Meta.IPHash)
}

func TestSubmitUnknownFormNotFound(t *testing.T) {
	f := newFixture(t, contactForm())

	req := validRequest(f.form)
	req.FormID = uuid.New()
	_, err := f.svc.Submit(requestCtx("203.0.113.7", ""), req)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestSubmitRejectsForeignOrigin(t *testing.T) {
	f := newFixture(t, contactForm())

	req := validRequest(f.form)
	req.Origin = "https://evil.example.net"
	_, err := f.svc.Submit(requestCtx("203.0.113.7", ""), req)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeOriginRejected))
}

func TestSubmitRefererFallbackWhenOriginMissing(t *testing.T) {
	f := newFixture(t, contactForm())

	req := validRequest(f.form)
	req.Origin = ""
	req.Referer = "https://www.example.com/contact"
	_, err := f.svc.Submit(requestCtx("203.0.113.7", ""), req)

	require.NoError(t, err)
}

func TestSubmitValidationFailureCarriesFieldMap(t *testing.T) {
	f := newFixture(t, contactForm())

	req := validRequest(f.form)
	req.Payload = map[string]any{"email": "not-an-email"}
	_, err := f.svc.Submit(requestCtx("203.0.113.7", ""), req)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	var dErr *dErrors.Error
	require.ErrorAs(t, err, &dErr)
	assert.Contains(t, dErr.Fields, "email")
	assert.NotContains(t, dErr.Fields, "message")

	// nothing stored on rejection
	n, countErr := f.subs.CountNonSpam(context.Background(), f.form.ID)
	require.NoError(t, countErr)
	assert.Zero(t, n)
}

func TestSubmitHoneypotAcceptedFlaggedNoNotification(t *testing.T) {
	f := newFixture(t, contactForm())

	req := validRequest(f.form)
	req.Payload["website"] = "http://spam.example"
	sub, err := f.svc.Submit(requestCtx("203.0.113.7", ""), req)

	// success response unchanged so bots learn nothing
	require.NoError(t, err)
	assert.True(t, sub.IsSpam)
	assert.Zero(t, f.notifier.count())

	// spam never consumes the non-spam quota
	n, countErr := f.subs.CountNonSpam(context.Background(), f.form.ID)
	require.NoError(t, countErr)
	assert.Zero(t, n)
}

func TestSubmitStopAtInPastRejects(t *testing.T) {
	form := contactForm()
	past := time.Now().Add(-time.Hour)
	form.StopAt = &past
	f := newFixture(t, form)

	_, err := f.svc.Submit(requestCtx("203.0.113.7", ""), validRequest(form))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSubmissionClosed))
}

func TestSubmitMaxSubmissionsCutoff(t *testing.T) {
	form := contactForm()
	form.MaxSubmissions = 1
	f := newFixture(t, form)

	_, err := f.svc.Submit(requestCtx("203.0.113.7", ""), validRequest(form))
	require.NoError(t, err)

	_, err = f.svc.Submit(requestCtx("203.0.113.8", ""), validRequest(form))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSubmissionClosed))
}

func TestSubmitRateLimitPerIdentity(t *testing.T) {
	f := newFixture(t, contactForm(), WithRateLimit(2, time.Minute))

	ctx := requestCtx("203.0.113.7", "")
	for i := 0; i < 2; i++ {
		_, err := f.svc.Submit(ctx, validRequest(f.form))
		require.NoError(t, err)
	}

	_, err := f.svc.Submit(ctx, validRequest(f.form))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeRateLimited))

	// a different address is unaffected
	_, err = f.svc.Submit(requestCtx("203.0.113.99", ""), validRequest(f.form))
	require.NoError(t, err)
}

func TestSubmitRateLimiterFailsOpen(t *testing.T) {
	form := contactForm()
	forms := formstore.NewInMemory()
	require.NoError(t, forms.Put(context.Background(), form))

	svc := NewService(forms, store.NewInMemory(), failingLimiter{}, privacy.NewHasher("k"), testLogger())

	_, err := svc.Submit(requestCtx("203.0.113.7", ""), validRequest(form))
	require.NoError(t, err)
}

func TestSubmitNormalizesEmailWhenConfigured(t *testing.T) {
	form := contactForm()
	form.Fields[0].Validation = &formmodels.EmailValidation{Normalize: true}
	f := newFixture(t, form)

	sub, err := f.svc.Submit(requestCtx("203.0.113.7", ""), validRequest(form))
	require.NoError(t, err)
	assert.Equal(t, "visitor@example.com", sub.Data["email"])
}

func TestSubmitNoNotifierConfigured(t *testing.T) {
	form := contactForm()
	forms := formstore.NewInMemory()
	require.NoError(t, forms.Put(context.Background(), form))

	svc := NewService(forms, store.NewInMemory(), ratelimit.NewMemoryLimiter(), privacy.NewHasher("k"), testLogger())

	_, err := svc.Submit(requestCtx("203.0.113.7", ""), validRequest(form))
	require.NoError(t, err)
}

func TestClientLabel(t *testing.T) {
	chrome := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	assert.Contains(t, clientLabel(chrome), "Chrome on ")
	assert.Equal(t, "", clientLabel(""))
}
