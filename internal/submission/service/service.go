// Package service orchestrates the public submission pipeline: origin gate,
// rate limiting, availability policy, field validation, record assembly,
// persistence, and asynchronous owner notification.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	formmodels "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/models"
	formstore "github.com/Skinnerbox916/Canopy-Forms-sub000/internal/form/store"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/notify"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/origin"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/platform/privacy"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/ratelimit"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/sentinel"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/metrics"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/models"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/policy"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/store"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/submission/tracer"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/internal/validation"
	pkgerrors "github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/domain-errors"
	"github.com/Skinnerbox916/Canopy-Forms-sub000/pkg/requestcontext"
)

// Notifier queues an owner notification without blocking the caller.
type Notifier interface {
	Dispatch(event notify.Event)
}

const (
	defaultRateLimit  = 10
	defaultRateWindow = time.Minute
)

// Request is one inbound submission attempt. Origin and Referer come from
// request headers; client IP and user agent travel in the context.
type Request struct {
	FormID  uuid.UUID
	Payload map[string]any
	Origin  string
	Referer string
}

// Service runs the submission pipeline. Every request is handled
// independently; the only shared mutable state lives behind the rate limiter.
type Service struct {
	forms       formstore.Store
	submissions store.Store
	limiter     ratelimit.Limiter
	validator   *validation.Engine
	hasher      *privacy.Hasher
	notifier    Notifier
	metrics     *metrics.Metrics
	tracer      tracer.Tracer
	logger      *slog.Logger
	rateLimit   int
	rateWindow  time.Duration
	now         func() time.Time
}

type Option func(*Service)

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer for the service. Defaults to a no-op tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithNotifier sets the notification dispatcher. Without one, accepted
// submissions are stored but nobody is told.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithRateLimit configures the per-identity request budget.
// Defaults to 10 requests per minute.
func WithRateLimit(limit int, window time.Duration) Option {
	return func(s *Service) {
		if limit > 0 {
			s.rateLimit = limit
		}
		if window > 0 {
			s.rateWindow = window
		}
	}
}

// WithClock overrides the time source. For tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(forms formstore.Store, submissions store.Store, limiter ratelimit.Limiter, hasher *privacy.Hasher, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		forms:       forms,
		submissions: submissions,
		limiter:     limiter,
		validator:   validation.NewEngine(),
		hasher:      hasher,
		tracer:      tracer.NewNoop(),
		logger:      logger,
		rateLimit:   defaultRateLimit,
		rateWindow:  defaultRateWindow,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Submit runs one payload through the full pipeline and returns the stored
// record. Rejections come back as domain errors; spam still succeeds so the
// response gives bots nothing to learn from.
func (s *Service) Submit(ctx context.Context, req Request) (*models.Submission, error) {
	started := s.now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanSubmissionCreate,
		tracer.String(tracer.AttrFormID, req.FormID.String()),
	)
	var submitErr error
	defer func() { span.End(submitErr) }()

	form, err := s.forms.GetFormWithFields(ctx, req.FormID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.incrementRejected(metrics.ReasonNotFound)
			submitErr = pkgerrors.New(pkgerrors.CodeNotFound, "Form not found")
			return nil, submitErr
		}
		submitErr = pkgerrors.Wrap(err, pkgerrors.CodeInternal, "load form")
		return nil, submitErr
	}

	if !origin.IsAllowed(req.Origin, form.AllowedDomains, req.Referer) {
		span.SetAttributes(tracer.Bool(tracer.AttrOriginAllowed, false))
		s.incrementRejected(metrics.ReasonOrigin)
		submitErr = pkgerrors.New(pkgerrors.CodeOriginRejected, "Origin not allowed")
		return nil, submitErr
	}

	ipHash := s.hasher.HashIP(requestcontext.ClientIP(ctx))
	if err := s.checkRateLimit(ctx, form.ID, ipHash); err != nil {
		span.SetAttributes(tracer.Bool(tracer.AttrRateLimited, true))
		s.incrementRejected(metrics.ReasonRateLimited)
		submitErr = err
		return nil, submitErr
	}

	nonSpam, err := s.submissions.CountNonSpam(ctx, form.ID)
	if err != nil {
		submitErr = pkgerrors.Wrap(err, pkgerrors.CodeInternal, "count submissions")
		return nil, submitErr
	}
	if err := policy.CheckOpen(form, nonSpam, s.now()); err != nil {
		s.incrementRejected(metrics.ReasonClosed)
		submitErr = err
		return nil, submitErr
	}

	_, validateSpan := s.tracer.Start(ctx, tracer.SpanValidate,
		tracer.Int64(tracer.AttrFieldCount, int64(len(form.Fields))))
	result, normalized := s.validator.Validate(form.Fields, req.Payload)
	validateSpan.End(nil)
	span.SetAttributes(
		tracer.Bool(tracer.AttrValid, len(result) == 0),
		tracer.Int64(tracer.AttrFieldCount, int64(len(form.Fields))),
	)
	if len(result) > 0 {
		span.SetAttributes(tracer.Int64(tracer.AttrFailedFields, int64(len(result))))
		s.recordValidationFailures(form, result)
		s.incrementRejected(metrics.ReasonValidation)
		submitErr = pkgerrors.NewValidation(result)
		return nil, submitErr
	}

	isSpam := policy.IsSpam(form, req.Payload)
	span.SetAttributes(tracer.Bool(tracer.AttrSpam, isSpam))

	sub := &models.Submission{
		ID:     uuid.New(),
		FormID: form.ID,
		Data:   normalized,
		Meta: models.Meta{
			IPHash:    ipHash,
			UserAgent: requestcontext.UserAgent(ctx),
			Client:    clientLabel(requestcontext.UserAgent(ctx)),
			Referrer:  req.Referer,
			Origin:    req.Origin,
		},
		IsSpam:    isSpam,
		Status:    models.StatusNew,
		CreatedAt: s.now().UTC(),
	}

	_, persistSpan := s.tracer.Start(ctx, tracer.SpanPersist)
	err = s.submissions.Create(ctx, sub)
	persistSpan.End(err)
	if err != nil {
		submitErr = pkgerrors.Wrap(err, pkgerrors.CodeInternal, "store submission")
		return nil, submitErr
	}

	if isSpam {
		if s.metrics != nil {
			s.metrics.IncrementSpam()
		}
	} else {
		if s.metrics != nil {
			s.metrics.IncrementAccepted()
			s.metrics.IncrementClientFamily(sub.Meta.Client)
		}
		s.dispatchNotification(span, form, sub)
	}
	if s.metrics != nil {
		s.metrics.ObserveProcessingDuration(float64(s.now().Sub(started).Milliseconds()))
	}

	s.logger.Info("submission stored",
		"request_id", requestcontext.RequestID(ctx),
		"form_id", form.ID,
		"submission_id", sub.ID,
		"is_spam", sub.IsSpam,
	)
	return sub, nil
}

// checkRateLimit fails open: a broken limiter backend must not block
// legitimate submissions.
func (s *Service) checkRateLimit(ctx context.Context, formID uuid.UUID, ipHash string) error {
	identity := formID.String() + ":" + ipHash
	allowed, err := s.limiter.Allow(ctx, identity, s.rateLimit, s.rateWindow)
	if err != nil {
		s.logger.Warn("rate limit check failed, allowing request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimited, "Too many submissions, try again later")
	}
	return nil
}

func (s *Service) dispatchNotification(span tracer.Span, form *formmodels.Form, sub *models.Submission) {
	if s.notifier == nil || len(form.NotifyEmails) == 0 {
		return
	}
	s.notifier.Dispatch(notify.Event{
		FormID:     form.ID,
		FormName:   form.Name,
		Recipients: form.NotifyEmails,
		ReceivedAt: sub.CreatedAt,
	})
	span.AddEvent(tracer.EventNotifyQueued)
	if s.metrics != nil {
		s.metrics.IncrementNotificationsQueued()
	}
}

func (s *Service) recordValidationFailures(form *formmodels.Form, result validation.Result) {
	if s.metrics == nil {
		return
	}
	for name := range result {
		if field := form.FieldByName(name); field != nil {
			s.metrics.IncrementValidationFailure(string(field.Type))
		}
	}
}

func (s *Service) incrementRejected(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementRejected(reason)
	}
}
