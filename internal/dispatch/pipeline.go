// Package dispatch runs a completion request through its template's
// connector and model handlers.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/handler"
	"github.com/MKRNaqeebi/GenAlima/internal/logging"
	"github.com/MKRNaqeebi/GenAlima/internal/metrics"
)

// Store is the read side of the registry store. A missing record is
// reported as (nil, nil).
type Store interface {
	GetTemplate(ctx context.Context, id string) (*domain.PromptTemplate, error)
	GetModel(ctx context.Context, id string) (*domain.ModelRecord, error)
	GetConnector(ctx context.Context, id string) (*domain.ConnectorRecord, error)
}

// Resolver looks up handlers by name.
type Resolver interface {
	ResolveConnector(name string) (handler.ConnectorFunc, error)
	ResolveModel(name string) (handler.ModelFunc, error)
}

// Options bounds the two handler invocations. Zero means no timeout.
type Options struct {
	ConnectorTimeout time.Duration
	ModelTimeout     time.Duration
	Metrics          *metrics.Metrics
}

// Pipeline is stateless across requests; every Execute re-reads the store.
type Pipeline struct {
	store    Store
	handlers Resolver
	opts     Options
	logger   zerolog.Logger
}

// New creates a dispatch pipeline.
func New(store Store, handlers Resolver, opts Options, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:    store,
		handlers: handlers,
		opts:     opts,
		logger:   logger,
	}
}

// Execute loads req's template, model and connector, runs the connector
// handler, then the model handler with the connector's output, and returns
// the model's messages unchanged.
func (p *Pipeline) Execute(ctx context.Context, req domain.CompletionRequest) ([]domain.Message, error) {
	log := logging.Ctx(ctx, p.logger).With().
		Str("component", "dispatch").
		Str("template_id", req.TemplateID).
		Logger()

	msgs, err := p.execute(ctx, req, log)
	p.opts.Metrics.RecordDispatch(domain.Outcome(err))

	switch {
	case err == nil:
		log.Debug().Int("messages", len(msgs)).Msg("dispatch completed")
	case errors.Is(err, domain.ErrUnknownHandler):
		log.Error().Err(err).Msg("template points at an unregistered handler")
	default:
		log.Warn().Err(err).Str("outcome", domain.Outcome(err)).Msg("dispatch failed")
	}
	return msgs, err
}

func (p *Pipeline) execute(ctx context.Context, req domain.CompletionRequest, log zerolog.Logger) ([]domain.Message, error) {
	start := time.Now()
	tmpl, model, conn, err := p.load(ctx, req.TemplateID)
	p.opts.Metrics.RecordStage(metrics.StageLookup, time.Since(start))
	if err != nil {
		return nil, err
	}

	connectorFn, err := p.handlers.ResolveConnector(conn.Function)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	rc, err := invoke(ctx, p.opts.ConnectorTimeout, func(ctx context.Context) (domain.RetrievedContext, error) {
		return connectorFn(ctx, req.Query)
	})
	p.opts.Metrics.RecordStage(metrics.StageConnector, time.Since(start))
	if err != nil {
		return nil, stageError(ctx, domain.NamespaceConnector, conn.Function, err)
	}
	log.Debug().Str("connector", conn.Function).Bool("empty_context", rc.Empty()).Msg("connector finished")

	modelFn, err := p.handlers.ResolveModel(model.Function)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in := handler.ModelInput{
		Query:    req.Query,
		Template: *tmpl,
		Model:    *model,
		Context:  rc,
		History:  req.History,
	}
	start = time.Now()
	msgs, err := invoke(ctx, p.opts.ModelTimeout, func(ctx context.Context) ([]domain.Message, error) {
		return modelFn(ctx, in)
	})
	p.opts.Metrics.RecordStage(metrics.StageModel, time.Since(start))
	if err != nil {
		return nil, stageError(ctx, domain.NamespaceModel, model.Function, err)
	}
	return msgs, nil
}

// stageError attributes err to the handler unless ctx, the caller's context,
// has ended; then the caller's cancellation is returned as is.
func stageError(ctx context.Context, ns domain.Namespace, name string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return domain.NewExecutionError(ns, name, err)
}

func (p *Pipeline) load(ctx context.Context, templateID string) (*domain.PromptTemplate, *domain.ModelRecord, *domain.ConnectorRecord, error) {
	tmpl, err := p.store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, nil, nil, err
	}
	if tmpl == nil {
		return nil, nil, nil, &domain.NotFoundError{Kind: domain.KindTemplate, ID: templateID}
	}
	if !tmpl.Active {
		return nil, nil, nil, &domain.InactiveError{Kind: domain.KindTemplate, ID: templateID}
	}

	model, err := p.store.GetModel(ctx, tmpl.Model)
	if err != nil {
		return nil, nil, nil, err
	}
	if model == nil {
		return nil, nil, nil, &domain.NotFoundError{Kind: domain.KindModel, ID: tmpl.Model}
	}
	if !model.Active {
		return nil, nil, nil, &domain.InactiveError{Kind: domain.KindModel, ID: tmpl.Model}
	}

	conn, err := p.store.GetConnector(ctx, tmpl.Connector)
	if err != nil {
		return nil, nil, nil, err
	}
	if conn == nil {
		return nil, nil, nil, &domain.NotFoundError{Kind: domain.KindConnector, ID: tmpl.Connector}
	}
	if !conn.Active {
		return nil, nil, nil, &domain.InactiveError{Kind: domain.KindConnector, ID: tmpl.Connector}
	}
	return tmpl, model, conn, nil
}

type result[T any] struct {
	val T
	err error
}

// invoke runs fn under an optional timeout. If ctx ends first the call is
// abandoned and the context error returned; fn keeps running until it
// observes the cancellation itself.
func invoke[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan result[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result[T]{err: fmt.Errorf("handler panicked: %v", r)}
			}
		}()
		v, err := fn(ctx)
		done <- result[T]{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
