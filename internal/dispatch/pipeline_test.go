package dispatch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/handler"
	"github.com/MKRNaqeebi/GenAlima/internal/metrics"
)

type memStore struct {
	templates  map[string]*domain.PromptTemplate
	models     map[string]*domain.ModelRecord
	connectors map[string]*domain.ConnectorRecord
	err        error
}

func (s *memStore) GetTemplate(ctx context.Context, id string) (*domain.PromptTemplate, error) {
	return s.templates[id], s.err
}

func (s *memStore) GetModel(ctx context.Context, id string) (*domain.ModelRecord, error) {
	return s.models[id], nil
}

func (s *memStore) GetConnector(ctx context.Context, id string) (*domain.ConnectorRecord, error) {
	return s.connectors[id], nil
}

// spy records handler calls in order.
type spy struct {
	mu             sync.Mutex
	calls          []string
	modelGot       domain.RetrievedContext
	connectorCalls int
	modelCalls     int
}

func (s *spy) record(name string) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()
}

type fixture struct {
	store    *memStore
	registry *handler.Registry
	spy      *spy
	pipeline *Pipeline
}

// newFixture builds templates T1 (active), T2 (inactive) and T3 (model
// record whose function has no handler), backed by connector "c1" and model "m1".
func newFixture(t *testing.T, connector handler.ConnectorFunc, opts Options) *fixture {
	t.Helper()
	sp := &spy{}

	if connector == nil {
		connector = func(ctx context.Context, query string) (domain.RetrievedContext, error) {
			return domain.RetrievedContext{Text: "ctx"}, nil
		}
	}

	reg := handler.NewRegistry()
	err := reg.RegisterConnector("c1", func(ctx context.Context, query string) (domain.RetrievedContext, error) {
		sp.record("connector")
		sp.connectorCalls++
		return connector(ctx, query)
	})
	if err != nil {
		t.Fatal(err)
	}
	err = reg.RegisterModel("m1", func(ctx context.Context, in handler.ModelInput) ([]domain.Message, error) {
		sp.record("model")
		sp.modelCalls++
		sp.modelGot = in.Context
		return []domain.Message{{Role: domain.RoleAssistant, Content: in.Query + "|" + in.Context.Text}}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	reg.Freeze()

	store := &memStore{
		templates: map[string]*domain.PromptTemplate{
			"T1": {ID: "T1", Model: "m1", Connector: "c1", Active: true},
			"T2": {ID: "T2", Model: "m1", Connector: "c1", Active: false},
			"T3": {ID: "T3", Model: "m-missing", Connector: "c1", Active: true},
			"T4": {ID: "T4", Model: "m-gone", Connector: "c1", Active: true},
			"T5": {ID: "T5", Model: "m1", Connector: "c-gone", Active: true},
			"T6": {ID: "T6", Model: "m-off", Connector: "c1", Active: true},
			"T7": {ID: "T7", Model: "m1", Connector: "c-off", Active: true},
			"T8": {ID: "T8", Model: "m1", Connector: "c-unbound", Active: true},
		},
		models: map[string]*domain.ModelRecord{
			"m1":        {ID: "m1", Function: "m1", Active: true},
			"m-missing": {ID: "m-missing", Function: "m-missing", Active: true},
			"m-off":     {ID: "m-off", Function: "m1", Active: false},
		},
		connectors: map[string]*domain.ConnectorRecord{
			"c1":        {ID: "c1", Function: "c1", Active: true},
			"c-off":     {ID: "c-off", Function: "c1", Active: false},
			"c-unbound": {ID: "c-unbound", Function: "nope", Active: true},
		},
	}

	return &fixture{
		store:    store,
		registry: reg,
		spy:      sp,
		pipeline: New(store, reg, opts, zerolog.Nop()),
	}
}

func TestExecute_ScenarioA(t *testing.T) {
	f := newFixture(t, nil, Options{})

	msgs, err := f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "hi", TemplateID: "T1"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Role != domain.RoleAssistant || msgs[0].Content != "hi|ctx" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
	if len(f.spy.calls) != 2 || f.spy.calls[0] != "connector" || f.spy.calls[1] != "model" {
		t.Errorf("expected connector before model, got %v", f.spy.calls)
	}
}

func TestExecute_InactiveTemplateInvokesNothing(t *testing.T) {
	f := newFixture(t, nil, Options{})

	_, err := f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "hi", TemplateID: "T2"})
	if !errors.Is(err, domain.ErrTemplateInactive) {
		t.Fatalf("expected ErrTemplateInactive, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Error("inactive must be distinct from not-found")
	}
	if f.spy.connectorCalls != 0 || f.spy.modelCalls != 0 {
		t.Errorf("no handler should run, got connector=%d model=%d", f.spy.connectorCalls, f.spy.modelCalls)
	}
}

func TestExecute_UnknownModelHandler(t *testing.T) {
	f := newFixture(t, nil, Options{})

	_, err := f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "hi", TemplateID: "T3"})
	var unknown *domain.UnknownHandlerError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownHandlerError, got %v", err)
	}
	if unknown.Name != "m-missing" || unknown.Namespace != domain.NamespaceModel {
		t.Errorf("unexpected error fields: %+v", unknown)
	}
	if f.spy.modelCalls != 0 {
		t.Error("model handler must not run")
	}
}

func TestExecute_ConnectorFailureSkipsModel(t *testing.T) {
	boom := errors.New("retrieval backend down")
	f := newFixture(t, func(ctx context.Context, query string) (domain.RetrievedContext, error) {
		return domain.RetrievedContext{}, boom
	}, Options{})

	_, err := f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "hi", TemplateID: "T1"})
	if !errors.Is(err, domain.ErrConnectorExecution) {
		t.Fatalf("expected ErrConnectorExecution, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Error("connector cause should be preserved")
	}
	if f.spy.modelCalls != 0 {
		t.Errorf("model handler should not run, ran %d times", f.spy.modelCalls)
	}
}

func TestExecute_ModelReceivesConnectorOutput(t *testing.T) {
	want := domain.RetrievedContext{Text: "t", Documents: []domain.Document{{ID: "d1", Content: "body"}}}
	f := newFixture(t, func(ctx context.Context, query string) (domain.RetrievedContext, error) {
		return want, nil
	}, Options{})

	if _, err := f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "q", TemplateID: "T1"}); err != nil {
		t.Fatal(err)
	}
	got := f.spy.modelGot
	if got.Text != want.Text || len(got.Documents) != 1 || got.Documents[0].ID != "d1" {
		t.Errorf("model got %+v, want %+v", got, want)
	}
}

func TestExecute_RecordErrors(t *testing.T) {
	tests := []struct {
		template string
		sentinel error
	}{
		{"missing", domain.ErrTemplateNotFound},
		{"T4", domain.ErrModelNotFound},
		{"T5", domain.ErrConnectorNotFound},
		{"T6", domain.ErrModelInactive},
		{"T7", domain.ErrConnectorInactive},
		{"T8", domain.ErrUnknownHandler},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			f := newFixture(t, nil, Options{})
			_, err := f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "q", TemplateID: tt.template})
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("expected %v, got %v", tt.sentinel, err)
			}
			if f.spy.connectorCalls != 0 || f.spy.modelCalls != 0 {
				t.Errorf("no handler should run on %v", tt.sentinel)
			}
		})
	}
}

func TestExecute_StoreErrorPropagates(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.store.err = errors.New("database is locked")

	_, err := f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "q", TemplateID: "T1"})
	if err == nil || domain.Outcome(err) != domain.OutcomeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestExecute_ConnectorTimeout(t *testing.T) {
	f := newFixture(t, func(ctx context.Context, query string) (domain.RetrievedContext, error) {
		<-ctx.Done()
		return domain.RetrievedContext{}, ctx.Err()
	}, Options{ConnectorTimeout: 20 * time.Millisecond})

	_, err := f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "q", TemplateID: "T1"})
	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if !execErr.Timeout || execErr.Namespace != domain.NamespaceConnector {
		t.Errorf("expected connector timeout, got %+v", execErr)
	}
	if f.spy.modelCalls != 0 {
		t.Error("model handler must not run after connector timeout")
	}
}

func TestExecute_TimeoutDoesNotWaitForOpaqueHandler(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	f := newFixture(t, func(ctx context.Context, query string) (domain.RetrievedContext, error) {
		<-release
		return domain.RetrievedContext{}, nil
	}, Options{ConnectorTimeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "q", TemplateID: "T1"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Execute should return once the timeout fires")
	}
}

func TestExecute_CancelledBeforeInvocation(t *testing.T) {
	f := newFixture(t, nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.pipeline.Execute(ctx, domain.CompletionRequest{Query: "q", TemplateID: "T1"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if f.spy.connectorCalls != 0 || f.spy.modelCalls != 0 {
		t.Error("no handler should run on a cancelled request")
	}
}

func TestExecute_HandlerPanicBecomesExecutionError(t *testing.T) {
	f := newFixture(t, func(ctx context.Context, query string) (domain.RetrievedContext, error) {
		panic("bad connector")
	}, Options{})

	_, err := f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "q", TemplateID: "T1"})
	if !errors.Is(err, domain.ErrConnectorExecution) {
		t.Fatalf("expected ErrConnectorExecution, got %v", err)
	}
}

func TestExecute_ReReadsStore(t *testing.T) {
	f := newFixture(t, nil, Options{})
	req := domain.CompletionRequest{Query: "q", TemplateID: "T1"}

	if _, err := f.pipeline.Execute(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	f.store.templates["T1"].Active = false
	if _, err := f.pipeline.Execute(context.Background(), req); !errors.Is(err, domain.ErrTemplateInactive) {
		t.Fatalf("deactivation should apply on the next dispatch, got %v", err)
	}
}

func TestExecute_RecordsMetrics(t *testing.T) {
	m := metrics.New()
	f := newFixture(t, nil, Options{Metrics: m})

	_, _ = f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "q", TemplateID: "T1"})
	_, _ = f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "q", TemplateID: "T2"})

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "genalima_dispatch_total" {
			found = len(mf.GetMetric()) == 2
		}
	}
	if !found {
		t.Error("expected success and inactive dispatch series")
	}
}

// newModelPipeline serves T1 from connector "c1" and the given model handler "m1".
func newModelPipeline(t *testing.T, model handler.ModelFunc, opts Options, logger zerolog.Logger) *Pipeline {
	t.Helper()
	reg := handler.NewRegistry()
	if err := reg.RegisterConnector("c1", func(ctx context.Context, query string) (domain.RetrievedContext, error) {
		return domain.RetrievedContext{Text: "ctx"}, nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := reg.RegisterModel("m1", model); err != nil {
		t.Fatal(err)
	}
	reg.Freeze()
	store := &memStore{
		templates:  map[string]*domain.PromptTemplate{"T1": {ID: "T1", Model: "m1", Connector: "c1", Active: true}},
		models:     map[string]*domain.ModelRecord{"m1": {ID: "m1", Function: "m1", Active: true}},
		connectors: map[string]*domain.ConnectorRecord{"c1": {ID: "c1", Function: "c1", Active: true}},
	}
	return New(store, reg, opts, logger)
}

func TestExecute_ModelTimeout(t *testing.T) {
	p := newModelPipeline(t, func(ctx context.Context, in handler.ModelInput) ([]domain.Message, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, Options{ModelTimeout: 20 * time.Millisecond}, zerolog.Nop())

	_, err := p.Execute(context.Background(), domain.CompletionRequest{Query: "q", TemplateID: "T1"})
	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if !execErr.Timeout || execErr.Namespace != domain.NamespaceModel || execErr.Handler != "m1" {
		t.Errorf("expected model timeout, got %+v", execErr)
	}
	if !errors.Is(err, domain.ErrModelExecution) {
		t.Errorf("expected ErrModelExecution, got %v", err)
	}
}

func TestExecute_ModelPanicBecomesExecutionError(t *testing.T) {
	p := newModelPipeline(t, func(ctx context.Context, in handler.ModelInput) ([]domain.Message, error) {
		panic("bad model")
	}, Options{}, zerolog.Nop())

	_, err := p.Execute(context.Background(), domain.CompletionRequest{Query: "q", TemplateID: "T1"})
	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) || execErr.Namespace != domain.NamespaceModel || execErr.Timeout {
		t.Fatalf("expected a model ExecutionError, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad model") {
		t.Errorf("panic value should be kept in the error, got %v", err)
	}
}

func TestExecute_CallerCancelDuringHandler(t *testing.T) {
	started := make(chan struct{})
	p := newModelPipeline(t, func(ctx context.Context, in handler.ModelInput) ([]domain.Message, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}, Options{ModelTimeout: time.Minute}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := p.Execute(ctx, domain.CompletionRequest{Query: "q", TemplateID: "T1"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	var execErr *domain.ExecutionError
	if errors.As(err, &execErr) {
		t.Errorf("caller cancellation must not be blamed on the handler: %+v", execErr)
	}
	if got := domain.Outcome(err); got != domain.OutcomeCancelled {
		t.Errorf("expected outcome %q, got %q", domain.OutcomeCancelled, got)
	}
}

func TestExecute_CallerCancelDuringConnector(t *testing.T) {
	started := make(chan struct{})
	f := newFixture(t, func(ctx context.Context, query string) (domain.RetrievedContext, error) {
		close(started)
		<-ctx.Done()
		return domain.RetrievedContext{}, ctx.Err()
	}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := f.pipeline.Execute(ctx, domain.CompletionRequest{Query: "q", TemplateID: "T1"})
	if !errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrConnectorExecution) {
		t.Fatalf("expected a bare context.Canceled, got %v", err)
	}
	if f.spy.modelCalls != 0 {
		t.Error("model handler must not run after cancellation")
	}
}

func TestExecute_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	f := newFixture(t, nil, Options{})
	f.pipeline = New(f.store, f.registry, Options{}, zerolog.New(&buf))

	if _, err := f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "q", TemplateID: "T3"}); !errors.Is(err, domain.ErrUnknownHandler) {
		t.Fatalf("expected ErrUnknownHandler, got %v", err)
	}
	line := buf.String()
	if !strings.Contains(line, `"level":"error"`) || !strings.Contains(line, `"template_id":"T3"`) {
		t.Errorf("unknown handler should be logged at error level, got %s", line)
	}

	buf.Reset()
	if _, err := f.pipeline.Execute(context.Background(), domain.CompletionRequest{Query: "q", TemplateID: "T2"}); !errors.Is(err, domain.ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
	if line := buf.String(); !strings.Contains(line, `"level":"warn"`) || !strings.Contains(line, `"outcome":"inactive"`) {
		t.Errorf("ordinary failures should be logged at warn level, got %s", line)
	}
}
