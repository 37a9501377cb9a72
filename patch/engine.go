package patch

import (
	"context"
	"sort"

	"github.com/jonwraymond/gqlpatch/cache"
	"github.com/jonwraymond/gqlpatch/config"
	"github.com/jonwraymond/gqlpatch/gqldoc"
	"github.com/jonwraymond/gqlpatch/observe"
	"github.com/jonwraymond/gqlpatch/operation"
	"github.com/jonwraymond/gqlpatch/pathutil"
	"github.com/jonwraymond/gqlpatch/updater"
)

// Client reads and writes cached query results.
//
// Contract:
// - ReadQuery returns an error or a nil map when the query is not cached;
//   both are treated as a miss.
// - WriteQuery replaces the entry for exactly the same (document, variables) pair.
type Client interface {
	ReadQuery(ctx context.Context, q cache.Query) (map[string]any, error)
	WriteQuery(ctx context.Context, q cache.Query, data map[string]any) error
}

var _ Client = cache.QueryStore(nil)

// Request describes one patch.
type Request struct {
	// Payload is the mutation or subscription result, keyed by its root field.
	Payload map[string]any
	// Query is the cached query to patch.
	Query cache.Query
	// Kind forces the operation kind. Auto classifies the payload field name.
	Kind operation.Kind
	// IDField overrides the configured identifying field for this call.
	IDField string
	// MapResultToItem reshapes the whole payload into the item to apply.
	MapResultToItem func(payload map[string]any) map[string]any
}

// Outcome reports what a patch did.
type Outcome string

const (
	OutcomeApplied      Outcome = "applied"
	OutcomeEmptyPayload Outcome = "empty_payload"
	OutcomeNullResult   Outcome = "null_result"
	OutcomeNotObject    Outcome = "not_object"
	OutcomeInvalidQuery Outcome = "invalid_query"
	OutcomeNotCached    Outcome = "not_cached"
	OutcomeWriteFailed  Outcome = "write_failed"
)

// Applied reports whether the patched result was written back.
func (o Outcome) Applied() bool {
	return o == OutcomeApplied
}

func (o Outcome) String() string {
	return string(o)
}

// Engine patches cached query results. It is safe for concurrent use.
type Engine struct {
	cfg        config.Provider
	classifier *operation.Classifier
	parser     *gqldoc.Parser
	logger     observe.Logger
	middleware *observe.Middleware
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the configuration provider. Pass a *config.Store to let
// later Set calls take effect on subsequent patches.
func WithConfig(cfg config.Provider) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithClassifier sets the classifier used for Auto requests. By default a
// classifier over the engine's configuration is used.
func WithClassifier(c *operation.Classifier) Option {
	return func(e *Engine) {
		e.classifier = c
	}
}

// WithParser shares a document parser (and its cache) with other components.
func WithParser(p *gqldoc.Parser) Option {
	return func(e *Engine) {
		e.parser = p
	}
}

// WithLogger sets the logger for skip and failure details.
func WithLogger(l observe.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMiddleware wraps every patch with tracing, metrics and logging.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(e *Engine) {
		e.middleware = mw
	}
}

// New creates an Engine. Without options it uses config.Default().
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg == nil {
		e.cfg = config.Default()
	}
	if e.classifier == nil {
		e.classifier = operation.NewClassifier(e.cfg)
	}
	if e.parser == nil {
		e.parser = gqldoc.NewParser(0)
	}
	if e.logger == nil {
		e.logger = observe.NopLogger()
	}
	return e
}

// Patch applies req.Payload to the cached result of req.Query through client.
// It never returns an error; the Outcome says whether anything was written.
func (e *Engine) Patch(ctx context.Context, client Client, req Request) Outcome {
	if len(req.Payload) == 0 {
		e.logger.Debug(ctx, "cache patch skipped", observe.Field{Key: "outcome", Value: OutcomeEmptyPayload})
		return OutcomeEmptyPayload
	}

	field := payloadField(req.Payload)
	kind := req.Kind
	if kind == operation.Auto {
		kind = e.classifier.Classify(field)
	}

	queryField, queryErr := e.parser.RootField(req.Query.Document)
	meta := observe.Operation{Field: field, Kind: kind.String(), QueryField: queryField}

	var outcome Outcome
	run := func(ctx context.Context, op observe.Operation) observe.Result {
		var err error
		outcome, err = e.apply(ctx, client, req, field, kind, queryField, queryErr)
		return observe.Result{Outcome: string(outcome), Applied: outcome.Applied(), Err: err}
	}
	if e.middleware != nil {
		run = e.middleware.Wrap(run)
	}
	run(ctx, meta)

	return outcome
}

// OnResult binds client and req into a callback for mutation or subscription
// completion. Each call patches with the received payload.
func (e *Engine) OnResult(client Client, req Request) func(ctx context.Context, payload map[string]any) Outcome {
	return func(ctx context.Context, payload map[string]any) Outcome {
		r := req
		r.Payload = payload
		return e.Patch(ctx, client, r)
	}
}

func (e *Engine) apply(ctx context.Context, client Client, req Request, field string, kind operation.Kind, queryField string, queryErr error) (Outcome, error) {
	log := e.logger.WithOperation(observe.Operation{Field: field, Kind: kind.String(), QueryField: queryField})

	value := req.Payload[field]
	if pathutil.IsFalsy(value) {
		log.Debug(ctx, "cache patch skipped", observe.Field{Key: "outcome", Value: OutcomeNullResult})
		return OutcomeNullResult, nil
	}

	var item updater.Item
	if req.MapResultToItem != nil {
		item = req.MapResultToItem(req.Payload)
	} else if m, ok := value.(map[string]any); ok {
		item = m
	} else {
		log.Debug(ctx, "cache patch skipped", observe.Field{Key: "outcome", Value: OutcomeNotObject})
		return OutcomeNotObject, nil
	}

	q := req.Query
	if q.Variables == nil {
		q.Variables = map[string]any{}
	}

	if client == nil {
		log.Debug(ctx, "cache patch skipped", observe.Field{Key: "outcome", Value: OutcomeNotCached})
		return OutcomeNotCached, nil
	}
	cached, err := client.ReadQuery(ctx, q)
	if err != nil || cached == nil {
		fields := []observe.Field{{Key: "outcome", Value: OutcomeNotCached}}
		if err != nil {
			fields = append(fields, observe.Field{Key: "error", Value: err.Error()})
		}
		log.Debug(ctx, "cache patch skipped", fields...)
		return OutcomeNotCached, nil
	}

	if queryErr != nil {
		log.Debug(ctx, "cache patch skipped",
			observe.Field{Key: "outcome", Value: OutcomeInvalidQuery},
			observe.Field{Key: "error", Value: queryErr.Error()},
		)
		return OutcomeInvalidQuery, nil
	}

	idField := req.IDField
	if idField == "" {
		idField = e.cfg.Current().IDFieldFor(item)
	}

	patched := patchResult(cached, queryField, updater.For(kind, idField), item)

	if err := client.WriteQuery(ctx, q, patched); err != nil {
		log.Error(ctx, "cache write failed", observe.Field{Key: "error", Value: err.Error()})
		return OutcomeWriteFailed, err
	}
	return OutcomeApplied, nil
}

// patchResult returns a copy of cached with update applied to the first
// collection under queryField, or to queryField itself when there is none.
func patchResult(cached map[string]any, queryField string, update updater.Func, item updater.Item) map[string]any {
	fieldValue := cached[queryField]
	path, _ := pathutil.FindCollectionPath(fieldValue, nil)
	next := update.Apply(pathutil.GetValueByPath(fieldValue, path), item)

	target := make([]string, 0, len(path)+1)
	target = append(target, queryField)
	target = append(target, path...)
	return pathutil.SetIn(cached, target, next)
}

// payloadField returns the payload's root field. GraphQL payloads carry a
// single field; with several, the lexicographically first is used.
func payloadField(payload map[string]any) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}
