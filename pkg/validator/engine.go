package validator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/dmitrymomot/apigate/pkg/async"
)

// Logger receives missing-rule warnings. *slog.Logger satisfies it.
type Logger interface {
	Warn(msg string, args ...any)
}

// Engine interprets schemas against values using its rule registries.
//
// Registration is expected to happen during application setup. The registries
// are lock-protected, so late registration is not a data race, but a schema
// validated concurrently with a registration may observe either state.
type Engine struct {
	rules      *Registry[RuleFunc]
	asyncRules *Registry[AsyncRuleFunc]
	logger     Logger
	strict     bool

	mu            sync.RWMutex
	messages      map[string]string
	asyncMessages map[string]string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the warning sink. Nil is ignored.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStrictMode makes unknown rule names fail validation instead of passing
// with a warning.
func WithStrictMode() Option {
	return func(e *Engine) { e.strict = true }
}

// WithRule registers a synchronous rule at construction time.
func WithRule(name string, fn RuleFunc) Option {
	return func(e *Engine) { e.rules.Add(name, fn) }
}

// WithAsyncRule registers an asynchronous rule at construction time.
func WithAsyncRule(name string, fn AsyncRuleFunc) Option {
	return func(e *Engine) { e.asyncRules.Add(name, fn) }
}

// WithMessage sets the default failure message template for a rule name.
// See SetMessage for the template syntax.
func WithMessage(name, template string) Option {
	return func(e *Engine) { e.messages[name] = template }
}

// WithAsyncMessage sets the default failure message template for an async rule name.
func WithAsyncMessage(name, template string) Option {
	return func(e *Engine) { e.asyncMessages[name] = template }
}

// New creates an engine seeded with the built-in rules.
func New(opts ...Option) *Engine {
	e := &Engine{
		rules:         NewRegistry[RuleFunc](),
		asyncRules:    NewRegistry[AsyncRuleFunc](),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		messages:      make(map[string]string, len(builtinMessages)),
		asyncMessages: make(map[string]string),
	}
	registerBuiltins(e)

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddRule registers or replaces a synchronous rule.
func (e *Engine) AddRule(name string, fn RuleFunc) {
	e.rules.Add(name, fn)
}

// AddAsyncRule registers or replaces an asynchronous rule. Async rules live in
// their own namespace, so a sync and an async rule may share a name.
func (e *Engine) AddAsyncRule(name string, fn AsyncRuleFunc) {
	e.asyncRules.Add(name, fn)
}

// SetMessage sets the default failure message for a rule name. Placeholders
// of the form {key} are replaced with the rule's params; {name} is the rule name.
func (e *Engine) SetMessage(name, template string) {
	e.mu.Lock()
	e.messages[name] = template
	e.mu.Unlock()
}

// SetAsyncMessage is SetMessage for the async namespace.
func (e *Engine) SetAsyncMessage(name, template string) {
	e.mu.Lock()
	e.asyncMessages[name] = template
	e.mu.Unlock()
}

// Rules lists the registered synchronous rule names.
func (e *Engine) Rules() []string { return e.rules.Names() }

// AsyncRules lists the registered asynchronous rule names.
func (e *Engine) AsyncRules() []string { return e.asyncRules.Names() }

// Validate checks value against schema and returns every failure in schema
// order. A panic raised by a rule function is not recovered.
func (e *Engine) Validate(value any, schema Schema) Result {
	var errs ValidationErrors
	e.walk(value, schema, "", &errs, nil)
	return newResult(errs)
}

type asyncTask struct {
	ref   RuleRef
	value any
	path  string
}

// ValidateAsync runs Validate and then every async rule of every reached
// schema node concurrently. Async errors follow the sync errors in declared
// order, independent of completion order.
//
// A rule returning an error or panicking aborts the call with an error
// wrapping ErrRuleFault; the fault of the earliest declared rule wins.
// There is no built-in timeout: rules get ctx and should honor it.
func (e *Engine) ValidateAsync(ctx context.Context, value any, schema Schema) (Result, error) {
	var (
		errs  ValidationErrors
		tasks []asyncTask
	)
	e.walk(value, schema, "", &errs, &tasks)

	// pending[i] is the index of task i's future, or -1 for an unknown rule.
	pending := make([]int, len(tasks))
	futures := make([]*async.Future[bool], 0, len(tasks))
	for i, task := range tasks {
		fn, ok := e.asyncRules.Lookup(task.ref.Name)
		if !ok {
			e.logger.Warn(fmt.Sprintf("Async validator %s not found", task.ref.Name),
				"rule", task.ref.Name, "field", task.path)
			pending[i] = -1
			continue
		}
		pending[i] = len(futures)
		futures = append(futures, async.Async(ctx, task, func(ctx context.Context, t asyncTask) (bool, error) {
			return fn(ctx, t.value, t.ref.Params)
		}))
	}

	// Join every future before assembling so ordering never depends on arrival.
	outcomes := async.AllSettled(futures...)

	for i, task := range tasks {
		if pending[i] < 0 {
			if e.strict {
				errs.Add(e.unknownRuleError(task.ref, task.path))
			}
			continue
		}
		out := outcomes[pending[i]]
		switch {
		case out.Err != nil:
			return Result{}, fmt.Errorf("%w: %s: %w", ErrRuleFault, task.ref.Name, out.Err)
		case !out.Value:
			errs.Add(e.ruleError(task.ref, task.path, e.asyncMessages, "Async validation failed for {name}"))
		}
	}

	return newResult(errs), nil
}

// walk validates one node. When tasks is non-nil the node's async rules are
// queued on entry, so every node whose parent matched gets its async rules
// evaluated even if its own type check fails.
func (e *Engine) walk(value any, s Schema, path string, errs *ValidationErrors, tasks *[]asyncTask) {
	if tasks != nil {
		for _, ref := range s.AsyncRules {
			*tasks = append(*tasks, asyncTask{ref: ref, value: value, path: path})
		}
	}

	if !matchesType(value, s.Type) {
		errs.Add(ValidationError{
			Message:        fmt.Sprintf("Expected type %s", s.Type),
			Rule:           "type",
			Field:          path,
			TranslationKey: "validation.type",
			TranslationValues: map[string]any{
				"field": path,
				"type":  string(s.Type),
			},
		})
		return
	}

	for _, ref := range s.Rules {
		fn, ok := e.rules.Lookup(ref.Name)
		if !ok {
			e.logger.Warn(fmt.Sprintf("Validator %s not found", ref.Name), "rule", ref.Name, "field", path)
			if e.strict {
				errs.Add(e.unknownRuleError(ref, path))
			}
			continue
		}
		if !fn(value, ref.Params) {
			errs.Add(e.ruleError(ref, path, e.messages, "Validation failed for {name}"))
		}
	}

	switch s.Type {
	case TypeObject:
		for _, fld := range s.Fields {
			e.walk(property(value, fld.Name), fld.Schema, joinPath(path, fld.Name), errs, tasks)
		}
	case TypeArray:
		if s.Items == nil {
			return
		}
		for i, item := range elements(value) {
			e.walk(item, *s.Items, path+"["+strconv.Itoa(i)+"]", errs, tasks)
		}
	}
}

func (e *Engine) ruleError(ref RuleRef, path string, templates map[string]string, fallback string) ValidationError {
	values := make(map[string]any, len(ref.Params)+1)
	for k, v := range ref.Params {
		values[k] = v
	}
	values["field"] = path

	msg := ref.Message
	if msg == "" {
		e.mu.RLock()
		tpl, ok := templates[ref.Name]
		e.mu.RUnlock()
		if !ok {
			tpl = fallback
		}
		msg = renderMessage(tpl, ref)
	}

	return ValidationError{
		Message:           msg,
		Rule:              ref.Name,
		Field:             path,
		TranslationKey:    "validation." + ref.Name,
		TranslationValues: values,
	}
}

func (e *Engine) unknownRuleError(ref RuleRef, path string) ValidationError {
	return ValidationError{
		Message:        fmt.Sprintf("Unknown validator %s", ref.Name),
		Rule:           ref.Name,
		Field:          path,
		TranslationKey: "validation.unknown_rule",
		TranslationValues: map[string]any{
			"field": path,
			"rule":  ref.Name,
		},
	}
}
