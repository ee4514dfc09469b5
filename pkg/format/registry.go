package format

import (
	"errors"
	"fmt"
)

// Common registration errors.
var (
	ErrReservedTagName = errors.New("tag name shadows a built-in directive")
	ErrEmptyTagName    = errors.New("tag name is empty")
	ErrRegistryFrozen  = errors.New("registry is frozen")
)

// RequestTagFunc resolves a custom request tag (%{NAME}xi) against the
// request view. Evaluators must be pure reads of the view: they are invoked
// concurrently from multiple renders.
type RequestTagFunc func(RequestView) string

// ResponseTagFunc resolves a custom response tag (%{NAME}xo) against the
// response view.
type ResponseTagFunc func(ResponseView) string

// Registry maps custom tag names to evaluators. Registration happens at
// construction time; Freeze makes the registry immutable so concurrent
// renders need no locking. A nil or empty Registry resolves every custom tag
// to the "-" placeholder.
type Registry struct {
	request  map[string]RequestTagFunc
	response map[string]ResponseTagFunc
	frozen   bool
}

// NewRegistry creates an empty custom tag registry.
func NewRegistry() *Registry {
	return &Registry{
		request:  make(map[string]RequestTagFunc),
		response: make(map[string]ResponseTagFunc),
	}
}

// RegisterRequestTag registers fn under name for %{name}xi directives.
// Registering the same name twice replaces the prior evaluator. Names that
// would shadow a built-in directive key are rejected.
func (r *Registry) RegisterRequestTag(name string, fn RequestTagFunc) error {
	if err := r.checkName(name); err != nil {
		return err
	}
	r.request[name] = fn
	return nil
}

// RegisterResponseTag registers fn under name for %{name}xo directives.
// Same replacement and reservation rules as RegisterRequestTag.
func (r *Registry) RegisterResponseTag(name string, fn ResponseTagFunc) error {
	if err := r.checkName(name); err != nil {
		return err
	}
	r.response[name] = fn
	return nil
}

func (r *Registry) checkName(name string) error {
	if r.frozen {
		return ErrRegistryFrozen
	}
	if name == "" {
		return ErrEmptyTagName
	}
	if IsBuiltinKey(name) {
		return fmt.Errorf("%w: %q", ErrReservedTagName, name)
	}
	return nil
}

// Freeze marks the registry immutable. Any later registration fails with
// ErrRegistryFrozen. Freeze must be called before the registry is shared
// with concurrent renders.
func (r *Registry) Freeze() { r.frozen = true }

// requestTag returns the evaluator for name, or nil if unregistered.
func (r *Registry) requestTag(name string) RequestTagFunc {
	if r == nil {
		return nil
	}
	return r.request[name]
}

// responseTag returns the evaluator for name, or nil if unregistered.
func (r *Registry) responseTag(name string) ResponseTagFunc {
	if r == nil {
		return nil
	}
	return r.response[name]
}
