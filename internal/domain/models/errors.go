package models

import (
	"errors"
	"fmt"
)

// FailureKind classifies a provider or computation failure. Only
// KindAllSourcesFailed surfaces as a top-level request error; the
// other kinds travel as values inside partial results.
type FailureKind string

const (
	KindProviderUnavailable  FailureKind = "provider_unavailable"
	KindNoData               FailureKind = "no_data"
	KindComputationUndefined FailureKind = "computation_undefined"
	KindAllSourcesFailed     FailureKind = "all_sources_failed"
)

// Failure is a value-level error carrying its origin and kind.
type Failure struct {
	Provider string
	Kind     FailureKind
	Message  string
	Err      error
}

func (f *Failure) Error() string {
	if f.Provider != "" {
		return fmt.Sprintf("%s: %s", f.Provider, f.Message)
	}
	return f.Message
}

func (f *Failure) Unwrap() error { return f.Err }

// Is matches failures by kind so callers can use errors.Is with a
// bare-kind sentinel.
func (f *Failure) Is(target error) bool {
	var other *Failure
	if !errors.As(target, &other) {
		return false
	}
	return f.Kind == other.Kind
}

func NewProviderUnavailable(provider string, err error) *Failure {
	msg := "provider unavailable"
	if err != nil {
		msg = err.Error()
	}
	return &Failure{Provider: provider, Kind: KindProviderUnavailable, Message: msg, Err: err}
}

func NewNoData(provider, symbol string) *Failure {
	return &Failure{
		Provider: provider,
		Kind:     KindNoData,
		Message:  fmt.Sprintf("no data for %s", symbol),
	}
}

func NewComputationUndefined(what string) *Failure {
	return &Failure{
		Kind:    KindComputationUndefined,
		Message: fmt.Sprintf("%s is undefined for the given input", what),
	}
}

func NewAllSourcesFailed(symbol string) *Failure {
	return &Failure{
		Kind:    KindAllSourcesFailed,
		Message: fmt.Sprintf("could not retrieve data for %s from any source", symbol),
	}
}

func IsNoData(err error) bool {
	return errors.Is(err, &Failure{Kind: KindNoData})
}

func IsProviderUnavailable(err error) bool {
	return errors.Is(err, &Failure{Kind: KindProviderUnavailable})
}

func IsAllSourcesFailed(err error) bool {
	return errors.Is(err, &Failure{Kind: KindAllSourcesFailed})
}
