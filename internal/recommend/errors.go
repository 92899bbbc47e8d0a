// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"errors"

	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

var (
	// ErrEmptyCorpus means there was nothing to vectorise. Fatal for the build
	// that hit it.
	ErrEmptyCorpus = algorithms.ErrEmptyCorpus

	// ErrModelBuild means loading or building the model failed. A later
	// attempt may succeed.
	ErrModelBuild = errors.New("model build failed")

	// ErrModelUnavailable is returned at query time when no model could be
	// loaded or built.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrInvalidInput marks caller errors such as a non-positive count or a
	// missing title.
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorKind classifies failures for callers that map them onto a transport.
type ErrorKind int

const (
	// KindNone means no error.
	KindNone ErrorKind = iota
	// KindEmptyCorpus maps ErrEmptyCorpus.
	KindEmptyCorpus
	// KindModelBuild maps ErrModelBuild.
	KindModelBuild
	// KindModelUnavailable maps ErrModelUnavailable.
	KindModelUnavailable
	// KindInvalidInput maps ErrInvalidInput.
	KindInvalidInput
	// KindInternal is anything else.
	KindInternal
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindEmptyCorpus:
		return "empty_corpus"
	case KindModelBuild:
		return "model_build"
	case KindModelUnavailable:
		return "model_unavailable"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "internal"
	}
}

// KindOf returns the outermost kind in err's chain. ModelUnavailable and
// InvalidInput take precedence over the build causes they may wrap.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrModelUnavailable):
		return KindModelUnavailable
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrModelBuild):
		return KindModelBuild
	case errors.Is(err, ErrEmptyCorpus):
		return KindEmptyCorpus
	default:
		return KindInternal
	}
}
