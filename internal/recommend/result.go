// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

// Failure is the error variant of Result.
type Failure struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Result is either a RecommendationResult or a Failure, never both.
// The zero value is an internal failure.
type Result struct {
	value   *RecommendationResult
	failure *Failure
}

// Success wraps a recommendation.
func Success(r RecommendationResult) Result {
	return Result{value: &r}
}

// Fail wraps err, classifying it with KindOf.
func Fail(err error) Result {
	kind := KindOf(err)
	if kind == KindNone {
		kind = KindInternal
	}
	msg := kind.String()
	if err != nil {
		msg = err.Error()
	}
	return Result{failure: &Failure{Kind: kind, Message: msg, Err: err}}
}

// OK reports whether r is the success variant.
func (r Result) OK() bool {
	return r.value != nil
}

// Recommendation returns the success value.
func (r Result) Recommendation() (RecommendationResult, bool) {
	if r.value == nil {
		return RecommendationResult{}, false
	}
	return *r.value, true
}

// Failure returns the error variant.
func (r Result) Failure() (Failure, bool) {
	if r.value != nil {
		return Failure{}, false
	}
	if r.failure == nil {
		return Failure{Kind: KindInternal, Message: "empty result"}, true
	}
	return *r.failure, true
}

// Kind returns KindNone on success, otherwise the failure kind.
func (r Result) Kind() ErrorKind {
	f, failed := r.Failure()
	if !failed {
		return KindNone
	}
	return f.Kind
}

// Err returns the underlying error, or nil on success.
func (r Result) Err() error {
	f, failed := r.Failure()
	if !failed {
		return nil
	}
	return f.Err
}
