// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/cinematch/internal/validation"
)

const (
	maxTitleLength      = 300
	defaultSuggestLimit = 10
)

// errNoMovie is the message for a missing or blank movie parameter.
const errNoMovie = "No movie title provided"

type recommendRequest struct {
	Movie string
	Count int
}

type moviesQuery struct {
	Prefix string `query:"q" validate:"max=300"`
	Limit  int    `query:"limit" validate:"min=1,max=100"`
}

// requestError is a 400 with a code.
type requestError struct {
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

// parseRecommendRequest reads movie and count. count defaults to
// defaultCount and must lie in 1..maxCount.
func parseRecommendRequest(q url.Values, defaultCount, maxCount int) (recommendRequest, *requestError) {
	movie := q.Get("movie")
	if strings.TrimSpace(movie) == "" {
		return recommendRequest{}, &requestError{code: ErrCodeBadRequest, message: errNoMovie}
	}
	if verr := validation.ValidateVar("movie", movie, fmt.Sprintf("max=%d", maxTitleLength)); verr != nil {
		return recommendRequest{}, &requestError{code: ErrCodeValidation, message: verr.Error()}
	}

	count := defaultCount
	if raw := q.Get("count"); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return recommendRequest{}, &requestError{code: ErrCodeValidation, message: "count must be an integer"}
		}
		count = n
	}
	if verr := validation.ValidateVar("count", count, fmt.Sprintf("min=1,max=%d", maxCount)); verr != nil {
		return recommendRequest{}, &requestError{code: ErrCodeValidation, message: verr.Error()}
	}

	return recommendRequest{Movie: movie, Count: count}, nil
}

// parseMoviesQuery reads the optional prefix filter. limit defaults to 10
// and is only meaningful with a prefix.
func parseMoviesQuery(q url.Values) (moviesQuery, *requestError) {
	mq := moviesQuery{Prefix: q.Get("q"), Limit: defaultSuggestLimit}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return moviesQuery{}, &requestError{code: ErrCodeValidation, message: "limit must be an integer"}
		}
		mq.Limit = n
	}
	if verr := validation.ValidateStruct(&mq); verr != nil {
		return moviesQuery{}, &requestError{code: ErrCodeValidation, message: verr.Error()}
	}
	return mq, nil
}

// responseKey identifies a cached recommendation. Titles are compared
// lowercased, matching the resolver.
func responseKey(version, movie string, count int) string {
	return version + "|" + strings.ToLower(movie) + "|" + strconv.Itoa(count)
}
