// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/tomtom215/cinematch/internal/recommend"
)

func TestParseRecommendRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		wantMovie string
		wantCount int
		wantCode  string
	}{
		{name: "defaults", query: "movie=Rocky", wantMovie: "Rocky", wantCount: 5},
		{name: "explicit count", query: "movie=Rocky&count=12", wantMovie: "Rocky", wantCount: 12},
		{name: "count with spaces", query: "movie=Rocky&count=%203%20", wantMovie: "Rocky", wantCount: 3},
		{name: "title kept verbatim", query: "movie=%20The%20Matrix", wantMovie: " The Matrix", wantCount: 5},
		{name: "max count", query: "movie=Up&count=20", wantMovie: "Up", wantCount: 20},
		{name: "no movie", query: "count=3", wantCode: ErrCodeBadRequest},
		{name: "blank movie", query: "movie=%09", wantCode: ErrCodeBadRequest},
		{name: "bad count", query: "movie=Up&count=1.5", wantCode: ErrCodeValidation},
		{name: "count over max", query: "movie=Up&count=21", wantCode: ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			req, rerr := parseRecommendRequest(q, 5, 20)
			if tt.wantCode != "" {
				if rerr == nil {
					t.Fatalf("expected %s error, got %+v", tt.wantCode, req)
				}
				if rerr.code != tt.wantCode {
					t.Errorf("code = %q, want %q", rerr.code, tt.wantCode)
				}
				return
			}
			if rerr != nil {
				t.Fatalf("unexpected error: %v", rerr)
			}
			if req.Movie != tt.wantMovie || req.Count != tt.wantCount {
				t.Errorf("got %q/%d, want %q/%d", req.Movie, req.Count, tt.wantMovie, tt.wantCount)
			}
		})
	}
}

func TestParseMoviesQuery(t *testing.T) {
	t.Parallel()

	mq, rerr := parseMoviesQuery(url.Values{})
	if rerr != nil || mq.Prefix != "" || mq.Limit != defaultSuggestLimit {
		t.Errorf("empty query = %+v, %v", mq, rerr)
	}

	mq, rerr = parseMoviesQuery(url.Values{"q": {"ro"}, "limit": {"3"}})
	if rerr != nil || mq.Prefix != "ro" || mq.Limit != 3 {
		t.Errorf("prefix query = %+v, %v", mq, rerr)
	}

	_, rerr = parseMoviesQuery(url.Values{"limit": {"0"}})
	if rerr == nil || rerr.message != "limit must be at least 1" {
		t.Errorf("limit=0 error = %v", rerr)
	}
}

func TestResponseKey(t *testing.T) {
	t.Parallel()

	if responseKey("v1", "Rocky", 5) != responseKey("v1", "ROCKY", 5) {
		t.Error("keys should ignore title case")
	}
	if responseKey("v1", "rocky", 5) == responseKey("v2", "rocky", 5) {
		t.Error("keys should differ by model version")
	}
	if responseKey("v1", "rocky", 5) == responseKey("v1", "rocky", 6) {
		t.Error("keys should differ by count")
	}
}

func TestStatusForKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind       recommend.ErrorKind
		wantStatus int
		wantCode   string
	}{
		{recommend.KindInvalidInput, http.StatusBadRequest, ErrCodeValidation},
		{recommend.KindModelUnavailable, http.StatusInternalServerError, ErrCodeModelUnavailable},
		{recommend.KindModelBuild, http.StatusInternalServerError, ErrCodeModelUnavailable},
		{recommend.KindEmptyCorpus, http.StatusInternalServerError, ErrCodeModelUnavailable},
		{recommend.KindInternal, http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tt := range tests {
		status, code := statusForKind(tt.kind)
		if status != tt.wantStatus || code != tt.wantCode {
			t.Errorf("statusForKind(%s) = %d/%s, want %d/%s", tt.kind, status, code, tt.wantStatus, tt.wantCode)
		}
	}
}
