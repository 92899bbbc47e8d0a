// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/cinematch/internal/recommend"
)

func TestRecommend_KnownTitle(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, newModelContext(t), testConfig())
	rec := do(t, srv, http.MethodGet, "/api/recommend?movie=ROCKY&count=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	res := decode[recommend.RecommendationResult](t, rec)
	if res.InputMovie != "rocky" {
		t.Errorf("input_movie = %q", res.InputMovie)
	}
	if res.Error != "" || res.Message != "" {
		t.Errorf("known title has error/message: %+v", res)
	}
	var titles []string
	for _, item := range res.Recommendations {
		titles = append(titles, item.Title)
		if item.Similarity == nil {
			t.Errorf("%s has null similarity", item.Title)
		}
	}
	if !reflect.DeepEqual(titles, []string{"Creed", "Up"}) {
		t.Errorf("recommendations = %v, want [Creed Up]", titles)
	}
	if res.Recommendations[0].PosterPath != "/creed.jpg" || res.Recommendations[0].ID != 1 {
		t.Errorf("first item = %+v", res.Recommendations[0])
	}
}

func TestRecommend_UnknownTitleFallsBack(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, newModelContext(t), testConfig())
	rec := do(t, srv, http.MethodGet, "/api/recommend?movie=Nonexistent+Movie+XYZ&count=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"similarity":null`) {
		t.Errorf("fallback body lacks null similarity: %s", rec.Body)
	}

	res := decode[recommend.RecommendationResult](t, rec)
	wantErr := "Movie 'nonexistent movie xyz' not found in the database!! Sorry for the inconvenience"
	if res.Error != wantErr {
		t.Errorf("error = %q, want %q", res.Error, wantErr)
	}
	if res.Message != recommend.FallbackMessage {
		t.Errorf("message = %q", res.Message)
	}
	if len(res.Recommendations) != 2 || res.Recommendations[0].Title != "Up" || res.Recommendations[1].Title != "Rocky" {
		t.Errorf("recommendations = %+v, want [Up Rocky]", res.Recommendations)
	}
}

func TestRecommend_DefaultCount(t *testing.T) {
	t.Parallel()

	fake := &fakeRecommender{result: recommend.Success(recommend.RecommendationResult{InputMovie: "rocky"})}
	srv := newTestServer(t, fake, testConfig())

	if rec := do(t, srv, http.MethodGet, "/api/recommend?movie=Rocky"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if fake.lastCount != 5 || fake.lastTitle != "Rocky" {
		t.Errorf("called with %q/%d, want Rocky/5", fake.lastTitle, fake.lastCount)
	}
}

func TestRecommend_BadRequests(t *testing.T) {
	t.Parallel()

	fake := &fakeRecommender{result: recommend.Success(recommend.RecommendationResult{})}
	srv := newTestServer(t, fake, testConfig())

	tests := []struct {
		name     string
		target   string
		wantCode string
		wantMsg  string
	}{
		{"missing movie", "/api/recommend", ErrCodeBadRequest, "No movie title provided"},
		{"empty movie", "/api/recommend?movie=", ErrCodeBadRequest, "No movie title provided"},
		{"blank movie", "/api/recommend?movie=%20%20", ErrCodeBadRequest, "No movie title provided"},
		{"count not a number", "/api/recommend?movie=up&count=abc", ErrCodeValidation, "count must be an integer"},
		{"count zero", "/api/recommend?movie=up&count=0", ErrCodeValidation, "count must be at least 1"},
		{"count negative", "/api/recommend?movie=up&count=-3", ErrCodeValidation, "count must be at least 1"},
		{"count too large", "/api/recommend?movie=up&count=101", ErrCodeValidation, "count must be at most 100"},
		{"title too long", "/api/recommend?movie=" + strings.Repeat("a", 301), ErrCodeValidation, "movie must be at most 300 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, srv, http.MethodGet, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			body := decode[ErrorResponse](t, rec)
			if body.Error != tt.wantMsg || body.Code != tt.wantCode {
				t.Errorf("body = %+v, want %s/%q", body, tt.wantCode, tt.wantMsg)
			}
			if body.RequestID == "" {
				t.Error("error body lacks request_id")
			}
		})
	}

	if n := fake.calls.Load(); n != 0 {
		t.Errorf("Recommend called %d times for invalid requests", n)
	}
}

func TestRecommend_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantPrefix string
	}{
		{
			name:       "model unavailable",
			err:        fmt.Errorf("%w: load dataset: disk gone", recommend.ErrModelUnavailable),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeModelUnavailable,
			wantPrefix: "Error processing request: ",
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternal,
			wantPrefix: "Error processing request: boom",
		},
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: count must be at least 1", recommend.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
			wantPrefix: "invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t, &fakeRecommender{result: recommend.Fail(tt.err)}, testConfig())
			rec := do(t, srv, http.MethodGet, "/api/recommend?movie=rocky")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decode[ErrorResponse](t, rec)
			if body.Code != tt.wantCode || !strings.HasPrefix(body.Error, tt.wantPrefix) {
				t.Errorf("body = %+v, want %s with prefix %q", body, tt.wantCode, tt.wantPrefix)
			}
		})
	}
}

func TestRecommend_ResponseCache(t *testing.T) {
	t.Parallel()

	fake := &fakeRecommender{
		result:  recommend.Success(recommend.RecommendationResult{InputMovie: "rocky"}),
		version: "v1",
	}
	srv := newTestServer(t, fake, testConfig())

	for i := 0; i < 3; i++ {
		if rec := do(t, srv, http.MethodGet, "/api/recommend?movie=Rocky&count=2"); rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}
	do(t, srv, http.MethodGet, "/api/recommend?movie=rocky&count=2")
	if n := fake.calls.Load(); n != 1 {
		t.Errorf("Recommend called %d times, want 1 (case-insensitive cache hit)", n)
	}

	do(t, srv, http.MethodGet, "/api/recommend?movie=rocky&count=3")
	if n := fake.calls.Load(); n != 2 {
		t.Errorf("different count: calls = %d, want 2", n)
	}

	fake.setVersion("v2")
	do(t, srv, http.MethodGet, "/api/recommend?movie=rocky&count=2")
	if n := fake.calls.Load(); n != 3 {
		t.Errorf("new model version: calls = %d, want 3", n)
	}
}

func TestRecommend_NoCacheBeforeFirstLoad(t *testing.T) {
	t.Parallel()

	fake := &fakeRecommender{result: recommend.Success(recommend.RecommendationResult{})}
	srv := newTestServer(t, fake, testConfig())

	do(t, srv, http.MethodGet, "/api/recommend?movie=rocky")
	do(t, srv, http.MethodGet, "/api/recommend?movie=rocky")
	if n := fake.calls.Load(); n != 2 {
		t.Errorf("calls = %d, want 2 when no model version is known", n)
	}
}

func TestMovies(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, newModelContext(t), testConfig())
	rec := do(t, srv, http.MethodGet, "/api/movies")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	body := decode[MoviesResponse](t, rec)
	want := []string{"rocky", "creed", "up"}
	if body.Count != 3 || !reflect.DeepEqual(body.Movies, want) {
		t.Errorf("body = %+v, want %v", body, want)
	}
}

func TestMovies_Prefix(t *testing.T) {
	t.Parallel()

	fake := &fakeRecommender{
		titles:  []string{"rocky", "rocky ii", "creed", "rocketman", "up"},
		version: "v1",
	}
	srv := newTestServer(t, fake, testConfig())

	tests := []struct {
		target string
		want   []string
	}{
		{"/api/movies?q=Roc", []string{"rocky", "rocky ii", "rocketman"}},
		{"/api/movies?q=roc&limit=1", []string{"rocky"}},
		{"/api/movies?q=zzz", []string{}},
	}
	for _, tt := range tests {
		rec := do(t, srv, http.MethodGet, tt.target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", tt.target, rec.Code)
		}
		body := decode[MoviesResponse](t, rec)
		if body.Count != len(tt.want) || !reflect.DeepEqual(body.Movies, tt.want) {
			t.Errorf("%s = %+v, want %v", tt.target, body, tt.want)
		}
	}

	for _, bad := range []string{"/api/movies?q=r&limit=0", "/api/movies?q=r&limit=x", "/api/movies?limit=101"} {
		if rec := do(t, srv, http.MethodGet, bad); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", bad, rec.Code)
		}
	}
}

func TestMovies_Error(t *testing.T) {
	t.Parallel()

	fake := &fakeRecommender{titlesErr: fmt.Errorf("%w: no dataset", recommend.ErrModelUnavailable)}
	srv := newTestServer(t, fake, testConfig())

	rec := do(t, srv, http.MethodGet, "/api/movies")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decode[ErrorResponse](t, rec)
	if !strings.HasPrefix(body.Error, "Error retrieving movies: ") {
		t.Errorf("error = %q", body.Error)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	// Liveness does not depend on the model.
	fake := &fakeRecommender{status: recommend.BuildStatus{LastError: "broken"}}
	rec := do(t, newTestServer(t, fake, testConfig()), http.MethodGet, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decode[HealthResponse](t, rec); body.Status != "healthy" {
		t.Errorf("status = %q", body.Status)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	mc := newModelContext(t)
	srv := newTestServer(t, mc, testConfig())

	body := decode[StatusResponse](t, do(t, srv, http.MethodGet, "/api/status"))
	if body.Status != StateIdle || body.Model.Ready {
		t.Errorf("before load: %+v", body)
	}

	do(t, srv, http.MethodGet, "/api/recommend?movie=rocky")

	body = decode[StatusResponse](t, do(t, srv, http.MethodGet, "/api/status"))
	if body.Status != StateReady || body.Model.ItemCount != 3 || body.Model.Version == "" {
		t.Errorf("after load: %+v", body)
	}
	if body.Version != "test" {
		t.Errorf("app version = %q", body.Version)
	}
	if len(body.Endpoints) == 0 {
		t.Error("no endpoint stats after requests")
	}
}

func TestModelState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status recommend.BuildStatus
		want   string
	}{
		{recommend.BuildStatus{Ready: true, LastError: "old"}, StateReady},
		{recommend.BuildStatus{Building: true}, StateLoading},
		{recommend.BuildStatus{LastError: "boom"}, StateUnavailable},
		{recommend.BuildStatus{}, StateIdle},
	}
	for _, tt := range tests {
		if got := modelState(tt.status); got != tt.want {
			t.Errorf("modelState(%+v) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
