// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one non-nil instance")
	}
}

type queryStruct struct {
	Movie  string `query:"movie" validate:"notblank,max=10"`
	Count  int    `query:"count" validate:"min=1,max=100"`
	Format string `json:"format,omitempty" validate:"omitempty,oneof=json csv"`
	Other  int    `validate:"lte=5"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     queryStruct
		wantField string
		wantMsg   string
	}{
		{
			name:  "valid",
			input: queryStruct{Movie: "Rocky", Count: 5},
		},
		{
			name:      "blank movie",
			input:     queryStruct{Movie: "   ", Count: 5},
			wantField: "movie",
			wantMsg:   "movie must not be blank",
		},
		{
			name:      "empty movie",
			input:     queryStruct{Count: 5},
			wantField: "movie",
			wantMsg:   "movie must not be blank",
		},
		{
			name:      "long movie",
			input:     queryStruct{Movie: "the godfather part ii", Count: 5},
			wantField: "movie",
			wantMsg:   "movie must be at most 10 characters",
		},
		{
			name:      "count too small",
			input:     queryStruct{Movie: "Up", Count: 0},
			wantField: "count",
			wantMsg:   "count must be at least 1",
		},
		{
			name:      "count too large",
			input:     queryStruct{Movie: "Up", Count: 101},
			wantField: "count",
			wantMsg:   "count must be at most 100",
		},
		{
			name:      "json tag name",
			input:     queryStruct{Movie: "Up", Count: 1, Format: "xml"},
			wantField: "format",
			wantMsg:   "format must be one of: json csv",
		},
		{
			name:      "go field name",
			input:     queryStruct{Movie: "Up", Count: 1, Other: 9},
			wantField: "Other",
			wantMsg:   "Other must be less than or equal to 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if !verr.HasField(tt.wantField) {
				t.Errorf("HasField(%q) = false, errors: %v", tt.wantField, verr)
			}
			if verr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&queryStruct{Count: 0})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil")
	}
	if len(verr.Errors()) != 2 {
		t.Fatalf("got %d errors, want 2", len(verr.Errors()))
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("combined message = %q", verr.Error())
	}

	fe := verr.Errors()[1]
	if fe.Tag() != "min" || fe.Param() != "1" || fe.Value() != 0 {
		t.Errorf("field error = %s/%s/%v", fe.Tag(), fe.Param(), fe.Value())
	}
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct("movie")
	if verr == nil || !verr.HasField("unknown") {
		t.Errorf("ValidateStruct(string) = %v", verr)
	}
}

func TestValidateVar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   interface{}
		tag     string
		wantMsg string
	}{
		{"passes", 5, "min=1,max=10", ""},
		{"below min", 0, "min=1,max=10", "count must be at least 1"},
		{"above max", 11, "min=1,max=10", "count must be at most 10"},
		{"string max", "abcdef", "max=3", "count must be at most 3 characters"},
		{"blank", "  ", "notblank", "count must not be blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateVar("count", tt.value, tt.tag)
			if tt.wantMsg == "" {
				if verr != nil {
					t.Errorf("ValidateVar() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateVar() = nil")
			}
			if verr.Error() != tt.wantMsg || !verr.HasField("count") {
				t.Errorf("ValidateVar() = %q, want %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	t.Parallel()

	if got := (&RequestValidationError{}).Error(); got != "validation failed" {
		t.Errorf("Error() = %q", got)
	}
}
