// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package validation wraps go-playground/validator v10 with a shared
// instance, a notblank rule and messages phrased for API clients.
//
// Messages name fields by their query tag, so a handler can pass them
// straight through:
//
//	type recommendQuery struct {
//	    Movie string `query:"movie" validate:"notblank,max=300"`
//	    Count int    `query:"count" validate:"min=1,max=100"`
//	}
//
//	if verr := validation.ValidateStruct(&q); verr != nil {
//	    // verr.Error() == "count must be at most 100"
//	}
package validation
