// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package compiler

import "fmt"

// Position is a point in the template source. Offset counts UTF-16 code
// units, matching what the JavaScript compiler reports.
type Position struct {
	Offset int
	Line   int
	Column int
}

// SourceLocation is the span a diagnostic refers to.
type SourceLocation struct {
	Start Position
	End   Position
}

// Error is a diagnostic reported by the template compiler.
type Error struct {
	Code    int
	Message string
	Loc     *SourceLocation
}

func (e *Error) Error() string {
	if e.Loc == nil {
		return e.Message
	}
	return fmt.Sprintf("%s (%d:%d)", e.Message, e.Loc.Start.Line, e.Loc.Start.Column)
}

// decodeError builds an Error from the plain object produced by the glue
// script: {message, code, loc: {start: {offset, line, column}, end: {...}}}.
func decodeError(raw map[string]interface{}) *Error {
	e := &Error{Code: -1}
	if msg, ok := raw["message"].(string); ok {
		e.Message = msg
	}
	if code, ok := toInt(raw["code"]); ok {
		e.Code = code
	}
	if loc, ok := raw["loc"].(map[string]interface{}); ok {
		start, startOk := decodePosition(loc["start"])
		end, endOk := decodePosition(loc["end"])
		if startOk && endOk {
			e.Loc = &SourceLocation{Start: start, End: end}
		}
	}
	return e
}

func decodePosition(v interface{}) (Position, bool) {
	raw, ok := v.(map[string]interface{})
	if !ok {
		return Position{}, false
	}
	offset, ok := toInt(raw["offset"])
	if !ok {
		return Position{}, false
	}
	line, _ := toInt(raw["line"])
	column, _ := toInt(raw["column"])
	return Position{Offset: offset, Line: line, Column: column}, true
}

// toInt accepts the numeric shapes a JSON round trip may produce.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
