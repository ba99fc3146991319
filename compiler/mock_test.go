// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"fmt"

	jsexecutor "github.com/buke/js-executor"
)

// MockEngineConfig defines the configuration for a mock engine
type MockEngineConfig struct {
	// Response to return, if nil then generate a compile result
	Response *jsexecutor.JsResponse
	// Error to return from Execute method
	ExecuteError error
	// Whether to return invalid result type
	InvalidResult bool
	// Code returned for every template
	Code string
	// Diagnostics appended to every compile result
	Diagnostics []interface{}
	// Requests seen by the engine, in order
	Requests []*jsexecutor.JsRequest
}

// MockEngine is a configurable mock engine
type MockEngine struct {
	config *MockEngineConfig
}

func (e *MockEngine) Init(scripts []*jsexecutor.InitScript) error   { return nil }
func (e *MockEngine) Reload(scripts []*jsexecutor.InitScript) error { return nil }
func (e *MockEngine) Close() error                                  { return nil }

func (e *MockEngine) Execute(req *jsexecutor.JsRequest) (*jsexecutor.JsResponse, error) {
	e.config.Requests = append(e.config.Requests, req)

	if e.config.ExecuteError != nil {
		return nil, e.config.ExecuteError
	}

	if e.config.Response != nil {
		e.config.Response.Id = req.Id
		return e.config.Response, nil
	}

	if e.config.InvalidResult {
		return &jsexecutor.JsResponse{
			Id:     req.Id,
			Result: "This is not a map[string]interface{}",
		}, nil
	}

	switch req.Service {
	case DefaultService:
		return e.handleCompile(req)
	default:
		return nil, fmt.Errorf("unknown service %s", req.Service)
	}
}

// handleCompile answers like the glue script does
func (e *MockEngine) handleCompile(req *jsexecutor.JsRequest) (*jsexecutor.JsResponse, error) {
	code := e.config.Code
	if code == "" {
		source, _ := req.Args[0].(string)
		code = fmt.Sprintf("return function render() { return %q }", source)
	}

	diagnostics := e.config.Diagnostics
	if diagnostics == nil {
		diagnostics = []interface{}{}
	}

	return &jsexecutor.JsResponse{
		Id: req.Id,
		Result: map[string]interface{}{
			"code":        code,
			"diagnostics": diagnostics,
		},
	}, nil
}

// NewMockEngineFactory creates a factory that returns MockEngine with given config
func NewMockEngineFactory(config *MockEngineConfig) jsexecutor.JsEngineFactory {
	return func() (jsexecutor.JsEngine, error) {
		return &MockEngine{config: config}, nil
	}
}

// mockDiagnostic builds a diagnostic the way the glue script serialises it
func mockDiagnostic(warning bool, message string, start, end int) map[string]interface{} {
	d := map[string]interface{}{
		"warning": warning,
		"message": message,
		"code":    float64(24),
	}
	if start >= 0 {
		d["loc"] = map[string]interface{}{
			"start": map[string]interface{}{"offset": float64(start), "line": float64(1), "column": float64(start + 1)},
			"end":   map[string]interface{}{"offset": float64(end), "line": float64(1), "column": float64(end + 1)},
		}
	}
	return d
}
