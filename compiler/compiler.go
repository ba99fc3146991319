// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"errors"
	"fmt"
	"log/slog"

	jsexecutor "github.com/buke/js-executor"
	"github.com/rs/xid"
)

// DefaultService is the executor service exposed by the glue script in
// engines/quickjs-go.
const DefaultService = "vuecompiler.compile"

// ErrInvalidResult is returned when the compiler service answers with
// something other than {code, diagnostics}.
var ErrInvalidResult = errors.New("invalid template compilation result")

// Result is the output of a compilation.
type Result struct {
	Code string // Body of a function that returns the render function
}

// TemplateCompiler turns template source into render function code.
// Diagnostics are delivered synchronously through opts.OnError and
// opts.OnWarn before Compile returns. A non-nil error means no code could be
// produced at all (the compiler was unreachable or crashed); template
// problems are never reported through it.
type TemplateCompiler interface {
	Compile(source string, opts Options) (*Result, error)
}

// JsCompiler runs the Vue template compiler through a JS executor.
type JsCompiler struct {
	jsExecutor *jsexecutor.JsExecutor
	service    string
	logger     *slog.Logger
}

// JsCompilerOption configures a JsCompiler.
type JsCompilerOption func(*JsCompiler)

// WithService overrides the executor service name.
func WithService(service string) JsCompilerOption {
	return func(c *JsCompiler) {
		c.service = service
	}
}

// WithLogger sets the logger used for transport failures.
func WithLogger(logger *slog.Logger) JsCompilerOption {
	return func(c *JsCompiler) {
		c.logger = logger
	}
}

// NewJsCompiler returns a TemplateCompiler backed by jsExec. The executor
// must be started and its engines must expose the compile service, see
// qjscompiler.NewTemplateCompilerFactory.
//
// Panics if jsExec is nil.
func NewJsCompiler(jsExec *jsexecutor.JsExecutor, optsFunc ...JsCompilerOption) *JsCompiler {
	if jsExec == nil {
		panic("jsExecutor is required")
	}
	c := &JsCompiler{
		jsExecutor: jsExec,
		service:    DefaultService,
		logger:     slog.Default(),
	}
	for _, fn := range optsFunc {
		fn(c)
	}
	return c
}

// Compile implements TemplateCompiler.
func (c *JsCompiler) Compile(source string, opts Options) (*Result, error) {
	args := map[string]interface{}{
		"compilerOptions": toCompilerOptions(opts),
	}
	if opts.IsCustomElement != nil {
		args["customElements"] = customElementTags(source, opts.IsCustomElement)
	}

	jsResponse, err := c.jsExecutor.Execute(&jsexecutor.JsRequest{
		Id:      xid.New().String(),
		Service: c.service,
		Args:    []interface{}{source, args},
	})
	if err != nil {
		c.logger.Error("Template compiler service failed", "error", err, "service", c.service)
		return nil, fmt.Errorf("template compiler service %s failed: %w", c.service, err)
	}

	compileResult, ok := jsResponse.Result.(map[string]interface{})
	if !ok {
		c.logger.Error("Invalid template compilation result", "result", jsResponse.Result)
		return nil, fmt.Errorf("%w: %v", ErrInvalidResult, jsResponse.Result)
	}

	code, ok := compileResult["code"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing code", ErrInvalidResult)
	}

	// Replay diagnostics in the order the compiler reported them.
	if diagnostics, ok := compileResult["diagnostics"].([]interface{}); ok {
		for _, d := range diagnostics {
			raw, ok := d.(map[string]interface{})
			if !ok {
				continue
			}
			diag := decodeError(raw)
			if warning, _ := raw["warning"].(bool); warning {
				if opts.OnWarn != nil {
					opts.OnWarn(diag)
				}
			} else if opts.OnError != nil {
				opts.OnError(diag)
			}
		}
	}

	return &Result{Code: code}, nil
}
