// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package vuecompile

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/buke/vue-compile-go/compiler"
	"github.com/buke/vue-compile-go/host"
)

// recordHandler keeps every log record for inspection
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

// messages returns the messages logged at level
func (h *recordHandler) messages(level slog.Level) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, r := range h.records {
		if r.Level == level {
			out = append(out, r.Message)
		}
	}
	return out
}

func (h *recordHandler) warnings() []string {
	return h.messages(slog.LevelWarn)
}

// fakeCompiler records compilations and emits configured diagnostics
type fakeCompiler struct {
	mu       sync.Mutex
	calls    []string
	options  []compiler.Options
	errors   []*compiler.Error
	warnings []*compiler.Error
	err      error
	code     string
	gate     chan struct{}
}

func (f *fakeCompiler) Compile(source string, opts compiler.Options) (*compiler.Result, error) {
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	f.calls = append(f.calls, source)
	f.options = append(f.options, opts)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.errors {
		if opts.OnError != nil {
			opts.OnError(e)
		}
	}
	for _, w := range f.warnings {
		if opts.OnWarn != nil {
			opts.OnWarn(w)
		}
	}

	code := f.code
	if code == "" {
		code = "return function render() { return " + source + " }"
	}
	return &compiler.Result{Code: code}, nil
}

func (f *fakeCompiler) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeMaterializer returns render functions that echo the generated code
type fakeMaterializer struct {
	mu          sync.Mutex
	conventions []Convention
	err         error
}

func (m *fakeMaterializer) Materialize(code string, convention Convention) (host.RenderFunction, error) {
	m.mu.Lock()
	m.conventions = append(m.conventions, convention)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return host.RenderFunc(func(any) (any, error) { return code, nil }), nil
}

type testEnv struct {
	compiler     *Compiler
	fake         *fakeCompiler
	materializer *fakeMaterializer
	logs         *recordHandler
	runtime      *host.Runtime
}

func newTestEnv(t *testing.T, fake *fakeCompiler, hostOpts []host.Option, opts ...OptionFunc) *testEnv {
	t.Helper()

	if fake == nil {
		fake = &fakeCompiler{}
	}
	logs := &recordHandler{}
	logger := slog.New(logs)
	rt := host.New(append([]host.Option{host.WithLogger(logger)}, hostOpts...)...)
	materializer := &fakeMaterializer{}

	base := []OptionFunc{
		WithTemplateCompiler(fake),
		WithMaterializer(materializer),
		WithRuntime(rt),
		WithLogger(logger),
	}
	c := New(append(base, opts...)...)

	return &testEnv{
		compiler:     c,
		fake:         fake,
		materializer: materializer,
		logs:         logs,
		runtime:      rt,
	}
}
