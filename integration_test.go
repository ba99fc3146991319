// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package vuecompile

import (
	"log/slog"
	"strings"
	"testing"

	jsexecutor "github.com/buke/js-executor"
	"github.com/buke/vue-compile-go/compiler"
	qjscompiler "github.com/buke/vue-compile-go/engines/quickjs-go"
	"github.com/buke/vue-compile-go/host"
	"github.com/google/go-cmp/cmp"
)

// stubCompilerDOM emits function-mode code for a single interpolation and
// reports an unterminated interpolation as an error
const stubCompilerDOM = `
var VueCompilerDOM = {
  compile: function (source, options) {
    var open = source.indexOf('{{');
    if (open >= 0 && source.indexOf('}}') < 0) {
      options.onError({
        message: 'Interpolation end sign was not found.',
        code: 25,
        loc: { start: { offset: open, line: 1, column: open + 1 }, end: { offset: source.length, line: 1, column: source.length + 1 } }
      });
    }
    var m = /\{\{\s*(\w+)\s*\}\}/.exec(source);
    var expr = m ? '_toDisplayString(' + m[1] + ')' : JSON.stringify(source);
    return {
      code: 'const { h: _h, toDisplayString: _toDisplayString } = Vue\n' +
        'return function render(_ctx, _cache) {\n' +
        '  with (_ctx) { return _h("div", ' + expr + ') }\n' +
        '}'
    };
  }
};
`

func newIntegrationCompiler(t *testing.T, logs *recordHandler, opts ...OptionFunc) *Compiler {
	t.Helper()

	jsExec, err := jsexecutor.NewExecutor(
		jsexecutor.WithJsEngine(qjscompiler.NewTemplateCompilerFactory(stubCompilerDOM)),
	)
	if err != nil {
		t.Fatalf("Failed to create executor: %v", err)
	}
	if err := jsExec.Start(); err != nil {
		t.Fatalf("Failed to start executor: %v", err)
	}
	t.Cleanup(func() { jsExec.Stop() })

	realm := newTestRealm(t, globalRuntime)
	logger := slog.New(logs)

	base := []OptionFunc{
		WithJsExecutor(jsExec),
		WithMaterializer(realm),
		WithRuntime(host.New(host.WithLogger(logger))),
		WithLogger(logger),
	}
	return New(append(base, opts...)...)
}

func TestIntegrationCompile(t *testing.T) {
	logs := &recordHandler{}
	c := newIntegrationCompiler(t, logs)

	render := c.Compile("<div>{{ msg }}</div>", nil)
	if render == host.Noop {
		t.Fatalf("Expected a render function, logs: %v", logs.messages(slog.LevelError))
	}
	if !host.IsRuntimeCompiled(render) {
		t.Error("Expected runtime-compiled marker")
	}

	out, err := render.Render(map[string]any{"msg": "hi"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"tag": "div", "children": "hi"}, out); diff != "" {
		t.Errorf("render output mismatch (-want +got):\n%s", diff)
	}

	if again := c.Compile("<div>{{ msg }}</div>", nil); again != render {
		t.Error("Expected cached render function")
	}
}

func TestIntegrationDiagnostics(t *testing.T) {
	logs := &recordHandler{}
	c := newIntegrationCompiler(t, logs, WithConvention(GlobalConvention))

	render := c.Compile("<p>{{ msg", &compiler.Options{})
	if render == host.Noop {
		t.Fatal("Expected code despite the reported error")
	}

	warnings := logs.warnings()
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %v", warnings)
	}
	want := "[Vue warn]: Template compilation error: Interpolation end sign was not found.\n" +
		"1  |  <p>{{ msg\n" +
		"   |     ^^^^^^"
	if warnings[0] != want {
		t.Errorf("warning =\n%s\nwant\n%s", warnings[0], want)
	}
}

func TestIntegrationMissingBundle(t *testing.T) {
	jsExec, err := jsexecutor.NewExecutor(
		jsexecutor.WithJsEngine(qjscompiler.NewTemplateCompilerFactory("")),
	)
	if err != nil {
		t.Fatalf("Failed to create executor: %v", err)
	}
	if err := jsExec.Start(); err != nil {
		t.Fatalf("Failed to start executor: %v", err)
	}
	defer jsExec.Stop()

	logs := &recordHandler{}
	logger := slog.New(logs)
	c := New(
		WithJsExecutor(jsExec),
		WithMaterializer(&fakeMaterializer{}),
		WithRuntime(host.New(host.WithLogger(logger))),
		WithLogger(logger),
	)

	if render := c.Compile("<div/>", nil); render != host.Noop {
		t.Errorf("Expected Noop, got %v", render)
	}
	errs := strings.Join(logs.messages(slog.LevelError), "\n")
	if !strings.Contains(errs, "Template compilation failed") {
		t.Errorf("Expected a compilation failure log, got %v", errs)
	}
	if c.Cache().Len() != 0 {
		t.Error("Failures must not be cached")
	}
}
