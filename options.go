// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package vuecompile

import (
	"log/slog"

	jsexecutor "github.com/buke/js-executor"
	"github.com/buke/vue-compile-go/compiler"
	"github.com/buke/vue-compile-go/host"
	"github.com/evanw/esbuild/pkg/api"
)

// Options holds the compiler configuration and its collaborators.
type Options struct {
	flags BuildFlags // Mode, calling convention and platform of this build

	templateCompiler compiler.TemplateCompiler // Produces render code from templates
	jsExecutor       *jsexecutor.JsExecutor    // Used to build a JsCompiler when no templateCompiler is set
	materializer     Materializer              // Turns render code into render functions

	runtime  *host.Runtime // Host runtime receiving the compiler and diagnostics
	document Document      // Document selector templates are resolved against
	cache    *Cache        // Compiled render functions, keyed by template

	logger *slog.Logger // Logger for operational failures
}

// OptionFunc is a function type for configuring options using the functional options pattern.
type OptionFunc func(*Options)

// newOptions creates an options struct with development defaults.
func newOptions() *Options {
	return &Options{
		flags:  BuildFlags{Mode: Development, Convention: NamespaceConvention},
		logger: slog.Default(),
	}
}

// WithBuildFlags sets all build flags at once.
func WithBuildFlags(flags BuildFlags) OptionFunc {
	return func(opts *Options) {
		opts.flags = flags
	}
}

// WithBuildOptions derives the build flags from esbuild build options, see
// FlagsFromBuildOptions.
func WithBuildOptions(buildOptions *api.BuildOptions) OptionFunc {
	return func(opts *Options) {
		opts.flags = FlagsFromBuildOptions(buildOptions)
	}
}

// WithMode sets development or production mode. Diagnostics are only
// reported in development mode.
func WithMode(mode Mode) OptionFunc {
	return func(opts *Options) {
		opts.flags.Mode = mode
	}
}

// WithConvention sets the calling convention for generated code.
func WithConvention(convention Convention) OptionFunc {
	return func(opts *Options) {
		opts.flags.Convention = convention
	}
}

// WithTemplateCompiler sets the template compiler.
func WithTemplateCompiler(templateCompiler compiler.TemplateCompiler) OptionFunc {
	return func(opts *Options) {
		opts.templateCompiler = templateCompiler
	}
}

// WithJsExecutor uses a compiler.JsCompiler over jsExecutor as the template
// compiler, unless WithTemplateCompiler is also given.
func WithJsExecutor(jsExecutor *jsexecutor.JsExecutor) OptionFunc {
	return func(opts *Options) {
		opts.jsExecutor = jsExecutor
	}
}

// WithMaterializer sets the materializer, usually a *Realm.
func WithMaterializer(materializer Materializer) OptionFunc {
	return func(opts *Options) {
		opts.materializer = materializer
	}
}

// WithRuntime sets the host runtime the compiler registers with and warns
// through. Defaults to a new host.Runtime.
func WithRuntime(runtime *host.Runtime) OptionFunc {
	return func(opts *Options) {
		opts.runtime = runtime
	}
}

// WithDocument sets the document selector templates are resolved against.
// Without one every selector is reported as not found.
func WithDocument(document Document) OptionFunc {
	return func(opts *Options) {
		opts.document = document
	}
}

// WithCache sets the cache, allowing several compilers to share one.
// Defaults to a cache owned by the compiler.
func WithCache(cache *Cache) OptionFunc {
	return func(opts *Options) {
		opts.cache = cache
	}
}

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) OptionFunc {
	return func(opts *Options) {
		opts.logger = logger
	}
}
