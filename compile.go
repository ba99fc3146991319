// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

// Package vuecompile compiles Vue templates into render functions at
// runtime and caches them.
//
// A template is markup, a selector naming an element of a document, or an
// element handle. Compilation is delegated to a compiler.TemplateCompiler;
// the generated code is turned into a callable render function by a
// Materializer such as Realm. Results are memoized per template string.
package vuecompile

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/buke/vue-compile-go/compiler"
	"github.com/buke/vue-compile-go/host"
	"github.com/cespare/xxhash"
)

// Compiler is the runtime template compiler.
type Compiler struct {
	opts         *Options
	registerOnce sync.Once
}

// New creates a compiler and registers it with the host runtime.
//
// Example usage:
//
//	realm, _ := vuecompile.NewRealm(runtimeScript)
//	c := vuecompile.New(
//	  vuecompile.WithJsExecutor(jsExec),
//	  vuecompile.WithMaterializer(realm),
//	)
//	render := c.Compile("<div>{{ msg }}</div>", nil)
//
// Panics if no template compiler or materializer is provided.
func New(optsFunc ...OptionFunc) *Compiler {
	opts := newOptions()
	for _, fn := range optsFunc {
		fn(opts)
	}

	if opts.templateCompiler == nil && opts.jsExecutor != nil {
		opts.templateCompiler = compiler.NewJsCompiler(opts.jsExecutor, compiler.WithLogger(opts.logger))
	}
	if opts.templateCompiler == nil {
		panic("template compiler is required, please set it using WithTemplateCompiler() or WithJsExecutor()")
	}
	if opts.materializer == nil {
		panic("materializer is required, please set it using WithMaterializer()")
	}
	if opts.runtime == nil {
		opts.runtime = host.New(
			host.WithLogger(opts.logger),
			host.WithDevelopment(opts.flags.Mode == Development),
		)
	}
	if opts.cache == nil {
		opts.cache = NewCache()
	}

	if opts.flags.Mode == Development && opts.flags.Browser && !opts.flags.ESMBundler {
		opts.logger.Info("You are running a development build of Vue. " +
			"Make sure to use the production build when deploying for production.")
	}

	c := &Compiler{opts: opts}
	c.Register()
	return c
}

// Register installs Compile in the host runtime's compiler slot. Only the
// first call has an effect.
func (c *Compiler) Register() {
	c.registerOnce.Do(func() {
		c.opts.runtime.RegisterRuntimeCompiler(c.Compile)
	})
}

// Runtime returns the host runtime the compiler is registered with.
func (c *Compiler) Runtime() *host.Runtime {
	return c.opts.runtime
}

// Cache returns the compiler's cache.
func (c *Compiler) Cache() *Cache {
	return c.opts.cache
}

// Compile returns the render function for template, which may be a string,
// an *html.Node or a Source. Identical template strings return the identical
// render function; options only apply to the first compilation.
//
// Compile never fails: unusable input and compiler failures yield
// host.Noop, and diagnostics are reported through the host runtime in
// development mode.
func (c *Compiler) Compile(template any, options *compiler.Options) host.RenderFunction {
	source, ok := c.resolve(SourceOf(template))
	if !ok {
		return host.Noop
	}

	render, err := c.opts.cache.LookupOrCompile(source, func() (host.RenderFunction, error) {
		return c.compile(source, options)
	})
	if err != nil {
		c.opts.logger.Error("Template compilation failed", "error", err, "template", templateDigest(source))
		return host.Noop
	}
	return render
}

// compile runs the uncached pipeline for a resolved template.
func (c *Compiler) compile(template string, options *compiler.Options) (host.RenderFunction, error) {
	c.opts.logger.Debug("Compiling template", "template", templateDigest(template), "convention", c.opts.flags.Convention)

	result, err := c.opts.templateCompiler.Compile(template, c.mergeOptions(template, options))
	if err != nil {
		return nil, fmt.Errorf("failed to compile template: %w", err)
	}

	render, err := c.opts.materializer.Materialize(result.Code, c.opts.flags.Convention)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize template: %w", err)
	}
	return host.MarkRuntimeCompiled(render), nil
}

// mergeOptions builds the options for compiling template: hoistStatic on,
// diagnostic sinks for the current mode, then the caller's options on top.
// A custom element predicate backed by the host registry is installed when
// the caller gives none.
func (c *Compiler) mergeOptions(template string, options *compiler.Options) compiler.Options {
	defaults := compiler.Options{HoistStatic: compiler.Bool(true)}
	if c.opts.flags.Mode == Development {
		defaults.OnError = func(err *compiler.Error) { c.reportDiagnostic(template, err, false) }
		defaults.OnWarn = func(err *compiler.Error) { c.reportDiagnostic(template, err, true) }
	} else {
		defaults.OnWarn = func(*compiler.Error) {}
	}

	opts := compiler.Merge(defaults, options)
	if opts.IsCustomElement == nil {
		if registry := c.opts.runtime.CustomElements(); registry != nil {
			opts.IsCustomElement = registry.Get
		}
	}
	return opts
}

func (c *Compiler) reportDiagnostic(template string, err *compiler.Error, asWarning bool) {
	c.opts.runtime.Warn(formatDiagnostic(template, err, asWarning))
}

// templateDigest identifies a template in logs without logging its content.
func templateDigest(template string) string {
	return strconv.FormatUint(xxhash.Sum64String(template), 16)
}
