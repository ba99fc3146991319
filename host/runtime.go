// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

// Package host models the rendering runtime that consumes compiled
// templates. The runtime has a pluggable compiler slot so that builds
// without the template compiler still work with pre-compiled render
// functions.
package host

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/buke/vue-compile-go/compiler"
)

// ErrRuntimeCompilerUnavailable is returned when a template has to be
// compiled but no runtime compiler was registered.
var ErrRuntimeCompilerUnavailable = errors.New("runtime compilation is not supported in this build of Vue")

const unavailableWarning = "Runtime compilation is not supported in this build of Vue."

// CompileFunc compiles a template (a markup string, a selector string or an
// element handle) into a render function.
type CompileFunc func(template any, options *compiler.Options) RenderFunction

// Variant identifies the distribution the runtime was built as. It only
// affects the hint given when runtime compilation is unavailable.
type Variant int

const (
	VariantUnknown Variant = iota
	VariantESMBundler
	VariantESMBrowser
	VariantGlobal
)

func (v Variant) hint() string {
	switch v {
	case VariantESMBundler:
		return ` Configure your bundler to alias "vue" to "vue/dist/vue.esm-bundler.js".`
	case VariantESMBrowser:
		return ` Use "vue.esm-browser.js" instead.`
	case VariantGlobal:
		return ` Use "vue.global.js" instead.`
	default:
		return ""
	}
}

// Component is the subset of a component definition the runtime needs to
// obtain a render function.
type Component struct {
	Name            string
	Template        string
	Render          RenderFunction
	CompilerOptions *compiler.Options
}

// Runtime is the host rendering runtime.
type Runtime struct {
	mu             sync.RWMutex
	compile        CompileFunc
	variant        Variant
	customElements *CustomElementRegistry
	development    bool
	logger         *slog.Logger
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithVariant sets the build variant.
func WithVariant(variant Variant) Option {
	return func(r *Runtime) {
		r.variant = variant
	}
}

// WithCustomElements exposes a custom element registry, as browsers do
// through window.customElements.
func WithCustomElements(registry *CustomElementRegistry) Option {
	return func(r *Runtime) {
		r.customElements = registry
	}
}

// WithDevelopment enables the development-only warnings of CompileTemplate
// and ResolveRender. Defaults to true.
func WithDevelopment(development bool) Option {
	return func(r *Runtime) {
		r.development = development
	}
}

// WithLogger sets the logger backing Warn.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// New creates a runtime without a compiler.
func New(optsFunc ...Option) *Runtime {
	r := &Runtime{development: true, logger: slog.Default()}
	for _, fn := range optsFunc {
		fn(r)
	}
	return r
}

// RegisterRuntimeCompiler installs fn in the compiler slot.
func (r *Runtime) RegisterRuntimeCompiler(fn CompileFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compile = fn
}

// IsRuntimeOnly reports whether no compiler has been registered.
func (r *Runtime) IsRuntimeOnly() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.compile == nil
}

// CustomElements returns the custom element registry, or nil when the host
// environment has none.
func (r *Runtime) CustomElements() *CustomElementRegistry {
	return r.customElements
}

// IsDevelopment reports whether development-only warnings are enabled.
func (r *Runtime) IsDevelopment() bool {
	return r.development
}

// Warn logs a runtime warning.
func (r *Runtime) Warn(msg string, args ...any) {
	r.logger.Warn("[Vue warn]: "+msg, args...)
}

// CompileTemplate compiles template with the registered compiler.
func (r *Runtime) CompileTemplate(template any, options *compiler.Options) (RenderFunction, error) {
	r.mu.RLock()
	compile := r.compile
	r.mu.RUnlock()

	if compile == nil {
		if r.development {
			r.Warn(unavailableWarning + r.variant.hint())
		}
		return nil, fmt.Errorf("%w: use a pre-compiled render function or a build that includes the template compiler", ErrRuntimeCompilerUnavailable)
	}
	return compile(template, options), nil
}

// ResolveRender returns the render function for c, compiling its template
// when c has no render function of its own. The result is stored on c.
func (r *Runtime) ResolveRender(c *Component) (RenderFunction, error) {
	if c.Render != nil {
		return c.Render, nil
	}
	if c.Template == "" {
		if r.development {
			r.Warn("Component is missing template or render function.", "component", c.Name)
		}
		c.Render = Noop
		return c.Render, nil
	}

	render, err := r.CompileTemplate(c.Template, c.CompilerOptions)
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", c.Name, err)
	}
	c.Render = render
	return render, nil
}
