// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package host

// RenderFunction produces a description of UI output for the given
// component state.
type RenderFunction interface {
	Render(state any) (any, error)
}

// RenderFunc adapts an ordinary function, typically a hand-authored render
// function, to RenderFunction.
type RenderFunc func(state any) (any, error)

// Render calls f(state).
func (f RenderFunc) Render(state any) (any, error) {
	return f(state)
}

type noopRender struct{}

func (noopRender) Render(any) (any, error) { return nil, nil }

// Noop renders nothing and never fails. It is comparable, so callers can
// test for it with ==.
var Noop RenderFunction = noopRender{}

// runtimeCompiled is implemented by render functions produced by the
// runtime template compiler.
type runtimeCompiled interface {
	RuntimeCompiled() bool
}

type markedRender struct {
	RenderFunction
}

func (markedRender) RuntimeCompiled() bool { return true }

// MarkRuntimeCompiled tags fn as produced by runtime template compilation.
// Marking an already marked function returns it unchanged.
func MarkRuntimeCompiled(fn RenderFunction) RenderFunction {
	if IsRuntimeCompiled(fn) {
		return fn
	}
	return &markedRender{RenderFunction: fn}
}

// IsRuntimeCompiled reports whether fn carries the runtime-compiled marker.
// Render functions compiled at runtime are not assumed to have the
// compile-time optimisations of pre-compiled ones.
func IsRuntimeCompiled(fn RenderFunction) bool {
	rc, ok := fn.(runtimeCompiled)
	return ok && rc.RuntimeCompiled()
}
