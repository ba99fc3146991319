// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package vuecompile

import (
	"encoding/json"
	"fmt"
	"sync"

	quickjsengine "github.com/buke/js-executor/engines/quickjs-go"
	qjscompiler "github.com/buke/vue-compile-go/engines/quickjs-go"
	"github.com/buke/vue-compile-go/host"
	"github.com/rs/xid"
)

// Materializer turns generated render code into an invocable render
// function. It is the only place generated text becomes executable.
type Materializer interface {
	Materialize(code string, convention Convention) (host.RenderFunction, error)
}

// registryName is the realm global holding synthesized render functions.
const registryName = "__vueRenderFns"

const realmPrelude = `globalThis.` + registryName + ` = Object.create(null);`

// Realm is a QuickJS context that hosts the framework runtime and the
// render functions synthesized from generated code. A Realm is safe for
// concurrent use; calls into it are serialised.
type Realm struct {
	mu        sync.Mutex
	engine    *quickjsengine.Engine
	namespace string
}

// RealmOption configures a Realm.
type RealmOption func(*realmConfig)

type realmConfig struct {
	namespace     string
	engineOptions []quickjsengine.Option
}

// WithNamespace sets the JavaScript expression that yields the runtime API
// object handed to generated code under the namespace convention.
// Defaults to "Vue".
func WithNamespace(expr string) RealmOption {
	return func(c *realmConfig) {
		c.namespace = expr
	}
}

// WithEngineOptions adds QuickJS engine options applied before the runtime
// script is loaded.
func WithEngineOptions(options ...quickjsengine.Option) RealmOption {
	return func(c *realmConfig) {
		c.engineOptions = append(c.engineOptions, options...)
	}
}

// NewRealm creates a realm with runtimeScript loaded. runtimeScript provides
// the framework API, for example the runtime-dom global build.
func NewRealm(runtimeScript string, optsFunc ...RealmOption) (*Realm, error) {
	cfg := &realmConfig{namespace: "Vue"}
	for _, fn := range optsFunc {
		fn(cfg)
	}

	options := append(append([]quickjsengine.Option(nil), cfg.engineOptions...),
		qjscompiler.LoadScript("vue-runtime.js", runtimeScript),
		qjscompiler.LoadScript("realm-prelude.js", realmPrelude),
	)
	engine, err := quickjsengine.NewFactory(options...)()
	if err != nil {
		return nil, fmt.Errorf("failed to create realm engine: %w", err)
	}
	qjsEngine, ok := engine.(*quickjsengine.Engine)
	if !ok {
		engine.Close()
		return nil, fmt.Errorf("unexpected realm engine %T", engine)
	}

	return &Realm{engine: qjsEngine, namespace: cfg.namespace}, nil
}

// Close releases the underlying engine.
func (r *Realm) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.Close()
}

// Materialize implements Materializer. The synthesized function is stored in
// the realm for its lifetime and tagged with _rc = true.
func (r *Realm) Materialize(code string, convention Convention) (host.RenderFunction, error) {
	body, err := json.Marshal(code)
	if err != nil {
		return nil, err
	}

	var factory string
	switch convention {
	case GlobalConvention:
		factory = fmt.Sprintf("new Function(%s)()", body)
	case NamespaceConvention:
		factory = fmt.Sprintf("new Function(\"Vue\", %s)(%s)", body, r.namespace)
	default:
		return nil, fmt.Errorf("unknown calling convention %d", convention)
	}

	id := xid.New().String()
	script := fmt.Sprintf(`(function () {
  var render = %s;
  if (typeof render !== 'function') {
    throw new TypeError('generated code did not return a render function');
  }
  render._rc = true;
  %s[%q] = render;
})()`, factory, registryName, id)

	if _, err := r.eval(script); err != nil {
		return nil, fmt.Errorf("failed to materialize render function (%s convention): %w", convention, err)
	}
	return &realmRender{realm: r, id: id}, nil
}

// call invokes the render function registered under id with state as the
// render context and returns its JSON-decoded result. A state encoding to
// null is passed as an empty object.
func (r *Realm) call(id string, state any) (any, error) {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode render state: %w", err)
	}
	if string(stateJSON) == "null" {
		stateJSON = []byte("{}")
	}
	arg, _ := json.Marshal(string(stateJSON))

	out, err := r.eval(fmt.Sprintf(`(function () {
  var out = %s[%q](JSON.parse(%s), []);
  return out === undefined ? 'null' : JSON.stringify(out);
})()`, registryName, id, arg))
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	var result any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return nil, fmt.Errorf("failed to decode render output: %w", err)
	}
	return result, nil
}

func (r *Realm) eval(script string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ret := r.engine.Ctx.Eval(script)
	defer ret.Free()
	if ret.IsException() {
		return "", r.engine.Ctx.Exception()
	}
	return ret.String(), nil
}

type realmRender struct {
	realm *Realm
	id    string
}

func (f *realmRender) Render(state any) (any, error) {
	return f.realm.call(f.id, state)
}
