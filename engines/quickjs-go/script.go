// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package qjscompiler

import (
	_ "embed"
	"fmt"
	"strconv"
	"sync"

	quickjsengine "github.com/buke/js-executor/engines/quickjs-go"
	quickjs "github.com/buke/quickjs-go"
	"github.com/cespare/xxhash"
)

// glueScript exposes the vuecompiler.compile service on top of the compiler bundle.
//
//go:embed compilerjs/glue.js
var glueScript string

// bytecodeCache maps a script digest to its compiled bytecode. Bytecode is
// shared between engines so a bundle is only parsed once per process.
var bytecodeCache sync.Map

func scriptKey(name, source string) string {
	return name + "#" + strconv.FormatUint(xxhash.Sum64String(source), 16)
}

// getScriptBytecode compiles source and caches the bytecode under its digest.
func getScriptBytecode(jse *quickjsengine.Engine, name, source string) ([]byte, error) {
	key := scriptKey(name, source)
	if b, ok := bytecodeCache.Load(key); ok {
		return b.([]byte), nil
	}

	b, err := jse.Ctx.Compile(source, quickjs.EvalFileName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", name, err)
	}
	actual, _ := bytecodeCache.LoadOrStore(key, b)
	return actual.([]byte), nil
}

// LoadScript returns an engine option that evaluates source in the engine's
// global scope. name is used in stack traces.
func LoadScript(name, source string) quickjsengine.Option {
	return func(jse *quickjsengine.Engine) error {
		bytecode, err := getScriptBytecode(jse, name, source)
		if err != nil {
			return err
		}

		ret := jse.Ctx.EvalBytecode(bytecode)
		defer ret.Free()
		if ret.IsException() {
			return fmt.Errorf("failed to evaluate %s: %w", name, jse.Ctx.Exception())
		}
		return nil
	}
}
