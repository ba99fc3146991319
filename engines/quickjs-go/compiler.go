// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

// Package qjscompiler provides QuickJS engines preloaded with the Vue
// template compiler.
package qjscompiler

import (
	jsexecutor "github.com/buke/js-executor"
	quickjsengine "github.com/buke/js-executor/engines/quickjs-go"
)

// CompilerScriptName is the file name reported for the compiler bundle.
const CompilerScriptName = "vue-compiler-dom.global.js"

// NewTemplateCompilerFactory creates a JsEngineFactory whose engines have
// the given compiler bundle loaded and expose the "vuecompiler.compile"
// service. compilerScript must define the global VueCompilerDOM, as the
// @vue/compiler-dom global build does.
// Additional QuickJS engine options are applied before the bundle is loaded.
func NewTemplateCompilerFactory(compilerScript string, options ...quickjsengine.Option) jsexecutor.JsEngineFactory {
	options = append(options, LoadScript(CompilerScriptName, compilerScript))
	options = append(options, LoadScript("vuecompiler-glue.js", glueScript))
	return quickjsengine.NewFactory(options...)
}
