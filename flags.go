// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package vuecompile

import (
	"encoding/json"

	"github.com/evanw/esbuild/pkg/api"
)

// Mode selects development or production behaviour.
type Mode bool

func (m Mode) String() string {
	if bool(m) {
		return "Production"
	}
	return "Development"
}

const (
	Development Mode = false
	Production  Mode = true
)

// Convention is the contract by which generated code reaches the framework
// API when it runs.
type Convention int

const (
	// NamespaceConvention passes the runtime API object as the single
	// parameter named Vue.
	NamespaceConvention Convention = iota
	// GlobalConvention expects Vue to be an ambient global and passes
	// nothing. Standalone global builds use it to avoid materialising a
	// wildcard namespace object.
	GlobalConvention
)

func (c Convention) String() string {
	switch c {
	case GlobalConvention:
		return "global"
	default:
		return "namespace"
	}
}

// BuildFlags are the compile-time constants a build variant is produced
// with.
type BuildFlags struct {
	Mode       Mode
	Convention Convention
	Browser    bool // Target platform is a browser
	ESMBundler bool // Output is consumed by another bundler
}

// FlagsFromBuildOptions derives BuildFlags from esbuild build options.
//
//   - Mode: __DEV__ if defined, else import.meta.env.DEV / PROD, else production.
//   - Convention: __GLOBAL__ if defined, else global for the IIFE format.
//   - Browser: __BROWSER__ if defined, else the browser platform.
//   - ESMBundler: __ESM_BUNDLER__ if defined.
func FlagsFromBuildOptions(buildOptions *api.BuildOptions) BuildFlags {
	flags := BuildFlags{Mode: Production}
	if buildOptions == nil {
		return flags
	}
	define := buildOptions.Define

	if dev, ok := parseDefineBool(define, "__DEV__"); ok {
		flags.Mode = Mode(!dev)
	} else if v, ok := parseImportMetaEnv(define, "DEV"); ok {
		if dev, ok := v.(bool); ok {
			flags.Mode = Mode(!dev)
		}
	} else if v, ok := parseImportMetaEnv(define, "PROD"); ok {
		if prod, ok := v.(bool); ok {
			flags.Mode = Mode(prod)
		}
	}

	if global, ok := parseDefineBool(define, "__GLOBAL__"); ok {
		if global {
			flags.Convention = GlobalConvention
		}
	} else if buildOptions.Format == api.FormatIIFE {
		flags.Convention = GlobalConvention
	}

	if browser, ok := parseDefineBool(define, "__BROWSER__"); ok {
		flags.Browser = browser
	} else {
		flags.Browser = buildOptions.Platform == api.PlatformBrowser
	}

	if bundler, ok := parseDefineBool(define, "__ESM_BUNDLER__"); ok {
		flags.ESMBundler = bundler
	}

	return flags
}

// parseDefineBool reads a JSON boolean define.
func parseDefineBool(defineMap map[string]string, key string) (bool, bool) {
	v, ok := defineMap[key]
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal([]byte(v), &b); err != nil {
		return false, false
	}
	return b, true
}

// parseImportMetaEnv reads import.meta.env.<key>, defined either directly or
// as a field of an import.meta.env object define.
func parseImportMetaEnv(defineMap map[string]string, key string) (any, bool) {
	if raw, ok := defineMap["import.meta.env."+key]; ok {
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, false
		}
		return value, true
	}

	raw, ok := defineMap["import.meta.env"]
	if !ok {
		return nil, false
	}
	var env map[string]any
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, false
	}
	value, ok := env[key]
	return value, ok
}
