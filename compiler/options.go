// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

// Package compiler defines the boundary to the Vue template compiler: the
// options it accepts, the diagnostics it reports, and a js-executor backed
// implementation that runs the compiler inside a JavaScript engine.
package compiler

import (
	"regexp"
	"sort"
)

// Options holds the template compiler options recognised by this module.
// A nil pointer or nil func means "not set"; Merge treats unset fields as
// candidates for defaults.
type Options struct {
	HoistStatic     *bool                 // Hoist static subtrees so they are created once per render function (default true)
	Whitespace      string                // "condense" or "preserve"; empty leaves the compiler default
	Delimiters      []string              // Text interpolation delimiters, e.g. ["${", "}"]
	Comments        *bool                 // Keep HTML comments in the output
	IsCustomElement func(tag string) bool // Reports tags that are native custom elements, not components
	OnError         func(err *Error)      // Error-level diagnostic sink
	OnWarn          func(err *Error)      // Warning-level diagnostic sink
	Extra           map[string]any        // Passed through to the compiler untouched
}

// Bool returns a pointer to b, for use with the optional boolean fields.
func Bool(b bool) *bool {
	return &b
}

// Merge overlays caller on top of defaults and returns a new Options.
// Every field set in caller wins; neither argument is modified.
func Merge(defaults Options, caller *Options) Options {
	merged := defaults
	merged.Delimiters = append([]string(nil), defaults.Delimiters...)
	merged.Extra = copyExtra(defaults.Extra)
	if caller == nil {
		return merged
	}

	if caller.HoistStatic != nil {
		merged.HoistStatic = Bool(*caller.HoistStatic)
	}
	if caller.Whitespace != "" {
		merged.Whitespace = caller.Whitespace
	}
	if len(caller.Delimiters) > 0 {
		merged.Delimiters = append([]string(nil), caller.Delimiters...)
	}
	if caller.Comments != nil {
		merged.Comments = Bool(*caller.Comments)
	}
	if caller.IsCustomElement != nil {
		merged.IsCustomElement = caller.IsCustomElement
	}
	if caller.OnError != nil {
		merged.OnError = caller.OnError
	}
	if caller.OnWarn != nil {
		merged.OnWarn = caller.OnWarn
	}
	for k, v := range caller.Extra {
		if merged.Extra == nil {
			merged.Extra = make(map[string]any, len(caller.Extra))
		}
		merged.Extra[k] = v
	}
	return merged
}

func copyExtra(extra map[string]any) map[string]any {
	if extra == nil {
		return nil
	}
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// tagNamePattern matches opening tag names, preserving case so component
// names like <MyButton> reach the predicate unchanged.
var tagNamePattern = regexp.MustCompile(`<([A-Za-z][^\s/>]*)`)

// customElementTags evaluates isCustomElement for every distinct tag name in
// source and returns the accepted ones in sorted order.
func customElementTags(source string, isCustomElement func(tag string) bool) []string {
	if isCustomElement == nil {
		return nil
	}

	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, m := range tagNamePattern.FindAllStringSubmatch(source, -1) {
		tag := m[1]
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = isCustomElement(tag)
		if seen[tag] {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// toCompilerOptions converts the serialisable part of opts into the object
// handed to the JavaScript compiler. Function-valued options are not
// serialisable; the caller resolves isCustomElement separately.
func toCompilerOptions(opts Options) map[string]any {
	out := make(map[string]any, len(opts.Extra)+4)
	for k, v := range opts.Extra {
		out[k] = v
	}
	if opts.HoistStatic != nil {
		out["hoistStatic"] = *opts.HoistStatic
	}
	if opts.Whitespace != "" {
		out["whitespace"] = opts.Whitespace
	}
	if len(opts.Delimiters) == 2 {
		out["delimiters"] = []any{opts.Delimiters[0], opts.Delimiters[1]}
	}
	if opts.Comments != nil {
		out["comments"] = *opts.Comments
	}
	return out
}
