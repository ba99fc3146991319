// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package vuecompile

import (
	"strings"

	"golang.org/x/net/html"
)

// Source is a template input. It is one of Markup, Selector, Element or
// Invalid.
type Source interface {
	isSource()
}

// Markup is template markup. Markup starting with '#' is treated as a
// selector.
type Markup string

// Selector identifies an element of the document whose inner markup is the
// template.
type Selector string

// Element is a handle to a parsed element whose inner markup is the template.
type Element struct {
	Node *html.Node
}

// Invalid wraps a value that is not a usable template.
type Invalid struct {
	Value any
}

func (Markup) isSource()   {}
func (Selector) isSource() {}
func (Element) isSource()  {}
func (Invalid) isSource()  {}

// SourceOf classifies a dynamically typed template value.
func SourceOf(v any) Source {
	switch t := v.(type) {
	case Source:
		return t
	case string:
		return Markup(t)
	case *html.Node:
		if t != nil {
			return Element{Node: t}
		}
	}
	return Invalid{Value: v}
}

// resolve turns src into the template string used as cache key. It returns
// false when src is unusable and compilation must be skipped.
func (c *Compiler) resolve(src Source) (string, bool) {
	var template string
	switch s := src.(type) {
	case Markup:
		template = string(s)
	case Selector:
		return c.querySelector(string(s)), true
	case Element:
		if s.Node == nil {
			c.devWarn("invalid template option", "template", s)
			return "", false
		}
		template = innerHTML(s.Node)
	case Invalid:
		c.devWarn("invalid template option", "template", s.Value)
		return "", false
	default:
		c.devWarn("invalid template option", "template", src)
		return "", false
	}

	if strings.HasPrefix(template, "#") {
		template = c.querySelector(template)
	}
	return template, true
}

// querySelector returns the inner markup of the first element matching
// selector, or "" when nothing matches.
//
// In-DOM templates may contain JS expressions, so the document must be
// trusted. Server-rendered templates must not include user data.
func (c *Compiler) querySelector(selector string) string {
	if c.opts.document != nil {
		el, err := c.opts.document.QuerySelector(selector)
		if err == nil && el != nil {
			return innerHTML(el)
		}
		if err != nil {
			c.devWarn("Template element not found or is empty: "+selector, "error", err)
			return ""
		}
	}
	c.devWarn("Template element not found or is empty: " + selector)
	return ""
}

func (c *Compiler) devWarn(msg string, args ...any) {
	if c.opts.flags.Mode == Development {
		c.opts.runtime.Warn(msg, args...)
	}
}
