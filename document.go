// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package vuecompile

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Document is the live document selector templates are resolved against.
type Document interface {
	// QuerySelector returns the first element matching the CSS selector, or
	// nil when there is none.
	QuerySelector(selector string) (*html.Node, error)
}

// HTMLDocument is a Document over a parsed HTML tree.
type HTMLDocument struct {
	root *html.Node
}

// NewHTMLDocument wraps an already parsed tree.
func NewHTMLDocument(root *html.Node) *HTMLDocument {
	return &HTMLDocument{root: root}
}

// ParseDocument parses an HTML page in any encoding charset detection
// recognises.
func ParseDocument(r io.Reader) (*HTMLDocument, error) {
	utf8Reader, err := detectAndConvertToUTF8(r)
	if err != nil {
		return nil, fmt.Errorf("failed to convert document to UTF-8: %w", err)
	}
	root, err := htmlquery.Parse(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return NewHTMLDocument(root), nil
}

// Root returns the document node.
func (d *HTMLDocument) Root() *html.Node {
	return d.root
}

// QuerySelector implements Document.
func (d *HTMLDocument) QuerySelector(selector string) (*html.Node, error) {
	sel, err := compileSelector(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return sel.MatchFirst(d.root), nil
}

// selectors caches compiled CSS selectors for the process lifetime.
var selectors sync.Map

func compileSelector(selector string) (cascadia.Selector, error) {
	if s, ok := selectors.Load(selector); ok {
		return s.(cascadia.Selector), nil
	}

	s, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}

	selectors.Store(selector, s)
	return s, nil
}

// innerHTML serialises the children of n.
func innerHTML(n *html.Node) string {
	return htmlquery.OutputHTML(n, false)
}

func detectAndConvertToUTF8(r io.Reader) (io.Reader, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	encoding, _, _ := charset.DetermineEncoding(b, "")
	utf8Reader := transform.NewReader(bytes.NewReader(b), encoding.NewDecoder())
	return utf8Reader, nil
}
