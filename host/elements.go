// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package host

import "sync"

// CustomElementRegistry records natively defined custom elements.
type CustomElementRegistry struct {
	defined sync.Map
}

// NewCustomElementRegistry returns a registry with tags already defined.
func NewCustomElementRegistry(tags ...string) *CustomElementRegistry {
	r := &CustomElementRegistry{}
	for _, tag := range tags {
		r.Define(tag)
	}
	return r
}

// Define records tag as a custom element.
func (r *CustomElementRegistry) Define(tag string) {
	r.defined.Store(tag, struct{}{})
}

// Get reports whether tag has been defined.
func (r *CustomElementRegistry) Get(tag string) bool {
	_, ok := r.defined.Load(tag)
	return ok
}
