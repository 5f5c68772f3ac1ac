// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend manages registered device backends.
//
// The registry enables third-party devices to register themselves without
// requiring changes to the core library. Backend packages register from
// init(), so importing a backend for side effects is enough to make it
// selectable:
//
//	import _ "github.com/gogpu/vrender/backend/software"
//
//	dev, err := backend.Open()          // best available
//	dev, err := backend.OpenByName("software")
package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/vrender/driver"
)

// Backend name constants.
const (
	// Software is the name of the CPU reference device.
	Software = "software"
	// Native is the name of the wgpu/hal GPU device.
	Native = "native"
)

// Factory creates a new device instance.
type Factory func() (driver.Device, error)

// Entry represents a registered device backend.
type Entry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: GPU devices
	//   - 10: software devices
	Priority int

	// Factory creates device instances.
	Factory Factory

	// Available reports if the backend is usable on this system.
	// A nil Available means always available.
	Available func() bool
}

var (
	registryMu sync.RWMutex
	entries    = make(map[string]*Entry)
)

// ErrNoBackend is returned by Open when no registered backend is available.
var ErrNoBackend = errors.New("backend: no device backend available")

// Register adds a backend to the registry. Registering a name that already
// exists replaces the previous entry. Typically called from init() in
// backend packages.
func Register(name string, priority int, factory Factory, available func() bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	entries[name] = &Entry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from the registry. Useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(entries, name)
}

// List returns all registered backend names sorted by priority
// (highest first), name-ordered within equal priorities.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedNames(entries)
}

// Available returns names of all usable backends sorted by priority.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	usable := make(map[string]*Entry, len(entries))
	for name, e := range entries {
		if e.Available == nil || e.Available() {
			usable[name] = e
		}
	}
	return sortedNames(usable)
}

// Get returns information about a specific backend.
func Get(name string) (*Entry, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := entries[name]
	return e, ok
}

// Open creates a device from the best available backend.
// Returns ErrNoBackend when nothing is registered and usable.
func Open() (driver.Device, error) {
	for _, name := range Available() {
		e, ok := Get(name)
		if !ok {
			continue
		}
		dev, err := e.Factory()
		if err == nil {
			return dev, nil
		}
	}
	return nil, ErrNoBackend
}

// OpenByName creates a device from a specific backend.
func OpenByName(name string) (driver.Device, error) {
	e, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("backend: %q is not registered", name)
	}
	if e.Available != nil && !e.Available() {
		return nil, fmt.Errorf("backend: %q is not available", name)
	}
	return e.Factory()
}

// sortedNames returns map keys sorted by descending priority, then name.
func sortedNames(m map[string]*Entry) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := m[names[i]].Priority, m[names[j]].Priority
		if pi != pj {
			return pi > pj
		}
		return names[i] < names[j]
	})
	return names
}
