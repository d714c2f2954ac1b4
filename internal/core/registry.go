package core

import (
	"fmt"
	"sort"
	"sync"
)

// Component is a kind of page fragment a module provides.
type Component string

const (
	ComponentBlock   Component = "block"
	ComponentSidebar Component = "sidebar"
)

// ModuleInfo describes a registered module.
type ModuleInfo struct {
	Name          string // Unique identifier: "top_given_names"
	Title         string
	Description   string
	Component     Component
	DefaultAccess Privilege
}

var (
	modules   = make(map[string]ModuleInfo)
	modulesMu sync.RWMutex
)

// RegisterModule adds a module to the registry.
// Panics if a module with the same name is already registered.
func RegisterModule(m ModuleInfo) {
	modulesMu.Lock()
	defer modulesMu.Unlock()

	if _, exists := modules[m.Name]; exists {
		panic(fmt.Sprintf("module already registered: %s", m.Name))
	}
	modules[m.Name] = m
}

// GetModule returns a module by name.
// Returns false if not found.
func GetModule(name string) (ModuleInfo, bool) {
	modulesMu.RLock()
	defer modulesMu.RUnlock()

	m, ok := modules[name]
	return m, ok
}

// Modules returns all registered modules.
// Sorted by component then by name for consistent ordering.
func Modules() []ModuleInfo {
	modulesMu.RLock()
	defer modulesMu.RUnlock()

	result := make([]ModuleInfo, 0, len(modules))
	for _, m := range modules {
		result = append(result, m)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Component != result[j].Component {
			return result[i].Component < result[j].Component
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// ModulesByComponent returns the modules providing a component, sorted by name.
func ModulesByComponent(c Component) []ModuleInfo {
	modulesMu.RLock()
	defer modulesMu.RUnlock()

	var result []ModuleInfo
	for _, m := range modules {
		if m.Component == c {
			result = append(result, m)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// ModuleCount returns the number of registered modules.
func ModuleCount() int {
	modulesMu.RLock()
	defer modulesMu.RUnlock()
	return len(modules)
}
