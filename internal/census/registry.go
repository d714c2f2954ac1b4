package census

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]*Census)
	registryMu sync.RWMutex
)

// Register adds a census to the registry.
// Panics if a census with the same key is already registered.
func Register(c *Census) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[c.Key()]; exists {
		panic(fmt.Sprintf("census already registered: %s", c.Key()))
	}
	registry[c.Key()] = c
}

// Get returns a census by key.
func Get(key string) (*Census, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	c, ok := registry[key]
	return c, ok
}

// All returns every registered census, sorted by place then date.
func All() []*Census {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]*Census, 0, len(registry))
	for _, c := range registry {
		result = append(result, c)
	}
	sortCensuses(result)
	return result
}

// ByPlace returns the censuses taken in the country of place, sorted by
// date. place may be a full place name such as "London, England".
func ByPlace(place string) []*Census {
	country := PlaceCountry(place)

	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []*Census
	for _, c := range registry {
		if c.Place() == country {
			result = append(result, c)
		}
	}
	sortCensuses(result)
	return result
}

// Places returns the distinct census countries, sorted alphabetically.
func Places() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, c := range registry {
		seen[c.Place()] = true
	}

	places := make([]string, 0, len(seen))
	for p := range seen {
		places = append(places, p)
	}
	sort.Strings(places)
	return places
}

// Count returns the number of registered censuses.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered censuses.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]*Census)
}

func sortCensuses(cs []*Census) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Place() != cs[j].Place() {
			return cs[i].Place() < cs[j].Place()
		}
		return cs[i].Date().Before(cs[j].Date())
	})
}
