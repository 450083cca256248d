package parse

import (
	"fmt"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = make(map[Kind]func() Parser)
)

// Register registers a parser constructor for a document kind.
func Register(k Kind, f func() Parser) error {
	if f == nil {
		return fmt.Errorf("cannot register nil parser constructor")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[k]; exists {
		return fmt.Errorf("parser for kind %s already registered", k)
	}
	registry[k] = f
	return nil
}

// For returns a fresh parser for the given kind, or nil if none is
// registered.
func For(k Kind) Parser {
	mu.RLock()
	defer mu.RUnlock()
	f := registry[k]
	if f == nil {
		return nil
	}
	return f()
}
