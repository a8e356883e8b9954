package provider

import (
	"context"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// CreateOrUpdateFunc reconciles one resource of a single type.
type CreateOrUpdateFunc func(ctx context.Context, req *Request) (map[string]cty.Value, error)

// Registry maps resource type names to their reconcile handlers. A Client
// built on a registry rejects declarations whose type no handler claims.
type Registry struct {
	handlers map[string]CreateOrUpdateFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]CreateOrUpdateFunc)}
}

// Register binds a handler to a resource type. Registering the same type
// twice is a programmer error and panics.
func (r *Registry) Register(resourceType string, fn CreateOrUpdateFunc) {
	if _, exists := r.handlers[resourceType]; exists {
		panic(fmt.Sprintf("provider handler for %q registered twice", resourceType))
	}
	r.handlers[resourceType] = fn
}

// Handler looks up the reconcile handler for a resource type.
func (r *Registry) Handler(resourceType string) (CreateOrUpdateFunc, bool) {
	fn, ok := r.handlers[resourceType]
	return fn, ok
}

// Types returns the registered resource types in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
