package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Stack is the unified, format-agnostic representation of one declared
// stack: every resource the user wants to exist, plus the outputs computed
// after apply. Declaration order is preserved and used as the tie-break for
// nodes with no ordering constraint between them.
type Stack struct {
	Resources []*Resource
	Outputs   []*Output
}

// Resource is the format-agnostic representation of a `resource` block.
// Arguments are kept as unevaluated expressions; they may reference other
// resources' attributes and can only be evaluated once those are applied.
type Resource struct {
	Type      string
	Name      string
	Arguments map[string]hcl.Expression
	DependsOn []string

	// DeclIndex is the resource's position in the original declaration
	// order, across all loaded files.
	DeclIndex int
}

// Address returns the "type.name" identifier of the resource, unique
// within a stack.
func (r *Resource) Address() string {
	return fmt.Sprintf("%s.%s", r.Type, r.Name)
}

// Output is the format-agnostic representation of an `output` block.
type Output struct {
	Name        string
	Description string
	Value       hcl.Expression
	DeclIndex   int
}
