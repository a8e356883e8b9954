package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// ResourceArgs represents the content of the 'arguments' block within a
// resource. The body is kept raw so expressions can be evaluated later,
// once the values they reference are known.
type ResourceArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// Resource represents a `resource` block from a user's stack file. It is a
// single managed infrastructure object of a provider-known type.
type Resource struct {
	Type      string        `hcl:"resource_type,label"`
	Name      string        `hcl:"instance_name,label"`
	Arguments *ResourceArgs `hcl:"arguments,block"`
	DependsOn []string      `hcl:"depends_on,optional"`
}

// Output represents an `output` block. Its value expression is evaluated
// after apply, against the final attribute values of the stack's resources.
type Output struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Value       hcl.Expression `hcl:"value"`
}

// StackConfig represents the top-level structure of a user's stack file,
// containing all declared resources and outputs.
type StackConfig struct {
	Resources []*Resource `hcl:"resource,block"`
	Outputs   []*Output   `hcl:"output,block"`
	Body      hcl.Body    `hcl:",remain"`
}
