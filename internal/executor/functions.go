package executor

import (
	"github.com/goccy/go-json"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/vk/stackformgo/internal/artifact"
	"github.com/vk/stackformgo/internal/ctyconv"
)

// stackFunctions returns the functions available to stack expressions.
func stackFunctions(baseDir string) map[string]function.Function {
	return map[string]function.Function{
		"filehash":   artifact.FileHashFunc(baseDir),
		"jsonencode": jsonEncodeFunc,
	}
}

// jsonEncodeFunc serializes an arbitrary value as compact JSON. Policy
// documents in the example stacks are written as HCL objects and passed
// to providers as JSON strings through this function.
var jsonEncodeFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "value", Type: cty.DynamicPseudoType, AllowNull: true},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		goVal, err := ctyconv.ToGo(args[0])
		if err != nil {
			return cty.NilVal, err
		}
		encoded, err := json.Marshal(goVal)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(string(encoded)), nil
	},
})
