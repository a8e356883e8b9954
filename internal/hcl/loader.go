package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/stackformgo/internal/config"
	"github.com/vk/stackformgo/internal/ctxlog"
	"github.com/vk/stackformgo/internal/fsutil"
	"github.com/vk/stackformgo/internal/schema"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL loader with a fresh parser.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads every .hcl file reachable from the given paths, decodes them
// into the file-level schema, and merges them into a single agnostic Stack
// model. Declaration order follows file order (lexical walk) and block
// order within each file.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Stack, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, &config.ParseError{Err: fmt.Errorf("discovering stack files under %q: %w", path, err)}
		}
		files = append(files, found...)
	}
	logger.Debug("Discovered stack files.", "count", len(files))

	stack := &config.Stack{}
	seenResources := make(map[string]struct{})
	seenOutputs := make(map[string]struct{})

	for _, file := range files {
		hclFile, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, &config.ParseError{Err: diags}
		}

		var fileConfig schema.StackConfig
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &fileConfig); diags.HasErrors() {
			return nil, &config.ParseError{Err: diags}
		}
		logger.Debug("Decoded stack file.",
			"file", file,
			"resources", len(fileConfig.Resources),
			"outputs", len(fileConfig.Outputs),
		)

		for _, r := range fileConfig.Resources {
			res, err := l.translateResource(r)
			if err != nil {
				return nil, err
			}
			res.DeclIndex = len(stack.Resources)
			if _, dup := seenResources[res.Address()]; dup {
				return nil, &config.DuplicateResourceError{Subject: res.Address()}
			}
			seenResources[res.Address()] = struct{}{}
			stack.Resources = append(stack.Resources, res)
		}

		for _, o := range fileConfig.Outputs {
			out := l.translateOutput(o)
			out.DeclIndex = len(stack.Outputs)
			if _, dup := seenOutputs[out.Name]; dup {
				return nil, &config.DuplicateResourceError{Subject: "output." + out.Name}
			}
			seenOutputs[out.Name] = struct{}{}
			stack.Outputs = append(stack.Outputs, out)
		}
	}

	logger.Debug("Stack model assembled.",
		"resources", len(stack.Resources),
		"outputs", len(stack.Outputs),
	)
	return stack, nil
}

// extractBodyAttributes flattens an arguments block body into a map of
// named, unevaluated expressions.
func (l *Loader) extractBodyAttributes(args *schema.ResourceArgs) (map[string]hcl.Expression, error) {
	out := make(map[string]hcl.Expression)
	if args == nil || args.Body == nil {
		return out, nil
	}
	attrs, diags := args.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, &config.ParseError{Err: diags}
	}
	for name, attr := range attrs {
		out[name] = attr.Expr
	}
	return out, nil
}
