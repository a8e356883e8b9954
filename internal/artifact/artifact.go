// Package artifact computes content hashes of packaged build artifacts
// (function code bundles, dependency layers). The hash is an opaque value:
// the engine only ever compares it for equality to decide whether a
// compute resource's code changed.
package artifact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// HashFile returns the content hash of the file at path, in the form
// "xxh64:<16 hex digits>".
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening artifact %q: %w", path, err)
	}
	defer f.Close()

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return "", fmt.Errorf("hashing artifact %q: %w", path, err)
	}
	return fmt.Sprintf("xxh64:%016x", digest.Sum64()), nil
}

// FileHashFunc builds the HCL `filehash` function. Relative paths are
// resolved against baseDir, so a stack can name artifacts relative to its
// own directory regardless of the working directory the tool runs from.
func FileHashFunc(baseDir string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "path", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			path := args[0].AsString()
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			sum, err := HashFile(path)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(sum), nil
		},
	})
}
