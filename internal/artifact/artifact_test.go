package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeArtifact(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestHashFile_StableForSameContent(t *testing.T) {
	dir := t.TempDir()
	a := writeArtifact(t, dir, "a.zip", []byte("bundle-content"))
	b := writeArtifact(t, dir, "b.zip", []byte("bundle-content"))

	hashA, err := HashFile(a)
	require.NoError(t, err)
	hashB, err := HashFile(b)
	require.NoError(t, err)

	assert.Equal(t, hashA, hashB)
	assert.Regexp(t, `^xxh64:[0-9a-f]{16}$`, hashA)
}

func TestHashFile_ChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := writeArtifact(t, dir, "fn.zip", []byte("version-1"))

	before, err := HashFile(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("version-2"), 0o644))
	after, err := HashFile(path)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestHashFile_MissingFile(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "absent.zip"))
	require.Error(t, err)
}

func TestFileHashFunc_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := writeArtifact(t, dir, "fn.zip", []byte("bundle"))

	fn := FileHashFunc(dir)
	got, err := fn.Call([]cty.Value{cty.StringVal("fn.zip")})
	require.NoError(t, err)

	expected, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, expected, got.AsString())
}

func TestFileHashFunc_AbsolutePathIgnoresBaseDir(t *testing.T) {
	path := writeArtifact(t, t.TempDir(), "fn.zip", []byte("bundle"))

	fn := FileHashFunc(t.TempDir())
	got, err := fn.Call([]cty.Value{cty.StringVal(path)})
	require.NoError(t, err)

	expected, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, expected, got.AsString())
}

func TestFileHashFunc_MissingArtifact(t *testing.T) {
	fn := FileHashFunc(t.TempDir())
	_, err := fn.Call([]cty.Value{cty.StringVal("absent.zip")})
	require.Error(t, err)
}
