package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func uploadAll(t *testing.T, root string, files map[string]string) {
	t.Helper()

	ctx := context.Background()
	svc := afs.New()

	for rel, content := range files {
		require.NoError(t, svc.Upload(ctx, root+"/"+rel, 0o644, strings.NewReader(content)))
	}
}

func TestWalk_MemScheme(t *testing.T) {
	root := "mem://localhost/proj"
	uploadAll(t, root, map[string]string{
		"src/Vault.sol":         "contract Vault {}\n",
		"src/auth/Owned.sol":    "contract Owned {}\n",
		"src/README.md":         "not solidity\n",
		"test/Vault.t.sol":      "contract VaultTest {}\n",
		"lib/forge-std/Std.sol": "contract Std {}\n",
	})

	fs := NewSourceFS()
	files, err := fs.Walk(context.Background(), root, []string{"test/", "lib/"})
	require.NoError(t, err)

	var got []string
	for _, f := range files {
		got = append(got, string(f.Path))
	}

	assert.Equal(t, []string{
		"mem://localhost/proj/src/Vault.sol",
		"mem://localhost/proj/src/auth/Owned.sol",
	}, got)

	for _, f := range files {
		assert.NotEmpty(t, f.Content)
		assert.Len(t, f.Hash, 64)
	}
}

func TestWalk_LocalDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "A.sol"), []byte("contract A {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "B.sol"), []byte("contract B {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	fs := NewSourceFS()
	files, err := fs.Walk(context.Background(), dir, nil)
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "src", "A.sol"), string(files[0].Path))
	assert.Equal(t, filepath.Join(dir, "src", "B.sol"), string(files[1].Path))
}

func TestWalk_SingleFileRoot(t *testing.T) {
	root := "mem://localhost/single/Token.sol"
	uploadAll(t, "mem://localhost/single", map[string]string{"Token.sol": "contract Token {}\n"})

	fs := NewSourceFS()

	files, err := fs.Walk(context.Background(), root, nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, root, string(files[0].Path))

	// The same file excluded by pattern yields nothing.
	files, err = fs.Walk(context.Background(), root, []string{"Token.sol"})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRead_HashesContent(t *testing.T) {
	root := "mem://localhost/read"
	content := "contract Hashed {}\n"
	uploadAll(t, root, map[string]string{"Hashed.sol": content})

	fs := NewSourceFS()
	src, err := fs.Read(context.Background(), root+"/Hashed.sol")
	require.NoError(t, err)

	sum := sha256.Sum256([]byte(content))
	assert.Equal(t, content, src.Content)
	assert.Equal(t, hex.EncodeToString(sum[:]), src.Hash)
}

func TestExists(t *testing.T) {
	root := "mem://localhost/exists"
	uploadAll(t, root, map[string]string{"Here.sol": "contract Here {}\n"})

	fs := NewSourceFS()
	assert.True(t, fs.Exists(context.Background(), root+"/Here.sol"))
	assert.False(t, fs.Exists(context.Background(), root+"/Gone.sol"))
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		name     string
		rel      string
		patterns []string
		want     bool
	}{
		{"no patterns", "src/A.sol", nil, false},
		{"glob on base name", "src/A.t.sol", []string{"*.t.sol"}, true},
		{"glob on full path", "test/A.sol", []string{"test/*"}, true},
		{"directory substring", "lib/oz/Token.sol", []string{"lib/"}, true},
		{"unrelated", "src/Token.sol", []string{"script/"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, excluded(tt.rel, tt.patterns))
		})
	}
}
