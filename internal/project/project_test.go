package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetect(t *testing.T) {
	t.Run("finds a foundry root above a nested source dir", func(t *testing.T) {
		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "foundry.toml"), "")

		nested := filepath.Join(root, "src", "vaults")
		mustMkdirAll(t, nested)

		proj, err := Detect(nested)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}

		if proj.Root != root {
			t.Errorf("Root = %q, want %q", proj.Root, root)
		}

		if proj.Kind != KindFoundry {
			t.Errorf("Kind = %v, want foundry", proj.Kind)
		}
	})

	t.Run("starts from the parent when given a file", func(t *testing.T) {
		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "hardhat.config.ts"), "export default {};\n")

		src := filepath.Join(root, "contracts")
		mustMkdirAll(t, src)
		file := filepath.Join(src, "Token.sol")
		writeTestFile(t, file, "contract Token {}\n")

		proj, err := Detect(file)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}

		if proj.Root != root || proj.Kind != KindHardhat {
			t.Errorf("Detect() = %q %v, want %q hardhat", proj.Root, proj.Kind, root)
		}
	})

	t.Run("identifies truffle configs", func(t *testing.T) {
		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "truffle-config.js"), "module.exports = {};\n")

		proj, err := Detect(root)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}

		if proj.Kind != KindTruffle {
			t.Errorf("Kind = %v, want truffle", proj.Kind)
		}
	})

	t.Run("falls back to the starting directory without markers", func(t *testing.T) {
		dir := t.TempDir()

		proj, err := Detect(dir)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}

		if proj.Root != dir || proj.Kind != KindPlain {
			t.Errorf("Detect() = %q %v, want %q plain", proj.Root, proj.Kind, dir)
		}
	})

	t.Run("fails on a missing path", func(t *testing.T) {
		if _, err := Detect(filepath.Join(t.TempDir(), "absent")); err == nil {
			t.Fatal("Detect() succeeded on a missing path")
		}
	})
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindPlain, "plain"},
		{KindFoundry, "foundry"},
		{KindHardhat, "hardhat"},
		{KindTruffle, "truffle"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestLibraryRoots(t *testing.T) {
	t.Run("foundry searches lib then the root", func(t *testing.T) {
		p := &Project{Root: "/proj", Kind: KindFoundry}

		want := []string{filepath.Join("/proj", "lib"), "/proj"}
		assertPaths(t, p.LibraryRoots(), want)
	})

	t.Run("hardhat searches node_modules then the root", func(t *testing.T) {
		p := &Project{Root: "/proj", Kind: KindHardhat}

		want := []string{filepath.Join("/proj", "node_modules"), "/proj"}
		assertPaths(t, p.LibraryRoots(), want)
	})

	t.Run("plain projects search both", func(t *testing.T) {
		p := &Project{Root: "/proj", Kind: KindPlain}

		want := []string{
			filepath.Join("/proj", "lib"),
			filepath.Join("/proj", "node_modules"),
			"/proj",
		}
		assertPaths(t, p.LibraryRoots(), want)
	})
}

func assertPaths(t *testing.T, got, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}
