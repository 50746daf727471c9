// Package project identifies the build tool a Solidity tree was set up with
// and loads its import remappings. The analysis pipeline uses both to turn
// import paths into files on disk.
package project

import (
	"os"
	"path/filepath"
)

// Kind is the build tool that produced a project layout. It decides which
// directories are searched for non-relative imports.
type Kind int

const (
	// KindPlain is a tree without a recognized build tool config.
	KindPlain Kind = iota
	// KindFoundry is a forge project (foundry.toml, lib/).
	KindFoundry
	// KindHardhat is a hardhat project (hardhat.config.js|ts, node_modules/).
	KindHardhat
	// KindTruffle is a truffle project (truffle-config.js, node_modules/).
	KindTruffle
)

func (k Kind) String() string {
	switch k {
	case KindFoundry:
		return "foundry"
	case KindHardhat:
		return "hardhat"
	case KindTruffle:
		return "truffle"
	default:
		return "plain"
	}
}

// markers are checked in order, so a foundry.toml wins over a leftover
// truffle config in the same directory.
var markers = []struct {
	file string
	kind Kind
}{
	{"foundry.toml", KindFoundry},
	{"hardhat.config.js", KindHardhat},
	{"hardhat.config.ts", KindHardhat},
	{"truffle-config.js", KindTruffle},
}

// Project is a detected Solidity project rooted at Root.
type Project struct {
	Root string
	Kind Kind

	// Remappings is ordered by ascending source priority: auto-detected
	// defaults, then remappings.txt, then foundry.toml, then explicit
	// flags appended by AddRemappings.
	Remappings []Remapping
}

// Detect locates the project containing dir by walking up until a build
// tool marker is found. Without a marker the starting directory itself
// becomes a plain project root.
func Detect(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	start := abs
	if !info.IsDir() {
		start = filepath.Dir(abs)
	}

	root, kind := findRoot(start)
	if root == "" {
		root, kind = start, KindPlain
	}

	return &Project{
		Root:       root,
		Kind:       kind,
		Remappings: loadRemappings(root),
	}, nil
}

// findRoot searches up the directory tree for a build tool marker.
func findRoot(start string) (string, Kind) {
	dir := start

	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker.file)); err == nil {
				return dir, marker.kind
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", KindPlain
		}

		dir = parent
	}
}

// LibraryRoots returns the directories searched for non-relative imports
// that no remapping claimed, in priority order. The project root itself is
// always the final fallback.
func (p *Project) LibraryRoots() []string {
	switch p.Kind {
	case KindFoundry:
		return []string{filepath.Join(p.Root, "lib"), p.Root}
	case KindHardhat, KindTruffle:
		return []string{filepath.Join(p.Root, "node_modules"), p.Root}
	default:
		return []string{
			filepath.Join(p.Root, "lib"),
			filepath.Join(p.Root, "node_modules"),
			p.Root,
		}
	}
}
