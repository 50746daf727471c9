package project

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// RemapSource ranks where a remapping came from. A match from a higher
// source beats any match from a lower one regardless of prefix length;
// length only breaks ties within one source.
type RemapSource int

const (
	// SourceDefault is an auto-detected library checkout.
	SourceDefault RemapSource = iota
	// SourceRemappingsTxt is a remappings.txt line.
	SourceRemappingsTxt
	// SourceFoundryConfig is a foundry.toml remappings entry.
	SourceFoundryConfig
	// SourceExplicit is a --remap flag or API-supplied pair.
	SourceExplicit
)

// Remapping rewrites an import path prefix to a directory, forge-style.
// Targets are slash paths relative to the project root unless absolute.
type Remapping struct {
	Prefix string
	Target string
	Source RemapSource
}

// defaultRemappings cover the library checkouts forge users rely on without
// writing a remappings file. Each applies only when its target directory
// exists under the project root.
var defaultRemappings = []Remapping{
	{Prefix: "@openzeppelin/", Target: "lib/openzeppelin-contracts/"},
	{Prefix: "@solmate/", Target: "lib/solmate/src/"},
	{Prefix: "ds-test/", Target: "lib/ds-test/src/"},
	{Prefix: "forge-std/", Target: "lib/forge-std/src/"},
}

// ParseRemapping splits one prefix=target pair, the form used by both
// remappings.txt lines and --remap flags.
func ParseRemapping(s string) (Remapping, error) {
	prefix, target, ok := strings.Cut(s, "=")
	prefix = strings.TrimSpace(prefix)
	target = strings.TrimSpace(target)

	if !ok || prefix == "" || target == "" {
		return Remapping{}, fmt.Errorf("malformed remapping %q, want prefix=target", s)
	}

	return Remapping{Prefix: prefix, Target: target}, nil
}

// AddRemappings appends explicit pairs at the highest source priority.
func (p *Project) AddRemappings(pairs []string) error {
	for _, pair := range pairs {
		r, err := ParseRemapping(pair)
		if err != nil {
			return err
		}

		r.Source = SourceExplicit
		p.Remappings = append(p.Remappings, r)
	}

	return nil
}

// Remap rewrites path using the best matching remapping: strongest source
// first, then longest prefix within that source, then the first-listed
// entry on a full tie.
func (p *Project) Remap(path string) (string, bool) {
	bestSource := RemapSource(-1)
	bestLen := -1
	var target string

	for _, r := range p.Remappings {
		if !strings.HasPrefix(path, r.Prefix) {
			continue
		}

		if r.Source < bestSource || r.Source == bestSource && len(r.Prefix) <= bestLen {
			continue
		}

		bestSource = r.Source
		bestLen = len(r.Prefix)
		target = r.Target + path[len(r.Prefix):]
	}

	if bestLen < 0 {
		return "", false
	}

	return target, true
}

// loadRemappings gathers the per-project sources: auto-detected defaults,
// remappings.txt, foundry.toml. Slice order is not significant; each entry
// carries its source rank.
func loadRemappings(root string) []Remapping {
	var out []Remapping

	for _, def := range defaultRemappings {
		probe := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(def.Target, "/")))
		if _, err := os.Stat(probe); err == nil {
			out = append(out, def)
		}
	}

	out = append(out, readRemappingsFile(filepath.Join(root, "remappings.txt"))...)
	out = append(out, readFoundryRemappings(filepath.Join(root, "foundry.toml"))...)

	return out
}

// readRemappingsFile reads forge's remappings.txt, one pair per line.
// Malformed lines are skipped rather than failing the whole analysis.
func readRemappingsFile(path string) []Remapping {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var out []Remapping

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		r, err := ParseRemapping(line)
		if err != nil {
			continue
		}

		r.Source = SourceRemappingsTxt
		out = append(out, r)
	}

	if err := scanner.Err(); err != nil {
		slog.Warn("reading remappings.txt failed partway", "path", path, "error", err)
	}

	return out
}

// readFoundryRemappings pulls the remappings array out of foundry.toml's
// default profile.
func readFoundryRemappings(path string) []Remapping {
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil
	}

	var out []Remapping

	for _, line := range v.GetStringSlice("profile.default.remappings") {
		r, err := ParseRemapping(line)
		if err != nil {
			continue
		}

		r.Source = SourceFoundryConfig
		out = append(out, r)
	}

	return out
}
