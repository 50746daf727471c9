// Package adapter backs the analysis engine's filesystem port with viant/afs,
// so the same code serves the local disk in production and mem:// in tests.
package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"solvet.dev/pkg/solvet/internal/model"
)

const solidityExt = ".sol"

// SourceFS implements analysis.SourceFS over an afs service.
type SourceFS struct {
	svc afs.Service
}

// NewSourceFS returns an adapter over the default afs service, which routes
// plain paths to the local filesystem and scheme-prefixed URLs (mem://,
// file://) to their schemes.
func NewSourceFS() *SourceFS {
	return &SourceFS{svc: afs.New()}
}

// Walk collects every Solidity file under root, skipping excluded paths.
// A root that names a single file is returned as-is (exclusions still
// apply). Results are ordered by path so discovery is deterministic.
func (a *SourceFS) Walk(ctx context.Context, root string, exclude []string) ([]model.SourceFile, error) {
	obj, err := a.svc.Object(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("scope %s: %w", root, err)
	}

	if !obj.IsDir() {
		if excluded(root, exclude) || !strings.HasSuffix(root, solidityExt) {
			return nil, nil
		}

		src, err := a.Read(ctx, root)
		if err != nil {
			return nil, err
		}

		return []model.SourceFile{src}, nil
	}

	var files []model.SourceFile

	visit := func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return !excluded(filepath.Join(parent, info.Name()), exclude), nil
		}

		if !strings.HasSuffix(info.Name(), solidityExt) {
			return true, nil
		}

		rel := filepath.Join(parent, info.Name())
		if excluded(rel, exclude) {
			return true, nil
		}

		content, err := io.ReadAll(reader)
		if err != nil {
			return false, fmt.Errorf("reading %s: %w", rel, err)
		}

		files = append(files, newSourceFile(joinPath(root, rel), content))

		return true, nil
	}

	if err := a.svc.Walk(ctx, root, visit); err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sortFiles(files)

	return files, nil
}

// Read loads one file by path.
func (a *SourceFS) Read(ctx context.Context, path string) (model.SourceFile, error) {
	content, err := a.svc.DownloadWithURL(ctx, path)
	if err != nil {
		return model.SourceFile{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return newSourceFile(path, content), nil
}

// Exists reports whether path names an existing object.
func (a *SourceFS) Exists(ctx context.Context, path string) bool {
	ok, err := a.svc.Exists(ctx, path)

	return err == nil && ok
}

func newSourceFile(path string, content []byte) model.SourceFile {
	sum := sha256.Sum256(content)

	if !strings.Contains(path, "://") {
		path = filepath.Clean(path)
	}

	return model.SourceFile{
		Path:    model.Path(path),
		Content: string(content),
		Hash:    hex.EncodeToString(sum[:]),
	}
}

// joinPath composes root and a walk-relative path, keeping URL schemes
// intact where filepath.Join would collapse the double slash.
func joinPath(root, rel string) string {
	if strings.Contains(root, "://") {
		return url.Join(root, filepath.ToSlash(rel))
	}

	return filepath.Join(root, rel)
}

// excluded matches a slash-normalized relative path against the exclude
// patterns: a pattern is a glob tried against the whole path and its base
// name, with a plain substring fallback so "test/" style entries work.
func excluded(rel string, patterns []string) bool {
	slashed := filepath.ToSlash(rel)

	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, slashed); ok {
			return true
		}

		if ok, _ := filepath.Match(pattern, filepath.Base(slashed)); ok {
			return true
		}

		if strings.Contains(slashed, strings.TrimSuffix(pattern, "/")) && pattern != "" {
			return true
		}
	}

	return false
}

func sortFiles(files []model.SourceFile) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
}
