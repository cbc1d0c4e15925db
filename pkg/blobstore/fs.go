package blobstore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const locatorScheme = "blob://"

// FSStore serves documents from a directory tree. Locators are
// "blob://<relative path>" so citations stay stable regardless of where
// the tree is mounted. Listing order is the lexical walk order, which is
// deterministic for a given tree.
type FSStore struct {
	root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

func (s *FSStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	base := filepath.Join(s.root, filepath.FromSlash(prefix))

	var objects []ObjectInfo
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		locator := locatorScheme + filepath.ToSlash(rel)
		objects = append(objects, ObjectInfo{
			Locator: locator,
			Format:  FormatFromLocator(locator),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents under %q: %w", prefix, err)
	}
	return objects, nil
}

func (s *FSStore) Read(ctx context.Context, locator string) ([]byte, error) {
	rel, ok := strings.CutPrefix(locator, locatorScheme)
	if !ok {
		return nil, fmt.Errorf("unrecognized locator %q", locator)
	}
	// Reject traversal outside the root.
	clean := filepath.Clean(filepath.FromSlash(rel))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("locator %q escapes store root", locator)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return os.ReadFile(filepath.Join(s.root, clean))
}

var _ Store = (*FSStore)(nil)
