// Package testutils provides in-memory fakes for the external collaborators.
package testutils

import (
	"context"
	"fmt"

	"github.com/intelliwealth/advisor/pkg/blobstore"
	"github.com/intelliwealth/advisor/pkg/websearch"
)

// MemStore is an in-memory blobstore.Store. Objects are listed in insertion
// order, which stands in for the real store's stable listing order.
type MemStore struct {
	order   []string
	objects map[string][]byte

	// ListErr, when set, makes List fail (store unreachable).
	ListErr error
	// ReadErrs marks locators whose Read fails (corrupt object).
	ReadErrs map[string]error
}

func NewMemStore() *MemStore {
	return &MemStore{
		objects:  make(map[string][]byte),
		ReadErrs: make(map[string]error),
	}
}

// Put stores an object under "blob://<name>".
func (s *MemStore) Put(name string, data []byte) string {
	locator := "blob://" + name
	if _, exists := s.objects[locator]; !exists {
		s.order = append(s.order, locator)
	}
	s.objects[locator] = data
	return locator
}

func (s *MemStore) List(ctx context.Context, prefix string) ([]blobstore.ObjectInfo, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var objects []blobstore.ObjectInfo
	for _, locator := range s.order {
		objects = append(objects, blobstore.ObjectInfo{
			Locator: locator,
			Format:  blobstore.FormatFromLocator(locator),
		})
	}
	return objects, nil
}

func (s *MemStore) Read(ctx context.Context, locator string) ([]byte, error) {
	if err, ok := s.ReadErrs[locator]; ok {
		return nil, err
	}
	data, ok := s.objects[locator]
	if !ok {
		return nil, fmt.Errorf("object %q not found", locator)
	}
	return data, nil
}

var _ blobstore.Store = (*MemStore)(nil)

// StubSearch is a canned websearch.Client.
type StubSearch struct {
	Results []websearch.WebResult
	Err     error
}

func (s *StubSearch) Search(ctx context.Context, query string) ([]websearch.WebResult, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Results, nil
}

var _ websearch.Client = (*StubSearch)(nil)
