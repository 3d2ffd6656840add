// Package storagetest provides an in-memory storage.System for tests.
package storagetest

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/JaimeStill/callvault/pkg/lifecycle"
	"github.com/JaimeStill/callvault/pkg/storage"
)

// Memory is an in-memory blob store. Keys list in lexical order, matching
// the blob service's flat listing.
type Memory struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	getErrs map[string]error
	listErr error
	gets    []string
}

var _ storage.System = (*Memory)(nil)

// New creates an empty store.
func New() *Memory {
	return &Memory{
		blobs:   make(map[string][]byte),
		getErrs: make(map[string]error),
	}
}

// Start registers nothing; the memory store is always reachable.
func (m *Memory) Start(lc *lifecycle.Coordinator) error {
	return nil
}

// Put stores data under key.
func (m *Memory) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = bytes.Clone(data)
}

// PutString stores s under key.
func (m *Memory) PutString(key, s string) {
	m.Put(key, []byte(s))
}

// FailGet makes Get and Download for key return err.
func (m *Memory) FailGet(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErrs[key] = err
}

// FailList makes every List call return err.
func (m *Memory) FailList(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// Gets returns the keys passed to Get and Download, in call order.
func (m *Memory) Gets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.gets)
}

func (m *Memory) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	var keys []string
	for key := range m.blobs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets = append(m.gets, key)

	if err, ok := m.getErrs[key]; ok {
		return nil, err
	}
	data, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return bytes.Clone(data), nil
}

func (m *Memory) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	data, err := m.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
