package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/w-h-a/lectern/blob"
)

type memoryStore struct {
	objects map[string][]byte
	mtx     sync.RWMutex
}

func (s *memoryStore) Upload(ctx context.Context, name string, content []byte) (string, error) {
	if !blob.Accepted(name) {
		return "", blob.ErrUnsupportedExtension
	}

	cpy := make([]byte, len(content))
	copy(cpy, content)

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.objects[name] = cpy

	return name, nil
}

func (s *memoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	keys := make([]string, 0, len(s.objects))

	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys, nil
}

func NewStore() blob.Store {
	return &memoryStore{
		objects: map[string][]byte{},
		mtx:     sync.RWMutex{},
	}
}
