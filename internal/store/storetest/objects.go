package storetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/Debanjan110d/DevQnA/internal/blob"
)

// Objects is an in-memory stand-in for blob.Client. Set an entry in Fail to
// make the named method return that error.
type Objects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	Fail map[string]error
}

func NewObjects() *Objects {
	return &Objects{
		objects: map[string][]byte{},
		types:   map[string]string{},
		Fail:    map[string]error{},
	}
}

func (o *Objects) Put(_ context.Context, key string, data []byte, contentType string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.Fail["Put"]; err != nil {
		return err
	}
	o.objects[key] = append([]byte(nil), data...)
	o.types[key] = contentType
	return nil
}

func (o *Objects) Get(_ context.Context, key string) ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.Fail["Get"]; err != nil {
		return nil, err
	}
	data, ok := o.objects[key]
	if !ok {
		return nil, fmt.Errorf("get object %s: %w", key, blob.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (o *Objects) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.Fail["Delete"]; err != nil {
		return err
	}
	delete(o.objects, key)
	delete(o.types, key)
	return nil
}

// Has reports whether an object is stored under key.
func (o *Objects) Has(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.objects[key]
	return ok
}

// Len is the number of stored objects.
func (o *Objects) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.objects)
}
