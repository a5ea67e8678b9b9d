package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeObjectStorage is an in-memory ObjectStorage that records the order of
// mutating calls per key.
type fakeObjectStorage struct {
	mu        sync.Mutex
	objects   map[string]bool
	ops       []string
	copyErr   map[string]error
	deleteErr map[string]error
}

func newFakeObjectStorage(keys ...string) *fakeObjectStorage {
	objects := make(map[string]bool, len(keys))
	for _, k := range keys {
		objects[k] = true
	}
	return &fakeObjectStorage{
		objects:   objects,
		copyErr:   map[string]error{},
		deleteErr: map[string]error{},
	}
}

func (f *fakeObjectStorage) GenerateUploadURL(_ context.Context, key string, _ int64, _ string, _ time.Duration) (string, error) {
	return "https://s3.test/put/" + key, nil
}

func (f *fakeObjectStorage) GenerateDownloadURL(_ context.Context, _, key string, _ time.Duration) (string, error) {
	return "https://s3.test/get/" + key, nil
}

func (f *fakeObjectStorage) GenerateDeleteURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.test/delete/" + key, nil
}

func (f *fakeObjectStorage) CopyObject(_ context.Context, _, srcKey, dstKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.copyErr[srcKey]; err != nil {
		return err
	}
	if !f.objects[srcKey] {
		return fmt.Errorf("copy source %q missing", srcKey)
	}
	f.objects[dstKey] = true
	f.ops = append(f.ops, "copy "+srcKey)
	return nil
}

func (f *fakeObjectStorage) DeleteObject(_ context.Context, _, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[key]; err != nil {
		return err
	}
	delete(f.objects, key)
	f.ops = append(f.ops, "delete "+key)
	return nil
}

func (f *fakeObjectStorage) ObjectExists(_ context.Context, _, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[key], nil
}

func (f *fakeObjectStorage) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[key]
}

func TestPromoteCopiesThenDeletes(t *testing.T) {
	store := newFakeObjectStorage("temps/public/generic/a.pdf")
	p := NewPromoter(store)

	results := p.Promote(context.Background(), "bucket",
		"temps/public/generic/", "uploaded/public/generic/", []string{"a.pdf"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Err != nil {
		t.Fatalf("unexpected error: %v", results[0].Err)
	}
	if !store.has("uploaded/public/generic/a.pdf") {
		t.Fatalf("destination object missing after promote")
	}
	if store.has("temps/public/generic/a.pdf") {
		t.Fatalf("staged object still present after promote")
	}
	if len(store.ops) != 2 || store.ops[0] != "copy temps/public/generic/a.pdf" || store.ops[1] != "delete temps/public/generic/a.pdf" {
		t.Fatalf("unexpected op order: %v", store.ops)
	}
}

func TestPromoteIdempotent(t *testing.T) {
	// Source already gone, destination present: a retried finalize.
	store := newFakeObjectStorage("uploaded/public/generic/a.pdf")
	p := NewPromoter(store)

	results := p.Promote(context.Background(), "bucket",
		"temps/public/generic/", "uploaded/public/generic/", []string{"a.pdf"})

	if results[0].Err != nil {
		t.Fatalf("expected no-op success, got: %v", results[0].Err)
	}
	if len(store.ops) != 0 {
		t.Fatalf("expected no mutating calls, got: %v", store.ops)
	}
}

func TestPromoteMissingSource(t *testing.T) {
	store := newFakeObjectStorage()
	p := NewPromoter(store)

	results := p.Promote(context.Background(), "bucket",
		"temps/public/generic/", "uploaded/public/generic/", []string{"a.pdf"})

	if results[0].Err == nil {
		t.Fatalf("expected error for missing staged object")
	}
}

func TestPromoteCopyFailureKeepsSource(t *testing.T) {
	store := newFakeObjectStorage("temps/public/generic/a.pdf")
	store.copyErr["temps/public/generic/a.pdf"] = errors.New("copy refused")
	p := NewPromoter(store)

	results := p.Promote(context.Background(), "bucket",
		"temps/public/generic/", "uploaded/public/generic/", []string{"a.pdf"})

	if results[0].Err == nil {
		t.Fatalf("expected copy failure")
	}
	if !store.has("temps/public/generic/a.pdf") {
		t.Fatalf("staged object was deleted despite failed copy")
	}
	for _, op := range store.ops {
		if op == "delete temps/public/generic/a.pdf" {
			t.Fatalf("delete issued before copy was confirmed")
		}
	}
}

func TestPromotePartialResults(t *testing.T) {
	store := newFakeObjectStorage("temps/public/generic/a.pdf", "temps/public/generic/b.pdf")
	store.copyErr["temps/public/generic/b.pdf"] = errors.New("copy refused")
	p := NewPromoter(store)

	results := p.Promote(context.Background(), "bucket",
		"temps/public/generic/", "uploaded/public/generic/", []string{"a.pdf", "b.pdf"})

	if results[0].Err != nil {
		t.Fatalf("expected a.pdf to promote, got: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Fatalf("expected b.pdf to fail")
	}
	if !store.has("uploaded/public/generic/a.pdf") {
		t.Fatalf("promoted object missing")
	}
	if !store.has("temps/public/generic/b.pdf") {
		t.Fatalf("failed object should remain staged")
	}
}

func TestPromoteRerunIsNoOp(t *testing.T) {
	store := newFakeObjectStorage("temps/public/generic/a.pdf")
	p := NewPromoter(store)

	first := p.Promote(context.Background(), "bucket",
		"temps/public/generic/", "uploaded/public/generic/", []string{"a.pdf"})
	if first[0].Err != nil {
		t.Fatalf("first promote failed: %v", first[0].Err)
	}

	second := p.Promote(context.Background(), "bucket",
		"temps/public/generic/", "uploaded/public/generic/", []string{"a.pdf"})
	if second[0].Err != nil {
		t.Fatalf("re-promote should succeed as a no-op, got: %v", second[0].Err)
	}
}
