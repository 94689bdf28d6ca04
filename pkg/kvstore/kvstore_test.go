package kvstore

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
)

// storeUnderTest builds each backend that can run without external services.
func storeUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	file, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   file,
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := map[string][]byte{
				KeyGroups:      []byte(`[{"id":"1"}]`),
				KeyShowPreview: []byte(`true`),
			}
			if err := store.Set(ctx, want); err != nil {
				t.Fatalf("Set() error: %v", err)
			}

			got, err := store.Get(ctx, KeyGroups, KeyShowPreview)
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			for k, v := range want {
				if !bytes.Equal(got[k], v) {
					t.Errorf("Get()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestGetOmitsMissingKeys(t *testing.T) {
	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Set(ctx, map[string][]byte{"present": []byte("x")}); err != nil {
				t.Fatal(err)
			}

			got, err := store.Get(ctx, "present", "absent")
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if _, ok := got["absent"]; ok {
				t.Error("missing key should be omitted, not present")
			}
			if len(got) != 1 {
				t.Errorf("result has %d entries, want 1", len(got))
			}
		})
	}
}

func TestSetOverwrites(t *testing.T) {
	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_ = store.Set(ctx, map[string][]byte{KeyGroups: []byte("old")})
			_ = store.Set(ctx, map[string][]byte{KeyGroups: []byte("new")})

			got, _ := store.Get(ctx, KeyGroups)
			if string(got[KeyGroups]) != "new" {
				t.Errorf("Get() = %q after overwrite, want %q", got[KeyGroups], "new")
			}
		})
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_ = store.Set(ctx, map[string][]byte{"k": []byte("v")})

			if err := store.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if err := store.Delete(ctx, "k", "never-existed"); err != nil {
				t.Errorf("second Delete() error: %v", err)
			}

			got, _ := store.Get(ctx, "k")
			if len(got) != 0 {
				t.Errorf("Get() after delete = %v, want empty", got)
			}
		})
	}
}

func TestKeysWithSpecialCharacters(t *testing.T) {
	for name, store := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := "weird/../key with spaces:*?"
			if err := store.Set(ctx, map[string][]byte{key: []byte("ok")}); err != nil {
				t.Fatalf("Set() error: %v", err)
			}

			got, err := store.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if string(got[key]) != "ok" {
				t.Errorf("Get()[%q] = %q, want %q", key, got[key], "ok")
			}
		})
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	in := []byte("original")
	_ = store.Set(ctx, map[string][]byte{"k": in})
	in[0] = 'X'

	got, _ := store.Get(ctx, "k")
	if string(got["k"]) != "original" {
		t.Errorf("stored value = %q, caller mutation leaked in", got["k"])
	}

	got["k"][0] = 'Y'
	again, _ := store.Get(ctx, "k")
	if string(again["k"]) != "original" {
		t.Errorf("stored value = %q, reader mutation leaked in", again["k"])
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Close()

	if _, err := store.Get(ctx, "k"); err != ErrClosed {
		t.Errorf("Get() after close = %v, want ErrClosed", err)
	}
	if err := store.Set(ctx, map[string][]byte{"k": nil}); err != ErrClosed {
		t.Errorf("Set() after close = %v, want ErrClosed", err)
	}
	if err := store.Delete(ctx, "k"); err != ErrClosed {
		t.Errorf("Delete() after close = %v, want ErrClosed", err)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n%4)
			for j := 0; j < 50; j++ {
				_ = store.Set(ctx, map[string][]byte{key: []byte("v")})
				_, _ = store.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Set(ctx, map[string][]byte{KeyGroups: []byte(`[]`)}); err != nil {
		t.Fatal(err)
	}
	_ = first.Close()

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := second.Get(ctx, KeyGroups)
	if err != nil {
		t.Fatalf("Get() after reopen error: %v", err)
	}
	if string(got[KeyGroups]) != "[]" {
		t.Errorf("Get() after reopen = %q, want persisted value", got[KeyGroups])
	}
}

func TestNullStoreDiscardsEverything(t *testing.T) {
	ctx := context.Background()
	store := NewNullStore()

	if err := store.Set(ctx, map[string][]byte{"k": []byte("v")}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Get() = %v, want nothing back from a null store", got)
	}
}
