package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/tilemarks/tilemarks/pkg/bookmarks"
)

func exportTree() *bookmarks.Node {
	return &bookmarks.Node{
		ID:    "root",
		Title: "Bookmarks Bar",
		Children: []*bookmarks.Node{
			{ID: "l1", Title: "Loose", URL: "https://loose.example.com"},
			{ID: "work", Title: "Work", Children: []*bookmarks.Node{
				{ID: "l2", Title: "Docs", URL: "https://docs.example.com"},
				{ID: "l3", Title: "Mail", URL: "https://mail.example.com"},
				{ID: "empty", Title: "Empty Subfolder"},
			}},
			{ID: "hollow", Title: "Only Folders", Children: []*bookmarks.Node{
				{ID: "nested", Title: "Nested", Children: []*bookmarks.Node{
					{ID: "l4", Title: "Deep", URL: "https://deep.example.com"},
				}},
			}},
		},
	}
}

func TestImportTreeGroupsByFolder(t *testing.T) {
	got := map[string]int{}
	err := importTree(context.Background(), exportTree(), func(folder string, links []*bookmarks.Node) error {
		got[folder] = len(links)
		return nil
	})
	if err != nil {
		t.Fatalf("importTree() error: %v", err)
	}

	want := map[string]int{
		"Bookmarks Bar": 1, // the loose root link
		"Work":          2,
		"Nested":        1,
	}
	for folder, count := range want {
		if got[folder] != count {
			t.Errorf("folder %q got %d links, want %d", folder, got[folder], count)
		}
	}
	if _, ok := got["Only Folders"]; ok {
		t.Error("folder without direct links should not become a group")
	}
	if _, ok := got["Empty Subfolder"]; ok {
		t.Error("empty folder should not become a group")
	}
}

func TestImportTreeNilRoot(t *testing.T) {
	called := false
	err := importTree(context.Background(), nil, func(string, []*bookmarks.Node) error {
		called = true
		return nil
	})
	if err != nil || called {
		t.Errorf("importTree(nil) = (%v, called=%v), want clean no-op", err, called)
	}
}

func TestImportTreePropagatesCallbackError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := importTree(context.Background(), exportTree(), func(string, []*bookmarks.Node) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("importTree() error = %v, want wrapped callback error", err)
	}
	if calls != 1 {
		t.Errorf("callback ran %d times after error, want 1", calls)
	}
}

func TestImportTreeStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := importTree(ctx, exportTree(), func(string, []*bookmarks.Node) error {
		calls++
		return nil
	})
	if err == nil {
		t.Error("importTree() with cancelled context should report the context error")
	}
	if calls > 1 {
		t.Errorf("callback ran %d times after cancellation, want at most 1", calls)
	}
}
