package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tilemarks/tilemarks/pkg/bookmarks"
	"github.com/tilemarks/tilemarks/pkg/drag"
	"github.com/tilemarks/tilemarks/pkg/groups"
	"github.com/tilemarks/tilemarks/pkg/kvstore"
)

// stubEnricher returns the input unchanged, without network access.
type stubEnricher struct{}

func (stubEnricher) Enrich(ctx context.Context, id, title, url string) groups.QuickLink {
	return groups.QuickLink{ID: id, Title: title, URL: url}
}

func newAssignFixture(t *testing.T) (assignModel, *groups.Store) {
	t.Helper()
	ctx := context.Background()

	store := groups.NewStore(kvstore.NewMemoryStore())
	if _, err := store.CreateGroup(ctx, "Work"); err != nil {
		t.Fatal(err)
	}

	links := []*bookmarks.Node{
		{ID: "l1", Title: "Docs", URL: "https://docs.example.com"},
		{ID: "l2", Title: "Mail", URL: "https://mail.example.com"},
	}
	ctl := drag.NewController(store, stubEnricher{}, nil)
	return newAssignModel(ctx, ctl, store, links), store
}

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next
}

func TestAssignPickThenDropAttaches(t *testing.T) {
	model, store := newAssignFixture(t)

	m := press(model, "enter") // pick first bookmark
	am := m.(assignModel)
	if am.phase != phasePickGroup {
		t.Fatalf("phase = %v after picking bookmark, want group picker", am.phase)
	}

	m = press(m, "enter") // drop on first group
	am = m.(assignModel)
	if am.attached != 1 {
		t.Fatalf("attached = %d, want 1", am.attached)
	}
	if am.phase != phasePickBookmark {
		t.Errorf("phase = %v after drop, want back to bookmark picker", am.phase)
	}

	all := store.Groups()
	if len(all[0].Links) != 1 || all[0].Links[0].ID != "l1" {
		t.Errorf("group links = %+v, want the dropped bookmark", all[0].Links)
	}
}

func TestAssignDuplicateDropDoesNotDoubleAttach(t *testing.T) {
	model, store := newAssignFixture(t)

	m := press(press(model, "enter"), "enter")
	m = press(press(m, "enter"), "enter") // same bookmark again

	am := m.(assignModel)
	if am.attached != 1 {
		t.Errorf("attached = %d after duplicate drop, want 1", am.attached)
	}
	all := store.Groups()
	if len(all[0].Links) != 1 {
		t.Errorf("group links = %d, want 1", len(all[0].Links))
	}
}

func TestAssignEscCancelsDrag(t *testing.T) {
	model, _ := newAssignFixture(t)

	m := press(model, "enter")
	m = press(m, "esc")

	am := m.(assignModel)
	if am.phase != phasePickBookmark {
		t.Errorf("phase = %v after esc, want bookmark picker", am.phase)
	}
	if am.ctl.State() != drag.Idle {
		t.Errorf("controller state = %v after esc, want Idle", am.ctl.State())
	}
}

func TestAssignCursorStaysInBounds(t *testing.T) {
	model, _ := newAssignFixture(t)

	m := tea.Model(model)
	for i := 0; i < 5; i++ {
		m = press(m, "down")
	}
	am := m.(assignModel)
	if am.cursor != len(am.links)-1 {
		t.Errorf("cursor = %d after overscroll, want last index %d", am.cursor, len(am.links)-1)
	}

	for i := 0; i < 5; i++ {
		m = press(m, "up")
	}
	am = m.(assignModel)
	if am.cursor != 0 {
		t.Errorf("cursor = %d after underscroll, want 0", am.cursor)
	}
}

func TestAssignViewShowsActiveList(t *testing.T) {
	model, _ := newAssignFixture(t)

	view := model.View()
	if !strings.Contains(view, "Select Bookmark") || !strings.Contains(view, "Docs") {
		t.Errorf("bookmark picker view missing entries:\n%s", view)
	}

	m := press(model, "enter")
	view = m.View()
	if !strings.Contains(view, "Drop Onto Group") || !strings.Contains(view, "Work") {
		t.Errorf("group picker view missing entries:\n%s", view)
	}
}
