package tui

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/hylla/lyst/internal/app"
	"github.com/hylla/lyst/internal/domain"
)

type fakeService struct {
	lists  []domain.List
	items  map[int64][]domain.Item
	nextID int64

	err       error
	toggleErr error
}

func newFakeService(lists []domain.List, items []domain.Item) *fakeService {
	byList := map[int64][]domain.Item{}
	var next int64 = 1
	for _, l := range lists {
		if l.ID >= next {
			next = l.ID + 1
		}
	}
	for _, it := range items {
		byList[it.ListID] = append(byList[it.ListID], it)
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	return &fakeService{lists: lists, items: byList, nextID: next}
}

func (f *fakeService) allocID() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeService) CreateList(_ context.Context, title string) (domain.List, error) {
	if f.err != nil {
		return domain.List{}, f.err
	}
	list, err := domain.NewList(title, time.Now())
	if err != nil {
		return domain.List{}, err
	}
	list.ID = f.allocID()
	f.lists = append(f.lists, list)
	return list, nil
}

func (f *fakeService) RenameList(_ context.Context, id int64, title string) (domain.List, error) {
	if f.err != nil {
		return domain.List{}, f.err
	}
	for idx := range f.lists {
		if f.lists[idx].ID != id {
			continue
		}
		if err := f.lists[idx].Rename(title, time.Now()); err != nil {
			return domain.List{}, err
		}
		return f.lists[idx], nil
	}
	return domain.List{}, app.ErrNotFound
}

func (f *fakeService) DeleteList(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	for idx := range f.lists {
		if f.lists[idx].ID == id {
			f.lists = append(f.lists[:idx], f.lists[idx+1:]...)
			delete(f.items, id)
			return nil
		}
	}
	return app.ErrNotFound
}

func (f *fakeService) ListLists(context.Context) ([]domain.List, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.List, len(f.lists))
	copy(out, f.lists)
	return out, nil
}

func (f *fakeService) CreateItem(_ context.Context, listID int64, text string) (domain.Item, error) {
	if f.err != nil {
		return domain.Item{}, f.err
	}
	order := 0
	for _, it := range f.items[listID] {
		if it.SortOrder >= order {
			order = it.SortOrder + 1
		}
	}
	item, err := domain.NewItem(listID, text, order, time.Now())
	if err != nil {
		return domain.Item{}, err
	}
	item.ID = f.allocID()
	f.items[listID] = append(f.items[listID], item)
	return item, nil
}

func (f *fakeService) UpdateItemText(_ context.Context, id int64, text string) (domain.Item, error) {
	if f.err != nil {
		return domain.Item{}, f.err
	}
	for listID := range f.items {
		for idx := range f.items[listID] {
			if f.items[listID][idx].ID != id {
				continue
			}
			if err := f.items[listID][idx].SetText(text, time.Now()); err != nil {
				return domain.Item{}, err
			}
			return f.items[listID][idx], nil
		}
	}
	return domain.Item{}, app.ErrNotFound
}

func (f *fakeService) ToggleItem(_ context.Context, id int64) (domain.Item, error) {
	if f.toggleErr != nil {
		return domain.Item{}, f.toggleErr
	}
	if f.err != nil {
		return domain.Item{}, f.err
	}
	for listID := range f.items {
		for idx := range f.items[listID] {
			if f.items[listID][idx].ID != id {
				continue
			}
			f.items[listID][idx].Toggle(time.Now())
			return f.items[listID][idx], nil
		}
	}
	return domain.Item{}, app.ErrNotFound
}

func (f *fakeService) DeleteItem(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	for listID := range f.items {
		for idx := range f.items[listID] {
			if f.items[listID][idx].ID == id {
				f.items[listID] = append(f.items[listID][:idx], f.items[listID][idx+1:]...)
				return nil
			}
		}
	}
	return app.ErrNotFound
}

func (f *fakeService) ListItems(_ context.Context, listID int64) ([]domain.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	items := f.items[listID]
	out := make([]domain.Item, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeService) MoveItem(_ context.Context, id int64, direction app.MoveDirection) (domain.Item, error) {
	if f.err != nil {
		return domain.Item{}, f.err
	}
	for listID := range f.items {
		items := f.items[listID]
		sort.Slice(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
		for idx := range items {
			if items[idx].ID != id {
				continue
			}
			swap := idx - 1
			if direction == app.MoveDown {
				swap = idx + 1
			}
			if swap < 0 || swap >= len(items) {
				return items[idx], nil
			}
			items[idx].SortOrder, items[swap].SortOrder = items[swap].SortOrder, items[idx].SortOrder
			return items[idx], nil
		}
	}
	return domain.Item{}, app.ErrNotFound
}

func TestModelLoadAndNavigation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	groceries, _ := domain.NewList("Groceries", now)
	groceries.ID = 1
	chores, _ := domain.NewList("Chores", now)
	chores.ID = 2
	milk, _ := domain.NewItem(1, "Milk", 0, now)
	milk.ID = 10
	eggs, _ := domain.NewItem(1, "Eggs", 1, now)
	eggs.ID = 11

	svc := newFakeService([]domain.List{groceries, chores}, []domain.Item{milk, eggs})
	m := loadReadyModel(t, NewModel(svc))

	if len(m.lists) != 2 || m.selectedList != 0 {
		t.Fatalf("expected 2 lists with first selected, got %d lists selected=%d", len(m.lists), m.selectedList)
	}
	if m.focus != focusLists {
		t.Fatalf("expected lists focus on startup, got %v", m.focus)
	}
	if c := m.counts[1]; c.total != 2 || c.done != 0 {
		t.Fatalf("unexpected counts for list 1: %+v", c)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != focusLists {
		t.Fatal("tab should not reach items before a list is open")
	}
	if m.status != "open a list first" {
		t.Fatalf("expected gating status, got %q", m.status)
	}

	m = applyMsg(t, m, keyRune('j'))
	if m.selectedList != 1 {
		t.Fatalf("expected selectedList=1 after j, got %d", m.selectedList)
	}
	m = applyMsg(t, m, keyRune('j'))
	if m.selectedList != 1 {
		t.Fatal("j should stop at the last list")
	}
	m = applyMsg(t, m, keyRune('k'))
	if m.selectedList != 0 {
		t.Fatalf("expected selectedList=0 after k, got %d", m.selectedList)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.openListID != 1 || m.focus != focusItems {
		t.Fatalf("expected list 1 open with items focus, got open=%d focus=%v", m.openListID, m.focus)
	}
	if len(m.items) != 2 || m.selectedItem != 0 {
		t.Fatalf("expected 2 items with first selected, got %d selected=%d", len(m.items), m.selectedItem)
	}

	m = applyMsg(t, m, keyRune('j'))
	if m.selectedItem != 1 {
		t.Fatalf("expected selectedItem=1, got %d", m.selectedItem)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != focusLists {
		t.Fatal("tab should return focus to lists")
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != focusItems || m.selectedItem != 1 {
		t.Fatal("tab should restore items focus with selection memory intact")
	}
}

func TestModelListLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	groceries, _ := domain.NewList("Groceries", now)
	groceries.ID = 1

	svc := newFakeService([]domain.List{groceries}, nil)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('n'))
	if m.mode != modeNewList {
		t.Fatalf("expected new list mode, got %v", m.mode)
	}
	for _, r := range "Chores" {
		m = applyMsg(t, m, keyRune(r))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(svc.lists) != 2 {
		t.Fatalf("expected 2 lists after create, got %d", len(svc.lists))
	}
	if m.status != "list created" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.selectedList != 1 {
		t.Fatalf("expected selection to follow the new list, got %d", m.selectedList)
	}

	m = applyMsg(t, m, keyRune('r'))
	if m.mode != modeRenameList || m.input != "Chores" {
		t.Fatalf("expected rename prefill, got mode=%v input=%q", m.mode, m.input)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if svc.lists[1].Title != "Chore" {
		t.Fatalf("expected renamed title, got %q", svc.lists[1].Title)
	}

	m = applyMsg(t, m, keyRune('d'))
	if m.mode != modeConfirmDeleteList || m.confirmChoice != 1 {
		t.Fatalf("expected delete confirmation defaulting to cancel, got mode=%v choice=%d", m.mode, m.confirmChoice)
	}
	m = applyMsg(t, m, keyRune('y'))
	if len(svc.lists) != 1 {
		t.Fatalf("expected list deleted, got %d lists", len(svc.lists))
	}
	if m.status != "list deleted" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelItemLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	groceries, _ := domain.NewList("Groceries", now)
	groceries.ID = 1

	svc := newFakeService([]domain.List{groceries}, nil)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.openListID != 1 || m.focus != focusItems {
		t.Fatalf("expected open list with items focus, got open=%d focus=%v", m.openListID, m.focus)
	}

	m = applyMsg(t, m, keyRune('a'))
	if m.mode != modeAddItem {
		t.Fatalf("expected add item mode, got %v", m.mode)
	}
	for _, r := range "Milk" {
		m = applyMsg(t, m, keyRune(r))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(svc.items[1]) != 1 {
		t.Fatalf("expected 1 item, got %d", len(svc.items[1]))
	}
	if m.status != "item added" || m.selectedItem != 0 {
		t.Fatalf("unexpected post-add state status=%q selected=%d", m.status, m.selectedItem)
	}

	m = applyMsg(t, m, keyRune('a'))
	for _, r := range "Eggs" {
		m = applyMsg(t, m, keyRune(r))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(svc.items[1]) != 2 || m.selectedItem != 1 {
		t.Fatalf("expected selection to follow the new item, got %d items selected=%d", len(svc.items[1]), m.selectedItem)
	}

	m = applyMsg(t, m, keyRune(' '))
	if !m.items[1].Checked {
		t.Fatal("expected selected item checked after space")
	}
	if !strings.Contains(m.status, "checked") {
		t.Fatalf("unexpected status %q", m.status)
	}

	m = applyMsg(t, m, keyRune('e'))
	if m.mode != modeEditItem || m.input != "Eggs" {
		t.Fatalf("expected edit prefill, got mode=%v input=%q", m.mode, m.input)
	}
	for range "Eggs" {
		m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	}
	for _, r := range "Bread" {
		m = applyMsg(t, m, keyRune(r))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.items[1].Text != "Bread" {
		t.Fatalf("expected edited text, got %q", m.items[1].Text)
	}

	m = applyMsg(t, m, keyRune('['))
	if m.status != "item moved" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.items[0].Text != "Bread" || m.selectedItem != 0 {
		t.Fatalf("expected moved item selected at top, got %q selected=%d", m.items[0].Text, m.selectedItem)
	}

	m = applyMsg(t, m, keyRune(']'))
	if m.items[1].Text != "Bread" || m.selectedItem != 1 {
		t.Fatalf("expected item moved back down, got %q selected=%d", m.items[1].Text, m.selectedItem)
	}
	m = applyMsg(t, m, keyRune(']'))
	if m.items[1].Text != "Bread" {
		t.Fatal("move at the bottom boundary should be a no-op")
	}

	m = applyMsg(t, m, keyRune('d'))
	if m.mode != modeConfirmDeleteItem {
		t.Fatalf("expected item delete confirmation, got %v", m.mode)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeNone || m.status != "cancelled" {
		t.Fatalf("enter on the default choice should cancel, got mode=%v status=%q", m.mode, m.status)
	}
	if len(svc.items[1]) != 2 {
		t.Fatalf("cancelled delete must not mutate, got %d items", len(svc.items[1]))
	}

	m = applyMsg(t, m, keyRune('d'))
	m = applyMsg(t, m, keyRune('h'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(svc.items[1]) != 1 {
		t.Fatalf("expected item deleted, got %d items", len(svc.items[1]))
	}
	if m.status != "item deleted" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelDeleteOpenListClearsItems(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	groceries, _ := domain.NewList("Groceries", now)
	groceries.ID = 1
	milk, _ := domain.NewItem(1, "Milk", 0, now)
	milk.ID = 10

	svc := newFakeService([]domain.List{groceries}, []domain.Item{milk})
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.openListID != 1 || len(m.items) != 1 {
		t.Fatalf("expected open list with items, got open=%d items=%d", m.openListID, len(m.items))
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = applyMsg(t, m, keyRune('d'))
	m = applyMsg(t, m, keyRune('y'))
	if len(svc.lists) != 0 {
		t.Fatalf("expected list deleted, got %d", len(svc.lists))
	}
	if m.openListID != 0 || m.focus != focusLists {
		t.Fatalf("expected open state cleared, got open=%d focus=%v", m.openListID, m.focus)
	}
	if len(m.items) != 0 || m.selectedItem != -1 {
		t.Fatalf("expected items cleared, got %d selected=%d", len(m.items), m.selectedItem)
	}
	if m.selectedList != -1 {
		t.Fatalf("expected no list selection left, got %d", m.selectedList)
	}
}

func TestModelEmptySubmitKeepsPromptOpen(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	groceries, _ := domain.NewList("Groceries", now)
	groceries.ID = 1

	svc := newFakeService([]domain.List{groceries}, nil)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('n'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeNewList {
		t.Fatalf("empty submit should keep the prompt open, got mode %v", m.mode)
	}
	if m.notice != "title required" {
		t.Fatalf("expected validation notice, got %q", m.notice)
	}
	if len(svc.lists) != 1 {
		t.Fatal("empty submit must not create anything")
	}

	m = applyMsg(t, m, keyRune('X'))
	if m.notice != "" {
		t.Fatal("typing should clear the notice")
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone || m.status != "cancelled" {
		t.Fatalf("expected cancel, got mode=%v status=%q", m.mode, m.status)
	}
	if len(svc.lists) != 1 {
		t.Fatal("cancelled prompt must not create anything")
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = applyMsg(t, m, keyRune('a'))
	m = applyMsg(t, m, keyRune(' '))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeAddItem || m.notice != "text required" {
		t.Fatalf("whitespace-only submit should stay prompting, got mode=%v notice=%q", m.mode, m.notice)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if len(svc.items[1]) != 0 {
		t.Fatal("cancelled item prompt must not create anything")
	}
}

func TestModelCancelNeverMutates(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	groceries, _ := domain.NewList("Groceries", now)
	groceries.ID = 1
	milk, _ := domain.NewItem(1, "Milk", 0, now)
	milk.ID = 10

	svc := newFakeService([]domain.List{groceries}, []domain.Item{milk})
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('r'))
	for _, r := range "junk" {
		m = applyMsg(t, m, keyRune(r))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if svc.lists[0].Title != "Groceries" {
		t.Fatalf("cancelled rename mutated the list: %q", svc.lists[0].Title)
	}

	m = applyMsg(t, m, keyRune('d'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if len(svc.lists) != 1 {
		t.Fatal("escaped confirmation mutated the store")
	}

	m = applyMsg(t, m, keyRune('d'))
	m = applyMsg(t, m, keyRune('n'))
	if len(svc.lists) != 1 {
		t.Fatal("denied confirmation mutated the store")
	}
	if m.mode != modeNone {
		t.Fatalf("expected confirmation closed, got %v", m.mode)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = applyMsg(t, m, keyRune('e'))
	for _, r := range "xx" {
		m = applyMsg(t, m, keyRune(r))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if svc.items[1][0].Text != "Milk" {
		t.Fatalf("cancelled edit mutated the item: %q", svc.items[1][0].Text)
	}
}

func TestModelCopy(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	groceries, _ := domain.NewList("Groceries", now)
	groceries.ID = 1
	milk, _ := domain.NewItem(1, "Milk", 0, now)
	milk.ID = 10
	milk.Checked = true
	eggs, _ := domain.NewItem(1, "Eggs", 1, now)
	eggs.ID = 11

	var copied []string
	svc := newFakeService([]domain.List{groceries}, []domain.Item{milk, eggs})
	m := loadReadyModel(t, NewModel(svc, WithClipboard(func(s string) error {
		copied = append(copied, s)
		return nil
	})))

	m = applyMsg(t, m, keyRune('c'))
	if len(copied) != 1 {
		t.Fatalf("expected one copy, got %d", len(copied))
	}
	md := copied[0]
	if !strings.HasPrefix(md, "# Groceries") {
		t.Fatalf("expected markdown heading, got %q", md)
	}
	if !strings.Contains(md, "- [x] Milk") || !strings.Contains(md, "- [ ] Eggs") {
		t.Fatalf("expected task list rows, got %q", md)
	}
	if !strings.Contains(m.status, "markdown") {
		t.Fatalf("unexpected status %q", m.status)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = applyMsg(t, m, keyRune('c'))
	if copied[len(copied)-1] != "Milk" {
		t.Fatalf("expected item text copied, got %q", copied[len(copied)-1])
	}

	m.writeClipboard = func(string) error { return errors.New("no display") }
	m = applyMsg(t, m, keyRune('c'))
	if !strings.Contains(m.status, "copy failed") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelActionErrors(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	groceries, _ := domain.NewList("Groceries", now)
	groceries.ID = 1
	milk, _ := domain.NewItem(1, "Milk", 0, now)
	milk.ID = 10

	svc := newFakeService([]domain.List{groceries}, []domain.Item{milk})
	m := loadReadyModel(t, NewModel(svc))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	svc.toggleErr = app.ErrNotFound
	m = applyMsg(t, m, keyRune(' '))
	if m.status != "not found, reloading" {
		t.Fatalf("expected stale-row status, got %q", m.status)
	}
	if m.err != nil {
		t.Fatal("stale rows should not enter the error state")
	}
	if len(m.items) != 1 {
		t.Fatal("expected reload to refresh items")
	}

	svc.toggleErr = errors.New("disk wedged")
	m = applyMsg(t, m, keyRune(' '))
	if m.status != "error: disk wedged" {
		t.Fatalf("expected error status, got %q", m.status)
	}
	if m.err != nil {
		t.Fatal("mutation failures should stay on the status line")
	}
}

func TestModelLoadErrorAndRetry(t *testing.T) {
	svc := newFakeService(nil, nil)
	svc.err = errors.New("boom")

	m := applyMsg(t, NewModel(svc), tea.WindowSizeMsg{Width: 120, Height: 40})
	m = applyCmd(t, m, m.Init())
	if m.err == nil {
		t.Fatal("expected load failure to set the error state")
	}
	v := m.View()
	if v.Content == nil {
		t.Fatal("expected error view content")
	}

	svc.err = nil
	m = applyCmd(t, m, m.loadData)
	if m.err != nil {
		t.Fatalf("expected retry to clear the error, got %v", m.err)
	}
}

func TestModelMouseWheelAndClick(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	groceries, _ := domain.NewList("Groceries", now)
	groceries.ID = 1
	chores, _ := domain.NewList("Chores", now)
	chores.ID = 2
	milk, _ := domain.NewItem(1, "Milk", 0, now)
	milk.ID = 10
	eggs, _ := domain.NewItem(1, "Eggs", 1, now)
	eggs.ID = 11

	svc := newFakeService([]domain.List{groceries, chores}, []domain.Item{milk, eggs})
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	if m.selectedList != 1 {
		t.Fatalf("expected wheel to advance list selection, got %d", m.selectedList)
	}
	m = applyMsg(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelUp})
	if m.selectedList != 0 {
		t.Fatalf("expected wheel to retreat list selection, got %d", m.selectedList)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = applyMsg(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	if m.selectedItem != 1 {
		t.Fatalf("expected wheel to move item selection, got %d", m.selectedItem)
	}

	clickX := 2
	clickY := m.panelsTop() + 3 + 1 // second row of the lists panel
	m = applyMsg(t, m, tea.MouseClickMsg{X: clickX, Y: clickY, Button: tea.MouseLeft})
	if m.focus != focusLists || m.selectedList != 1 {
		t.Fatalf("expected click to focus lists row 1, got focus=%v selected=%d", m.focus, m.selectedList)
	}

	itemsX := m.listsPanelWidth() + panelOverhead + 2
	m = applyMsg(t, m, tea.MouseClickMsg{X: itemsX, Y: m.panelsTop() + 3, Button: tea.MouseLeft})
	if m.focus != focusItems || m.selectedItem != 0 {
		t.Fatalf("expected click to focus items row 0, got focus=%v selected=%d", m.focus, m.selectedItem)
	}
}

func TestModelQuitKey(t *testing.T) {
	svc := newFakeService(nil, nil)
	m := loadReadyModel(t, NewModel(svc))

	updated, cmd := m.Update(keyRune('q'))
	if _, ok := updated.(Model); !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit message")
	}
}

func TestModelViewStatesAndPrompts(t *testing.T) {
	m := NewModel(newFakeService(nil, nil))
	v := m.View()
	if v.Content == nil || v.MouseMode != tea.MouseModeCellMotion {
		t.Fatal("expected loading view with mouse enabled")
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	groceries, _ := domain.NewList("Groceries", now)
	groceries.ID = 1
	svc := newFakeService([]domain.List{groceries}, nil)
	m = loadReadyModel(t, NewModel(svc))

	v = m.View()
	if v.Content == nil {
		t.Fatal("expected ready view content")
	}

	m.mode = modeAddItem
	m.input = "abc"
	if !strings.Contains(m.modePrompt(), "new item text") {
		t.Fatal("expected add item prompt")
	}
	m.mode = modeConfirmDeleteList
	if !strings.Contains(m.modePrompt(), "delete list") {
		t.Fatal("expected delete list prompt")
	}

	v = m.View()
	if v.Content == nil {
		t.Fatal("expected overlay view content")
	}

	m.mode = modeNone
	m.err = context.DeadlineExceeded
	v = m.View()
	if v.Content == nil {
		t.Fatal("expected error view content")
	}
}

func TestModelOpenListOption(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	groceries, _ := domain.NewList("Groceries", now)
	groceries.ID = 1
	milk, _ := domain.NewItem(1, "Milk", 0, now)
	milk.ID = 10

	svc := newFakeService([]domain.List{groceries}, []domain.Item{milk})
	m := loadReadyModel(t, NewModel(svc, WithOpenList(1)))

	if m.openListID != 1 || m.focus != focusItems {
		t.Fatalf("expected preopened list with items focus, got open=%d focus=%v", m.openListID, m.focus)
	}
	if len(m.items) != 1 {
		t.Fatalf("expected preopened items loaded, got %d", len(m.items))
	}

	stale := loadReadyModel(t, NewModel(svc, WithOpenList(99)))
	if stale.openListID != 0 || stale.focus != focusLists {
		t.Fatalf("expected unknown list id cleared, got open=%d focus=%v", stale.openListID, stale.focus)
	}
}

func TestHelpersCoverage(t *testing.T) {
	if clamp(5, 0, 1) != 1 {
		t.Fatal("clamp upper bound failed")
	}
	if clamp(-1, 0, 1) != 0 {
		t.Fatal("clamp lower bound failed")
	}
	if clamp(0, 2, 1) != 2 {
		t.Fatal("clamp invalid range failed")
	}
	if truncate("abc", 0) != "" {
		t.Fatal("truncate max 0 failed")
	}
	if truncate("abc", 1) != "a" {
		t.Fatal("truncate max 1 failed")
	}
	if truncate("abcdef", 3) != "ab…" {
		t.Fatal("truncate ellipsis failed")
	}

	if start, end := windowBounds(3, 0, 5); start != 0 || end != 3 {
		t.Fatalf("windowBounds small total failed: %d %d", start, end)
	}
	if start, end := windowBounds(10, 9, 5); start != 5 || end != 10 {
		t.Fatalf("windowBounds tail window failed: %d %d", start, end)
	}
	if start, end := windowBounds(10, 0, 5); start != 0 || end != 5 {
		t.Fatalf("windowBounds head window failed: %d %d", start, end)
	}

	if fitLines("a\nb\nc", 2) != "a\n…" {
		t.Fatal("fitLines truncation failed")
	}
	if fitLines("a", 3) != "a\n\n" {
		t.Fatal("fitLines padding failed")
	}

	m := Model{}
	if m.modeLabel() != "normal" {
		t.Fatalf("mode label mismatch: %q", m.modeLabel())
	}
	m.mode = modeRenameList
	if m.modeLabel() != "rename" {
		t.Fatalf("mode label mismatch: %q", m.modeLabel())
	}
	m.mode = modeConfirmDeleteItem
	if m.modeLabel() != "confirm" {
		t.Fatalf("mode label mismatch: %q", m.modeLabel())
	}

	m.width = 30
	if m.listsPanelWidth() != 20 {
		t.Fatalf("expected minimum panel width, got %d", m.listsPanelWidth())
	}
	m.width = 300
	if m.listsPanelWidth() != 36 {
		t.Fatalf("expected maximum panel width, got %d", m.listsPanelWidth())
	}
	if m.panelRows() < 1 {
		t.Fatal("expected at least one panel row")
	}
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 120, Height: 40})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}
