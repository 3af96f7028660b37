package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/hylla/lyst/internal/app"
	"github.com/hylla/lyst/internal/domain"
)

// Service represents service data used by this package.
type Service interface {
	CreateList(context.Context, string) (domain.List, error)
	RenameList(context.Context, int64, string) (domain.List, error)
	DeleteList(context.Context, int64) error
	ListLists(context.Context) ([]domain.List, error)
	CreateItem(context.Context, int64, string) (domain.Item, error)
	UpdateItemText(context.Context, int64, string) (domain.Item, error)
	ToggleItem(context.Context, int64) (domain.Item, error)
	DeleteItem(context.Context, int64) error
	ListItems(context.Context, int64) ([]domain.Item, error)
	MoveItem(context.Context, int64, app.MoveDirection) (domain.Item, error)
}

// focusArea identifies which panel owns navigation input.
type focusArea int

// focusLists and focusItems are the two navigable panels.
const (
	focusLists focusArea = iota
	focusItems
)

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeNewList
	modeRenameList
	modeAddItem
	modeEditItem
	modeConfirmDeleteList
	modeConfirmDeleteItem
)

// confirmTarget describes a pending delete confirmation.
type confirmTarget struct {
	ListID int64
	ItemID int64
	Label  string
}

// listCounts holds per-list checked/total item counts for panel rows.
type listCounts struct {
	done  int
	total int
}

// Model represents model data used by this package.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	err    error

	status string

	help help.Model
	keys keyMap

	lists  []domain.List
	items  []domain.Item
	counts map[int64]listCounts

	focus        focusArea
	selectedList int
	selectedItem int
	openListID   int64

	mode          inputMode
	input         string
	notice        string
	editingID     int64
	pendingDelete confirmTarget
	confirmChoice int

	pendingFocusListID int64
	pendingFocusItemID int64

	writeClipboard func(string) error
}

// loadedMsg carries message data through update handling.
type loadedMsg struct {
	lists  []domain.List
	items  []domain.Item
	counts map[int64]listCounts
	err    error
}

// actionMsg carries message data through update handling.
type actionMsg struct {
	err         error
	status      string
	reload      bool
	focusListID int64
	focusItemID int64
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:            svc,
		status:         "loading...",
		help:           h,
		keys:           newKeyMap(),
		selectedList:   -1,
		selectedItem:   -1,
		counts:         map[int64]listCounts{},
		writeClipboard: clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.lists = msg.lists
		m.items = msg.items
		m.counts = msg.counts
		if m.openListID != 0 {
			if _, ok := m.openList(); !ok {
				m.openListID = 0
				m.items = nil
				m.focus = focusLists
				m.selectedItem = -1
			}
		}
		if m.pendingFocusListID != 0 {
			m.focusListByID(m.pendingFocusListID)
			m.pendingFocusListID = 0
		}
		if m.pendingFocusItemID != 0 {
			m.focusItemByID(m.pendingFocusItemID)
			m.pendingFocusItemID = 0
		}
		m.clampSelections()
		if m.openListID != 0 {
			if idx := m.listIndexByID(m.openListID); idx >= 0 {
				m.selectedList = idx
			}
		}
		if m.status == "" || m.status == "loading..." {
			m.status = "ready"
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			if errors.Is(msg.err, app.ErrNotFound) {
				m.status = "not found, reloading"
				return m, m.loadData
			}
			m.status = "error: " + msg.err.Error()
			return m, nil
		}
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.focusListID != 0 {
			m.pendingFocusListID = msg.focusListID
		}
		if msg.focusItemID != 0 {
			m.pendingFocusItemID = msg.focusItemID
		}
		if msg.reload {
			return m, m.loadData
		}
		return m, nil

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	default:
		return m, nil
	}
}

// View handles view.
func (m Model) View() tea.View {
	if m.err != nil {
		v := tea.NewView("error: " + m.err.Error() + "\n\npress ctrl+r to retry • q quit\n")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}
	if !m.ready {
		v := tea.NewView("loading...")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	helpStyle := lipgloss.NewStyle().Foreground(muted)
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("lyst")
	if open, ok := m.openList(); ok {
		header += "  " + open.Title
	}
	header += statusStyle.Render("  [" + m.modeLabel() + "]")

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderListsPanel(accent, muted, dim),
		m.renderItemsPanel(accent, muted, dim),
	)

	overlay := m.renderModeOverlay(accent, muted, dim, m.width-8)
	if m.help.ShowAll {
		overlay = m.renderHelpOverlay(accent, muted, dim, m.width-8)
	}

	sections := []string{header, "", body}
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := helpStyle.
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	contentHeight := lipgloss.Height(content)
	if m.height > 0 {
		helpHeight := lipgloss.Height(helpLine)
		contentHeight = max(0, m.height-helpHeight)
		content = fitLines(content, contentHeight)
	}

	fullContent := content + "\n" + helpLine
	if overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}

	v := tea.NewView(fullContent)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// loadData loads required data for the current operation.
func (m Model) loadData() tea.Msg {
	lists, err := m.svc.ListLists(context.Background())
	if err != nil {
		return loadedMsg{err: err}
	}
	counts := make(map[int64]listCounts, len(lists))
	var openItems []domain.Item
	for _, list := range lists {
		items, itemsErr := m.svc.ListItems(context.Background(), list.ID)
		if itemsErr != nil {
			return loadedMsg{err: itemsErr}
		}
		c := listCounts{total: len(items)}
		for _, item := range items {
			if item.Checked {
				c.done++
			}
		}
		counts[list.ID] = c
		if list.ID == m.openListID {
			openItems = items
		}
	}
	return loadedMsg{lists: lists, items: openItems, counts: counts}
}

// startPrompt enters a prompting mode with optional prefill text.
func (m *Model) startPrompt(mode inputMode, prefill string) {
	m.mode = mode
	m.input = prefill
	m.notice = ""
}

// handleNormalModeKey handles normal mode key.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		if m.help.ShowAll {
			m.status = "help"
		} else {
			m.status = "ready"
		}
		return m, nil
	case msg.String() == "esc":
		if m.help.ShowAll {
			m.help.ShowAll = false
			m.status = "ready"
		}
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadData
	case key.Matches(msg, m.keys.switchPanel):
		if m.openListID == 0 {
			m.status = "open a list first"
			return m, nil
		}
		if m.focus == focusLists {
			m.focus = focusItems
		} else {
			m.focus = focusLists
		}
		return m, nil
	case key.Matches(msg, m.keys.navDown):
		if m.focus == focusItems {
			if len(m.items) > 0 && m.selectedItem < len(m.items)-1 {
				m.selectedItem++
			}
			return m, nil
		}
		if len(m.lists) > 0 && m.selectedList < len(m.lists)-1 {
			m.selectedList++
		}
		return m, nil
	case key.Matches(msg, m.keys.navUp):
		if m.focus == focusItems {
			if m.selectedItem > 0 {
				m.selectedItem--
			}
			return m, nil
		}
		if m.selectedList > 0 {
			m.selectedList--
		}
		return m, nil
	case key.Matches(msg, m.keys.selectEntry):
		if m.focus == focusItems {
			return m.toggleSelectedItem()
		}
		return m.openSelectedList()
	case key.Matches(msg, m.keys.toggleItem):
		if m.focus != focusItems {
			return m, nil
		}
		return m.toggleSelectedItem()
	case key.Matches(msg, m.keys.newList):
		m.help.ShowAll = false
		m.startPrompt(modeNewList, "")
		m.status = "new list"
		return m, nil
	case key.Matches(msg, m.keys.renameList):
		list, ok := m.selectedListRow()
		if !ok {
			m.status = "no list selected"
			return m, nil
		}
		m.help.ShowAll = false
		m.editingID = list.ID
		m.startPrompt(modeRenameList, list.Title)
		m.status = "rename list"
		return m, nil
	case key.Matches(msg, m.keys.addItem):
		if m.openListID == 0 {
			m.status = "open a list first"
			return m, nil
		}
		m.help.ShowAll = false
		m.startPrompt(modeAddItem, "")
		m.status = "add item"
		return m, nil
	case key.Matches(msg, m.keys.editItem):
		if m.focus != focusItems {
			return m, nil
		}
		item, ok := m.selectedItemRow()
		if !ok {
			m.status = "no item selected"
			return m, nil
		}
		m.help.ShowAll = false
		m.editingID = item.ID
		m.startPrompt(modeEditItem, item.Text)
		m.status = "edit item"
		return m, nil
	case key.Matches(msg, m.keys.deleteEntry):
		if m.focus == focusItems {
			return m.confirmDeleteItem()
		}
		return m.confirmDeleteList()
	case key.Matches(msg, m.keys.moveItemUp):
		return m.moveSelectedItem(app.MoveUp)
	case key.Matches(msg, m.keys.moveItemDown):
		return m.moveSelectedItem(app.MoveDown)
	case key.Matches(msg, m.keys.copyEntry):
		return m.copySelection()
	default:
		return m, nil
	}
}

// handleInputModeKey handles input mode key.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return m, tea.Quit
	}

	if m.mode == modeConfirmDeleteList || m.mode == modeConfirmDeleteItem {
		switch msg.String() {
		case "esc", "n":
			m.mode = modeNone
			m.pendingDelete = confirmTarget{}
			m.status = "cancelled"
			return m, nil
		case "h", "left", "l", "right":
			if m.confirmChoice == 0 {
				m.confirmChoice = 1
			} else {
				m.confirmChoice = 0
			}
			return m, nil
		case "y":
			m.confirmChoice = 0
			m.mode = modeNone
			target := m.pendingDelete
			m.pendingDelete = confirmTarget{}
			m.status = "deleting..."
			return m.applyConfirmedDelete(target)
		case "enter":
			if m.confirmChoice == 1 {
				m.mode = modeNone
				m.pendingDelete = confirmTarget{}
				m.status = "cancelled"
				return m, nil
			}
			m.mode = modeNone
			target := m.pendingDelete
			m.pendingDelete = confirmTarget{}
			m.status = "deleting..."
			return m.applyConfirmedDelete(target)
		default:
			return m, nil
		}
	}

	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.input = ""
		m.notice = ""
		m.editingID = 0
		m.status = "cancelled"
		return m, nil
	case "backspace":
		if m.input != "" {
			_, size := utf8.DecodeLastRuneInString(m.input)
			m.input = m.input[:len(m.input)-size]
		}
		m.notice = ""
		return m, nil
	case "enter":
		return m.submitInputMode()
	default:
		if msg.Text != "" {
			m.input += msg.Text
			m.notice = ""
		}
		return m, nil
	}
}

// submitInputMode submits input mode.
func (m Model) submitInputMode() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input)
	if text == "" {
		// An empty submit keeps the prompt open with a notice instead of
		// dismissing it, so the user can correct the input in place.
		m.input = ""
		switch m.mode {
		case modeNewList, modeRenameList:
			m.notice = "title required"
		default:
			m.notice = "text required"
		}
		return m, nil
	}

	mode := m.mode
	editingID := m.editingID
	openListID := m.openListID
	m.mode = modeNone
	m.input = ""
	m.notice = ""
	m.editingID = 0

	switch mode {
	case modeNewList:
		return m, func() tea.Msg {
			list, err := m.svc.CreateList(context.Background(), text)
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "list created", reload: true, focusListID: list.ID}
		}
	case modeRenameList:
		return m, func() tea.Msg {
			list, err := m.svc.RenameList(context.Background(), editingID, text)
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "list renamed", reload: true, focusListID: list.ID}
		}
	case modeAddItem:
		return m, func() tea.Msg {
			item, err := m.svc.CreateItem(context.Background(), openListID, text)
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "item added", reload: true, focusItemID: item.ID}
		}
	case modeEditItem:
		return m, func() tea.Msg {
			item, err := m.svc.UpdateItemText(context.Background(), editingID, text)
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "item updated", reload: true, focusItemID: item.ID}
		}
	default:
		m.status = "ready"
		return m, nil
	}
}

// openSelectedList opens the selected list and moves focus to its items.
func (m Model) openSelectedList() (tea.Model, tea.Cmd) {
	list, ok := m.selectedListRow()
	if !ok {
		m.status = "no list selected"
		return m, nil
	}
	if m.openListID != list.ID {
		m.openListID = list.ID
		m.items = nil
		m.selectedItem = 0
	}
	m.focus = focusItems
	m.status = fmt.Sprintf("opened %q", truncate(list.Title, 32))
	return m, m.loadData
}

// toggleSelectedItem flips the checked state of the selected item.
func (m Model) toggleSelectedItem() (tea.Model, tea.Cmd) {
	item, ok := m.selectedItemRow()
	if !ok {
		m.status = "no item selected"
		return m, nil
	}
	itemID := item.ID
	return m, func() tea.Msg {
		updated, err := m.svc.ToggleItem(context.Background(), itemID)
		if err != nil {
			return actionMsg{err: err}
		}
		status := fmt.Sprintf("checked %q", truncate(updated.Text, 32))
		if !updated.Checked {
			status = fmt.Sprintf("unchecked %q", truncate(updated.Text, 32))
		}
		return actionMsg{status: status, reload: true, focusItemID: updated.ID}
	}
}

// moveSelectedItem moves the selected item one step up or down.
func (m Model) moveSelectedItem(direction app.MoveDirection) (tea.Model, tea.Cmd) {
	if m.focus != focusItems {
		return m, nil
	}
	item, ok := m.selectedItemRow()
	if !ok {
		m.status = "no item selected"
		return m, nil
	}
	itemID := item.ID
	return m, func() tea.Msg {
		moved, err := m.svc.MoveItem(context.Background(), itemID, direction)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "item moved", reload: true, focusItemID: moved.ID}
	}
}

// confirmDeleteList opens the delete confirmation for the selected list.
func (m Model) confirmDeleteList() (tea.Model, tea.Cmd) {
	list, ok := m.selectedListRow()
	if !ok {
		m.status = "no list selected"
		return m, nil
	}
	m.help.ShowAll = false
	m.mode = modeConfirmDeleteList
	m.pendingDelete = confirmTarget{ListID: list.ID, Label: list.Title}
	m.confirmChoice = 1
	m.status = "confirm delete"
	return m, nil
}

// confirmDeleteItem opens the delete confirmation for the selected item.
func (m Model) confirmDeleteItem() (tea.Model, tea.Cmd) {
	item, ok := m.selectedItemRow()
	if !ok {
		m.status = "no item selected"
		return m, nil
	}
	m.help.ShowAll = false
	m.mode = modeConfirmDeleteItem
	m.pendingDelete = confirmTarget{ItemID: item.ID, Label: item.Text}
	m.confirmChoice = 1
	m.status = "confirm delete"
	return m, nil
}

// applyConfirmedDelete executes a previously confirmed delete.
func (m Model) applyConfirmedDelete(target confirmTarget) (tea.Model, tea.Cmd) {
	if target.ItemID != 0 {
		itemID := target.ItemID
		return m, func() tea.Msg {
			if err := m.svc.DeleteItem(context.Background(), itemID); err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "item deleted", reload: true}
		}
	}
	if target.ListID != 0 {
		listID := target.ListID
		return m, func() tea.Msg {
			if err := m.svc.DeleteList(context.Background(), listID); err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "list deleted", reload: true}
		}
	}
	m.status = "nothing to delete"
	return m, nil
}

// copySelection copies the selected item text or the selected list as markdown.
func (m Model) copySelection() (tea.Model, tea.Cmd) {
	if m.focus == focusItems {
		item, ok := m.selectedItemRow()
		if !ok {
			m.status = "no item selected"
			return m, nil
		}
		if err := m.writeClipboard(item.Text); err != nil {
			m.status = "copy failed: " + err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("copied %q", truncate(item.Text, 32))
		return m, nil
	}
	list, ok := m.selectedListRow()
	if !ok {
		m.status = "no list selected"
		return m, nil
	}
	listID := list.ID
	write := m.writeClipboard
	return m, func() tea.Msg {
		items, err := m.svc.ListItems(context.Background(), listID)
		if err != nil {
			return actionMsg{err: err}
		}
		if err := write(ChecklistMarkdown(list, items)); err != nil {
			return actionMsg{status: "copy failed: " + err.Error()}
		}
		return actionMsg{status: fmt.Sprintf("copied %q as markdown", truncate(list.Title, 32))}
	}
}

// handleMouseWheel handles mouse wheel.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNone || m.help.ShowAll {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelDown:
		if m.focus == focusItems {
			if len(m.items) > 0 && m.selectedItem < len(m.items)-1 {
				m.selectedItem++
			}
		} else if len(m.lists) > 0 && m.selectedList < len(m.lists)-1 {
			m.selectedList++
		}
		return m, nil
	case tea.MouseWheelUp:
		if m.focus == focusItems {
			if m.selectedItem > 0 {
				m.selectedItem--
			}
		} else if m.selectedList > 0 {
			m.selectedList--
		}
		return m, nil
	default:
		return m, nil
	}
}

// handleMouseClick handles mouse click.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNone || m.help.ShowAll {
		return m, nil
	}
	inItemsPanel := msg.X >= m.listsPanelWidth()+panelOverhead
	if inItemsPanel {
		if m.openListID == 0 {
			return m, nil
		}
		m.focus = focusItems
		if idx := m.rowIndexAt(msg.Y, len(m.items), m.selectedItem); idx >= 0 {
			m.selectedItem = idx
		}
		return m, nil
	}
	m.focus = focusLists
	if idx := m.rowIndexAt(msg.Y, len(m.lists), m.selectedList); idx >= 0 {
		m.selectedList = idx
	}
	return m, nil
}

// rowIndexAt maps a click row onto a windowed panel row index.
func (m Model) rowIndexAt(y, total, selected int) int {
	// Rows start below the panel border, padding, and header line.
	row := y - m.panelsTop() - 3
	if row < 0 || total == 0 {
		return -1
	}
	start, end := windowBounds(total, selected, m.panelRows())
	idx := start + row
	if idx >= end {
		return -1
	}
	return idx
}

// clampSelections keeps both panel selections inside their collections.
func (m *Model) clampSelections() {
	if len(m.lists) == 0 {
		m.selectedList = -1
	} else {
		m.selectedList = clamp(m.selectedList, 0, len(m.lists)-1)
	}
	if len(m.items) == 0 {
		m.selectedItem = -1
	} else {
		m.selectedItem = clamp(m.selectedItem, 0, len(m.items)-1)
	}
}

// selectedListRow returns the selected list, if any.
func (m Model) selectedListRow() (domain.List, bool) {
	if m.selectedList < 0 || m.selectedList >= len(m.lists) {
		return domain.List{}, false
	}
	return m.lists[m.selectedList], true
}

// selectedItemRow returns the selected item, if any.
func (m Model) selectedItemRow() (domain.Item, bool) {
	if m.selectedItem < 0 || m.selectedItem >= len(m.items) {
		return domain.Item{}, false
	}
	return m.items[m.selectedItem], true
}

// openList returns the currently open list, if any.
func (m Model) openList() (domain.List, bool) {
	if m.openListID == 0 {
		return domain.List{}, false
	}
	if idx := m.listIndexByID(m.openListID); idx >= 0 {
		return m.lists[idx], true
	}
	return domain.List{}, false
}

// listIndexByID returns the slice index of a list id, or -1.
func (m Model) listIndexByID(id int64) int {
	for idx, list := range m.lists {
		if list.ID == id {
			return idx
		}
	}
	return -1
}

// focusListByID moves the lists selection onto the given id when loaded.
func (m *Model) focusListByID(id int64) {
	if idx := m.listIndexByID(id); idx >= 0 {
		m.selectedList = idx
	}
}

// focusItemByID moves the items selection onto the given id when loaded.
func (m *Model) focusItemByID(id int64) {
	for idx, item := range m.items {
		if item.ID == id {
			m.selectedItem = idx
			return
		}
	}
}

// renderListsPanel renders output for the current model state.
func (m Model) renderListsPanel(accent, muted, dim lipgloss.Color) string {
	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(1, 2).
		MarginRight(1).
		Width(m.listsPanelWidth())
	if m.focus == focusLists {
		panelStyle = panelStyle.BorderForeground(accent)
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	rows := []string{}
	if len(m.lists) == 0 {
		rows = append(rows, hintStyle.Render("(no lists yet)"))
		rows = append(rows, hintStyle.Render("press n to create one"))
	} else {
		start, end := windowBounds(len(m.lists), m.selectedList, m.panelRows())
		textWidth := max(1, m.listsPanelWidth()-12)
		for idx := start; idx < end; idx++ {
			list := m.lists[idx]
			cursor := "  "
			if idx == m.selectedList {
				cursor = "│ "
			}
			c := m.counts[list.ID]
			line := fmt.Sprintf("%s%s  %d/%d", cursor, truncate(list.Title, textWidth), c.done, c.total)
			if idx == m.selectedList && m.focus == focusLists {
				line = selectedStyle.Render(line)
			}
			rows = append(rows, line)
		}
	}

	lines := append([]string{headerStyle.Render(fmt.Sprintf("Lists (%d)", len(m.lists)))}, rows...)
	content := fitLines(strings.Join(lines, "\n"), max(1, m.panelHeight()-4))
	return panelStyle.Render(content)
}

// renderItemsPanel renders output for the current model state.
func (m Model) renderItemsPanel(accent, muted, dim lipgloss.Color) string {
	panelWidth := max(24, m.width-m.listsPanelWidth()-2*panelOverhead)
	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(1, 2).
		Width(panelWidth)
	if m.focus == focusItems {
		panelStyle = panelStyle.BorderForeground(accent)
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	checkedStyle := lipgloss.NewStyle().Foreground(muted)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	open, hasOpen := m.openList()
	headerText := "Items"
	if hasOpen {
		c := m.counts[open.ID]
		headerText = fmt.Sprintf("Items (%d/%d)", c.done, c.total)
	}

	rows := []string{}
	switch {
	case !hasOpen:
		rows = append(rows, hintStyle.Render("(no list open)"))
		rows = append(rows, hintStyle.Render("enter opens the selected list"))
	case len(m.items) == 0:
		rows = append(rows, hintStyle.Render("(empty)"))
		rows = append(rows, hintStyle.Render("press a to add an item"))
	default:
		start, end := windowBounds(len(m.items), m.selectedItem, m.panelRows())
		textWidth := max(1, panelWidth-12)
		for idx := start; idx < end; idx++ {
			item := m.items[idx]
			cursor := "  "
			if idx == m.selectedItem {
				cursor = "│ "
			}
			box := "[ ] "
			if item.Checked {
				box = "[x] "
			}
			line := cursor + box + truncate(item.Text, textWidth)
			switch {
			case item.Checked:
				line = checkedStyle.Render(line)
			case idx == m.selectedItem && m.focus == focusItems:
				line = selectedStyle.Render(line)
			}
			rows = append(rows, line)
		}
	}

	lines := append([]string{headerStyle.Render(headerText)}, rows...)
	content := fitLines(strings.Join(lines, "\n"), max(1, m.panelHeight()-4))
	return panelStyle.Render(content)
}

// renderModeOverlay renders output for the current model state.
func (m Model) renderModeOverlay(accent, muted, dim lipgloss.Color, maxWidth int) string {
	switch m.mode {
	case modeConfirmDeleteList, modeConfirmDeleteItem:
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
		if maxWidth > 0 {
			style = style.Width(clamp(maxWidth, 36, 72))
		}
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
		hintStyle := lipgloss.NewStyle().Foreground(muted)
		title := "Delete List"
		detail := "the list and all its items will be removed"
		if m.mode == modeConfirmDeleteItem {
			title = "Delete Item"
			detail = "the item will be removed"
		}
		target := strings.TrimSpace(m.pendingDelete.Label)
		if target == "" {
			target = "(untitled)"
		}
		confirmStyle := lipgloss.NewStyle().Foreground(muted)
		cancelStyle := lipgloss.NewStyle().Foreground(muted)
		if m.confirmChoice == 0 {
			confirmStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
		} else {
			cancelStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
		}
		lines := []string{
			titleStyle.Render(title),
			truncate(target, 64),
			hintStyle.Render(detail),
			confirmStyle.Render("[confirm]") + "  " + cancelStyle.Render("[cancel]"),
			hintStyle.Render("enter apply • esc cancel • h/l switch • y confirm • n cancel"),
		}
		return style.Render(strings.Join(lines, "\n"))

	case modeNewList, modeRenameList, modeAddItem, modeEditItem:
		boxStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 24, 72))
		}
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
		hintStyle := lipgloss.NewStyle().Foreground(muted)
		title := "Input"
		switch m.mode {
		case modeNewList:
			title = "New List"
		case modeRenameList:
			title = "Rename List"
		case modeAddItem:
			title = "New Item"
		case modeEditItem:
			title = "Edit Item"
		}
		lines := []string{
			titleStyle.Render(title),
			"> " + m.input,
		}
		if m.notice != "" {
			lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")).Render(m.notice))
		}
		lines = append(lines, hintStyle.Render("enter save • esc cancel"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	default:
		return ""
	}
}

// renderHelpOverlay renders the expanded key reference.
func (m Model) renderHelpOverlay(accent, muted, dim lipgloss.Color, maxWidth int) string {
	width := clamp(maxWidth, 48, 90)
	if width <= 0 {
		width = 64
	}
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("LYST Help")
	workflow := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Workflows"),
		"1. n new list  •  enter open it  •  tab switch panels",
		"2. a add item  •  enter/space toggle  •  e edit  •  [ ] reorder",
		"3. d deletes the focused panel's selection after confirmation",
		"4. c copies the item text, or the whole list as markdown",
	}
	lines := []string{
		title,
		"",
		hb.View(m.keys),
		"",
		lipgloss.NewStyle().Foreground(muted).Render(strings.Join(workflow, "\n")),
		lipgloss.NewStyle().Foreground(muted).Render("press ? or esc to close"),
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1)
	if maxWidth > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// modeLabel returns mode label.
func (m Model) modeLabel() string {
	switch m.mode {
	case modeNewList:
		return "new-list"
	case modeRenameList:
		return "rename"
	case modeAddItem:
		return "add-item"
	case modeEditItem:
		return "edit-item"
	case modeConfirmDeleteList, modeConfirmDeleteItem:
		return "confirm"
	default:
		return "normal"
	}
}

// modePrompt handles mode prompt.
func (m Model) modePrompt() string {
	switch m.mode {
	case modeNewList:
		return "new list title: " + m.input + " (enter save, esc cancel)"
	case modeRenameList:
		return "rename list: " + m.input + " (enter save, esc cancel)"
	case modeAddItem:
		return "new item text: " + m.input + " (enter save, esc cancel)"
	case modeEditItem:
		return "edit item: " + m.input + " (enter save, esc cancel)"
	case modeConfirmDeleteList:
		return "delete list: y confirm, n/esc cancel"
	case modeConfirmDeleteItem:
		return "delete item: y confirm, n/esc cancel"
	default:
		return ""
	}
}

// panelOverhead is the per-panel frame cost: borders, padding, margin.
const panelOverhead = 7

// listsPanelWidth returns the lists panel content width.
func (m Model) listsPanelWidth() int {
	w := m.width / 3
	if w < 20 {
		return 20
	}
	if w > 36 {
		return 36
	}
	return w
}

// panelHeight returns panel height.
func (m Model) panelHeight() int {
	headerLines := 2
	footerLines := 4
	h := m.height - headerLines - footerLines
	if h < 10 {
		return 10
	}
	return h
}

// panelRows returns the visible row count inside a panel body.
func (m Model) panelRows() int {
	return max(1, m.panelHeight()-5)
}

// panelsTop handles panels top.
func (m Model) panelsTop() int {
	// mouse coordinates from tea are 1-based
	// header + spacer
	return 3
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// max returns the larger of the provided values.
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// min returns the smaller of the provided values.
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// windowBounds returns an inclusive-exclusive row window that keeps selected visible.
func windowBounds(total, selected, windowSize int) (int, int) {
	if total <= 0 || windowSize <= 0 {
		return 0, 0
	}
	if total <= windowSize {
		return 0, total
	}
	selected = clamp(selected, 0, total-1)
	half := windowSize / 2
	start := selected - half
	if start < 0 {
		start = 0
	}
	end := start + windowSize
	if end > total {
		end = total
		start = max(0, end-windowSize)
	}
	return start, end
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
