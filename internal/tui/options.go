package tui

type Option func(*Model)

// WithOpenList opens the given list on first load and focuses its items.
func WithOpenList(listID int64) Option {
	return func(m *Model) {
		if listID > 0 {
			m.openListID = listID
			m.focus = focusItems
		}
	}
}

// WithClipboard overrides the clipboard writer used by copy commands.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.writeClipboard = write
		}
	}
}
