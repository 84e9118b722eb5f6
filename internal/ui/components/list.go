package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/ResumeLens/internal/ui/theme"
)

// ListItem is one row of a List
type ListItem struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Action      string // trailing hint shown on the selected row
}

// List is a navigable, optionally filtered list.
type List struct {
	Title       string
	Items       []ListItem
	Selected    int
	Width       int
	Height      int
	ShowNumbers bool
	EmptyText   string

	searchQuery   string
	filteredItems []int
}

// NewList creates an empty list
func NewList(title string, width, height int) *List {
	return &List{
		Title:       title,
		Width:       width,
		Height:      height,
		ShowNumbers: true,
	}
}

// SetItems replaces the items and resets the selection
func (l *List) SetItems(items []ListItem) {
	l.Items = items
	l.Selected = 0
	l.updateFilter()
}

// SetSize updates the render box
func (l *List) SetSize(width, height int) {
	l.Width = width
	l.Height = height
}

// Len returns the number of visible items
func (l *List) Len() int {
	return len(l.filteredItems)
}

// SelectedIndex maps the selection back to an index into Items, or -1.
func (l *List) SelectedIndex() int {
	if l.Selected < 0 || l.Selected >= len(l.filteredItems) {
		return -1
	}
	return l.filteredItems[l.Selected]
}

// GetSelectedItem returns the selected item, or nil
func (l *List) GetSelectedItem() *ListItem {
	i := l.SelectedIndex()
	if i < 0 || i >= len(l.Items) {
		return nil
	}
	return &l.Items[i]
}

// MoveUp moves the selection up
func (l *List) MoveUp() {
	if l.Selected > 0 {
		l.Selected--
	}
}

// MoveDown moves the selection down
func (l *List) MoveDown() {
	if l.Selected < len(l.filteredItems)-1 {
		l.Selected++
	}
}

// SetSearch filters items by title, description or id
func (l *List) SetSearch(query string) {
	l.searchQuery = query
	l.Selected = 0
	l.updateFilter()
}

func (l *List) updateFilter() {
	l.filteredItems = l.filteredItems[:0]
	query := strings.ToLower(l.searchQuery)
	for i, item := range l.Items {
		if query == "" ||
			strings.Contains(strings.ToLower(item.Title), query) ||
			strings.Contains(strings.ToLower(item.Description), query) ||
			strings.Contains(strings.ToLower(item.ID), query) {
			l.filteredItems = append(l.filteredItems, i)
		}
	}
}

// Render draws the visible window of the list around the selection.
func (l *List) Render() string {
	styles := theme.GetStyles()

	var content []string
	if l.Title != "" {
		content = append(content, styles.Header.Render(l.Title))
	}
	if l.searchQuery != "" {
		content = append(content, styles.Muted.Render(fmt.Sprintf("Search: %s (%d results)", l.searchQuery, len(l.filteredItems))))
	}
	if len(content) > 0 {
		content = append(content, "")
	}

	if len(l.filteredItems) == 0 && l.EmptyText != "" {
		content = append(content, styles.Muted.Render(l.EmptyText))
		return lipgloss.JoinVertical(lipgloss.Left, content...)
	}

	// two lines per item
	maxVisible := max(1, (l.Height-len(content))/2)
	start := 0
	if l.Selected >= maxVisible {
		start = l.Selected - maxVisible + 1
	}
	end := min(start+maxVisible, len(l.filteredItems))

	for i := start; i < end; i++ {
		item := l.Items[l.filteredItems[i]]
		content = append(content, l.renderItem(styles, &item, i+1, i == l.Selected))
	}

	if len(l.filteredItems) > maxVisible {
		content = append(content, "", styles.Muted.Render(fmt.Sprintf("(%d-%d of %d)", start+1, end, len(l.filteredItems))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, content...)
}

func (l *List) renderItem(styles *theme.Styles, item *ListItem, number int, selected bool) string {
	var parts []string
	if l.ShowNumbers {
		parts = append(parts, fmt.Sprintf("%2d.", number))
	}
	if item.Icon != "" {
		parts = append(parts, item.Icon)
	}
	parts = append(parts, item.Title)
	if selected && item.Action != "" {
		parts = append(parts, styles.Muted.Render("["+item.Action+"]"))
	}

	prefix := "  "
	style := styles.Body
	if selected {
		prefix = "> "
		style = styles.Selected
	}

	width := max(10, l.Width-2)
	line := style.Width(width).Render(prefix + strings.Join(parts, " "))
	desc := styles.Muted.Render("     " + item.Description)
	return lipgloss.JoinVertical(lipgloss.Left, line, desc)
}
