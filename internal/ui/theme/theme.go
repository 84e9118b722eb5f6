// Package theme holds the color palettes and shared lipgloss styles of the
// terminal UI.
package theme

import (
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named color palette
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	Border    lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Selected  lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
}

func c(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var themes = map[string]Theme{
	"default": {
		Name:      "default",
		Primary:   c("#1E40AF", "#3B82F6"),
		Secondary: c("#6B7280", "#9CA3AF"),
		Accent:    c("#7C3AED", "#A855F7"),
		Success:   c("#059669", "#10B981"),
		Warning:   c("#D97706", "#F59E0B"),
		Error:     c("#DC2626", "#EF4444"),
		Info:      c("#0891B2", "#06B6D4"),
		Border:    c("#D1D5DB", "#374151"),
		Muted:     c("#6B7280", "#9CA3AF"),
		Selected:  c("#DBEAFE", "#1E3A8A"),
		Highlight: c("#FEF3C7", "#1F2937"),
	},
	"high-contrast": {
		Name:      "high-contrast",
		Primary:   c("#000000", "#FFFFFF"),
		Secondary: c("#666666", "#BBBBBB"),
		Accent:    c("#000080", "#8080FF"),
		Success:   c("#006600", "#00FF00"),
		Warning:   c("#CC6600", "#FFAA00"),
		Error:     c("#CC0000", "#FF4444"),
		Info:      c("#0066CC", "#4499FF"),
		Border:    c("#000000", "#FFFFFF"),
		Muted:     c("#666666", "#BBBBBB"),
		Selected:  c("#CCCCCC", "#333333"),
		Highlight: c("#FFFF00", "#444444"),
	},
	"minimal": {
		Name:      "minimal",
		Primary:   c("#2D3748", "#E2E8F0"),
		Secondary: c("#718096", "#A0AEC0"),
		Accent:    c("#4A5568", "#CBD5E0"),
		Success:   c("#2F855A", "#68D391"),
		Warning:   c("#C05621", "#F6AD55"),
		Error:     c("#C53030", "#FC8181"),
		Info:      c("#2B6CB0", "#63B3ED"),
		Border:    c("#E2E8F0", "#2D3748"),
		Muted:     c("#A0AEC0", "#718096"),
		Selected:  c("#EDF2F7", "#2D3748"),
		Highlight: c("#F7FAFC", "#2D3748"),
	},
}

var (
	current       = themes["default"]
	colorDisabled bool
)

// Current returns the active theme
func Current() Theme {
	return current
}

// SetByName activates a theme. Unknown names leave the theme unchanged.
func SetByName(name string) bool {
	t, ok := themes[name]
	if ok {
		current = t
	}
	return ok
}

// Available returns the theme names, sorted
func Available() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetColorDisabled forces plain output regardless of NO_COLOR
func SetColorDisabled(disabled bool) {
	colorDisabled = disabled
}

// ColorDisabled reports whether styles should render without color.
func ColorDisabled() bool {
	return colorDisabled || os.Getenv("NO_COLOR") != ""
}

// Styles are the lipgloss styles derived from the active theme.
type Styles struct {
	Theme Theme

	Title     lipgloss.Style
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Label     lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	Selected  lipgloss.Style
	TabActive lipgloss.Style
	Tab       lipgloss.Style
	Button    lipgloss.Style

	Box     lipgloss.Style
	Panel   lipgloss.Style
	Overlay lipgloss.Style
}

// GetStyles builds styles for the active theme. With color disabled every
// style renders text unchanged apart from layout.
func GetStyles() *Styles {
	t := current
	if ColorDisabled() {
		return plainStyles(t)
	}

	return &Styles{
		Theme: t,

		Title:     lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Padding(0, 1),
		Header:    lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Subheader: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Label:     lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		Body:      lipgloss.NewStyle(),
		Muted:     lipgloss.NewStyle().Foreground(t.Muted),

		Success: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(t.Info),

		Selected: lipgloss.NewStyle().
			Background(t.Selected).
			Foreground(t.Primary).
			Bold(true),

		TabActive: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Underline(true).
			Padding(0, 2),

		Tab: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Padding(0, 2),

		Button: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 2),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		Overlay: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(t.Accent).
			Padding(1, 2),
	}
}

func plainStyles(t Theme) *Styles {
	plain := lipgloss.NewStyle()
	boxed := lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	return &Styles{
		Theme:     t,
		Title:     plain.Padding(0, 1),
		Header:    plain,
		Subheader: plain,
		Label:     plain,
		Body:      plain,
		Muted:     plain,
		Success:   plain,
		Warning:   plain,
		Error:     plain,
		Info:      plain,
		Selected:  plain.Reverse(true),
		TabActive: plain.Underline(true).Padding(0, 2),
		Tab:       plain.Padding(0, 2),
		Button:    boxed.Padding(0, 2),
		Box:       boxed.Padding(1, 2),
		Panel:     boxed.Padding(0, 1),
		Overlay:   boxed.Padding(1, 2),
	}
}
