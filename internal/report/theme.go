package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette 主题配色
type Palette struct {
	Title    lipgloss.Color
	Label    lipgloss.Color
	Value    lipgloss.Color
	Warning  lipgloss.Color
	Positive lipgloss.Color
	Negative lipgloss.Color
	Muted    lipgloss.Color
}

// Theme 输出主题
type Theme struct {
	Name     string
	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Badge    lipgloss.Style
	Info     lipgloss.Style
	Positive lipgloss.Style
	Negative lipgloss.Style
	Muted    lipgloss.Style
}

var palettes = map[string]Palette{
	"classic": {
		Title:    lipgloss.Color("#3B82F6"),
		Label:    lipgloss.Color("#B4BCC8"),
		Value:    lipgloss.Color("#ECEFF4"),
		Warning:  lipgloss.Color("#FFB500"),
		Positive: lipgloss.Color("#2AFFAA"),
		Negative: lipgloss.Color("#FF5555"),
		Muted:    lipgloss.Color("#6C7280"),
	},
	"midnight": {
		Title:    lipgloss.Color("#8B5CF6"),
		Label:    lipgloss.Color("#6C7280"),
		Value:    lipgloss.Color("#00E5FF"),
		Warning:  lipgloss.Color("#FF1B6B"),
		Positive: lipgloss.Color("#2AFFAA"),
		Negative: lipgloss.Color("#FF5555"),
		Muted:    lipgloss.Color("#262831"),
	},
}

// NewTheme 根据配色创建主题
func NewTheme(name string, p Palette) Theme {
	return Theme{
		Name:     name,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Title),
		Label:    lipgloss.NewStyle().Foreground(p.Label).Width(18),
		Value:    lipgloss.NewStyle().Bold(true).Foreground(p.Value),
		Badge:    lipgloss.NewStyle().Bold(true).Foreground(p.Warning),
		Info:     lipgloss.NewStyle().Italic(true).Foreground(p.Warning),
		Positive: lipgloss.NewStyle().Foreground(p.Positive),
		Negative: lipgloss.NewStyle().Foreground(p.Negative),
		Muted:    lipgloss.NewStyle().Foreground(p.Muted),
	}
}

// PlainTheme 无样式主题 (用于文件输出)
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:     "plain",
		Title:    plain,
		Label:    plain.Width(18),
		Value:    plain,
		Badge:    plain,
		Info:     plain,
		Positive: plain,
		Negative: plain,
		Muted:    plain,
	}
}

// LookupTheme 按名称获取主题
func LookupTheme(name string) (Theme, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "plain" {
		return PlainTheme(), nil
	}
	p, ok := palettes[key]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return NewTheme(key, p), nil
}

// ThemeNames 可用主题
func ThemeNames() []string {
	names := []string{"plain"}
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// signed 根据正负选择样式
func (t Theme) signed(v float64, s string) string {
	switch {
	case v > 0:
		return t.Positive.Render(s)
	case v < 0:
		return t.Negative.Render(s)
	}
	return t.Value.Render(s)
}
