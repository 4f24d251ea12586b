package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	wizardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	wizardMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	wizardErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	wizardOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	wizardPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	wizardSelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
)

func kv(k, v string) string {
	return fmt.Sprintf("%s: %s", k, v)
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

func wrapOrTrim(s string, width int) string {
	if width <= 0 {
		return s
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return truncateRunes(s, width)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func defaultIfEmpty(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func formatPrice(price, currency string) string {
	price = strings.TrimSpace(price)
	if price == "" {
		return "-"
	}
	if c := strings.TrimSpace(currency); c != "" {
		return price + " " + c
	}
	return price
}

func formatElapsed(start, end time.Time) string {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return "-"
	}
	return end.Sub(start).Round(100 * time.Millisecond).String()
}
