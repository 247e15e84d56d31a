package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/khatt/internal/core/notify"
	"github.com/colonyops/khatt/internal/core/styles"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// renderToasts stacks the toasts oldest first, each at most width cells wide.
func renderToasts(toasts []toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	w := min(maxToastWidth, max(width-2, 10))

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, renderToast(t, w))
	}
	return strings.Join(rendered, "\n")
}

func renderToast(t toast, width int) string {
	icon := styles.IconNotifyInfo
	style := styles.ToastInfoStyle
	switch t.notification.Level {
	case notify.LevelError:
		icon = styles.IconNotifyError
		style = styles.ToastErrorStyle
	case notify.LevelWarning:
		icon = styles.IconNotifyWarning
		style = styles.ToastWarningStyle
	}
	return style.Width(width).Render(icon + " " + t.notification.Message)
}

// overlayToasts composites the toast stack in the lower-right corner, above
// the footer line.
func overlayToasts(background string, toasts []toast, width, height int) string {
	stack := renderToasts(toasts, width)
	if stack == "" {
		return background
	}

	layer := lipgloss.NewLayer(stack)
	x := max(width-lipgloss.Width(stack)-1, 0)
	y := max(height-lipgloss.Height(stack)-1, 0)
	layer.X(x).Y(y).Z(2)

	return lipgloss.NewCompositor(lipgloss.NewLayer(background), layer).Render()
}
