package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/khatt/internal/core/notify"
	"github.com/colonyops/khatt/internal/core/styles"
	tuinotify "github.com/colonyops/khatt/internal/tui/notify"
)

const (
	historyWidthPct  = 60
	historyMinWidth  = 40
	historyMaxHeight = 24
	historyMargin    = 4
	historyChrome    = 8 // border, padding, title, divider, help
)

// notificationHistory is a scrollable list of past notifications, newest
// first.
type notificationHistory struct {
	bus      *tuinotify.Bus
	viewport viewport.Model
	width    int
	height   int
}

func newNotificationHistory(bus *tuinotify.Bus, width, height int) *notificationHistory {
	w := historyWidth(width)
	h := max(min(height-historyMargin, historyMaxHeight), historyChrome+1)

	m := &notificationHistory{
		bus: bus,
		viewport: viewport.New(
			viewport.WithWidth(w-6),
			viewport.WithHeight(h-historyChrome),
		),
		width:  w,
		height: h,
	}
	m.refresh()
	return m
}

func (m *notificationHistory) refresh() {
	history, err := m.bus.History()
	switch {
	case err != nil:
		m.viewport.SetContent(styles.FailStyle.Render(fmt.Sprintf("failed to load notifications: %v", err)))
		return
	case len(history) == 0:
		m.viewport.SetContent(styles.StatusMutedStyle.Render("No notifications"))
		return
	}

	lines := make([]string, 0, len(history))
	for _, n := range history {
		lines = append(lines, formatNotification(n))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func formatNotification(n notify.Notification) string {
	ts := styles.StatusMutedStyle.Render(n.CreatedAt.Format("15:04:05"))

	icon, style := styles.IconNotifyInfo, styles.TokenStyle
	switch n.Level {
	case notify.LevelError:
		icon, style = styles.IconNotifyError, styles.FailStyle
	case notify.LevelWarning:
		icon, style = styles.IconNotifyWarning, styles.WarnStyle
	}
	return ts + " " + icon + " " + style.Render(n.Message)
}

func (m *notificationHistory) ScrollUp() {
	m.viewport.ScrollUp(1)
}

func (m *notificationHistory) ScrollDown() {
	m.viewport.ScrollDown(1)
}

// Clear deletes the stored notifications.
func (m *notificationHistory) Clear() error {
	if err := m.bus.Clear(); err != nil {
		return err
	}
	m.refresh()
	return nil
}

func (m *notificationHistory) View() string {
	divider := styles.DividerStyle.Render(strings.Repeat("─", max(m.width-6, 1)))
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render("Notifications"),
		divider,
		m.viewport.View(),
		styles.ModalHelpStyle.Render("j/k scroll  D clear  esc close"),
	)
	return styles.ModalStyle.Width(m.width).Height(m.height).Render(content)
}

func historyWidth(termWidth int) int {
	available := max(termWidth-historyMargin, 1)
	target := termWidth * historyWidthPct / 100
	return min(max(target, historyMinWidth), available)
}
