// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ik5/audmix/engine"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6))
	assetStyle = lipgloss.NewStyle().Width(24)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3))

	modeStyles = map[engine.Mode]lipgloss.Style{
		engine.Stopped:       lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
		engine.Braked:        lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)),
		engine.PlayRequested: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(4)),
		engine.LoopRequested: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(4)),
		engine.Running:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2)),
		engine.Draining:      lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(5)),
	}
)

// renderStatus draws one line per channel.
func renderStatus(chs []engine.ChannelStatus, st engine.Stats) string {
	lines := make([]string, 0, len(chs)+1)
	for _, ch := range chs {
		asset := ch.Asset
		if asset == "" {
			asset = "-"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s gain %3d pitch %.2f",
			labelStyle.Render(fmt.Sprintf("ch%d", ch.Index)),
			modeStyles[ch.Mode].Width(5).Render(ch.Mode.String()),
			assetStyle.Render(asset),
			ch.Gain,
			ch.Pitch,
		))
	}
	lines = append(lines, renderSummary(st))
	return strings.Join(lines, "\n")
}

func renderSummary(st engine.Stats) string {
	s := fmt.Sprintf("cycles %d  short writes %d  write errors %d  open failures %d",
		st.Cycles, st.ShortWrites, st.WriteErrors, st.OpenFailures)
	if st.ShortWrites+st.WriteErrors+st.OpenFailures > 0 {
		return warnStyle.Render(s)
	}
	return okStyle.Render(s)
}
