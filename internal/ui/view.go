package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"panefm/internal/domain"
	"panefm/internal/state"
)

type uiStyles struct {
	headerStyle   lipgloss.Style
	mutedStyle    lipgloss.Style
	statusStyle   lipgloss.Style
	warnStyle     lipgloss.Style
	cursorStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	dirStyle      lipgloss.Style
	panelBorder   lipgloss.Style
	activeBorder  lipgloss.Style
	dialogBorder  lipgloss.Style
}

func stylesFor(theme string) uiStyles {
	if strings.ToLower(theme) == "light" {
		return uiStyles{
			headerStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
			mutedStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			statusStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
			warnStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("90")).Bold(true),
			selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Bold(true),
			dirStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
			panelBorder:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("250")).Padding(0, 1),
			activeBorder:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("25")).Padding(0, 1),
			dialogBorder:  lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("124")).Padding(0, 1),
		}
	}
	return uiStyles{
		headerStyle:   lipgloss.NewStyle().Bold(true),
		mutedStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		statusStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		warnStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		dirStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		panelBorder:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
		activeBorder:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("69")).Padding(0, 1),
		dialogBorder:  lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("204")).Padding(0, 1),
	}
}

func (model Model) View() string {
	if model.showHelp {
		return renderHelpView(model)
	}
	sections := []string{renderPanes(model)}
	switch model.mode {
	case modeConfirm:
		sections = append(sections, renderPreviewPanel(model))
	case modeProgress:
		sections = append(sections, renderProgressPanel(model))
	case modeConflict:
		sections = append(sections, renderConflictPanel(model))
	case modeBrowse:
	}
	sections = append(sections, renderFooter(model))
	return strings.Join(sections, "\n")
}

func renderPanes(model Model) string {
	height := model.listHeight()
	width := maxInt(model.width/2, 24)
	left := renderPane(model, state.LeftPane, width, height)
	right := renderPane(model, state.RightPane, width, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func renderPane(model Model, index, width, height int) string {
	styles := model.styles
	pane := model.state.Panes[index]
	contentWidth := maxInt(width-4, 10)
	border := styles.panelBorder
	if index == model.state.ActiveIndex {
		border = styles.activeBorder
	}

	lines := make([]string, 0, height+1)
	lines = append(lines, styles.headerStyle.Render(trimLeft(pane.Path, contentWidth)))
	if len(pane.Entries) == 0 {
		lines = append(lines, styles.mutedStyle.Render("(empty)"))
	}
	start := scrollStart(pane.Cursor, height, len(pane.Entries))
	end := minInt(start+height, len(pane.Entries))
	for row := start; row < end; row++ {
		entry := pane.Entries[row]
		marker := " "
		if pane.IsSelected(entry.Path) {
			marker = styles.selectedStyle.Render("*")
		}
		size := fmt.Sprintf("%9s", sizeLabel(entry))
		name := trimRight(displayName(entry), maxInt(contentWidth-12, 4))
		var line string
		switch {
		case row == pane.Cursor && index == model.state.ActiveIndex:
			line = styles.cursorStyle.Render(padRight(fmt.Sprintf("%s %s", marker, name), contentWidth-10) + size)
		case entry.IsDir():
			line = fmt.Sprintf("%s %s", marker, styles.dirStyle.Render(padRight(name, contentWidth-12))) + " " + size
		default:
			line = fmt.Sprintf("%s %s", marker, padRight(name, contentWidth-12)) + " " + size
		}
		lines = append(lines, line)
	}
	for len(lines) < height+1 {
		lines = append(lines, "")
	}

	count, total := pane.SelectionSummary()
	summary := fmt.Sprintf("%d entries", len(pane.Entries))
	if count > 0 {
		summary = fmt.Sprintf("%d selected (%s)", count, humanize.Bytes(uint64(total)))
	}
	lines = append(lines, styles.mutedStyle.Render(summary))
	return border.Width(contentWidth).Render(strings.Join(lines, "\n"))
}

func renderPreviewPanel(model Model) string {
	styles := model.styles
	if !model.previewReady {
		return styles.dialogBorder.Render("Preparing preview...")
	}
	preview := model.pendingPreview
	lines := []string{
		styles.headerStyle.Render("Confirm " + string(preview.Kind)),
		fmt.Sprintf("Files: %d  Dirs: %d  Size: %s", preview.TotalFiles, preview.TotalDirs, humanize.Bytes(uint64(preview.TotalBytes))),
		fmt.Sprintf("Dest : %s", preview.Destination),
	}
	for _, sample := range preview.Samples {
		lines = append(lines, "  "+filepath.Base(sample))
	}
	if len(preview.Conflicts) > 0 {
		lines = append(lines, styles.warnStyle.Render(fmt.Sprintf("%d target(s) already exist", len(preview.Conflicts))))
	}
	for _, warning := range preview.Warnings {
		lines = append(lines, styles.warnStyle.Render(warning))
	}
	lines = append(lines, styles.mutedStyle.Render("y confirm  n cancel"))
	return styles.dialogBorder.Render(strings.Join(lines, "\n"))
}

func renderProgressPanel(model Model) string {
	styles := model.styles
	update := model.lastUpdate
	percent := 0.0
	if update.Total > 0 {
		percent = float64(update.Processed) / float64(update.Total)
	}
	title := "Transfer"
	if model.operation != nil {
		title = titleVerb(model.operation.Request.Kind)
	}
	lines := []string{
		styles.headerStyle.Render(fmt.Sprintf("%s  %d/%d", title, update.Processed, update.Total)),
		model.bar.ViewAs(percent),
	}
	if model.cancelling {
		lines = append(lines, styles.warnStyle.Render("Cancelling..."))
	} else if update.Message != "" {
		lines = append(lines, update.Message)
	}
	lines = append(lines, styles.mutedStyle.Render(keyHelp(model.keys.Abort)))
	return styles.panelBorder.Render(strings.Join(lines, "\n"))
}

func renderConflictPanel(model Model) string {
	styles := model.styles
	lines := []string{
		styles.warnStyle.Render("Target already exists"),
		model.conflict,
		"",
		strings.Join([]string{
			keyHelp(model.keys.Overwrite),
			keyHelp(model.keys.Skip),
			keyHelp(model.keys.OverwriteAll),
			keyHelp(model.keys.SkipAll),
			keyHelp(model.keys.ConflictCancel),
		}, "  "),
	}
	return styles.dialogBorder.Render(strings.Join(lines, "\n"))
}

func renderFooter(model Model) string {
	styles := model.styles
	statusStyle := styles.statusStyle
	lower := strings.ToLower(model.status)
	if strings.Contains(lower, "error") || strings.Contains(lower, "warning") || strings.Contains(lower, "stopped") {
		statusStyle = styles.warnStyle
	}
	statusLine := statusStyle.Render(trimRight(model.status, maxInt(model.width-4, 10)))

	info := fmt.Sprintf("Sort: %s  Hidden: %s", strings.ToUpper(string(model.state.Prefs.SortMode)), onOff(model.state.Prefs.ShowHidden))
	keys := "tab pane  space select  F5 copy  F6 move  r refresh  ? help  q quit"
	footerLine := padLine(info, keys, model.width)
	return strings.Join([]string{statusLine, styles.mutedStyle.Render(footerLine)}, "\n")
}

func renderHelpView(model Model) string {
	styles := model.styles
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Navigation", []key.Binding{model.keys.Up, model.keys.Down, model.keys.Enter, model.keys.Back, model.keys.Switch}},
		{"Selection", []key.Binding{model.keys.Select, model.keys.Refresh, model.keys.Sort, model.keys.Hidden}},
		{"Transfers", []key.Binding{model.keys.Copy, model.keys.Move, model.keys.Confirm, model.keys.Cancel, model.keys.Abort}},
		{"Conflicts", []key.Binding{model.keys.Overwrite, model.keys.Skip, model.keys.OverwriteAll, model.keys.SkipAll, model.keys.ConflictCancel}},
		{"General", []key.Binding{model.keys.Help, model.keys.Quit}},
	}
	lines := []string{styles.headerStyle.Render("panefm help")}
	for _, section := range sections {
		lines = append(lines, "", styles.headerStyle.Render(section.title))
		for _, binding := range section.bindings {
			lines = append(lines, fmt.Sprintf("%-18s %s", strings.Join(binding.Keys(), ", "), binding.Help().Desc))
		}
	}
	lines = append(lines, "", "Press ? to close help")
	return styles.panelBorder.Width(maxInt(model.width-4, 10)).Render(strings.Join(lines, "\n"))
}

func (model Model) listHeight() int {
	reserved := 8
	if model.mode != modeBrowse {
		reserved += 6
	}
	return maxInt(model.height-reserved, 3)
}

func displayName(entry domain.Entry) string {
	switch entry.Kind {
	case domain.KindDirectory:
		return entry.Name + "/"
	case domain.KindSymlink:
		return entry.Name + "@"
	case domain.KindFifo:
		return entry.Name + "|"
	case domain.KindRegular, domain.KindDevice, domain.KindOther:
	}
	return entry.Name
}

func sizeLabel(entry domain.Entry) string {
	switch entry.Kind {
	case domain.KindDirectory:
		return "<DIR>"
	case domain.KindSymlink:
		return "<LINK>"
	case domain.KindRegular:
		return humanize.Bytes(uint64(entry.SizeBytes))
	case domain.KindFifo, domain.KindDevice, domain.KindOther:
	}
	return entry.Kind.String()
}

func keyHelp(binding key.Binding) string {
	help := binding.Help()
	return help.Key + " " + help.Desc
}

func scrollStart(cursor, height, total int) int {
	if height <= 0 || total <= height {
		return 0
	}
	start := cursor - height + 1
	return clamp(start, 0, total-height)
}

func padLine(left, right string, width int) string {
	if width <= 0 {
		return left
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", space) + right
}

func padRight(value string, width int) string {
	gap := width - lipgloss.Width(value)
	if gap <= 0 {
		return value
	}
	return value + strings.Repeat(" ", gap)
}

func trimRight(value string, width int) string {
	runes := []rune(value)
	if width <= 3 || len(runes) <= width {
		return value
	}
	return string(runes[:width-3]) + "..."
}

func trimLeft(value string, width int) string {
	runes := []rune(value)
	if width <= 3 || len(runes) <= width {
		return value
	}
	return "..." + string(runes[len(runes)-width+3:])
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
