package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const minCellWidth = 14

// gridRows lists grid indices by display row; -1 marks the centre block.
var gridRows = [4][4]int{
	{0, 1, 2, 3},
	{11, -1, -1, 4},
	{10, -1, -1, 5},
	{9, 8, 7, 6},
}

// WriteText draws the chart as the traditional 4x4 board: twelve palaces
// around the edge and the chart summary in the middle.
func WriteText(w io.Writer, view ChartView, labels func(string) string) error {
	if len(view.Palaces) != 12 {
		return fmt.Errorf("chart view has %d palaces, want 12", len(view.Palaces))
	}
	if labels == nil {
		labels = func(key string) string { return key }
	}
	renderer := lipgloss.NewRenderer(w)

	cells := make([][]string, len(view.Palaces))
	width, height := minCellWidth, 0
	for i, palace := range view.Palaces {
		cells[i] = palaceLines(palace, labels)
		height = max(height, len(cells[i]))
		for _, line := range cells[i] {
			width = max(width, lipgloss.Width(line))
		}
	}
	center := summaryLines(view.Metadata, labels)
	centerWidth := 2*width + 2
	for _, line := range center {
		if lipgloss.Width(line) > centerWidth {
			width = (lipgloss.Width(line) - 1) / 2
			centerWidth = 2*width + 2
		}
	}
	height = max(height, (len(center)-1)/2)

	cell := renderer.NewStyle().Border(lipgloss.NormalBorder()).Width(width).Height(height)
	box := func(i int) string {
		style := cell
		if view.Palaces[i].IsLife {
			style = style.BorderStyle(lipgloss.DoubleBorder())
		}
		return style.Render(strings.Join(cells[i], "\n"))
	}
	middle := renderer.NewStyle().
		Border(lipgloss.NormalBorder()).
		Width(centerWidth).
		Height(2*height + 2).
		Render(strings.Join(center, "\n"))

	top := lipgloss.JoinHorizontal(lipgloss.Top, box(gridRows[0][0]), box(gridRows[0][1]), box(gridRows[0][2]), box(gridRows[0][3]))
	mid := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, box(gridRows[1][0]), box(gridRows[2][0])),
		middle,
		lipgloss.JoinVertical(lipgloss.Left, box(gridRows[1][3]), box(gridRows[2][3])),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, box(gridRows[3][0]), box(gridRows[3][1]), box(gridRows[3][2]), box(gridRows[3][3]))

	board := lipgloss.JoinVertical(lipgloss.Left, top, mid, bottom)
	_, err := io.WriteString(w, board+"\n")
	return err
}

func palaceLines(palace PalaceView, labels func(string) string) []string {
	header := palace.Stem + palace.Branch + " " + palace.Role
	if palace.IsBody {
		header += " (" + labels(labelBody) + ")"
	}
	lines := []string{header, labels(labelDecade) + " " + palace.AgeRange}
	if len(palace.Stars) == 0 {
		return append(lines, labels(labelNoStars))
	}
	for _, star := range palace.Stars {
		lines = append(lines, star.Label)
	}
	return lines
}

func summaryLines(meta MetadataView, labels func(string) string) []string {
	return []string{
		labels(labelSolar) + ": " + meta.SolarDate,
		labels(labelLunar) + ": " + meta.LunarDate,
		labels(labelSex) + ": " + meta.Sex,
		labels(labelBureau) + ": " + meta.Bureau,
		labels(labelZodiac) + ": " + meta.Zodiac,
		labels(labelYear) + ": " + meta.YearStem + meta.YearBranch,
		labels(labelLifeMaster) + ": " + meta.LifeMaster,
		labels(labelBodyMaster) + ": " + meta.BodyMaster,
	}
}
