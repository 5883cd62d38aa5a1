// table.go converts native table elements to pipe tables.
package md

import (
	"strconv"
	"strings"
)

// tableCell is one rendered cell. Spans are expanded at gather time, so a
// cell in the model always occupies exactly one column.
type tableCell struct {
	content string
	header  bool
}

func handleTable(s *conversion, n *Node) string {
	rows := gatherRows(s, n)
	if len(rows) == 0 {
		return ""
	}

	// The first collected row always renders as the header row; the rest
	// pad out to its width so every rendered row is rectangular.
	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, tableCell{})
		}
		rows[i] = row[:width]
	}

	// Bolding the first column applies to every row or none: only when
	// every row leads with a semantic header cell.
	boldFirst := true
	for _, row := range rows {
		if len(row) == 0 || !row[0].header {
			boldFirst = false
			break
		}
	}
	if boldFirst {
		for i := range rows {
			if rows[i][0].content != "" {
				rows[i][0].content = "**" + rows[i][0].content + "**"
			}
		}
	}

	var sb strings.Builder
	writeRow := func(row []tableCell) {
		sb.WriteString("|")
		for _, cell := range row {
			sb.WriteString(" " + cell.content + " |")
		}
		sb.WriteString("\n")
	}

	writeRow(rows[0])
	sb.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return sb.String() + "\n"
}

// gatherRows collects rows from the table's section elements (or direct tr
// children), expanding column spans into trailing filler cells.
func gatherRows(s *conversion, table *Node) [][]tableCell {
	var rows [][]tableCell
	collect := func(section *Node) {
		for _, tr := range section.Children {
			if tr.Kind != KindElement || tr.Data != "tr" {
				continue
			}
			if row := gatherCells(s, tr); len(row) > 0 {
				rows = append(rows, row)
			}
		}
	}

	for _, child := range table.Children {
		if child.Kind != KindElement {
			continue
		}
		switch child.Data {
		case "thead", "tbody", "tfoot":
			collect(child)
		case "tr":
			if row := gatherCells(s, child); len(row) > 0 {
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func gatherCells(s *conversion, tr *Node) []tableCell {
	var row []tableCell
	for _, cell := range tr.Children {
		if cell.Kind != KindElement || (cell.Data != "td" && cell.Data != "th") {
			continue
		}
		content := strings.TrimSpace(s.children(cell))
		// Pipe table cells are single-line.
		content = strings.TrimSpace(whitespaceRun.ReplaceAllString(content, " "))
		header := cell.Data == "th"

		row = append(row, tableCell{content: content, header: header})
		if span, err := strconv.Atoi(cell.Attr("colspan")); err == nil {
			for i := 1; i < span; i++ {
				row = append(row, tableCell{header: header})
			}
		}
	}
	return row
}
