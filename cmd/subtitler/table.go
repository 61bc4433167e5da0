package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nguyentantai21042004/subtitle-flow/internal/coordinator"
)

const urlColumnWidth = 80

// renderPollTable lays out one row per job. The state column is coloured and
// presigned URLs wrap at urlColumnWidth.
func renderPollTable(rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"IID", "State", "Transcript", "Subtitles"})

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = v
		}
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Transformer: stateColor},
		{Number: 3, WidthMax: urlColumnWidth},
		{Number: 4, WidthMax: urlColumnWidth},
	})
	return tw.Render()
}

func stateColor(val interface{}) string {
	s, _ := val.(string)
	switch s {
	case coordinator.StateDone.String():
		return text.Colors{text.FgGreen}.Sprint(s)
	case coordinator.StateError.String():
		return text.Colors{text.FgRed}.Sprint(s)
	case coordinator.StatePending.String():
		return text.Colors{text.FgYellow}.Sprint(s)
	default:
		return s
	}
}
