package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/srf-tools/microphonics/internal/analysis"
)

// summaryColumns are the header keys of the channel summary, in column order.
var summaryColumns = []string{KeyChannel, KeyCavity, KeyCount, KeyMean, KeyStdDev, KeyRMS, KeyPeakToPeak, KeyTopPeak}

// ChannelTable shows one row of statistics per populated channel.
type ChannelTable struct {
	localization *Localization
	table        *widget.Table
	reports      []analysis.ChannelReport
	rows         [][]string
}

// NewChannelTable creates an empty summary table.
func NewChannelTable(localization *Localization) *ChannelTable {
	ct := &ChannelTable{localization: localization}
	ct.rows = summaryRows(nil, localization)
	ct.table = widget.NewTable(ct.size, ct.createCell, ct.updateCell)
	for col := range summaryColumns {
		ct.table.SetColumnWidth(col, ColumnWidth)
	}
	ct.table.SetColumnWidth(len(summaryColumns)-1, 2*ColumnWidth)
	return ct
}

// Widget returns the canvas object to place in a layout.
func (ct *ChannelTable) Widget() fyne.CanvasObject {
	return ct.table
}

// SetReports replaces the table contents.
func (ct *ChannelTable) SetReports(reports []analysis.ChannelReport) {
	ct.reports = reports
	ct.rows = summaryRows(reports, ct.localization)
	ct.table.Refresh()
}

// Reports returns the currently shown reports.
func (ct *ChannelTable) Reports() []analysis.ChannelReport {
	return ct.reports
}

func (ct *ChannelTable) size() (int, int) {
	return len(ct.rows), len(summaryColumns)
}

func (ct *ChannelTable) createCell() fyne.CanvasObject {
	return canvas.NewText("", theme.Color(theme.ColorNameForeground))
}

func (ct *ChannelTable) updateCell(id widget.TableCellID, obj fyne.CanvasObject) {
	text := obj.(*canvas.Text)
	text.Text = ""
	text.TextStyle = fyne.TextStyle{}
	text.Color = theme.Color(theme.ColorNameForeground)
	if id.Row < len(ct.rows) && id.Col < len(ct.rows[id.Row]) {
		text.Text = ct.rows[id.Row][id.Col]
	}

	switch {
	case id.Row == 0:
		text.TextStyle.Bold = true
	case id.Col == 0 && id.Row-1 < len(ct.reports):
		text.Color = ChannelColor(ct.reports[id.Row-1].Channel)
		text.TextStyle.Bold = true
	}
	text.Refresh()
}

// summaryRows renders reports as text, header row first. With no reports the
// table holds the header and a single placeholder row.
func summaryRows(reports []analysis.ChannelReport, localization *Localization) [][]string {
	header := make([]string, len(summaryColumns))
	for i, key := range summaryColumns {
		header[i] = localization.GetText(key)
	}
	rows := [][]string{header}

	if len(reports) == 0 {
		placeholder := make([]string, len(summaryColumns))
		placeholder[0] = localization.GetText(KeyNoDataLoaded)
		return append(rows, placeholder)
	}

	for _, r := range reports {
		peak := DashPlaceholder
		if len(r.Peaks) > 0 {
			peak = fmt.Sprintf(PeakFormat, r.Peaks[0].Freq, r.Peaks[0].Amplitude)
		}
		cavity := DashPlaceholder
		if r.Cavity > 0 {
			cavity = strconv.Itoa(r.Cavity)
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Channel),
			cavity,
			strconv.Itoa(r.Stats.Count),
			fmt.Sprintf(ValueFormat, r.Stats.Mean),
			fmt.Sprintf(ValueFormat, r.Stats.StdDev),
			fmt.Sprintf(ValueFormat, r.Stats.RMS),
			fmt.Sprintf(ValueFormat, r.Stats.PeakToPeak),
			peak,
		})
	}
	return rows
}
