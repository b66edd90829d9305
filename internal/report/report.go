package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/park285/Cheese-TimePressure/internal/domain"
	"github.com/park285/Cheese-TimePressure/internal/msgcat"
)

// Columns of the text table and the CSV header.
var Columns = []string{"name", "games", "pts", "gtp", "gtp_perf"}

// Sort returns the players ordered by points descending, then name ascending.
// The report itself is left untouched.
func Sort(rep *domain.Report) []domain.PlayerRecord {
	if rep == nil {
		return nil
	}
	rows := append([]domain.PlayerRecord(nil), rep.Players...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// formatPerformance renders nil as empty; callers choose how to show "undefined".
func formatPerformance(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func row(p domain.PlayerRecord) []string {
	return []string{
		p.Name,
		strconv.Itoa(p.Games),
		formatPoints(p.Points),
		strconv.Itoa(p.PressureGames),
		formatPerformance(p.PressurePerformance),
	}
}

// Writer renders reports as human-readable text.
type Writer struct {
	cat *msgcat.Catalog
}

func NewWriter(cat *msgcat.Catalog) *Writer {
	if cat == nil {
		cat = msgcat.Default()
	}
	return &Writer{cat: cat}
}

func (w *Writer) templateData(rep *domain.Report) map[string]any {
	return map[string]any{
		"Event":     rep.Event,
		"Games":     rep.Games,
		"Players":   len(rep.Players),
		"Threshold": rep.Threshold,
		"Window":    rep.Window,
	}
}

// WriteTitle prints the tournament heading and a one-line summary.
func (w *Writer) WriteTitle(out io.Writer, rep *domain.Report) error {
	data := w.templateData(rep)
	title := w.cat.RenderOr("report.title_no_event", data, "Time pressure stats")
	if strings.TrimSpace(rep.Event) != "" {
		title = w.cat.RenderOr("report.title", data, title)
	}
	summary := w.cat.RenderOr("report.summary", data, "")
	_, err := fmt.Fprintf(out, "\n%s\n%s\n\n", title, summary)
	return err
}

// WriteTable prints the sorted players as an aligned table with an index column.
func (w *Writer) WriteTable(out io.Writer, rep *domain.Report) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tw, "\t%s\t\n", strings.Join(Columns, "\t")); err != nil {
		return err
	}
	for i, p := range Sort(rep) {
		cells := row(p)
		if cells[4] == "" {
			cells[4] = "n/a"
		}
		if _, err := fmt.Fprintf(tw, "%d\t%s\t\n", i, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteLegend explains the gtp columns for the report's window and threshold.
func (w *Writer) WriteLegend(out io.Writer, rep *domain.Report) error {
	data := w.templateData(rep)
	lines := []string{
		"",
		w.cat.RenderOr("report.legend.header", data, ":: Column name definition ::"),
		"",
		w.cat.RenderOr("report.legend.gtp", data, "gtp     : games under time pressure."),
		w.cat.RenderOr("report.legend.gtp_perf", data, "gtp_perf: score/games under time pressure."),
	}
	_, err := fmt.Fprintln(out, strings.Join(lines, "\n"))
	return err
}

// WriteText prints title, table and legend.
func (w *Writer) WriteText(out io.Writer, rep *domain.Report) error {
	if rep == nil {
		return fmt.Errorf("nil report")
	}
	if err := w.WriteTitle(out, rep); err != nil {
		return err
	}
	if err := w.WriteTable(out, rep); err != nil {
		return err
	}
	return w.WriteLegend(out, rep)
}

// WriteJSON emits the report with players sorted as in the table.
func WriteJSON(out io.Writer, rep *domain.Report) error {
	if rep == nil {
		return fmt.Errorf("nil report")
	}
	sorted := *rep
	sorted.Players = Sort(rep)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(&sorted)
}
