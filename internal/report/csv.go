package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/park285/Cheese-TimePressure/internal/domain"
)

// WriteCSV writes a header row and one row per player, keyed by name.
// An undefined gtp_perf is an empty cell.
func WriteCSV(out io.Writer, rep *domain.Report) error {
	if rep == nil {
		return fmt.Errorf("nil report")
	}
	cw := csv.NewWriter(out)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, p := range Sort(rep) {
		if err := cw.Write(row(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVPath names the CSV after the input file stem, in dir.
func CSVPath(dir, input string) string {
	base := filepath.Base(strings.TrimSpace(input))
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == "/" {
		stem = "time_pressure"
	}
	return filepath.Join(dir, stem+".csv")
}

// SaveCSV writes the report to path, replacing any existing file.
func SaveCSV(path string, rep *domain.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := WriteCSV(f, rep); err != nil {
		_ = f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
