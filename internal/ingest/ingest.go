// Package ingest reads canopy survey exports into records for the grove
// pipeline. Field exports arrive as CSV with inconsistent delimiters and
// locale decimal separators; this package normalizes both and drops rows
// the pipeline cannot place on the lattice.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/verdant-data/canopy.report/internal/grove"
	"github.com/verdant-data/canopy.report/internal/monitoring"
)

// requiredColumns must all be present in the header, case-insensitively.
var requiredColumns = []string{"blok", "n_baris", "n_pokok", "ndre125"}

// Stats summarizes one load for operator logs and run metadata.
type Stats struct {
	// Loaded is the number of usable records produced.
	Loaded int
	// Dropped counts rows discarded for missing coordinates, a missing
	// block id, or an unparseable index value.
	Dropped int
}

// LoadSurvey reads a survey CSV from disk. See ReadSurvey for the format
// rules.
func LoadSurvey(path string) ([]grove.Record, *Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open survey file: %w", err)
	}
	defer f.Close()

	records, stats, err := ReadSurvey(f)
	if err != nil {
		return nil, nil, fmt.Errorf("survey file %s: %w", path, err)
	}
	return records, stats, nil
}

// ReadSurvey parses survey rows from r. The delimiter is sniffed from the
// header line (comma or semicolon), column matching is case-insensitive,
// and index values may use a comma decimal separator. Rows without both
// lattice coordinates or a block id are dropped rather than failing the
// load; a blank index value is kept as a nil value so segmentation can
// grade the position vacant.
func ReadSurvey(r io.Reader) ([]grove.Record, *Stats, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read survey data: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, fmt.Errorf("survey data is empty")
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		records []grove.Record
		stats   Stats
		line    = 1
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse row %d: %w", line+1, err)
		}
		line++

		rec, ok := parseRow(row, cols, line)
		if !ok {
			stats.Dropped++
			continue
		}
		records = append(records, rec)
		stats.Loaded++
	}

	if stats.Dropped > 0 {
		monitoring.Logf("ingest: dropped %d of %d rows", stats.Dropped, stats.Dropped+stats.Loaded)
	}
	return records, &stats, nil
}

// sniffDelimiter picks semicolon when the header line carries more of them
// than commas. Some field exports use the semicolon convention that goes
// with comma decimals.
func sniffDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.Count(header, []byte{';'}) > bytes.Count(header, []byte{','}) {
		return ';'
	}
	return ','
}

// columnIndex maps each column of interest to its header position, -1 when
// absent.
type columnIndex struct {
	block, row, pos, value int
	note, objectID         int
}

func mapColumns(header []string) (columnIndex, error) {
	cols := columnIndex{block: -1, row: -1, pos: -1, value: -1, note: -1, objectID: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "blok":
			cols.block = i
		case "n_baris":
			cols.row = i
		case "n_pokok":
			cols.pos = i
		case "ndre125":
			cols.value = i
		case "ket", "keterangan":
			cols.note = i
		case "objectid":
			cols.objectID = i
		}
	}

	var missing []string
	for i, idx := range []int{cols.block, cols.row, cols.pos, cols.value} {
		if idx < 0 {
			missing = append(missing, requiredColumns[i])
		}
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("required columns missing: %s (header: %s)",
			strings.Join(missing, ", "), strings.Join(header, ", "))
	}
	return cols, nil
}

func parseRow(row []string, cols columnIndex, line int) (grove.Record, bool) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	block := field(cols.block)
	if block == "" {
		monitoring.Logf("ingest: row %d: missing block id, dropped", line)
		return grove.Record{}, false
	}

	// Summary and footer rows carry non-numeric coordinates and fall out
	// here together with genuinely null ones.
	rowNum, err := strconv.Atoi(field(cols.row))
	if err != nil {
		monitoring.Logf("ingest: row %d: bad row coordinate %q, dropped", line, field(cols.row))
		return grove.Record{}, false
	}
	posNum, err := strconv.Atoi(field(cols.pos))
	if err != nil {
		monitoring.Logf("ingest: row %d: bad position coordinate %q, dropped", line, field(cols.pos))
		return grove.Record{}, false
	}

	rec := grove.Record{
		ID:      field(cols.objectID),
		BlockID: block,
		Coord:   grove.Coord{Row: rowNum, Pos: posNum},
		Note:    field(cols.note),
	}
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("%s-%d-%d", block, rowNum, posNum)
	}

	if raw := field(cols.value); raw != "" {
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			monitoring.Logf("ingest: row %d: bad index value %q, dropped", line, raw)
			return grove.Record{}, false
		}
		rec.Value = &v
	}
	return rec, true
}
