package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verdant-data/canopy.report/internal/grove"
)

func TestReadSurveyCommaDelimited(t *testing.T) {
	csvData := `Blok,N_BARIS,N_POKOK,NDRE125,KET,ObjectID
A12,1,1,0.34,Pokok Utama,OBJ-1
A12,1,2,0.31,,OBJ-2
A13,2,1,0.28,Sisip,
`
	records, stats, err := ReadSurvey(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadSurvey: %v", err)
	}
	if stats.Loaded != 3 || stats.Dropped != 0 {
		t.Errorf("stats = %+v, want 3 loaded, 0 dropped", stats)
	}

	first := records[0]
	if first.ID != "OBJ-1" || first.BlockID != "A12" {
		t.Errorf("first record = %+v", first)
	}
	if first.Coord != (grove.Coord{Row: 1, Pos: 1}) {
		t.Errorf("first coord = %+v", first.Coord)
	}
	if first.Value == nil || *first.Value != 0.34 {
		t.Errorf("first value = %v, want 0.34", first.Value)
	}
	if first.Note != "Pokok Utama" {
		t.Errorf("first note = %q", first.Note)
	}

	// Rows without an object id get a synthetic one from block and
	// coordinates.
	if records[2].ID != "A13-2-1" {
		t.Errorf("synthetic id = %q, want A13-2-1", records[2].ID)
	}
}

func TestReadSurveySemicolonAndCommaDecimals(t *testing.T) {
	csvData := "BLOK;N_Baris;N_Pokok;NDRE125\nA12;3;7;0,42\n"
	records, _, err := ReadSurvey(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadSurvey: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Value == nil || *records[0].Value != 0.42 {
		t.Errorf("value = %v, want 0.42 from comma decimal", records[0].Value)
	}
}

func TestReadSurveyDropsUnplaceableRows(t *testing.T) {
	csvData := `blok,n_baris,n_pokok,ndre125,ket
A12,1,1,0.34,
A12,,2,0.31,null row coordinate
A12,2,x,0.31,garbage position
,3,3,0.31,missing block
TOTAL,,,812.4,summary footer
A12,4,4,abc,non-numeric index
`
	records, stats, err := ReadSurvey(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadSurvey: %v", err)
	}
	if stats.Loaded != 1 || stats.Dropped != 5 {
		t.Errorf("stats = %+v, want 1 loaded, 5 dropped", stats)
	}
	if len(records) != 1 || records[0].ID != "A12-1-1" {
		t.Errorf("records = %+v", records)
	}
}

func TestReadSurveyKeepsBlankIndexAsNilValue(t *testing.T) {
	csvData := "blok,n_baris,n_pokok,ndre125\nA12,1,1,\n"
	records, _, err := ReadSurvey(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadSurvey: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Value != nil {
		t.Errorf("value = %v, want nil so segmentation grades the position vacant", records[0].Value)
	}
}

func TestReadSurveyMissingRequiredColumns(t *testing.T) {
	csvData := "blok,n_baris,ndre125\nA12,1,0.34\n"
	_, _, err := ReadSurvey(strings.NewReader(csvData))
	if err == nil {
		t.Fatal("expected missing-column error")
	}
	if !strings.Contains(err.Error(), "n_pokok") {
		t.Errorf("error %q does not name the missing column", err)
	}
}

func TestReadSurveyEmptyInput(t *testing.T) {
	if _, _, err := ReadSurvey(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestLoadSurvey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.csv")
	csvData := "blok,n_baris,n_pokok,ndre125\nA12,1,1,0.34\n"
	if err := os.WriteFile(path, []byte(csvData), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, stats, err := LoadSurvey(path)
	if err != nil {
		t.Fatalf("LoadSurvey: %v", err)
	}
	if stats.Loaded != 1 || len(records) != 1 {
		t.Errorf("loaded %d records, want 1", len(records))
	}

	if _, _, err := LoadSurvey(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
