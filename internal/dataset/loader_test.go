package dataset

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUnsupportedFormat(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"data.pdf", "data"} {
		_, err := Load(ctx, filepath.Join(t.TempDir(), name), Options{})
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Load(%s) = %v, want ErrUnsupportedFormat", name, err)
		}
	}
}

func TestLoadXlsNotAWorkbook(t *testing.T) {
	// A legacy binary .xls is recognized by extension but is not a ZIP
	// container, so it must fail as a parse error, not as unsupported.
	path := filepath.Join(t.TempDir(), "legacy.xls")
	if err := os.WriteFile(path, []byte{0xD0, 0xCF, 0x11, 0xE0}, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	_, err := Load(context.Background(), path, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got ErrUnsupportedFormat, want a parse error: %v", err)
	}
}

func writeTestWorkbook(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"xl/workbook.xml": `<?xml version="1.0"?>
<workbook xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets><sheet name="Data" sheetId="1" r:id="rId1"/></sheets>
</workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0"?>
<Relationships><Relationship Id="rId1" Target="worksheets/sheet1.xml"/></Relationships>`,
		"xl/sharedStrings.xml": `<?xml version="1.0"?>
<sst><si><t>product</t></si><si><t>sales</t></si><si><t>Widget</t></si><si><t>Gadget</t></si></sst>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet><sheetData>
  <row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>
  <row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2"><v>100</v></c></row>
  <row r="3"><c r="A3" t="s"><v>3</v></c><c r="B3"><v>250.5</v></c></row>
</sheetData></worksheet>`,
	}
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return path
}

func TestLoadXlsxWorkbook(t *testing.T) {
	ds, err := Load(context.Background(), writeTestWorkbook(t), Options{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if ds.Name != "book.xlsx" {
		t.Errorf("name = %q", ds.Name)
	}
	if ds.NumRows() != 2 || ds.NumCols() != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", ds.NumRows(), ds.NumCols())
	}
	if ds.Columns[0].Name != "product" || ds.Columns[0].Kind != KindText {
		t.Errorf("column 0 = %+v", ds.Columns[0])
	}
	if ds.Columns[1].Name != "sales" || ds.Columns[1].Kind != KindNumeric {
		t.Errorf("column 1 = %+v", ds.Columns[1])
	}
	if got, ok := ds.Rows[1][1].(float64); !ok || got != 250.5 {
		t.Errorf("cell = %v (%T), want 250.5", ds.Rows[1][1], ds.Rows[1][1])
	}
}

func TestReadWorkbookSparseRow(t *testing.T) {
	// Rows with missing cells pad to header width.
	header, rows, err := ReadWorkbook(writeTestWorkbook(t))
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}
	if len(header) != 2 {
		t.Fatalf("header = %v", header)
	}
	for i, rec := range rows {
		if len(rec) != len(header) {
			t.Errorf("row %d width = %d, want %d", i, len(rec), len(header))
		}
	}
}

func TestReadWorkbookRefLessCells(t *testing.T) {
	// Cells without an r reference attribute are positional: each one
	// follows the previous cell in the row.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"xl/workbook.xml":            `<workbook><sheets><sheet name="Data" sheetId="1"/></sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<Relationships/>`,
		"xl/worksheets/sheet1.xml": `<worksheet><sheetData>
  <row><c t="inlineStr"><is><t>name</t></is></c><c t="inlineStr"><is><t>n</t></is></c></row>
  <row><c t="inlineStr"><is><t>a</t></is></c><c><v>1</v></c></row>
  <row><c t="inlineStr"><is><t>b</t></is></c><c><v>2</v></c></row>
</sheetData></worksheet>`,
	}
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	path := filepath.Join(t.TempDir(), "positional.xlsx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	header, rows, err := ReadWorkbook(path)
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}
	if len(header) != 2 || header[0] != "name" || header[1] != "n" {
		t.Fatalf("header = %v", header)
	}
	if len(rows) != 2 || rows[0][0] != "a" || rows[0][1] != "1" || rows[1][1] != "2" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestColumnIndex(t *testing.T) {
	cases := map[string]int{"A1": 0, "B2": 1, "Z9": 25, "AA10": 26, "AB1": 27}
	for ref, want := range cases {
		if got := columnIndex(ref); got != want {
			t.Errorf("columnIndex(%s) = %d, want %d", ref, got, want)
		}
	}
}
