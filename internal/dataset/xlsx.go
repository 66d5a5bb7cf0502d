package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// ReadWorkbook extracts the first sheet of an xlsx workbook as a header row
// plus string records. Values are returned as the raw cell strings; type
// inference happens later in InferColumns.
func ReadWorkbook(p string) ([]string, [][]string, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, nil, fmt.Errorf("read workbook: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook (xlsx container): %w", err)
	}

	sheetPath := firstSheetPath(
		zipEntry(zr, "xl/workbook.xml"),
		zipEntry(zr, "xl/_rels/workbook.xml.rels"),
	)
	sheetXML := zipEntry(zr, sheetPath)
	if len(sheetXML) == 0 {
		return nil, nil, fmt.Errorf("workbook has no readable sheet")
	}
	shared := sharedStrings(zipEntry(zr, "xl/sharedStrings.xml"))

	rr := &rowReader{dec: xml.NewDecoder(bytes.NewReader(sheetXML)), shared: shared}
	header, ok := rr.next()
	if !ok || len(header) == 0 {
		return nil, nil, nil
	}
	var rows [][]string
	for {
		rec, ok := rr.next()
		if !ok {
			break
		}
		if len(rec) < len(header) {
			tmp := make([]string, len(header))
			copy(tmp, rec)
			rec = tmp
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

// firstSheetPath resolves the workbook's first sheet entry to its ZIP path,
// falling back to the conventional sheet1.xml location.
func firstSheetPath(workbookXML, relsXML []byte) string {
	rid := ""
	dec := xml.NewDecoder(bytes.NewReader(workbookXML))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "sheet" {
			for _, a := range se.Attr {
				if a.Name.Local == "id" {
					rid = a.Value
				}
			}
			break // first sheet only
		}
	}
	if rid != "" {
		dec = xml.NewDecoder(bytes.NewReader(relsXML))
		for {
			tok, err := dec.Token()
			if err != nil {
				break
			}
			se, ok := tok.(xml.StartElement)
			if !ok || se.Name.Local != "Relationship" {
				continue
			}
			var id, target string
			for _, a := range se.Attr {
				switch a.Name.Local {
				case "Id":
					id = a.Value
				case "Target":
					target = a.Value
				}
			}
			if id == rid && target != "" {
				target = strings.TrimPrefix(target, "/")
				if !strings.HasPrefix(target, "xl/") {
					target = path.Join("xl", target)
				}
				return target
			}
		}
	}
	return "xl/worksheets/sheet1.xml"
}

func zipEntry(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			defer rc.Close()
			b, _ := io.ReadAll(rc)
			return b
		}
	}
	return nil
}

func sharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	inT := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "si" {
				buf.Reset()
			}
			if se.Name.Local == "t" {
				inT = true
			}
		case xml.EndElement:
			if se.Name.Local == "t" {
				inT = false
			}
			if se.Name.Local == "si" {
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inT {
				buf.Write([]byte(se))
			}
		}
	}
	return out
}

type rowReader struct {
	dec    *xml.Decoder
	shared []string
	cur    []string
	width  int
}

func (r *rowReader) next() ([]string, bool) {
	inRow := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				inRow = true
				r.cur = nil
				r.width = 0
			}
			if inRow && se.Name.Local == "c" {
				var ref, typ string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				col := columnIndex(ref)
				if col < 0 {
					// some writers emit positional cells without an r
					// reference; they follow the previous cell
					col = r.width
				}
				if col+1 > r.width {
					r.width = col + 1
				}
				val := r.cellValue(typ)
				if len(r.cur) <= col {
					tmp := make([]string, col+1)
					copy(tmp, r.cur)
					r.cur = tmp
				}
				r.cur[col] = val
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				if len(r.cur) < r.width {
					tmp := make([]string, r.width)
					copy(tmp, r.cur)
					r.cur = tmp
				}
				return r.cur, true
			}
		}
	}
}

// cellValue consumes tokens until </c>, capturing <v> or inline <is><t> text.
// Shared-string cells (t="s") are resolved through the shared table.
func (r *rowReader) cellValue(typ string) string {
	var val string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var sb strings.Builder
				for {
					tk, er := r.dec.Token()
					if er != nil {
						break
					}
					if ed, ok := tk.(xml.EndElement); ok && (ed.Name.Local == "v" || ed.Name.Local == "t") {
						break
					}
					if ch, ok := tk.(xml.CharData); ok {
						sb.Write([]byte(ch))
					}
				}
				val = sb.String()
			}
		case xml.EndElement:
			if se.Name.Local == "c" {
				if typ == "s" {
					idx := 0
					for i := 0; i < len(val); i++ {
						c := val[i]
						if c < '0' || c > '9' {
							break
						}
						idx = idx*10 + int(c-'0')
					}
					if idx >= 0 && idx < len(r.shared) {
						return r.shared[idx]
					}
					return ""
				}
				return val
			}
		}
	}
}

// columnIndex converts a cell ref like "C12" to a 0-based column index.
func columnIndex(ref string) int {
	i := 0
	for i < len(ref) {
		c := ref[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			i++
			continue
		}
		break
	}
	s := strings.ToUpper(ref[:i])
	idx := 0
	for j := 0; j < len(s); j++ {
		idx = idx*26 + int(s[j]-'A'+1)
	}
	return idx - 1
}
