package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ============================================================================
// CSV HELPER — Turns raw CSV bytes into named string columns
// ============================================================================
// Consumer reads the bytes from wherever they live (file, upload, S3).
// This helper only decodes text and splits it into columns; typing the
// values is the dataset package's job.
// ============================================================================

// Encoding names reported by Decode.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-bom"
	EncodingUTF16LE = "utf-16le"
	EncodingUTF16BE = "utf-16be"
	EncodingLatin1  = "latin-1"
)

// ErrNoHeader is returned for input without a header row.
var ErrNoHeader = errors.New("csv has no header row")

// Decode converts CSV bytes to NFC-normalised UTF-8 and names the encoding
// it found. A BOM selects UTF-8 or UTF-16; BOM-less input that is not valid
// UTF-8 is read as Latin-1.
func Decode(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return data, EncodingUTF8, nil
	}

	name := EncodingUTF8
	var decoder transform.Transformer
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		name = EncodingUTF8BOM
		decoder = unicode.UTF8BOM.NewDecoder()
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		name = EncodingUTF16LE
		decoder = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		name = EncodingUTF16BE
		decoder = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case utf8.Valid(data):
		return norm.NFC.Bytes(data), name, nil
	default:
		name = EncodingLatin1
		decoder = charmap.ISO8859_1.NewDecoder()
	}

	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", name, err)
	}
	return norm.NFC.Bytes(out), name, nil
}

// Table is a CSV split into named string columns.
type Table struct {
	Headers  []string            // trimmed, in file order
	Columns  map[string][]string // header → cell values, row order
	Rows     int
	Encoding string
}

// Has reports whether the table carries the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.Columns[name]
	return ok
}

// Cell returns the trimmed value at row i of the named column.
func (t *Table) Cell(name string, i int) string {
	return strings.TrimSpace(t.Raw(name, i))
}

// Raw returns the value at row i of the named column exactly as read.
func (t *Table) Raw(name string, i int) string {
	col := t.Columns[name]
	if i < 0 || i >= len(col) {
		return ""
	}
	return col[i]
}

// ReadTable decodes CSV bytes and loads them column-wise through a gota
// DataFrame. Every value stays a string; nothing is treated as NA at this
// level. Rows whose field count differs from the header are an error.
func ReadTable(data []byte) (*Table, error) {
	text, enc, err := Decode(data)
	if err != nil {
		return nil, err
	}

	headers, hasRows, err := readHeader(text)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Headers:  headers,
		Columns:  make(map[string][]string, len(headers)),
		Encoding: enc,
	}
	if !hasRows {
		for _, h := range headers {
			table.Columns[h] = []string{}
		}
		return table, nil
	}

	df := dataframe.ReadCSV(bytes.NewReader(text), frameOptions()...)
	if df.Err != nil {
		return nil, fmt.Errorf("parse csv: %w", df.Err)
	}
	names := df.Names()
	if len(names) != len(headers) {
		return nil, fmt.Errorf("parse csv: %d columns loaded, header has %d", len(names), len(headers))
	}
	// Columns are matched by position; the frame keeps untrimmed names.
	for i, h := range headers {
		table.Columns[h] = df.Col(names[i]).Records()
	}
	table.Rows = df.Nrow()
	return table, nil
}

// readHeader validates the header record and reports whether any data row
// follows it.
func readHeader(text []byte) ([]string, bool, error) {
	reader := csv.NewReader(bytes.NewReader(text))
	record, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, ErrNoHeader
	}
	if err != nil {
		return nil, false, fmt.Errorf("parse csv: %w", err)
	}

	headers := make([]string, len(record))
	seen := make(map[string]bool, len(headers))
	for i, h := range record {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, false, fmt.Errorf("parse csv: column %d has an empty header", i+1)
		}
		if seen[h] {
			return nil, false, fmt.Errorf("parse csv: duplicate column %q", h)
		}
		seen[h] = true
		headers[i] = h
	}

	if _, err := reader.Read(); errors.Is(err, io.EOF) {
		return headers, false, nil
	}
	return headers, true, nil
}

func frameOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	}
}
