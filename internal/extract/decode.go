package extract

// decode.go turns downloaded bytes into raw string rows.
//
// The source format is sniffed from the content itself: XLSX files are
// ZIP containers and start with the "PK" local-file magic, everything
// else is treated as CSV. CSV input is normalized before parsing: a
// UTF-8 byte order mark is stripped and invalid UTF-8 sequences are
// replaced, both common artifacts of Windows exports.

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// DecodeRows parses downloaded content into rows of raw cells. Rows may
// be ragged; the mapper pads short rows when applying bindings.
func DecodeRows(data []byte) ([][]string, error) {
	if bytes.HasPrefix(data, zipMagic) {
		return decodeWorkbook(data)
	}
	return decodeCSV(data)
}

// decodeCSV parses CSV content. FieldsPerRecord is disabled because
// merged-header exports routinely have uneven row lengths.
func decodeCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.ToValidUTF8(data, []byte("�"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return rows, nil
}

// decodeWorkbook reads the first sheet of an XLSX workbook.
func decodeWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading workbook sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
