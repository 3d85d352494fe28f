package parser

import (
	"aht-report/errors"
	"aht-report/models"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Kind is a supported tabular upload format.
type Kind string

const (
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
)

var zipMagic = []byte("PK\x03\x04")

// ReadFile loads the whole file into memory and parses it.
func ReadFile(path string) (models.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Table{}, &errors.UnreadableFileError{File: path, Err: err}
	}
	return Parse(path, data)
}

// Parse converts an upload into a table. The format is chosen from the file
// extension, falling back to content sniffing for unknown extensions.
// The first non-blank row is the header row; fully blank rows are skipped.
func Parse(name string, data []byte) (models.Table, error) {
	kind, err := DetectKind(name, data)
	if err != nil {
		return models.Table{}, &errors.UnreadableFileError{File: name, Err: err}
	}

	var table models.Table
	switch kind {
	case KindXLSX:
		table, err = parseXLSX(data)
	default:
		table, err = parseCSV(bytes.NewReader(data))
	}
	if err != nil {
		return models.Table{}, &errors.UnreadableFileError{File: name, Err: err}
	}
	table.Name = name
	return table, nil
}

// DetectKind decides how an upload should be parsed.
func DetectKind(name string, data []byte) (Kind, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", errors.ErrEmptyFile
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return KindXLSX, nil
	case ".csv", ".txt", ".tsv":
		return KindCSV, nil
	case ".xls":
		// Legacy BIFF workbooks need to be re-saved as .xlsx or .csv.
		return "", fmt.Errorf("%w: .xls", errors.ErrUnsupportedType)
	}
	if bytes.HasPrefix(data, zipMagic) {
		return KindXLSX, nil
	}
	if utf8.Valid(data) {
		return KindCSV, nil
	}
	return "", errors.ErrUnsupportedType
}

func parseCSV(r io.Reader) (models.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var table models.Table
	lineNum := 0

	for {
		record, err := reader.Read()
		lineNum++
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Table{}, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    err,
			}
		}
		if blank(record) {
			continue
		}
		if table.Headers == nil {
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
			table.Headers = record
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	if table.Headers == nil {
		return models.Table{}, errors.ErrEmptyFile
	}
	return table, nil
}

func parseXLSX(data []byte) (models.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return models.Table{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return models.Table{}, errors.ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return models.Table{}, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	var table models.Table
	for _, row := range rows {
		if blank(row) {
			continue
		}
		if table.Headers == nil {
			table.Headers = row
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	if table.Headers == nil {
		return models.Table{}, errors.ErrEmptyFile
	}
	return table, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
