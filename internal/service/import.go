package service

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for uploads that are not .txt, .csv
	// or .xlsx
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyImport is returned when an upload has no entries
	ErrEmptyImport = errors.New("file contains no words")
)

// ParseImport reads the entries of an uploaded word list: one per line for
// .txt, the first column for .csv and the first column of the first sheet
// for .xlsx. Entries are trimmed and blanks dropped.
func ParseImport(filename string, r io.Reader) ([]string, error) {
	var (
		raw []string
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", "":
		raw, err = parseLines(r)
	case ".csv":
		raw, err = parseCSV(r)
	case ".xlsx":
		raw, err = parseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if err != nil {
		return nil, err
	}

	entries := make([]string, 0, len(raw))
	for i, e := range raw {
		if i == 0 {
			e = strings.TrimPrefix(e, "\ufeff")
		}
		if e = strings.TrimSpace(e); e != "" {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil, ErrEmptyImport
	}
	return entries, nil
}

func parseLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return lines, nil
}

func parseCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	out := make([]string, 0, len(records))
	for _, rec := range records {
		if len(rec) > 0 {
			out = append(out, rec[0])
		}
	}
	return out, nil
}

func parseXLSX(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyImport
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 {
			out = append(out, row[0])
		}
	}
	return out, nil
}
