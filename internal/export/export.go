// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes fetched metadata records to the two tabular
// output formats, CSV and XLSX, with an identical five-column schema.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/pubmed-export/pkg/types"
)

// Deterministic output file names, written to the input file's directory.
const (
	CSVName  = "institution_publications_metadata.csv"
	XLSXName = "institution_publications_metadata.xlsx"
)

// columns is the fixed header row. Order is significant and must match
// across both formats.
var columns = []string{"PubMed_ID", "Title", "Authors", "Journal", "Year"}

func row(r types.MetadataRecord) []string {
	return []string{r.PMID, r.Title, r.Authors, r.Journal, r.Year}
}

// WriteCSV writes records to path as CSV. The file is written to a
// temporary name in the destination directory and renamed into place on
// success.
func WriteCSV(path string, records []types.MetadataRecord) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	w := csv.NewWriter(tmpFile)
	writeErr := w.Write(columns)
	for _, rec := range records {
		if writeErr != nil {
			break
		}
		writeErr = w.Write(row(rec))
	}
	w.Flush()
	if writeErr == nil {
		writeErr = w.Error()
	}

	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing CSV: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// WriteXLSX writes records to path as an XLSX workbook with a single
// sheet, using the same columns and row order as the CSV output.
func WriteXLSX(path string, records []types.MetadataRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	for i, rec := range records {
		cells := make([]interface{}, 0, len(columns))
		for _, v := range row(rec) {
			cells = append(cells, v)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	// SaveAs infers the workbook format from the file extension, so the
	// temporary name must end in .xlsx.
	tmpPath := filepath.Join(filepath.Dir(path), ".export-tmp.xlsx")
	if err := f.SaveAs(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing XLSX: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
