// package formatter provides functions to export registry contents and task
// reports to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/wavesync/internal/registry"
)

// RecordsToCSV converts registry records to CSV with columns: ID, Name, MiddlewarePath, OriginalFilePath, LocalFilePath, ItemRef
func RecordsToCSV(records []registry.SourceRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "MiddlewarePath", "OriginalFilePath", "LocalFilePath", "ItemRef"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.ID,
			record.Name,
			record.MiddlewarePath,
			record.OriginalFilePath,
			record.LocalFilePath,
			string(record.ItemRef),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RecordsToMarkdown converts registry records to a Markdown table.
func RecordsToMarkdown(records []registry.SourceRecord) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Imported Sources\n\n")
	buf.WriteString(fmt.Sprintf("%d records\n\n", len(records)))
	buf.WriteString("| Name | Middleware Path | Original File |\n")
	buf.WriteString("| --- | --- | --- |\n")

	for _, record := range records {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s |\n", record.Name, record.MiddlewarePath, record.OriginalFilePath))
	}

	return buf.Bytes()
}

// RecordsToText converts registry records to an aligned plain-text listing.
func RecordsToText(records []registry.SourceRecord) []byte {
	var buf bytes.Buffer

	for i, record := range records {
		buf.WriteString(fmt.Sprintf("%3d. %s\n", i+1, record.Name))
		buf.WriteString(fmt.Sprintf("     middleware: %s\n", record.MiddlewarePath))
		buf.WriteString(fmt.Sprintf("     original:   %s\n", record.OriginalFilePath))
		buf.WriteString(fmt.Sprintf("     staged:     %s\n", record.LocalFilePath))
	}

	buf.WriteString(fmt.Sprintf("\n%d imported sources\n", len(records)))
	return buf.Bytes()
}

// SaveToFile writes data to path, creating parent directories as needed.
func SaveToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
