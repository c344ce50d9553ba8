package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/wavesync/internal/formatter"
	"github.com/desertthunder/wavesync/internal/shared"
	"github.com/urfave/cli/v3"
)

// RegistryList prints the session's source records. Records whose timeline
// item the host no longer knows are marked stale.
func (r *Runner) RegistryList(ctx context.Context, cmd *cli.Command) error {
	records := r.session.Registry.All()

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	for i, record := range records {
		marker := " "
		if !r.session.Host.ItemExists(record.ItemRef) {
			marker = "!"
		}
		r.writeLine("%s %3d. %s → %s", marker, i+1, record.Name, record.OriginalFilePath)
	}
	r.writeLine("%d records (! = placement deleted on host)", len(records))
	return nil
}

// RegistryClear empties the session registry.
func (r *Runner) RegistryClear(ctx context.Context, cmd *cli.Command) error {
	count := r.session.Registry.Count()
	r.session.Registry.Clear()
	r.writeLine("cleared %d records", count)
	return nil
}

// RegistryExport writes the registry to a file in the requested format.
func (r *Runner) RegistryExport(ctx context.Context, cmd *cli.Command) error {
	records := r.session.Registry.All()
	format := cmd.String("format")
	output := cmd.String("output")

	var data []byte
	var err error

	switch format {
	case "csv":
		data, err = formatter.RecordsToCSV(records)
	case "markdown", "md":
		data = formatter.RecordsToMarkdown(records)
	case "txt", "text":
		data = formatter.RecordsToText(records)
	default:
		return fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	if output == "" {
		_, err = r.output.Write(data)
		return err
	}

	if err := formatter.SaveToFile(output, data); err != nil {
		return err
	}
	r.writeLine("wrote %d records to %s", len(records), output)
	return nil
}
