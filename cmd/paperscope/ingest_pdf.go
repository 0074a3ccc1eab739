package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/paperscope/internal/paper"
	"github.com/matsen/paperscope/internal/pdfext"
)

func init() {
	rootCmd.AddCommand(ingestPDFCmd)
}

// IngestPDFResponse is the response for the ingest-pdf command.
type IngestPDFResponse struct {
	UpsertedIDs []string `json:"upserted_ids"`
	Skipped     []string `json:"skipped,omitempty"`
	Total       int      `json:"total"`
}

var ingestPDFCmd = &cobra.Command{
	Use:   "ingest-pdf <file>...",
	Short: "Index local PDF files",
	Long: `Extract the identifier, title, and abstract from local PDF files and
upsert them into the index and metadata store. Files that yield no usable
abstract are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngestPDF,
}

func runIngestPDF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	var papers []paper.Paper
	var skipped []string
	for _, path := range args {
		p, err := pdfext.ExtractPaper(path)
		if err != nil || p.Abstract == "" {
			if humanOutput {
				outputHuman("skipping %s\n", path)
			}
			skipped = append(skipped, path)
			continue
		}
		papers = append(papers, p)
	}
	if len(papers) == 0 {
		exitWithError(ExitNoResults, "no usable papers in %d file(s)", len(args))
	}

	app, err := buildApp(cfg)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer app.Close()

	ids, err := app.ingestor.IngestPapers(cmd.Context(), papers)
	if err != nil {
		exitIngestError(err)
	}

	if humanOutput {
		outputHuman("upserted %d papers (%d skipped)\n", len(ids), len(skipped))
		for _, id := range ids {
			outputHuman("  %s\n", id)
		}
		return nil
	}
	return outputJSON(IngestPDFResponse{UpsertedIDs: ids, Skipped: skipped, Total: len(ids)})
}
