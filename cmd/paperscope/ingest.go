package main

import (
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/matsen/paperscope/internal/pipeline"
)

func init() {
	rootCmd.AddCommand(ingestCmd)
}

// IngestResponse is the response for the ingest command.
type IngestResponse struct {
	Topic       string   `json:"topic"`
	UpsertedIDs []string `json:"upserted_ids"`
	Total       int      `json:"total"`
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <topic>",
	Short: "Fetch papers for a topic and index them",
	Long: `Fetch recent papers for a topic from the arXiv feed, embed their
abstracts, and upsert them into the local index and metadata store.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	topic := args[0]

	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	var bar *progressbar.ProgressBar
	progress := pipeline.ProgressFunc(func(current, total int) {
		if !humanOutput {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("embedding"),
				progressbar.OptionShowCount(),
			)
		}
		bar.Set(current)
	})

	app, err := buildApp(cfg, pipeline.WithProgress(progress))
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer app.Close()

	ids, err := app.ingestor.Ingest(cmd.Context(), topic)
	if bar != nil {
		bar.Finish()
		outputHuman("\n")
	}
	if err != nil {
		exitIngestError(err)
	}

	if humanOutput {
		outputHuman("upserted %d papers for %q\n", len(ids), topic)
		for _, id := range ids {
			outputHuman("  %s\n", id)
		}
		return nil
	}
	return outputJSON(IngestResponse{Topic: topic, UpsertedIDs: ids, Total: len(ids)})
}

// exitIngestError maps pipeline errors onto exit codes.
func exitIngestError(err error) {
	switch {
	case pipeline.IsUserError(err):
		exitWithError(ExitNoResults, "%v", err)
	default:
		if pipeline.FailedStage(err) != "" {
			exitWithError(ExitUpstream, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}
}
