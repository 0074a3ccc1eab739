package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/paperscope/internal/paper"
	"github.com/matsen/paperscope/internal/pipeline"
	"github.com/matsen/paperscope/internal/server"
)

var searchK int

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchK, "k", "k", server.DefaultK, "Number of results (1-10)")
}

// SearchResponse is the response for the search command.
type SearchResponse struct {
	Query   string               `json:"query"`
	Results []paper.SearchResult `json:"results"`
	Total   int                  `json:"total"`
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed papers by meaning",
	Long: `Embed the query and return the k nearest papers from the local index,
with metadata where available.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	app, err := buildApp(cfg)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer app.Close()

	results, err := app.searcher.Search(cmd.Context(), query, searchK)
	if err != nil {
		switch {
		case pipeline.IsUserError(err):
			exitWithError(ExitError, "%v", err)
		case pipeline.FailedStage(err) != "":
			exitWithError(ExitUpstream, "%v", err)
		default:
			exitWithError(ExitError, "%v", err)
		}
	}

	if humanOutput {
		if len(results) == 0 {
			outputHuman("no results\n")
			return nil
		}
		for i, r := range results {
			title := "(metadata unavailable)"
			if r.Paper != nil {
				title = truncateString(r.Paper.Title, 70)
			}
			outputHuman("%d. [%.3f] %s\n   %s\n", i+1, r.Score, r.ID, title)
		}
		return nil
	}
	return outputJSON(SearchResponse{Query: query, Results: results, Total: len(results)})
}
