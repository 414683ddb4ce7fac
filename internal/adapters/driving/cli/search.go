package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the product catalog",
	Long: `Fetches the store catalog and ranks products against the query by
TF-IDF relevance over titles and tags. Only matching products are shown.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		if err := initServices(false); err != nil {
			return err
		}
	}
	if searchService == nil {
		return errors.New("search service not configured")
	}
	if err := ensureCatalog(cmd.Context()); err != nil {
		return err
	}

	results, err := searchService.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RankedProduct) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.RankedProduct) error {
	if len(results) == 0 {
		cmd.Println("No matching products.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		product := results[i].Product
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, product.Title, results[i].Score)
		cmd.Printf("      Handle: %s\n", product.Handle)
		if len(product.Tags) > 0 {
			cmd.Printf("      Tags: %s\n", strings.Join(product.Tags, ", "))
		}
		cmd.Println()
	}

	return nil
}
