// Package main is the entry point for the wikiquery CLI, a terminal client
// for the search pipeline that talks to the remote services directly.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"wikisearch/internal/di"
	"wikisearch/internal/domain"
	"wikisearch/internal/infra/config"
	"wikisearch/internal/infra/logger"
	"wikisearch/internal/usecase"
)

var (
	langFlag        string
	modeFlag        string
	topNFlag        int
	temperatureFlag float64
	genModelFlag    string
	rankModelFlag   string
	jsonFlag        bool
)

var rootCmd = &cobra.Command{
	Use:   "wikiquery",
	Short: "Query the multilingual Wikipedia search pipeline",
	Long: `wikiquery runs keyword, dense, or hybrid searches against the remote
Wikipedia paragraph index and can generate grounded answers from the results.

Example usage:
  wikiquery search "highest mountain"           # retrieve passages
  wikiquery search --mode dense --lang de "Berg" # dense search in German
  wikiquery ask "What is the highest mountain?"  # full answer pipeline
  wikiquery languages                            # list corpus languages`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Retrieve passages for a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		components, cfg, err := buildComponents()
		if err != nil {
			return err
		}

		mode, err := domain.ParseSearchMode(modeFlag)
		if err != nil {
			return err
		}
		topN := cfg.MaxResults
		if cmd.Flags().Changed("top-n") {
			topN = topNFlag
		}
		input := usecase.RetrievePassagesInput{
			Query: args[0],
			Lang:  resolveLang(cfg),
			Mode:  mode,
			TopN:  topN,
		}

		ctx, cancel := commandContext(cfg)
		defer cancel()

		docs, err := components.RetrieveUsecase.Execute(ctx, input)
		if err != nil {
			return err
		}

		if jsonFlag {
			return printJSON(docs)
		}
		for i, doc := range docs {
			fmt.Printf("%d. %s (%s)\n   %s\n", i+1, doc.Title, doc.URL, doc.Text)
		}
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Generate a grounded answer for a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		components, cfg, err := buildComponents()
		if err != nil {
			return err
		}

		input := usecase.AskInput{
			Query:     args[0],
			Lang:      langFlag,
			GenModel:  genModelFlag,
			RankModel: rankModelFlag,
		}
		if cmd.Flags().Changed("top-n") {
			input.TopN = &topNFlag
		}
		if cmd.Flags().Changed("temperature") {
			input.Temperature = &temperatureFlag
		}
		if modeFlag != "" {
			mode, err := domain.ParseSearchMode(modeFlag)
			if err != nil {
				return err
			}
			input.Mode = mode
		}

		ctx, cancel := commandContext(cfg)
		defer cancel()

		out, err := components.AnswerUsecase.Ask(ctx, input)
		if err != nil {
			return err
		}

		if jsonFlag {
			return printJSON(out)
		}
		fmt.Println(out.Answer)
		if len(out.Ranked) > 0 {
			fmt.Println("\nSources:")
			for _, r := range out.Ranked {
				fmt.Printf("  %.3f  %s (%s)\n", r.RelevanceScore, r.Document.Title, r.Document.URL)
			}
		}
		return nil
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the corpus languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonFlag {
			return printJSON(domain.Languages)
		}
		names := make([]string, 0, len(domain.Languages))
		for name := range domain.Languages {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%-8s  %s\n", domain.Languages[name], name)
		}
		return nil
	},
}

func buildComponents() (*di.ApplicationComponents, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return di.NewApplicationComponents(cfg, nil, logger.New()), cfg, nil
}

func resolveLang(cfg *config.Config) string {
	if langFlag != "" {
		return langFlag
	}
	return cfg.DefaultLang
}

func commandContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.CohereTimeout+cfg.WeaviateTimeout) * time.Second
	return context.WithTimeout(context.Background(), timeout)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "corpus language code (default from config)")
	rootCmd.PersistentFlags().IntVar(&topNFlag, "top-n", 0, "number of results (default from config)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "emit JSON instead of text")

	searchCmd.Flags().StringVar(&modeFlag, "mode", "hybrid", "search mode: keyword, dense, or hybrid")

	askCmd.Flags().StringVar(&modeFlag, "mode", "", "search mode: keyword, dense, or hybrid")
	askCmd.Flags().Float64Var(&temperatureFlag, "temperature", 0, "generation temperature (default from config)")
	askCmd.Flags().StringVar(&genModelFlag, "gen-model", "", "generation model override")
	askCmd.Flags().StringVar(&rankModelFlag, "rank-model", "", "rerank model override")

	rootCmd.AddCommand(searchCmd, askCmd, languagesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
