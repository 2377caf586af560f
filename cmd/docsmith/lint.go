package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/docsmith-io/docsmith/internal/app"
	"github.com/docsmith-io/docsmith/internal/config"
	"github.com/docsmith-io/docsmith/internal/domain"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate corpus frontmatter without writing a manifest",
	Long: `Runs the locate, extract and validate stages and reports every document
the build would skip, plus a per-category count of the documents that
would make it into the manifest. Nothing is written. Exits non-zero when
any document fails validation, which makes it usable as a CI gate.`,
	Args: cobra.NoArgs,
	RunE: runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := newCLILogger(cfg)
	ctx, cancel := newSignalContext(log)
	defer cancel()

	pipeline, err := app.NewPipeline(app.PipelineOptions{
		Config: cfg,
		Logger: log,
		Build:  domain.BuildOptions{Verbose: verbose},
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	result, err := pipeline.Lint(ctx)
	if err != nil {
		return err
	}

	printLintReport(result)

	if len(result.Skipped) > 0 {
		return fmt.Errorf("%d of %d document(s) failed validation",
			len(result.Skipped), result.Candidates)
	}
	return nil
}

func printLintReport(result *app.Result) {
	if len(result.Skipped) > 0 {
		rows := make([][]string, 0, len(result.Skipped))
		for _, skipped := range result.Skipped {
			rows = append(rows, []string{skipped.Path, skipped.Reason})
		}
		fmt.Println(renderTable([]string{"PATH", "PROBLEM"}, rows, nil))
	}

	if rows := categoryRows(result.Manifest.Docs); len(rows) > 0 {
		fmt.Println(renderTable(
			[]string{"CATEGORY", "DOCS"},
			rows,
			[]columnAlignment{alignLeft, alignRight},
		))
	}

	fmt.Printf("%d of %d document(s) valid\n", result.Valid(), result.Candidates)
}

func categoryRows(docs []domain.DocEntry) [][]string {
	counts := make(map[string]int)
	for _, doc := range docs {
		counts[doc.Category]++
	}

	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	rows := make([][]string, 0, len(categories))
	for _, category := range categories {
		rows = append(rows, []string{category, strconv.Itoa(counts[category])})
	}
	return rows
}
