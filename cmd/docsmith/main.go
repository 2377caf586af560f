package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docsmith-io/docsmith/internal/app"
	"github.com/docsmith-io/docsmith/internal/config"
	"github.com/docsmith-io/docsmith/internal/domain"
	"github.com/docsmith-io/docsmith/internal/manifest"
	"github.com/docsmith-io/docsmith/internal/notify"
	"github.com/docsmith-io/docsmith/internal/utils"
	"github.com/docsmith-io/docsmith/pkg/version"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	// A .env beside the invocation is the CI-friendly way to set
	// DOCSMITH_* variables.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "docsmith",
	Short: "Build a manifest from a documentation corpus",
	Long: `Docsmith walks a directory of Markdown documents, extracts their YAML
frontmatter, and assembles a single manifest.json: one entry per valid
document plus a content digest consumers can poll for changes.

Documents with broken or incomplete frontmatter are skipped with a
diagnostic; they never fail the build.`,
	Version:       version.Short(),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBuild,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.docsmith/config.yaml)")
	rootCmd.PersistentFlags().StringP("root", "r", "", "Content root to scan")
	rootCmd.PersistentFlags().StringP("out", "o", "", "Manifest output path")
	rootCmd.PersistentFlags().IntP("concurrency", "j", 0, "Number of extraction workers")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Glob patterns to exclude, relative to the root")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Build flags, on the root and on the explicit build alias
	addBuildFlags(rootCmd)
	addBuildFlags(buildCmd)

	// Bind flags to viper
	_ = viper.BindPFlag("source.root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("manifest.output", rootCmd.PersistentFlags().Lookup("out"))
	_ = viper.BindPFlag("build.concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))
	_ = viper.BindPFlag("source.exclude", rootCmd.PersistentFlags().Lookup("exclude"))

	// Subcommand flags
	verifyCmd.Flags().String("manifest", "", "Manifest file to verify (default: configured output path)")
	notifyCmd.Flags().String("url", "", "Webhook URL to POST the digest to")
	notifyCmd.Flags().String("manifest", "", "Manifest file to announce (default: configured output path)")
	notifyCmd.Flags().Duration("timeout", 0, "Per-request timeout")
	notifyCmd.Flags().Int("retries", 0, "Retry attempts after the first failure")

	// Add subcommands
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(versionCmd)
}

// addBuildFlags registers the build-only flags. These live on the
// invoked command's own flag set rather than the persistent one, so the
// root command and the build alias each carry their own copy.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "Run the pipeline without writing files")
	cmd.Flags().Bool("stable-order", false, "Sort manifest entries by slug")
	cmd.Flags().Bool("compress", false, "Also write a gzip sidecar next to the manifest")
	cmd.Flags().Bool("emit-schema", false, "Write the manifest JSON schema next to the manifest")
	cmd.Flags().Bool("progress", false, "Render a progress bar during extraction")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// newCLILogger builds the logger shared by the command and the pipeline
func newCLILogger(cfg *config.Config) *utils.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return utils.NewLogger(utils.LoggerOptions{
		Level:   level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})
}

// newSignalContext returns a context cancelled on SIGINT/SIGTERM
func newSignalContext(log *utils.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info().Msg("Shutting down gracefully...")
		cancel()
	}()

	return ctx, cancel
}

func buildOptions(cmd *cobra.Command) domain.BuildOptions {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	stableOrder, _ := cmd.Flags().GetBool("stable-order")
	compress, _ := cmd.Flags().GetBool("compress")
	emitSchema, _ := cmd.Flags().GetBool("emit-schema")
	progress, _ := cmd.Flags().GetBool("progress")

	return domain.BuildOptions{
		Verbose:     verbose,
		DryRun:      dryRun,
		StableOrder: stableOrder,
		Compress:    compress,
		EmitSchema:  emitSchema,
		Progress:    progress,
	}
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the manifest (same as running docsmith with no subcommand)",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
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
		Build:  buildOptions(cmd),
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	_, err = pipeline.Run(ctx)
	return err
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a published manifest against the corpus",
	Long: `Recomputes the content digest from the corpus and compares it against an
existing manifest file. Exits non-zero when the manifest is stale or fails
schema validation.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("manifest") {
		cfg.Manifest.Output, _ = cmd.Flags().GetString("manifest")
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

	result, err := pipeline.Verify(ctx)
	if err != nil {
		return err
	}

	if !result.InSync {
		fmt.Printf("manifest %s: published hash %s, corpus now %s\n",
			cfg.Manifest.Output, result.ManifestHash, result.CurrentHash)
		return fmt.Errorf("%w: rebuild and republish", domain.ErrManifestStale)
	}

	fmt.Printf("manifest %s is in sync (hash %s, generated %s)\n",
		cfg.Manifest.Output, result.ManifestHash, result.GeneratedAt)
	if result.Git != nil {
		fmt.Printf("corpus at commit %s\n", result.Git.Commit)
	}
	return nil
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "POST the manifest digest to a revalidation webhook",
	Long: `Reads a published manifest and POSTs its hash, generation timestamp and
version to a webhook URL, retrying transient failures with exponential
backoff. Meant to run in CI after the manifest is deployed.`,
	Args: cobra.NoArgs,
	RunE: runNotify,
}

func runNotify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("url") {
		cfg.Notify.URL, _ = cmd.Flags().GetString("url")
	}
	if cmd.Flags().Changed("manifest") {
		cfg.Manifest.Output, _ = cmd.Flags().GetString("manifest")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Notify.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("retries") {
		cfg.Notify.MaxRetries, _ = cmd.Flags().GetInt("retries")
	}

	log := newCLILogger(cfg)
	ctx, cancel := newSignalContext(log)
	defer cancel()

	m, err := manifest.NewLoader().Load(utils.ExpandPath(cfg.Manifest.Output))
	if err != nil {
		return err
	}

	notifier := notify.NewNotifier(notify.NotifierOptions{
		URL:        cfg.Notify.URL,
		Timeout:    cfg.Notify.Timeout,
		MaxRetries: cfg.Notify.MaxRetries,
		Logger:     log,
	})

	payload := notify.Payload{
		Hash:        m.Hash,
		GeneratedAt: m.GeneratedAt,
		Version:     m.Version,
	}

	if err := notifier.Send(ctx, payload); err != nil {
		return err
	}

	fmt.Printf("notified %s (hash %s)\n", cfg.Notify.URL, m.Hash)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
