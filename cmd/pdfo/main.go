package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"pdfo/internal/compressor"
	"pdfo/internal/config"
	"pdfo/internal/logger"
	"pdfo/internal/metadata"
	"pdfo/internal/statistics"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime string
)

// newInspector builds the reader behind the inspect command.
var newInspector = func(log *logrus.Logger, binary string) metadata.Inspector {
	return metadata.NewExiftoolInspector(log, binary)
}

// options holds the flag values of one command invocation.
type options struct {
	cfgFile string
	verbose bool
	quiet   bool
	output  string
	quality int
	force   bool
	noGS    bool
}

// newRootCmd builds the compress command and its subcommands.
func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "pdfo <input.pdf>",
		Short: "Compress PDF files to reduce file size",
		Long: `pdfo compresses PDF files with Ghostscript when it is installed and
falls back to pdfcpu otherwise.

Examples:
  pdfo document.pdf                    # creates document_compressed.pdf
  pdfo doc.pdf -o small.pdf            # explicit output file
  pdfo large.pdf -q 3                  # low quality, smallest size
  pdfo doc.pdf -q 1                    # high quality
  pdfo scan.pdf -f                     # overwrite existing output
  pdfo doc.pdf --no-gs                 # use pdfcpu even if gs is installed

Quality levels (Ghostscript):
  1 = High quality   (printer preset) - best for printing
  2 = Medium quality (ebook preset)   - default, good balance
  3 = Low quality    (screen preset)  - smallest size, screen only
  4 = Lowest quality (screen preset)  - maximum compression

The pdfcpu fallback ignores the quality level and clears the document
title, author and other information fields.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runCompress(cmd, opts, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&opts.quiet, "quiet", false, "suppress non-error output")

	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>_compressed.pdf)")
	rootCmd.Flags().IntVarP(&opts.quality, "quality", "q", compressor.DefaultQuality, "quality: 1=high 2=medium 3/4=low")
	rootCmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite output file if it exists")
	rootCmd.Flags().BoolVar(&opts.noGS, "no-gs", false, "don't use Ghostscript (use pdfcpu instead)")

	if buildTime != "" {
		rootCmd.SetVersionTemplate(fmt.Sprintf("pdfo {{.Version}} (built %s)\n", buildTime))
	}

	rootCmd.AddCommand(newInspectCmd(opts))
	return rootCmd
}

// newInspectCmd shows the document information of a PDF.
func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.pdf>",
		Short: "Show PDF document information",
		Long: `Reads the document information (title, author, producer, page count)
of a PDF with exiftool. Useful to check what a compression run kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, args[0])
		},
	}
}

// runCompress executes one compression request.
func runCompress(cmd *cobra.Command, opts *options, input string) error {
	cfg, err := config.LoadConfig(opts.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := setupLogger(cfg, opts, cmd.ErrOrStderr())

	quality := cfg.Compression.Quality
	if cmd.Flags().Changed("quality") {
		quality = opts.quality
	}

	req := compressor.Request{
		InputPath:       input,
		OutputPath:      opts.output,
		Quality:         quality,
		Force:           opts.force,
		DisableExternal: opts.noGS || cfg.Compression.DisableGhostscript,
	}

	dispatcher := compressor.NewDispatcher(log, compressor.Options{
		GhostscriptBinary: cfg.Compression.GhostscriptBinary,
		OutputSuffix:      cfg.Compression.Suffix,
	})

	req, err = dispatcher.Prepare(req)
	if err != nil {
		return err
	}
	backend := dispatcher.Select(req)

	info, err := os.Stat(req.InputPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	report := statistics.NewReport(req, backend, info.Size())
	if !opts.quiet {
		fmt.Fprintln(out, report.GetHeader())
	}

	res, err := dispatcher.Execute(cmd.Context(), req, backend)
	if err != nil {
		return err
	}

	logger.WithOperation(log, "summary").WithFields(report.LogFields(res)).Info("Compression summary")
	if !opts.quiet {
		fmt.Fprintln(out, report.GetSummary(res))
	}
	return nil
}

// runInspect prints the document information of a PDF.
func runInspect(cmd *cobra.Command, opts *options, filePath string) error {
	cfg, err := config.LoadConfig(opts.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := setupLogger(cfg, opts, cmd.ErrOrStderr())

	info, err := newInspector(log, cfg.Metadata.ExiftoolBinary).Inspect(filePath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Document info for: %s\n%s\n", filePath, info)
	if info.IsEmpty() {
		fmt.Fprintln(out, "No descriptive metadata set")
	}
	return nil
}

// setupLogger configures and returns a logger.
func setupLogger(cfg *config.Config, opts *options, stderr io.Writer) *logrus.Logger {
	loggerCfg := logger.LoggerConfig{
		Level:      logger.ResolveLevel(cfg.Logging.Level, opts.verbose, opts.quiet),
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
		Console:    !opts.quiet,
		Output:     stderr,
	}

	log, err := logger.NewLogger(loggerCfg)
	if err != nil {
		return logger.Fallback(stderr)
	}
	return log
}

// execute runs the CLI with args and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "❌ Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
