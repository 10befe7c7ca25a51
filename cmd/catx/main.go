// Command catx extracts files from cat/dat catalog archives.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/meigma/catx"
)

var (
	include    []string
	types      string
	expansions bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "catx <sourcedir> <destdir>",
	Short: "Extract files from cat/dat catalog archives",
	Long: `catx extracts files packed in cat/dat catalog archive pairs.

Catalog pairs are loaded in ascending order so patch content overrides
base content; expansion pairs (enabled with --expansions) are loaded last.
Only files matching the configured extensions are extracted.`,
	Args:          cobra.ExactArgs(2),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringSliceVarP(&include, "include", "i", nil,
		"catalog files to load (e.g. 01.cat); default is all found")
	rootCmd.Flags().StringVarP(&types, "types", "t", strings.Join(catx.DefaultTypes, ", "),
		"comma-separated list of file extensions to extract")
	rootCmd.Flags().BoolVar(&expansions, "expansions", false,
		"also extract from expansion catalog pairs")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose logging")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func run(cmd *cobra.Command, args []string) error {
	sourceDir, destDir := args[0], args[1]

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	typeList := splitTypes(types)
	if len(typeList) == 0 {
		return errors.New("no file types specified for extraction")
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}

	logger.Info("extracting", "source", sourceDir, "dest", destDir, "types", typeList)

	summary, err := catx.Run(cmd.Context(), sourceDir, destDir,
		catx.WithTypes(typeList...),
		catx.WithInclude(include...),
		catx.WithExpansions(expansions),
		catx.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "extracted %d, skipped %d, failed %d\n",
		summary.Extracted, summary.Skipped, summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("%d entries failed to extract", summary.Failed)
	}
	return nil
}

func splitTypes(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
