package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"navigator/internal/adapter/chunker"
	"navigator/internal/adapter/embedding"
	"navigator/internal/adapter/fs"
	"navigator/internal/adapter/loader"
	"navigator/internal/adapter/store"
	"navigator/internal/usecase"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Build the vector index for a corpus",
	Long: `Load every matching document in the corpus, split it into paragraphs,
embed them and write a fresh index to .navigator/index.db within the
corpus directory. The previous index is replaced atomically.

Examples:
  navigator ingest .                # Ingest current directory
  navigator ingest /path/to/papers  # Ingest specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()

	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		return err
	}
	if err := embedding.Warm(cmd.Context(), embedder); err != nil {
		return fmt.Errorf("embedding backend: %w", err)
	}

	ingestUC := usecase.NewIngestUseCase(
		fs.NewWalker(cfg.Index.Includes, cfg.Index.Excludes),
		loader.New(),
		chunker.NewParagraphChunker(cfg.Chunk.MaxChars),
		embedder,
		store.NewBoltStore(),
		cfg.Embedding.BatchSize,
		store.ComputeConfigHash(cfg),
	)

	fmt.Printf("Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	var startTime time.Time

	progress := func(done, total int) {
		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}

		bar.Set(done)

		if done > 0 && done < total {
			rate := float64(done) / time.Since(startTime).Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-done)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Embedding[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	result, err := ingestUC.Ingest(cmd.Context(), path, progress)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Files found:       %d\n", result.FilesFound)
	fmt.Printf("  Documents loaded:  %d\n", result.DocumentsLoaded)
	fmt.Printf("  Documents skipped: %d\n", result.DocumentsSkipped)
	fmt.Printf("  Fragments:         %d\n", result.FragmentsCreated)
	fmt.Printf("  Model:             %s (dim %d)\n", result.Model, result.Dimension)
	fmt.Printf("  Took:              %s\n", formatDuration(result.Duration))

	if len(result.Errors) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Printf("\nIndex stored at: %s\n", result.Path)
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
