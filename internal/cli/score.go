package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"reviewsense/internal/adapter/fs"
	"reviewsense/internal/domain"
	"reviewsense/internal/usecase"
)

var (
	scoreText  string
	scoreStdin bool
	scoreDir   string
	scoreJSON  bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score reviews from the command line",
	Long: `Analyze one review, standard input, or every review file in a directory.

Examples:
  reviewsense score -t "The food was great but the service was slow."
  cat review.txt | reviewsense score --stdin --json
  reviewsense score --reviews reviews/ --json > results.json`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVarP(&scoreText, "text", "t", "", "review text")
	scoreCmd.Flags().BoolVar(&scoreStdin, "stdin", false, "read one review from standard input")
	scoreCmd.Flags().StringVar(&scoreDir, "reviews", "", "score every matching file under this directory")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "output as JSON")
	scoreCmd.MarkFlagsMutuallyExclusive("text", "stdin", "reviews")
	scoreCmd.MarkFlagsOneRequired("text", "stdin", "reviews")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	m, err := loadModel(cfg, GetRootDir())
	if err != nil {
		return err
	}

	analyzeUC, closeCache, err := buildAnalyzer(cfg, m)
	if err != nil {
		return err
	}
	defer closeCache()

	out := cmd.OutOrStdout()

	if scoreDir != "" {
		walker := fs.NewWalker(cfg.Batch.Includes, cfg.Batch.Excludes)
		return scoreDirectory(out, usecase.NewBatchUseCase(walker, analyzeUC, cfg.Batch.Workers), scoreDir)
	}

	text := scoreText
	if scoreStdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return usecase.ErrEmptyText
	}

	result, err := analyzeUC.Analyze(text)
	if err != nil {
		return err
	}
	prediction := usecase.NewPrediction(result)

	if scoreJSON {
		return writeIndentedJSON(out, prediction)
	}
	printPrediction(out, prediction)
	return nil
}

type batchOutput struct {
	Path       string              `json:"path"`
	Prediction *usecase.Prediction `json:"prediction,omitempty"`
	Error      string              `json:"error,omitempty"`
}

func scoreDirectory(out io.Writer, batchUC *usecase.BatchUseCase, dir string) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", root)
	}

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex

	progressCallback := func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Scoring[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}
		bar.Set(processed)
	}

	result, err := batchUC.Run(root, progressCallback)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	if scoreJSON {
		items := make([]batchOutput, len(result.Items))
		for i, item := range result.Items {
			items[i] = batchOutput{Path: relPath(root, item.Path), Prediction: item.Prediction}
			if item.Err != nil {
				items[i].Error = item.Err.Error()
			}
		}
		return writeIndentedJSON(out, items)
	}

	for _, item := range result.Items {
		fmt.Fprintf(out, "\n%s\n", relPath(root, item.Path))
		if item.Err != nil {
			fmt.Fprintf(out, "  error: %v\n", item.Err)
			continue
		}
		printPrediction(out, *item.Prediction)
	}

	fmt.Fprintf(out, "\nScoring complete:\n")
	fmt.Fprintf(out, "  Files scored: %d\n", result.FilesScored)
	fmt.Fprintf(out, "  Files failed: %d\n", result.FilesFailed)
	return nil
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func writeIndentedJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sentimentLabel(label int) string {
	switch label {
	case 1:
		return "positive"
	case 0:
		return "negative"
	default:
		return fmt.Sprintf("class %d", label)
	}
}

func formatConfidence(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf(" (%.0f%%)", *p*100)
}

func printPrediction(out io.Writer, p usecase.Prediction) {
	fmt.Fprintf(out, "  overall: %s%s\n", sentimentLabel(p.Prediction), formatConfidence(p.Probability))

	// fixed aspect order, not map order
	names := make([]string, 0, len(p.Aspects))
	for _, a := range domain.Aspects {
		if _, ok := p.Aspects[string(a)]; ok {
			names = append(names, string(a))
		}
	}
	for _, name := range names {
		fmt.Fprintf(out, "  %s:\n", name)
		for _, item := range p.Aspects[name] {
			fmt.Fprintf(out, "    [%s%s] %s\n", sentimentLabel(item.Pred), formatConfidence(item.Probability), item.Sentence)
		}
	}
}
