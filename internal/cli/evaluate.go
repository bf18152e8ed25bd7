package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reviewsense/internal/usecase"
)

var (
	evalData string
	evalJSON bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Measure model accuracy on labeled reviews",
	Long: `Score a labeled data set and report accuracy, per-class precision, recall
and F1. The data file holds one "label<TAB>text" pair per line.

Examples:
  reviewsense evaluate --data testdata/reviews.tsv
  reviewsense evaluate --data holdout.tsv --json`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVar(&evalData, "data", "", "labeled data file (required)")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "output as JSON")
	evaluateCmd.MarkFlagRequired("data")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	f, err := os.Open(evalData)
	if err != nil {
		return fmt.Errorf("failed to open data: %w", err)
	}
	defer f.Close()

	samples, err := usecase.ReadLabeledReviews(f)
	if err != nil {
		return fmt.Errorf("invalid data file: %w", err)
	}

	m, err := loadModel(cfg, GetRootDir())
	if err != nil {
		return err
	}
	analyzeUC, closeCache, err := buildAnalyzer(cfg, m)
	if err != nil {
		return err
	}
	defer closeCache()

	report, err := analyzeUC.Evaluate(samples)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if evalJSON {
		return writeIndentedJSON(out, report)
	}

	fmt.Fprintln(out, "MODEL EVALUATION")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Model:    %s (%s)\n", m.Info.Fingerprint, m.Info.ClassifierKind)
	fmt.Fprintf(out, "Samples:  %d (%d failed)\n", report.Samples, report.Failed)
	fmt.Fprintf(out, "Accuracy: %.3f\n", report.Accuracy)
	fmt.Fprintf(out, "Latency:  %s per review\n", report.MeanLatency)
	fmt.Fprintln(out, strings.Repeat("-", 50))
	fmt.Fprintf(out, "%-10s %9s %9s %9s %9s\n", "class", "precision", "recall", "f1", "support")
	for _, c := range report.Classes {
		fmt.Fprintf(out, "%-10s %9.3f %9.3f %9.3f %9d\n", sentimentLabel(c.Label), c.Precision, c.Recall, c.F1, c.Support)
	}
	return nil
}
