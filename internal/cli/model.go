package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"reviewsense/internal/adapter/model"
	"reviewsense/internal/adapter/store"
	"reviewsense/internal/domain"
)

var packOut string

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Manage model artifacts",
}

var modelPackCmd = &cobra.Command{
	Use:   "pack",
	Short: "Bundle model.json and vectorizer.json into one file",
	Long: `Validate the artifacts in the configured model directory and store them in a
single bbolt bundle together with their fingerprint and schema version.

Examples:
  reviewsense model pack --out model.db
  REVIEWSENSE_MODEL_DIR=./artifacts reviewsense model pack --out dist/model.db`,
	Args: cobra.NoArgs,
	RunE: runModelPack,
}

var modelInspectCmd = &cobra.Command{
	Use:   "inspect [bundle]",
	Short: "Print artifact metadata",
	Long: `Print metadata for a bundle file, or for the configured model when no file
is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runModelInspect,
}

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.AddCommand(modelPackCmd, modelInspectCmd)
	modelPackCmd.Flags().StringVarP(&packOut, "out", "o", "", "bundle file to write (required)")
	modelPackCmd.MarkFlagRequired("out")
}

func runModelPack(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	dir := resolvePath(GetRootDir(), cfg.Model.Dir)
	if dir == "" {
		dir = model.DefaultDir()
	}

	classifierData, err := os.ReadFile(filepath.Join(dir, model.ClassifierFile))
	if err != nil {
		return fmt.Errorf("failed to read classifier: %w", err)
	}
	vectorizerData, err := os.ReadFile(filepath.Join(dir, model.VectorizerFile))
	if err != nil {
		return fmt.Errorf("failed to read vectorizer: %w", err)
	}

	// refuse to bundle artifacts that would fail at start-up
	m, err := model.Parse(classifierData, vectorizerData)
	if err != nil {
		return err
	}

	st, err := store.OpenBundle(packOut)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Pack(classifierData, vectorizerData, m.Info); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Packed %s into %s\n", dir, packOut)
	fmt.Fprintf(out, "  Fingerprint: %s\n", m.Info.Fingerprint)
	fmt.Fprintf(out, "  Classifier:  %s (%d classes)\n", m.Info.ClassifierKind, len(m.Info.Classes))
	fmt.Fprintf(out, "  Features:    %d\n", m.Info.Features)
	return nil
}

type inspectOutput struct {
	Source        string `json:"source"`
	SchemaVersion int    `json:"schema_version,omitempty"`
	PackedAt      string `json:"packed_at,omitempty"`
	domain.ArtifactInfo
}

func runModelInspect(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		m, err := loadModel(GetConfig(), GetRootDir())
		if err != nil {
			return err
		}
		return writeIndentedJSON(cmd.OutOrStdout(), inspectOutput{Source: "configured", ArtifactInfo: m.Info})
	}

	st, err := store.OpenBundleReadOnly(args[0])
	if err != nil {
		return err
	}
	defer st.Close()

	manifest, err := st.Manifest()
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	version, err := st.SchemaVersion()
	if err != nil {
		return err
	}

	return writeIndentedJSON(cmd.OutOrStdout(), inspectOutput{
		Source:        args[0],
		SchemaVersion: version,
		PackedAt:      manifest.PackedAt.Format(time.RFC3339),
		ArtifactInfo:  manifest.Info,
	})
}
