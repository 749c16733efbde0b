package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
	"github.com/KaramelBytes/sheetlens/internal/parser"
	"github.com/KaramelBytes/sheetlens/internal/utils"
)

var (
	anaKind       string
	anaXKey       string
	anaYKey       string
	anaValueKey   string
	anaOutputPath string
	anaPreview    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run one analysis over a local CSV/XLSX file and print JSON",
	Long:  "Run one analysis over a local CSV/XLSX file and print JSON.\n\nKinds: " + kindList() + ".",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := analysis.ParseAnalysis(anaKind)
		if err != nil {
			return fmt.Errorf("invalid --kind: %w", err)
		}
		t, err := parser.DecodeFile(args[0])
		if err != nil {
			return err
		}
		if anaPreview {
			t = t.Preview()
		}
		out, err := analysis.Run(t, analysis.Request{Analysis: a, XKey: anaXKey, YKey: anaYKey, ValueKey: anaValueKey})
		if err != nil {
			return err
		}
		var payload any = out
		if field := a.ResultField(); field != "" {
			payload = map[string]any{field: out}
		}
		b, err := utils.PrettyJSON(payload)
		if err != nil {
			return err
		}
		if anaOutputPath == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		if err := utils.SafeWriteFile(anaOutputPath, append(b, '\n')); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", a, anaOutputPath)
		return nil
	},
}

func kindList() string {
	names := make([]string, len(analysis.Analyses))
	for i, a := range analysis.Analyses {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaKind, "kind", "k", string(analysis.AnalysisSummary), "analysis kind")
	analyzeCmd.Flags().StringVar(&anaXKey, "x", "", "x column for chart kinds")
	analyzeCmd.Flags().StringVar(&anaYKey, "y", "", "y column for chart kinds")
	analyzeCmd.Flags().StringVar(&anaValueKey, "value", "", "value column for heatmap")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "write JSON to file instead of stdout")
	analyzeCmd.Flags().BoolVar(&anaPreview, "preview", false, "analyze only the first rows, as session endpoints do")
}
