package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"policyqa/internal/rag"
)

// askResult is one answered question in JSON output.
type askResult struct {
	Question string `json:"question"`
	rag.AskResponse
}

func newAskCmd(a *app) *cobra.Command {
	var file string
	var debug bool

	cmd := &cobra.Command{
		Use:   "ask --file policy.pdf QUESTION [QUESTION...]",
		Short: "Ask one or more questions about a PDF",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()
			svc, _, err := a.loadDocument(ctx, file)
			if err != nil {
				return err
			}

			results := make([]askResult, 0, len(args))
			for _, q := range args {
				resp, err := svc.Ask(ctx, rag.AskRequest{Question: q, Debug: debug})
				if err != nil {
					return fmt.Errorf("question %q: %w", q, err)
				}
				results = append(results, askResult{Question: q, AskResponse: resp})
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				return encodeJSON(cmd, results)
			}
			for i, r := range results {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printAnswer(out, r)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "PDF policy document")
	cmd.Flags().BoolVar(&debug, "explain", false, "include ranking and confidence factor details")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printAnswer(w io.Writer, r askResult) {
	bold := color.New(color.Bold)
	bold.Fprintf(w, "Q: %s\n", r.Question)
	fmt.Fprintf(w, "A: %s\n", r.Answer)
	fmt.Fprintf(w, "Source: %s\n", r.Source)
	confidenceColor(r.Confidence).Fprintf(w, "Confidence: %.1f%%\n", r.Confidence)
	fmt.Fprintf(w, "Reasoning: %s\n", r.Reasoning)

	if d := r.Debug; d != nil {
		fmt.Fprintf(w, "Outcome: %s, ranking: %s", d.Outcome, d.RankingMethod)
		if d.RankingProvider != "" {
			fmt.Fprintf(w, " (%s)", d.RankingProvider)
		}
		if d.ExcerptFallback {
			fmt.Fprint(w, ", answer is a document excerpt")
		} else if d.SynthesisProvider != "" {
			fmt.Fprintf(w, ", answered by %s", d.SynthesisProvider)
		}
		fmt.Fprintln(w)
		if f := d.Factors; f != nil {
			fmt.Fprintf(w, "Factors: keyword %.2f, richness %.2f, security %.2f, completeness %.2f, consistency %.2f\n",
				f.KeywordRelevance, f.ContextRichness, f.SecurityRelevance, f.Completeness, f.Consistency)
		}
	}
}

// confidenceColor uses the same thresholds as the reasoning labels.
func confidenceColor(score float64) *color.Color {
	switch {
	case score > 70:
		return color.New(color.FgGreen)
	case score > 30:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
