package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"policyqa/internal/indexer"
	"policyqa/internal/rag"
)

const previewRunes = 60

// chunksOutput is the JSON shape of the chunks command.
type chunksOutput struct {
	Document rag.SessionInfo `json:"document"`
	Chunks   []indexer.Chunk `json:"chunks"`
}

func newChunksCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "chunks --file policy.pdf",
		Short: "Show how a PDF is split into chunks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()
			svc, _, err := a.loadDocument(ctx, file)
			if err != nil {
				return err
			}
			chunks, err := svc.Chunks(ctx)
			if err != nil {
				return err
			}
			// Chunking fills in the statistics.
			info, err := svc.CurrentDocument(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				if chunks == nil {
					chunks = []indexer.Chunk{}
				}
				return encodeJSON(cmd, chunksOutput{Document: info, Chunks: chunks})
			}

			fmt.Fprintf(out, "%s: %d pages (%d with text), %d chunks\n", info.Name, info.Pages, info.TextPages, len(chunks))
			if s := info.Stats; s != nil && s.Chunks > 0 {
				fmt.Fprintf(out, "tokens per chunk: min %d, max %d, mean %.1f, p95 %d (chunker %s, index %s)\n",
					s.TokenStats.Min, s.TokenStats.Max, s.TokenStats.Mean, s.TokenStats.P95, s.ChunkerVersion, s.IndexVersion)
			}
			if len(chunks) == 0 {
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tPAGE\tOFFSETS\tTOKENS\tTEXT")
			for i, c := range chunks {
				fmt.Fprintf(tw, "%d\t%d\t%d-%d\t%d\t%s\n", i+1, c.Page, c.StartOffset, c.EndOffset, c.TokenEstimate, preview(c.Text))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "PDF policy document")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func preview(text string) string {
	runes := []rune(strings.Join(strings.Fields(text), " "))
	if len(runes) <= previewRunes {
		return string(runes)
	}
	return string(runes[:previewRunes]) + "..."
}
