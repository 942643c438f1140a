// Package cli implements the policyqa command line: ask questions about a PDF,
// inspect its chunks, and browse the compliance framework catalogue.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"policyqa/internal/config"
	"policyqa/internal/document"
	"policyqa/internal/docwatch"
	"policyqa/internal/indexer"
	"policyqa/internal/provider"
	"policyqa/internal/rag"
	"policyqa/internal/service"
)

// app holds what the commands share. Tests replace loadConfig and parser.
type app struct {
	v          *viper.Viper
	loadConfig func() (*config.Config, error)
	parser     service.PDFParser
	cfg        *config.Config
}

// NewRootCmd builds the policyqa command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{
		loadConfig: config.Load,
		parser:     document.PDFParser{},
	})
}

func newRootCmd(a *app) *cobra.Command {
	a.v = viper.New()
	a.v.SetEnvPrefix("POLICYQA")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:          "policyqa",
		Short:        "Answer questions about a security policy PDF with page citations",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.v.GetBool("no-color") {
				color.NoColor = true
			}
			return nil
		},
	}

	root.PersistentFlags().Bool("debug", false, "enable debug logging to stderr")
	root.PersistentFlags().Bool("json", false, "print results as JSON")
	root.PersistentFlags().Bool("no-color", false, "disable colored output")
	for _, name := range []string{"debug", "json", "no-color"} {
		_ = a.v.BindPFlag(name, root.PersistentFlags().Lookup(name))
	}

	root.AddCommand(newAskCmd(a), newChunksCmd(a), newFrameworksCmd(a))
	return root
}

// setup loads configuration and configures logging for commands that touch a document.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.v.GetBool("debug") {
		level = slog.LevelDebug
	} else if level < slog.LevelWarn {
		// Keep stderr quiet unless asked; results go to stdout.
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	} else {
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadDocument wires a QA service from configuration and loads the PDF at path into it.
func (a *app) loadDocument(ctx context.Context, path string) (service.QAService, rag.SessionInfo, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, rag.SessionInfo{}, fmt.Errorf("cannot open %s: %w", path, err)
	}

	adapter := provider.NewAdapter(a.cfg.ProviderTimeout, provider.NewGenerators(ctx, a.cfg.Providers)...)
	chunker := indexer.NewChunker(a.cfg.ChunkSizeTokens, a.cfg.ChunkOverlapTokens)
	engine := rag.NewEngine(chunker, adapter, rag.NewHistory(rag.DefaultHistoryLimit))
	svc := service.NewQAService(a.parser, engine)

	info, err := docwatch.LoadFile(ctx, svc, path)
	if err != nil {
		return nil, rag.SessionInfo{}, err
	}
	return svc, info, nil
}

func (a *app) jsonOutput() bool {
	return a.v.GetBool("json")
}
