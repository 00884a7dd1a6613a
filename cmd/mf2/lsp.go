package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mf2/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the MF2 language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func init() {
	lspCmd.Flags().Bool("trace", false, "log every request to stderr")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	opts := lsp.ServerOptions{MaxDiagnostics: maxDiagnostics(cmd)}
	opts.Trace, _ = cmd.Flags().GetBool("trace")

	if manifest, err := loadManifest("."); err != nil {
		return err
	} else if manifest != nil {
		if manifest.Config.LSP.Trace {
			opts.Trace = true
		}
		if manifest.Config.LSP.MaxDiagnostics > 0 && !cmd.Flags().Changed("max-diagnostics") {
			opts.MaxDiagnostics = manifest.Config.LSP.MaxDiagnostics
		}
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, opts)
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
