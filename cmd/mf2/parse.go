package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"mf2/internal/diag"
	"mf2/internal/diagfmt"
	"mf2/internal/parser"
	"mf2/internal/source"
)

var parseCmd = &cobra.Command{
	Use:          "parse [file]",
	Short:        "Parse an MF2 file and dump its syntax tree",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runParse,
}

func init() {
	parseCmd.Flags().Bool("json", false, "emit the syntax tree as JSON")
}

func runParse(cmd *cobra.Command, args []string) error {
	var content []byte
	var err error
	name := "<stdin>"
	if len(args) == 1 {
		name = args[0]
		content, err = os.ReadFile(name) // #nosec G304 -- path is provided by the caller
	} else {
		content, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return err
	}

	file := source.NewFile(name, string(content))
	bag := diag.NewBag(maxDiagnostics(cmd))
	message := parser.Parse(file, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if err := diagfmt.FormatASTJSON(os.Stdout, message); err != nil {
			return err
		}
	} else {
		diagfmt.FormatASTPretty(os.Stdout, message)
	}

	if bag.Len() > 0 {
		bag.Sort()
		diagfmt.Pretty(os.Stderr, bag.Items(), file, diagfmt.PrettyOpts{Color: useColor(cmd)})
	}
	return nil
}
