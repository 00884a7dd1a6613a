package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mf2/internal/diag"
	"mf2/internal/diagfmt"
	"mf2/internal/parser"
	"mf2/internal/sema"
	"mf2/internal/source"
)

var checkCmd = &cobra.Command{
	Use:          "check <file>...",
	Short:        "Parse and analyze MF2 files, reporting diagnostics",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runCheck,
}

func init() {
	checkCmd.Flags().Bool("json", false, "emit diagnostics as JSON")
}

type checkResult struct {
	file  *source.File
	diags []diag.Diagnostic
	errs  bool
}

func runCheck(cmd *cobra.Command, args []string) error {
	maxDiag := maxDiagnostics(cmd)
	if manifest, err := loadManifest("."); err != nil {
		return err
	} else if manifest != nil && manifest.Config.Check.MaxDiagnostics > 0 && !cmd.Flags().Changed("max-diagnostics") {
		maxDiag = manifest.Config.Check.MaxDiagnostics
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")

	results := make([]checkResult, len(args))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range args {
		g.Go(func() error {
			result, err := checkFile(path, maxDiag)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	problems := 0
	filesWithErrors := 0
	for _, result := range results {
		problems += len(result.diags)
		if result.errs {
			filesWithErrors++
		}
		if asJSON {
			if err := diagfmt.JSON(os.Stdout, result.diags, result.file); err != nil {
				return err
			}
		} else {
			diagfmt.Pretty(os.Stdout, result.diags, result.file, diagfmt.PrettyOpts{Color: useColor(cmd)})
		}
	}

	if filesWithErrors > 0 {
		return fmt.Errorf("found %d problem(s) in %d file(s)", problems, filesWithErrors)
	}
	if !quiet && !asJSON {
		fmt.Printf("checked %d file(s), no problems\n", len(args))
	}
	return nil
}

func checkFile(path string, maxDiag int) (checkResult, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return checkResult{}, err
	}
	file := source.NewFile(path, string(content))

	bag := diag.NewBag(maxDiag)
	reporter := &diag.BagReporter{Bag: bag}
	message := parser.Parse(file, parser.Options{Reporter: reporter})
	sema.Analyze(message, reporter)
	bag.Sort()

	return checkResult{file: file, diags: bag.Items(), errs: bag.HasErrors()}, nil
}
