package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mf2/internal/diag"
	"mf2/internal/diagfmt"
	"mf2/internal/format"
	"mf2/internal/parser"
	"mf2/internal/source"
)

var fmtCmd = &cobra.Command{
	Use:          "fmt [file...]",
	Short:        "Format MF2 files in canonical form",
	Long:         `Format MF2 files in canonical form. With no arguments, reads from stdin and writes to stdout.`,
	SilenceUsage: true,
	RunE:         runFmt,
}

func init() {
	fmtCmd.Flags().BoolP("write", "w", false, "write the result back to the file instead of stdout")
	fmtCmd.Flags().Bool("check", false, "exit non-zero if any file is not formatted; list such files on stderr instead of printing output")
}

func runFmt(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")
	check, _ := cmd.Flags().GetBool("check")

	if len(args) == 0 {
		if write || check {
			return fmt.Errorf("--write and --check require file arguments")
		}
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		printed, err := formatText("<stdin>", string(content), useColor(cmd))
		if err != nil {
			return err
		}
		_, err = io.WriteString(os.Stdout, printed)
		return err
	}

	unformatted := 0
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	results := make([]string, len(args))
	for i, path := range args {
		g.Go(func() error {
			content, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
			if err != nil {
				return err
			}
			printed, err := formatText(path, string(content), useColor(cmd))
			if err != nil {
				return err
			}
			results[i] = printed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range args {
		original, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
		if err != nil {
			return err
		}
		printed := results[i]
		switch {
		case check:
			if string(original) != printed {
				fmt.Fprintf(os.Stderr, "%s is not formatted\n", path)
				unformatted++
			}
		case write:
			if string(original) != printed {
				if err := os.WriteFile(path, []byte(printed), 0o644); err != nil {
					return err
				}
			}
		default:
			if _, err := io.WriteString(os.Stdout, printed); err != nil {
				return err
			}
		}
	}

	if unformatted > 0 {
		return fmt.Errorf("%d file(s) not formatted", unformatted)
	}
	return nil
}

// formatText parses and prints one document. Formatting refuses inputs with
// syntax errors; the diagnostics are rendered to stderr first.
func formatText(name, content string, color bool) (string, error) {
	file := source.NewFile(name, content)
	bag := diag.NewBag(100)
	message := parser.Parse(file, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})

	printed, ok := format.Print(message, file, bag)
	if !ok {
		bag.Sort()
		diagfmt.Pretty(os.Stderr, bag.Items(), file, diagfmt.PrettyOpts{Color: color})
		return "", fmt.Errorf("%s has syntax errors; not formatting", name)
	}
	return printed, nil
}
