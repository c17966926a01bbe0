package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jsa/format"
	"github.com/dhamidi/jsa/lsp"
)

func (rc *rootCommand) newParseCmd() *cobra.Command {
	var outputFormat string
	var trivia bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file and dump its syntax tree",
		Long: `Parse a JavaScript or TypeScript file and dump its syntax tree to stdout.

Parse errors are reported on stderr; the tree is printed even when the
file has errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			s, err := rc.newSession()
			if err != nil {
				return err
			}
			id, err := s.add(path)
			if err != nil {
				return err
			}
			result, err := s.host.Parse(id)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}

			var encoder format.Encoder
			switch {
			case outputFormat == "json" && trivia:
				encoder = format.NewASTJSONEncoder(rc.stdout).WithTrivia()
			default:
				encoder, err = format.NewEncoder(outputFormat, rc.stdout)
				if err != nil {
					return err
				}
			}
			if err := encoder.Encode(result); err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			p := rc.newPrinter(rc.stderr)
			lines := lsp.NewLineIndex(s.texts[id])
			for _, d := range result.Diagnostics {
				p.printParseDiagnostic(path, lines, d)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&trivia, "trivia", false, "include whitespace and comments in json output")

	return cmd
}
