package main

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jsa/format"
	"github.com/dhamidi/jsa/js/syntax"
)

func (rc *rootCommand) newQueryCmd() *cobra.Command {
	var kindNames []string
	var rangeFlag string

	cmd := &cobra.Command{
		Use:   "query <file>",
		Short: "List the nodes of the given kinds",
		Long: `List every node of the given kinds in a file, in document order.

With --range start:end only nodes lying inside that byte range are listed.`,
		Example: `  jsa query app.js --kind BinaryExpression
  jsa query app.js --kind IdentifierBinding --range 0:120`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(kindNames)
			if err != nil {
				return err
			}
			s, err := rc.newSession()
			if err != nil {
				return err
			}
			id, err := s.add(args[0])
			if err != nil {
				return err
			}

			var nodes iter.Seq[syntax.Node]
			if rangeFlag != "" {
				rng, err := parseRange(rangeFlag)
				if err != nil {
					return err
				}
				nodes, err = s.host.QueryNodesInRange(id, kinds, rng)
				if err != nil {
					return fmt.Errorf("query %s: %w", args[0], err)
				}
			} else {
				nodes, err = s.host.QueryNodes(id, kinds)
				if err != nil {
					return fmt.Errorf("query %s: %w", args[0], err)
				}
			}
			return format.NewLineEncoder(rc.stdout).EncodeNodes(nodes)
		},
	}

	cmd.Flags().StringSliceVarP(&kindNames, "kind", "k", nil, "node kinds to list (repeatable)")
	_ = cmd.MarkFlagRequired("kind")
	cmd.Flags().StringVarP(&rangeFlag, "range", "r", "", "only list nodes inside start:end")

	return cmd
}

func parseKinds(names []string) (syntax.KindSet, error) {
	var kinds []syntax.Kind
	for _, name := range names {
		k, ok := syntax.KindFromName(name)
		if !ok {
			return syntax.KindSet{}, fmt.Errorf("unknown kind %q", name)
		}
		kinds = append(kinds, k)
	}
	return syntax.NewKindSet(kinds...), nil
}

func parseRange(s string) (syntax.TextRange, error) {
	startText, endText, ok := strings.Cut(s, ":")
	if !ok {
		return syntax.TextRange{}, fmt.Errorf("invalid range %q: expected start:end", s)
	}
	start, err := strconv.Atoi(startText)
	if err != nil {
		return syntax.TextRange{}, fmt.Errorf("invalid range start %q: %w", startText, err)
	}
	end, err := strconv.Atoi(endText)
	if err != nil {
		return syntax.TextRange{}, fmt.Errorf("invalid range end %q: %w", endText, err)
	}
	if start < 0 || end < start {
		return syntax.TextRange{}, fmt.Errorf("invalid range %q: need 0 <= start <= end", s)
	}
	return syntax.NewRange(start, end), nil
}
