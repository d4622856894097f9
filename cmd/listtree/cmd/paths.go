package cmd

import (
	"fmt"
	"strings"

	"github.com/dgallion1/listtree/internal/doctree"
	"github.com/spf13/cobra"
)

func newPathsCmd() *cobra.Command {
	var in inputFlags
	var sep string
	var leavesOnly bool

	cmd := &cobra.Command{
		Use:   "paths [file|-]",
		Short: "Print the breadcrumb of every node",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			tree, _, err := in.load(cmd, path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			// Paths visits nodes in the same pre-order as Flatten.
			nodes := doctree.Flatten(tree.Roots)
			for i, e := range doctree.Paths(tree.Roots) {
				if leavesOnly && len(nodes[i].Children) > 0 {
					continue
				}
				fmt.Fprintln(w, strings.Join(e.Breadcrumb, sep))
			}
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&sep, "sep", "s", " > ", "Separator between breadcrumb parts")
	cmd.Flags().BoolVarP(&leavesOnly, "leaves", "l", false, "Only print nodes without children")
	return cmd
}
