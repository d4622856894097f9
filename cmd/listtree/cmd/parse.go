package cmd

import (
	"fmt"
	"strings"

	"github.com/dgallion1/listtree/internal/render"
	"github.com/spf13/cobra"
)

func formatNames() string {
	names := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// outputFlags select how a tree is printed.
type outputFlags struct {
	format    string
	showTitle bool
}

func (f *outputFlags) register(cmd *cobra.Command, def render.Format) {
	cmd.Flags().StringVarP(&f.format, "format", "f", string(def), "Output format: "+formatNames())
	cmd.Flags().BoolVar(&f.showTitle, "show-title", true, "Print the document title above tree output")
}

func newParseCmd() *cobra.Command {
	var in inputFlags
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a list and print its tree",
		Long: `Parse reads a file (or stdin when the argument is "-" or missing), builds
the nested forest and prints it in the chosen format.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(out.format)
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			tree, opts, err := in.load(cmd, path)
			if err != nil {
				return err
			}
			loggerFrom(cmd.Context()).Debug("parsed", "input", displayName(path), "roots", len(tree.Roots))

			if err := render.Render(cmd.OutOrStdout(), tree, format, render.Options{Outline: opts, ShowTitle: out.showTitle}); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			return nil
		},
	}
	in.register(cmd)
	out.register(cmd, render.FormatTree)
	return cmd
}
