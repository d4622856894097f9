package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/listtree/internal/config"
	"github.com/dgallion1/listtree/internal/doctree"
	"github.com/dgallion1/listtree/internal/outline"
	"github.com/dgallion1/listtree/internal/parser"
	"github.com/dgallion1/listtree/internal/version"
	"github.com/spf13/cobra"
)

// stdinName picks the parser for piped input.
const stdinName = "stdin.txt"

// inputFlags are shared by every command that reads an outline.
type inputFlags struct {
	indent int
	marker string
	title  string
	as     string
	sel    string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.indent, "indent", "i", outline.DefaultIndentWidth, "Whitespace columns per nesting level")
	cmd.Flags().StringVarP(&f.marker, "marker", "m", outline.DefaultMarker, "List item marker")
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Override the document title")
	cmd.Flags().StringVar(&f.as, "as", "", "Parse input as this extension (e.g. md, csv) instead of guessing from the name")
	cmd.Flags().StringVar(&f.sel, "select", "", "Keep only the subtree at this slash-separated breadcrumb (e.g. Backend/API)")
}

func (f *inputFlags) options() (outline.Options, error) {
	opts := outline.Options{IndentWidth: f.indent, Marker: f.marker}
	if err := config.ValidateOutline(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// load reads path (or stdin for "" and "-") and builds its tree. The
// returned options are the validated ones the tree was built with.
func (f *inputFlags) load(cmd *cobra.Command, path string) (*doctree.DocTree, outline.Options, error) {
	opts, err := f.options()
	if err != nil {
		return nil, opts, err
	}

	stdin := path == "" || path == "-"
	name := path
	switch {
	case f.as != "":
		name = "input." + strings.TrimPrefix(f.as, ".")
	case stdin:
		name = stdinName
	}

	var r io.Reader = cmd.InOrStdin()
	if !stdin {
		file, err := os.Open(path)
		if err != nil {
			return nil, opts, err
		}
		defer file.Close()
		r = file
	}

	p, err := parser.ForFile(name, opts)
	if err != nil {
		return nil, opts, err
	}
	tree, err := p.Parse(r, name)
	if err != nil {
		return nil, opts, fmt.Errorf("parse %s: %w", displayName(path), err)
	}

	// Without a title from the document itself, name it after the real file.
	_, fallback := stripExt(name)
	switch {
	case f.title != "":
		tree.Title = f.title
	case tree.Title == fallback && stdin:
		tree.Title = ""
	case tree.Title == fallback:
		_, tree.Title = stripExt(path)
	}

	if f.sel != "" {
		n := doctree.Select(tree.Roots, strings.Split(f.sel, "/")...)
		if n == nil {
			return nil, opts, fmt.Errorf("%s: no node at %q", displayName(path), f.sel)
		}
		tree.Roots = []*doctree.Node{doctree.Rebase(n)}
	}
	return tree, opts, nil
}

// stripExt returns the extension and base name without it.
func stripExt(path string) (ext, base string) {
	base = filepath.Base(path)
	ext = filepath.Ext(base)
	return ext, strings.TrimSuffix(base, ext)
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}

// NewRootCmd builds the listtree command tree.
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "listtree",
		Short: "Turn indented lists into trees",
		Long: `listtree reads indentation-structured lists ("- item", nested by leading
whitespace) from text, Markdown, CSV, HTML, PDF or DOCX files and prints the
resulting forest as an outline, a box-drawn tree, JSON, YAML or HTML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			cmd.SetContext(withLogger(cmd.Context(), log))
		},
	}
	root.Version = version.Version
	root.SetVersionTemplate(fmt.Sprintf("listtree %s\n", version.String()))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newParseCmd(), newPathsCmd(), newWatchCmd())
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}

type loggerKey struct{}

func withLogger(ctx context.Context, log *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, log)
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return log
		}
	}
	return slog.New(slog.DiscardHandler)
}
