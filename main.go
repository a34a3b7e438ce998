// logmagic inserts, cycles and strips console log statements in JavaScript
// and CoffeeScript sources.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/logmagic/internal/config"
	"github.com/phobologic/logmagic/internal/discover"
	"github.com/phobologic/logmagic/internal/engine"
	"github.com/phobologic/logmagic/internal/lang"
	"github.com/phobologic/logmagic/internal/model"
	"github.com/phobologic/logmagic/internal/toon"
)

var version = "dev"

const defaultMaxFileSize = 1_000_000 // 1 MB

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.Execute()
}

// app carries the state shared by all subcommands.
type app struct {
	stdout  io.Writer
	stderr  io.Writer
	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "logmagic",
		Short: "Generate, cycle and strip console log statements",
		Long: `logmagic looks at a line of JavaScript or CoffeeScript, works out what is
worth logging there (an assigned variable, destructured bindings, function
parameters or call arguments) and writes a console.<level>(...) statement for
it. It can also cycle the level of an existing statement and remove every
generated statement from a tree of files.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("logmagic {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: .logmagic.yaml in the working or home directory)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(a.logCmd(), a.cycleCmd(), a.stripCmd(), a.scanCmd(), a.initCmd())
	return cmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.logger = logrus.New()
	a.logger.SetOutput(a.stderr)
	if a.verbose {
		a.logger.SetLevel(logrus.DebugLevel)
	} else {
		a.logger.SetLevel(logrus.InfoLevel)
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	a.logger.WithFields(logrus.Fields{
		"default_log_level":     cfg.DefaultLogLevel,
		"always_log_filename":   cfg.AlwaysLogFilename,
		"max_identifier_length": cfg.MaxIdentifierLength,
	}).Debug("configuration loaded")
	return nil
}

type editOptions struct {
	line    int
	up      bool
	write   bool
	dialect string
}

func (o *editOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&o.line, "line", "n", 0, "1-based line number")
	cmd.Flags().BoolVar(&o.up, "up", false, "log above the line instead of below; cycle backwards")
	cmd.Flags().BoolVarP(&o.write, "write", "w", false, "rewrite the file instead of printing the statement")
	cmd.Flags().StringVar(&o.dialect, "lang", "", "dialect (default: from the file extension)")
	_ = cmd.MarkFlagRequired("line")
}

func (a *app) logCmd() *cobra.Command {
	var opts editOptions
	cmd := &cobra.Command{
		Use:   "log FILE",
		Short: "Insert a log statement for a line, or cycle the level of an existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEdit(args[0], opts, false)
		},
	}
	opts.register(cmd)
	return cmd
}

func (a *app) cycleCmd() *cobra.Command {
	var opts editOptions
	cmd := &cobra.Command{
		Use:   "cycle FILE",
		Short: "Cycle the level of the log statement on a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEdit(args[0], opts, true)
		},
	}
	opts.register(cmd)
	return cmd
}

func (a *app) runEdit(path string, opts editOptions, cycleOnly bool) error {
	buf, err := readBuffer(path)
	if err != nil {
		return err
	}
	if opts.line < 1 || opts.line > len(buf.lines) {
		return fmt.Errorf("line %d out of range (1-%d)", opts.line, len(buf.lines))
	}
	dialect, err := dialectFor(path, opts.dialect)
	if err != nil {
		return err
	}

	req := engine.Request{
		Text:       buf.lines[opts.line-1],
		LineNumber: opts.line,
		Direction:  model.Down,
		Dialect:    dialect,
		Filename:   filepath.Base(path),
	}
	if opts.up {
		req.Direction = model.Up
	}
	if opts.line < len(buf.lines) {
		req.Next = buf.lines[opts.line]
	}

	e := engine.New(a.cfg, a.logger)
	var edit model.Edit
	if cycleOnly {
		var ok bool
		if edit, ok = e.Cycle(req); !ok {
			return fmt.Errorf("line %d is not a log statement", opts.line)
		}
	} else {
		edit = e.Log(req)
	}

	if !opts.write {
		_, _ = fmt.Fprintln(a.stdout, edit.Text)
		return nil
	}

	buf.apply(edit)
	if err := buf.write(path); err != nil {
		return err
	}
	action := "inserted"
	if edit.Replace {
		action = "cycled"
	}
	a.logger.WithFields(logrus.Fields{"file": path, "line": edit.Line, "level": edit.Level}).Infof("%s log statement", action)
	return nil
}

func dialectFor(path, explicit string) (string, error) {
	if explicit != "" {
		if _, ok := lang.Languages[explicit]; !ok {
			return "", fmt.Errorf("unsupported language %q", explicit)
		}
		return explicit, nil
	}
	if name := lang.ForExtension(filepath.Ext(path)); name != "" {
		return name, nil
	}
	return lang.Default, nil
}

type treeOptions struct {
	langs       []string
	maxFileSize int
	dryRun      bool
}

func (o *treeOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&o.langs, "langs", "l", nil, "comma-separated dialects to include")
	cmd.Flags().IntVar(&o.maxFileSize, "max-file-size", defaultMaxFileSize, "skip files larger than this many bytes")
}

func (a *app) stripCmd() *cobra.Command {
	var opts treeOptions
	cmd := &cobra.Command{
		Use:   "strip [PATH...]",
		Short: "Remove every generated log statement from files or directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.processTree(cmd.Context(), args, opts, !opts.dryRun)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, toon.Encode(report))
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report what would be removed without modifying files")
	return cmd
}

func (a *app) scanCmd() *cobra.Command {
	var opts treeOptions
	cmd := &cobra.Command{
		Use:   "scan [PATH...]",
		Short: "List generated log statements in files or directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.processTree(cmd.Context(), args, opts, false)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, toon.Encode(report))
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

// processTree finds the log statements of every file under paths, removing
// them when write is set. Files are processed concurrently; per-file
// failures are logged and skipped.
func (a *app) processTree(ctx context.Context, paths []string, opts treeOptions, write bool) (*model.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, name := range opts.langs {
		if _, ok := lang.Languages[name]; !ok {
			return nil, fmt.Errorf("unsupported language %q", name)
		}
	}

	files, err := discover.Resolve(paths, opts.langs)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	files = a.filterBySize(files, opts.maxFileSize)

	e := engine.New(a.cfg, a.logger)
	reports := make([]model.FileReport, len(files))
	valid := make([]bool, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := processFile(e, f, write)
			if err != nil {
				a.logger.WithField("file", f.Path).WithError(err).Warn("skipped")
				return nil
			}
			reports[i], valid[i] = r, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &model.Report{Root: strings.Join(paths, ",")}
	total := 0
	for i, ok := range valid {
		if ok && len(reports[i].Matches) > 0 {
			report.Files = append(report.Files, reports[i])
			total += len(reports[i].Matches)
		}
	}
	a.logger.WithFields(logrus.Fields{
		"files":      len(report.Files),
		"statements": total,
		"removed":    write,
	}).Info("log statements processed")
	return report, nil
}

func processFile(e *engine.Engine, f discover.FileEntry, write bool) (model.FileReport, error) {
	buf, err := readBuffer(f.Path)
	if err != nil {
		return model.FileReport{}, err
	}

	rest, ranges := e.RemoveAll(buf.lines, f.Language)
	r := model.FileReport{Path: f.Path, Dialect: f.Language}
	for _, rg := range ranges {
		text := strings.Join(buf.lines[rg.StartLine-1:rg.EndLine], "\n")
		r.Matches = append(r.Matches, model.Match{File: f.Path, Range: rg, Text: strings.TrimSpace(text)})
	}

	if write && len(ranges) > 0 {
		buf.lines = rest
		if err := buf.write(f.Path); err != nil {
			return model.FileReport{}, err
		}
		r.Removed = true
	}
	return r, nil
}

func (a *app) filterBySize(files []discover.FileEntry, maxSize int) []discover.FileEntry {
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(f.Path)
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if maxSize > 0 && fi.Size() > int64(maxSize) {
			a.logger.WithField("file", f.Path).Warnf("skipped (>%d bytes)", maxSize)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
