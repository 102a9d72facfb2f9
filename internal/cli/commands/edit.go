package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/helixlab/internal/cli/output"
	"github.com/leapstack-labs/helixlab/internal/session"
	"github.com/leapstack-labs/helixlab/pkg/sequence"
	"github.com/spf13/cobra"
)

const (
	editPrompt      = "helix> "
	editHistoryName = "edit_history"
)

// NewEditCommand creates the edit command.
func NewEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the sequence interactively",
		Long: `Start an interactive editor on the analysis sequence.

Positions are 0-based. Every committed edit, delete or insert can be undone;
the history keeps the most recent --history-limit steps.`,
		Example: `  helixlab edit
  helix> edit 1 G
  helix> ins 4 GATTACA
  helix> metrics
  helix> undo`,
		RunE: runEdit,
	}
	return cmd
}

func runEdit(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	sess, err := cmdCtx.NewSession(cmd.Context())
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          editPrompt,
		HistoryFile:     editHistoryFile(),
		AutoComplete:    newEditCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	ed := newEditor(sess, cmdCtx.Renderer, cmdCtx.Cfg.History.Limit)
	ed.clear = func() { _, _ = fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J") }

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "helixlab editor (%s, %d bases)\n", sess.Gene(), len(sess.Sequence()))
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if ed.execLine(line) {
			break
		}
	}
	return nil
}

// editHistoryFile returns the REPL history path under the user cache
// directory, or "" to keep history in memory only.
func editHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "helixlab")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, editHistoryName)
}

// EditCommand describes one command of the interactive editor.
type EditCommand struct {
	Name        string
	Args        string
	Aliases     []string
	Description string
}

// EditCommands lists the editor's commands in help order.
var EditCommands = []EditCommand{
	{Name: "set", Args: "<bases>", Description: "Replace the sequence (clears undo history)"},
	{Name: "edit", Args: "<i> <base>", Description: "Replace the base at position i"},
	{Name: "del", Args: "<i>", Aliases: []string{"delete"}, Description: "Delete the base at position i"},
	{Name: "ins", Args: "<p> <bases>", Aliases: []string{"insert"}, Description: "Insert bases before position p"},
	{Name: "undo", Description: "Undo the last change"},
	{Name: "show", Description: "Print the sequence; edited bases are highlighted"},
	{Name: "metrics", Description: "Show derived metrics and trends"},
	{Name: "history", Description: "Show undo history usage"},
	{Name: ".help", Description: "Show this help message"},
	{Name: ".clear", Description: "Clear the screen"},
	{Name: ".quit", Aliases: []string{".exit"}, Description: "Exit the editor"},
}

// Usage returns the command as typed, with its arguments.
func (c EditCommand) Usage() string {
	return strings.TrimSpace(c.Name + " " + c.Args)
}

func newEditCompleter() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(EditCommands))
	for _, c := range EditCommands {
		items = append(items, readline.PcItem(c.Name))
		for _, alias := range c.Aliases {
			items = append(items, readline.PcItem(alias))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// editor executes REPL lines against a session.
type editor struct {
	sess         *session.Session
	r            *output.Renderer
	historyLimit int
	clear        func()
}

func newEditor(sess *session.Session, r *output.Renderer, historyLimit int) *editor {
	if historyLimit <= 0 {
		historyLimit = sequence.DefaultHistoryLimit
	}
	return &editor{sess: sess, r: r, historyLimit: historyLimit}
}

// execLine runs one REPL line and reports whether the REPL should exit.
func (e *editor) execLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	fields := strings.Fields(line)
	command := strings.ToLower(fields[0])
	args := fields[1:]

	var err error
	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		printEditHelp(e.r.Writer())
	case ".clear":
		if e.clear != nil {
			e.clear()
		}
	case "set":
		res := e.sess.Set(strings.Join(args, ""))
		e.report("set", res)
		if res.Count == 0 {
			e.r.Warning("set: no valid bases, the sequence is now empty")
			break
		}
		e.r.Success(fmt.Sprintf("sequence set (%d bases)", res.Count))
	case "edit":
		err = e.edit(args)
	case "del", "delete":
		err = e.del(args)
	case "ins", "insert":
		err = e.insert(args)
	case "undo":
		if e.sess.Undo() {
			e.r.Success("undone")
		} else {
			e.r.Warning("nothing to undo")
		}
	case "show":
		e.show()
	case "metrics":
		err = e.metrics()
	case "history":
		e.history()
	default:
		err = fmt.Errorf("unknown command: %s (type .help for commands)", command)
	}

	if err != nil {
		e.r.Error(err.Error())
	}
	return false
}

func (e *editor) edit(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: edit <index> <base>")
	}
	idx, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	res, err := e.sess.EditAt(idx, args[1])
	if err != nil {
		return err
	}
	e.report("edit", res)
	if !res.NoOp {
		e.r.Success(fmt.Sprintf("position %d set to %s", idx, strings.ToUpper(args[1])))
	}
	return nil
}

func (e *editor) del(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: del <index>")
	}
	idx, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	if _, err := e.sess.DeleteAt(idx); err != nil {
		return err
	}
	e.r.Success(fmt.Sprintf("deleted position %d", idx))
	return nil
}

func (e *editor) insert(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: ins <position> <bases>")
	}
	pos, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	res, err := e.sess.InsertAt(pos, strings.Join(args[1:], ""))
	if err != nil {
		return err
	}
	e.report("ins", res)
	if res.Clamped {
		e.r.Warning(fmt.Sprintf("position %d clamped to %d", pos, res.Position))
	}
	if !res.NoOp {
		e.r.Success(fmt.Sprintf("inserted %d bases at %d", res.Count, res.Position))
	}
	return nil
}

func (e *editor) show() {
	v := e.sess.View()
	e.r.Header(2, fmt.Sprintf("%s (%d bases)", v.Gene, len(v.Sequence)))
	e.r.Sequence(v.Sequence, v.Edited)
	e.r.Muted(fmt.Sprintf("Edits: %d", v.EditCount))
}

func (e *editor) metrics() error {
	sum, trends := e.sess.Metrics()
	res := e.sess.Analysis()
	report := metricsReport{
		Gene:     res.Gene,
		Length:   len(e.sess.Sequence()),
		Baseline: len(res.Sequence),
		Summary:  sum,
		Trends:   trends,
	}
	return report.render(e.r)
}

func (e *editor) history() {
	v := e.sess.View()
	e.r.KeyValue("Undo steps", fmt.Sprintf("%d of %d", v.HistoryLen, e.historyLimit))
	e.r.KeyValue("Evicted", strconv.Itoa(v.Evicted))
	e.r.KeyValue("Edits", strconv.Itoa(v.EditCount))
}

func (e *editor) report(op string, res sequence.Result) {
	for _, w := range res.Warnings {
		e.r.Warning(fmt.Sprintf("%s: %s", op, w.String()))
	}
	if res.NoOp && len(res.Warnings) == 0 {
		e.r.Warning(op + ": nothing changed")
	}
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: must be an integer", s)
	}
	return n, nil
}

func printEditHelp(w io.Writer) {
	var b strings.Builder
	b.WriteString("\nCommands:\n")
	for _, c := range EditCommands {
		usage := c.Usage()
		for _, alias := range c.Aliases {
			usage += " / " + alias
		}
		fmt.Fprintf(&b, "  %-20s %s\n", usage, c.Description)
	}
	b.WriteString(`
Tips:
  - Positions are 0-based
  - Invalid characters are dropped with a warning
  - Use arrow keys to navigate history
`)
	_, _ = fmt.Fprintln(w, b.String())
}
