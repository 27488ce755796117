package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

// Options carry what the subcommands share.
type Options struct {
	Group           bool // list grouped by pending/done
	DefaultPriority model.Priority
	Store           *store.Store
	Logger          *log.Logger
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	if opt.Logger == nil {
		opt.Logger = log.New(io.Discard)
	}
	if !opt.DefaultPriority.Valid() {
		opt.DefaultPriority = model.PriorityMedium
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0
	case "ls", "list":
		return doList(a, opt)
	case "add":
		return doAdd(a, opt)
	case "done":
		return doSetCompleted(a, opt, true)
	case "undone", "undo":
		return doSetCompleted(a, opt, false)
	case "prio", "priority":
		return doPriority(a, opt)
	case "edit":
		return doEdit(a, opt)
	case "rm", "remove":
		return doRemove(a, opt)
	case "export":
		return doExport(a, opt)
	case "import":
		return doImport(a, opt)
	case "tui":
		if err := tui.Run(opt.Store, tui.Options{DefaultPriority: opt.DefaultPriority, Logger: opt.Logger}); err != nil {
			ui.Fail("tui: " + err.Error())
			return 1
		}
		return 0
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Fprint(ui.Stdout, `todo - a tiny prioritised todo list

Usage:
  todo [global flags] <subcommand> [args]

Subcommands:
  add [-p prio] [-d desc] <title...>   Add a new item (title can be multiple words)
  ls [--group] [--sort priority]       List items with their ids
  done <id>                            Mark item completed
  undone <id>                          Mark item not completed
  prio <id> <low|medium|high>          Change priority (the item gets a new id)
  edit <id> [-t title] [-d desc] [-p prio]
                                       Change fields (the item gets a new id)
  rm <id>                              Remove item
  export [--format json|yaml]          Print all items
  import <file>                        Add items from a JSON/JSONC array
  tui                                  Interactive list (default on a terminal)

Global flags:
  --backend file|sqlite|memory   --data-dir DIR   --default-priority LEVEL
  --theme classic|neon|mono      --no-color       -g, --group
  --log-level LEVEL              --log-format text|json|logfmt   --log-file PATH

Examples:
  todo add -p high "Buy milk"
  todo ls
  todo done 1712345678901
  todo rm 1712345678901
`)
}

// newFlagSet builds a subcommand flag set. --help prints usage to stdout.
func newFlagSet(name, usage string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(ui.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(ui.Stdout, "Usage:\n  todo %s %s\n\nFlags:\n%s", name, usage, fs.FlagUsages())
	}
	return fs
}

// parseFlags parses args into fs. When it returns false the subcommand
// must stop and exit with code.
func parseFlags(fs *pflag.FlagSet, args []string) (code int, ok bool) {
	err := fs.Parse(args)
	switch {
	case err == nil:
		return 0, true
	case errors.Is(err, pflag.ErrHelp):
		return 0, false
	}
	ui.Fail(fs.Name() + ": " + err.Error())
	ui.Hint("run `todo " + fs.Name() + " --help` for usage")
	return 2, false
}

// parseID accepts "123" or "#123".
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an id: %s", s)
	}
	return id, nil
}

// lookup resolves an id argument, printing the failure itself.
func lookup(cmd, arg string, opt Options) (model.Todo, int) {
	id, err := parseID(arg)
	if err != nil {
		ui.Fail(cmd + ": " + err.Error())
		return model.Todo{}, 2
	}
	t, ok := opt.Store.Get(id)
	if !ok {
		ui.Fail(fmt.Sprintf("%s: no todo with id %d", cmd, id))
		ui.Hint("ids change after edit and prio; run `todo ls` to see current ids")
		return model.Todo{}, 2
	}
	return t, 0
}

// -------------- subcommand impls ----------------

func doAdd(args []string, opt Options) int {
	fs := newFlagSet("add", "[-p prio] [-d desc] <title...>")
	prio := fs.StringP("priority", "p", string(opt.DefaultPriority), "low, medium or high")
	desc := fs.StringP("description", "d", "", "optional details")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() == 0 {
		ui.Fail("usage: todo add [-p prio] [-d desc] <title...>")
		return 2
	}

	in := model.Input{
		Title:       strings.Join(fs.Args(), " "),
		Description: *desc,
	}
	p, err := model.ParsePriority(*prio)
	if err != nil {
		ui.Fail("add: " + err.Error())
		return 2
	}
	in.Priority = p
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		ui.Fail("add: " + err.Error())
		return 2
	}

	t, err := opt.Store.AddTodo(in)
	if err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("added #%d", t.ID))
	return 0
}

func doSetCompleted(args []string, opt Options, completed bool) int {
	verb := "done"
	if !completed {
		verb = "undone"
	}
	if len(args) != 1 {
		ui.Fail("usage: todo " + verb + " <id>")
		return 2
	}
	t, code := lookup(verb, args[0], opt)
	if code != 0 {
		return code
	}
	if err := opt.Store.SetCompleted(t.ID, completed); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	if completed {
		ui.OK("completed")
	} else {
		ui.OK("reopened")
	}
	return 0
}

func doPriority(args []string, opt Options) int {
	if len(args) != 2 {
		ui.Fail("usage: todo prio <id> <low|medium|high>")
		return 2
	}
	p, err := model.ParsePriority(args[1])
	if err != nil {
		ui.Fail("prio: " + err.Error())
		return 2
	}
	t, code := lookup("prio", args[0], opt)
	if code != 0 {
		return code
	}
	if err := opt.Store.SetPriority(t.ID, p); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("priority %s, now #%d", p, opt.Store.LastID()))
	return 0
}

func doEdit(args []string, opt Options) int {
	fs := newFlagSet("edit", "<id> [-t title] [-d desc] [-p prio]")
	title := fs.StringP("title", "t", "", "new title")
	desc := fs.StringP("description", "d", "", "new description (empty clears it)")
	prio := fs.StringP("priority", "p", "", "new priority")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		ui.Fail("usage: todo edit <id> [-t title] [-d desc] [-p prio]")
		return 2
	}
	t, code := lookup("edit", fs.Arg(0), opt)
	if code != 0 {
		return code
	}

	in := model.InputOf(t)
	if fs.Changed("title") {
		in.Title = *title
	}
	if fs.Changed("description") {
		in.Description = *desc
	}
	if fs.Changed("priority") {
		p, err := model.ParsePriority(*prio)
		if err != nil {
			ui.Fail("edit: " + err.Error())
			return 2
		}
		in.Priority = p
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		ui.Fail("edit: " + err.Error())
		return 2
	}

	if err := opt.Store.UpdateTodo(t.ID, in); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("updated, now #%d", opt.Store.LastID()))
	return 0
}

func doRemove(args []string, opt Options) int {
	if len(args) != 1 {
		ui.Fail("usage: todo rm <id>")
		return 2
	}
	t, code := lookup("rm", args[0], opt)
	if code != 0 {
		return code
	}
	if err := opt.Store.RemoveTodo(t.ID); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK("removed")
	return 0
}

func doList(args []string, opt Options) int {
	fs := newFlagSet("ls", "[--group] [--sort added|priority]")
	group := fs.BoolP("group", "g", opt.Group, "group by pending/done")
	sortBy := fs.String("sort", "added", "order: added or priority")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	items := opt.Store.Todos()
	switch *sortBy {
	case "added":
	case "priority":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Priority.Rank() > items[j].Priority.Rank()
		})
	default:
		ui.Fail("ls: unknown sort " + strconv.Quote(*sortBy))
		return 2
	}

	// Header + progress
	d, p := opt.Store.Stats()
	th := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(th.Title, "Todos"),
		ui.C(th.Success, th.SymDone), d,
		ui.C(th.Pending, th.SymUnchecked), p,
		ui.C(th.Accent, "Total"), d+p,
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(th.Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if *group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(th.Muted, "Tip: add with `todo add -p high \"Buy milk\"`"))
	ui.Panel(lines)
	return 0
}

// -------------- rendering helpers --------------

func flatLines(items []model.Todo) []string {
	th := ui.Current()
	if len(items) == 0 {
		return []string{ui.C(th.Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		box, color := th.BoxUnchecked, th.Muted
		if it.Completed {
			box, color = th.BoxChecked, th.Success
		}
		title := truncate(it.Title, 60)
		line := fmt.Sprintf("%s %s %s %s",
			ui.C(th.Muted, fmt.Sprintf("#%d", it.ID)), ui.C(color, box), ui.PriorityBadge(it.Priority), title)
		if it.Description != "" {
			line += "  " + ui.C(th.Muted, truncate(strings.ReplaceAll(it.Description, "\n", " "), 40))
		}
		out = append(out, line)
	}
	return out
}

func groupLines(items []model.Todo) []string {
	th := ui.Current()
	var pend, done []model.Todo
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, ui.C(th.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(th.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(th.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(th.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}
