package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

// importEntry is one element of an import file. Ids are ignored; the
// store assigns fresh ones.
type importEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
}

// parseImport strips JSONC comments and trailing commas from data and
// decodes the array of entries.
func parseImport(data []byte) ([]importEntry, error) {
	var entries []importEntry
	if err := json.Unmarshal(jsonc.ToJSON(data), &entries); err != nil {
		return nil, fmt.Errorf("parsing import: %w", err)
	}
	return entries, nil
}

// input turns an entry into validated store input, filling a missing
// priority with def.
func (e importEntry) input(def model.Priority) (model.Input, error) {
	in := model.Input{Title: e.Title, Description: e.Description, Priority: def}
	if strings.TrimSpace(e.Priority) != "" {
		p, err := model.ParsePriority(e.Priority)
		if err != nil {
			return model.Input{}, &model.ValidationError{Field: "priority", Reason: err.Error()}
		}
		in.Priority = p
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Input{}, err
	}
	return in, nil
}

func doExport(args []string, opt Options) int {
	fs := newFlagSet("export", "[--format json|yaml]")
	format := fs.StringP("format", "f", "json", "json or yaml")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		ui.Fail("usage: todo export [--format json|yaml]")
		return 2
	}

	todos := opt.Store.Todos()
	var (
		out []byte
		err error
	)
	switch strings.ToLower(*format) {
	case "json":
		if todos == nil {
			todos = []model.Todo{}
		}
		out, err = json.MarshalIndent(todos, "", "  ")
		out = append(out, '\n')
	case "yaml", "yml":
		out, err = yaml.Marshal(todos)
	default:
		ui.Fail("export: unknown format " + *format)
		return 2
	}
	if err != nil {
		ui.Fail("export: " + err.Error())
		return 1
	}
	if _, err := ui.Stdout.Write(out); err != nil {
		return 1
	}
	return 0
}

func doImport(args []string, opt Options) int {
	if len(args) != 1 {
		ui.Fail("usage: todo import <file>")
		return 2
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		ui.Fail("import: " + err.Error())
		return 1
	}
	entries, err := parseImport(data)
	if err != nil {
		ui.Fail("import: " + err.Error())
		return 1
	}

	var added, skipped int
	for i, e := range entries {
		in, err := e.input(opt.DefaultPriority)
		if err != nil {
			opt.Logger.Warn("skipping import entry", "index", i, "err", err)
			ui.Fail(fmt.Sprintf("entry %d: %v", i, err))
			skipped++
			continue
		}
		t, err := opt.Store.AddTodo(in)
		if err != nil {
			ui.Fail("save: " + err.Error())
			return 1
		}
		if e.Completed {
			if err := opt.Store.SetCompleted(t.ID, true); err != nil {
				ui.Fail("save: " + err.Error())
				return 1
			}
		}
		added++
	}

	ui.OK(fmt.Sprintf("imported %d, skipped %d", added, skipped))
	return 0
}
