package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/kv/memstore"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/ui"
)

// run executes one command line against s, capturing both streams.
func run(t *testing.T, s *store.Store, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	oldOut, oldErr := ui.Stdout, ui.Stderr
	ui.Stdout, ui.Stderr = &stdout, &stderr
	defer func() { ui.Stdout, ui.Stderr = oldOut, oldErr }()

	code := Run(args, Options{Store: s, DefaultPriority: model.PriorityMedium})
	return code, stdout.String(), stderr.String()
}

func newStore() *store.Store { return store.New(memstore.New()) }

func idArg(id int64) string { return strconv.FormatInt(id, 10) }

func TestAddAndList(t *testing.T) {
	s := newStore()
	code, out, errOut := run(t, s, "add", "-p", "high", "-d", "semi-skimmed", "Buy", "milk")
	if code != 0 {
		t.Fatalf("add exit %d: %s", code, errOut)
	}
	todos := s.Todos()
	want := model.Todo{ID: todos[0].ID, Title: "Buy milk", Description: "semi-skimmed", Priority: model.PriorityHigh}
	if len(todos) != 1 || todos[0] != want {
		t.Fatalf("store = %+v, want [%+v]", todos, want)
	}
	if !strings.Contains(out, "added #"+idArg(want.ID)) {
		t.Errorf("add output = %q", out)
	}

	code, out, _ = run(t, s, "ls")
	if code != 0 {
		t.Fatalf("ls exit %d", code)
	}
	for _, frag := range []string{"Buy milk", "[high]", "semi-skimmed", "0%"} {
		if !strings.Contains(out, frag) {
			t.Errorf("ls output missing %q:\n%s", frag, out)
		}
	}
}

func TestAddUsesDefaultPriority(t *testing.T) {
	s := newStore()
	var buf bytes.Buffer
	old := ui.Stdout
	ui.Stdout = &buf
	defer func() { ui.Stdout = old }()

	if code := Run([]string{"add", "x"}, Options{Store: s, DefaultPriority: model.PriorityLow}); code != 0 {
		t.Fatalf("exit %d", code)
	}
	if got := s.Todos()[0].Priority; got != model.PriorityLow {
		t.Errorf("priority = %q, want low", got)
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no title", []string{"add"}},
		{"blank title", []string{"add", "  "}},
		{"bad priority", []string{"add", "-p", "urgent", "x"}},
		{"unknown flag", []string{"add", "--nope", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			code, _, errOut := run(t, s, tt.args...)
			if code != 2 {
				t.Errorf("exit = %d, want 2", code)
			}
			if errOut == "" {
				t.Error("no error printed")
			}
			if s.Len() != 0 {
				t.Errorf("store changed: %+v", s.Todos())
			}
		})
	}
}

func TestFlagErrorsAreReported(t *testing.T) {
	for _, args := range [][]string{
		{"add", "--nope", "x"},
		{"edit", "1", "--nope"},
		{"ls", "--sort"},
		{"export", "-z"},
	} {
		t.Run(args[0], func(t *testing.T) {
			code, _, errOut := run(t, newStore(), args...)
			if code != 2 {
				t.Errorf("exit = %d, want 2", code)
			}
			if !strings.Contains(errOut, args[0]+": ") || !strings.Contains(errOut, "--help") {
				t.Errorf("stderr = %q", errOut)
			}
		})
	}
}

func TestSubcommandHelp(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"add", "--help"}, []string{"todo add", "--priority", "--description"}},
		{[]string{"add", "-h"}, []string{"todo add"}},
		{[]string{"edit", "--help"}, []string{"todo edit <id>", "--title"}},
		{[]string{"ls", "--help"}, []string{"todo ls", "--sort"}},
		{[]string{"export", "--help"}, []string{"todo export", "--format"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			s := newStore()
			code, out, errOut := run(t, s, tt.args...)
			if code != 0 {
				t.Errorf("exit = %d, want 0 (stderr %q)", code, errOut)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("help missing %q:\n%s", w, out)
				}
			}
			if s.Len() != 0 {
				t.Error("help changed the store")
			}
		})
	}
}

func TestDoneAndUndone(t *testing.T) {
	s := newStore()
	todo, _ := s.AddTodo(model.Input{Title: "a", Priority: model.PriorityLow})

	if code, _, _ := run(t, s, "done", "#"+idArg(todo.ID)); code != 0 {
		t.Fatalf("done exit %d", code)
	}
	if got, _ := s.Get(todo.ID); !got.Completed {
		t.Fatal("done did not complete the item")
	}
	if code, _, _ := run(t, s, "undone", idArg(todo.ID)); code != 0 {
		t.Fatalf("undone exit %d", code)
	}
	if got, _ := s.Get(todo.ID); got.Completed {
		t.Fatal("undone did not reopen the item")
	}
}

func TestUnknownID(t *testing.T) {
	for _, cmd := range [][]string{{"done", "1"}, {"undone", "1"}, {"rm", "1"}, {"prio", "1", "high"}, {"edit", "1", "-t", "x"}} {
		t.Run(cmd[0], func(t *testing.T) {
			s := newStore()
			s.AddTodo(model.Input{Title: "a", Priority: model.PriorityLow})
			before := s.Todos()

			code, _, errOut := run(t, s, cmd...)
			if code != 2 {
				t.Errorf("exit = %d, want 2", code)
			}
			if !strings.Contains(errOut, "no todo with id 1") || !strings.Contains(errOut, "Hint:") {
				t.Errorf("stderr = %q", errOut)
			}
			if got := s.Todos(); len(got) != 1 || got[0] != before[0] {
				t.Errorf("store changed: %+v", got)
			}
		})
	}

	s := newStore()
	if code, _, errOut := run(t, s, "rm", "abc"); code != 2 || !strings.Contains(errOut, "not an id") {
		t.Errorf("rm abc: exit %d, stderr %q", code, errOut)
	}
}

func TestPriorityGivesNewID(t *testing.T) {
	s := newStore()
	todo, _ := s.AddTodo(model.Input{Title: "a", Priority: model.PriorityLow})

	code, out, _ := run(t, s, "prio", idArg(todo.ID), "h")
	if code != 0 {
		t.Fatalf("prio exit %d", code)
	}
	got := s.Todos()[0]
	if got.Priority != model.PriorityHigh || got.ID == todo.ID {
		t.Errorf("after prio = %+v", got)
	}
	if !strings.Contains(out, "now #"+idArg(got.ID)) {
		t.Errorf("prio output = %q", out)
	}

	if code, _, _ := run(t, s, "prio", idArg(got.ID), "urgent"); code != 2 {
		t.Errorf("bad level exit = %d, want 2", code)
	}
}

func TestEditKeepsUnsetFields(t *testing.T) {
	s := newStore()
	todo, _ := s.AddTodo(model.Input{Title: "Buy milk", Description: "2l", Priority: model.PriorityHigh})
	s.SetCompleted(todo.ID, true)

	code, _, errOut := run(t, s, "edit", idArg(todo.ID), "-t", "Buy oat milk")
	if code != 0 {
		t.Fatalf("edit exit %d: %s", code, errOut)
	}
	got := s.Todos()[0]
	if got.Title != "Buy oat milk" || got.Description != "2l" || got.Priority != model.PriorityHigh || !got.Completed {
		t.Errorf("after edit = %+v", got)
	}
	if got.ID == todo.ID {
		t.Error("edit kept the old id")
	}

	code, _, _ = run(t, s, "edit", idArg(got.ID), "-d", "", "-p", "low")
	if code != 0 {
		t.Fatalf("second edit exit %d", code)
	}
	got = s.Todos()[0]
	if got.Description != "" || got.Priority != model.PriorityLow {
		t.Errorf("after second edit = %+v", got)
	}

	if code, _, _ := run(t, s, "edit", idArg(got.ID), "-t", " "); code != 2 {
		t.Errorf("blank title exit = %d, want 2", code)
	}
}

func TestRemove(t *testing.T) {
	s := newStore()
	a, _ := s.AddTodo(model.Input{Title: "a", Priority: model.PriorityLow})
	b, _ := s.AddTodo(model.Input{Title: "b", Priority: model.PriorityLow})

	if code, _, _ := run(t, s, "rm", idArg(a.ID)); code != 0 {
		t.Fatalf("rm exit %d", code)
	}
	if got := s.Todos(); len(got) != 1 || got[0].ID != b.ID {
		t.Errorf("after rm = %+v", got)
	}
}

func TestListSortAndGroup(t *testing.T) {
	s := newStore()
	s.AddTodo(model.Input{Title: "lowly", Priority: model.PriorityLow})
	hi, _ := s.AddTodo(model.Input{Title: "urgent", Priority: model.PriorityHigh})
	s.SetCompleted(hi.ID, true)

	_, out, _ := run(t, s, "ls", "--sort", "priority")
	if strings.Index(out, "urgent") > strings.Index(out, "lowly") {
		t.Errorf("priority sort put low first:\n%s", out)
	}

	_, out, _ = run(t, s, "ls", "--group")
	pending, done := strings.Index(out, "Pending"), strings.Index(out, "Done")
	if pending < 0 || done < 0 {
		t.Fatalf("grouped output missing headings:\n%s", out)
	}
	if i := strings.Index(out, "lowly"); i < pending || i > done {
		t.Errorf("pending item outside its group:\n%s", out)
	}
	if i := strings.Index(out, "urgent"); i < done {
		t.Errorf("done item outside its group:\n%s", out)
	}

	if code, _, _ := run(t, s, "ls", "--sort", "name"); code != 2 {
		t.Errorf("unknown sort exit = %d, want 2", code)
	}
}

func TestExport(t *testing.T) {
	s := newStore()
	s.AddTodo(model.Input{Title: "Buy milk", Priority: model.PriorityHigh})

	code, out, _ := run(t, s, "export")
	if code != 0 {
		t.Fatalf("export exit %d", code)
	}
	var got []model.Todo
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("export is not JSON: %v\n%s", err, out)
	}
	if len(got) != 1 || got[0] != s.Todos()[0] {
		t.Errorf("exported %+v", got)
	}

	code, out, _ = run(t, s, "export", "--format", "yaml")
	if code != 0 {
		t.Fatalf("yaml export exit %d", code)
	}
	got = nil
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("export is not YAML: %v\n%s", err, out)
	}
	if len(got) != 1 || got[0] != s.Todos()[0] {
		t.Errorf("yaml exported %+v", got)
	}

	if _, out, _ := run(t, newStore(), "export"); strings.TrimSpace(out) != "[]" {
		t.Errorf("empty export = %q, want []", out)
	}
	if code, _, _ := run(t, s, "export", "--format", "xml"); code != 2 {
		t.Errorf("unknown format exit = %d, want 2", code)
	}
}

func TestImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.jsonc")
	src := `[
  // groceries
  {"title": "Buy milk", "priority": "high", "description": "2l"},
  {"title": "Call mum", "completed": true},
  {"title": "   "},
  {"title": "x", "priority": "urgent"},
]`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newStore()
	code, out, errOut := run(t, s, "import", path)
	if code != 0 {
		t.Fatalf("import exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "imported 2, skipped 2") {
		t.Errorf("import output = %q", out)
	}
	if !strings.Contains(errOut, "entry 2: title") || !strings.Contains(errOut, "entry 3: priority") {
		t.Errorf("stderr = %q", errOut)
	}

	todos := s.Todos()
	if len(todos) != 2 {
		t.Fatalf("store = %+v", todos)
	}
	if todos[0].Title != "Buy milk" || todos[0].Priority != model.PriorityHigh || todos[0].Description != "2l" {
		t.Errorf("first = %+v", todos[0])
	}
	if todos[1].Title != "Call mum" || todos[1].Priority != model.PriorityMedium || !todos[1].Completed {
		t.Errorf("second = %+v", todos[1])
	}
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"title": "not an array"}`), 0o644)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing arg", []string{"import"}, 2},
		{"missing file", []string{"import", filepath.Join(dir, "nope.json")}, 1},
		{"not an array", []string{"import", bad}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			if code, _, _ := run(t, s, tt.args...); code != tt.code {
				t.Errorf("exit = %d, want %d", code, tt.code)
			}
			if s.Len() != 0 {
				t.Errorf("store changed")
			}
		})
	}
}

func TestUnknownSubcommand(t *testing.T) {
	code, out, errOut := run(t, newStore(), "frobnicate")
	if code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
	if !strings.Contains(errOut, "unknown subcommand: frobnicate") || !strings.Contains(out, "Usage:") {
		t.Errorf("stdout=%q stderr=%q", out, errOut)
	}
	if code, _, _ := run(t, newStore()); code != 2 {
		t.Errorf("no args exit = %d, want 2", code)
	}
	if code, out, _ := run(t, newStore(), "help"); code != 0 || !strings.Contains(out, "Subcommands:") {
		t.Errorf("help exit %d", code)
	}
}

func TestOpenStorage(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		file    string
	}{
		{config.BackendFile, "todos.json"},
		{config.BackendSQLite, config.DefaultDBFile},
		{config.BackendMemory, ""},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := config.Default()
			cfg.Backend = tt.backend
			cfg.DataDir = filepath.Join(dir, tt.backend)
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				t.Fatal(err)
			}

			slot, err := OpenStorage(cfg)
			if err != nil {
				t.Fatalf("OpenStorage: %v", err)
			}
			s := store.New(slot)
			if _, err := s.AddTodo(model.Input{Title: "persist me", Priority: model.PriorityLow}); err != nil {
				t.Fatal(err)
			}
			if err := slot.Close(); err != nil {
				t.Fatal(err)
			}

			if tt.file == "" {
				return
			}
			if _, err := os.Stat(filepath.Join(cfg.DataDir, tt.file)); err != nil {
				t.Fatalf("backend file: %v", err)
			}
			slot, err = OpenStorage(cfg)
			if err != nil {
				t.Fatal(err)
			}
			defer slot.Close()
			if got := store.New(slot).Todos(); len(got) != 1 || got[0].Title != "persist me" {
				t.Errorf("reopened store = %+v", got)
			}
		})
	}

	cfg := config.Default()
	cfg.Backend = "redis"
	if _, err := OpenStorage(cfg); err == nil {
		t.Error("unknown backend accepted")
	}
}
