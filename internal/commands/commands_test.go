package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/resolver"
	"todo/internal/service"
	"todo/internal/store"
	"todo/internal/testutil"
)

// fixture is a Manager over an in-memory store with scripted prompts.
type fixture struct {
	gw      *testutil.MemoryGateway
	confirm *testutil.ScriptedConfirmer
	sel     *testutil.ScriptedSelector
	exit    *testutil.ExitRecorder
	prompts *bytes.Buffer
	svc     *service.Manager
}

func newFixture(lists ...string) *fixture {
	f := &fixture{
		gw:      testutil.NewMemoryGateway(lists...),
		confirm: &testutil.ScriptedConfirmer{},
		sel:     &testutil.ScriptedSelector{},
		exit:    &testutil.ExitRecorder{},
		prompts: &bytes.Buffer{},
	}
	res := resolver.New(f.confirm, f.sel, f.prompts, resolver.WithExit(f.exit.Exit))
	f.svc = service.NewManager(f.gw, res, f.sel, nil)
	return f
}

// runCommand is a helper to run a command against a service.
func runCommand(t *testing.T, cmd commands.Command, svc service.Service, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	return runWithConfig(t, newConfig(t, quiet), cmd, svc, args)
}

func runWithConfig(t *testing.T, cfg *config.Config, cmd commands.Command, svc service.Service, args []string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(context.Background(), cfg, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func expectCode(t *testing.T, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

func TestHelpCommand_ForCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.HelpCmd{}, nil, []string{"done"}, false)

	expectCode(t, exitcode.Success, code)
	want := "Toggle a task between done and not done\n\nUsage:\n  todo check [--list <list-name>] [task...]\n\nAliases: done\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestHelpCommand_UnknownCommand(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, []string{"bogus"}, false)

	expectCode(t, exitcode.UserError, code)
	if !strings.HasPrefix(stderr, "error: unknown command: bogus (commands: add, addlist, change, check,") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRegistry_Conflicts(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.CheckCmd{}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&commands.CheckCmd{}); err == nil {
		t.Error("expected duplicate name to fail")
	}
	if cmd, ok := r.Find("done"); !ok || cmd.Name() != "check" {
		t.Error("expected alias lookup to find check")
	}
	if names := r.Names(); len(names) != 1 || names[0] != "check" {
		t.Errorf("expected [check], got %v", names)
	}
}

func TestRegistry_AllCommandsRegistered(t *testing.T) {
	for _, name := range []string{
		"tasks", "ls", "add", "rm", "remove", "check", "done",
		"lists", "addlist", "createlist", "rmlist", "removelist",
		"change", "login", "logout", "help", "version",
	} {
		if _, ok := commands.DefaultRegistry.Find(name); !ok {
			t.Errorf("command %q not registered", name)
		}
	}
	if cmd, ok := commands.DefaultRegistry.Default(); !ok || cmd.Name() != "tasks" {
		t.Errorf("expected tasks as default command")
	}
}

// Tests for tasks command
func TestTasksCommand_AllLists(t *testing.T) {
	f := newFixture("default", "empty", "work")
	f.gw.AddTask("default", "buy milk", false)
	f.gw.AddTask("work", "report", true)
	f.gw.AddTask("work", "email", false)

	stdout, stderr, code := runCommand(t, &commands.TasksCmd{}, f.svc, nil, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	want := "------------\n" +
		"default [default]\n" +
		"------------\n" +
		"       1  [ ] buy milk\n" +
		"\n" +
		"------------\n" +
		"work\n" +
		"------------\n" +
		"       1  [x] report\n" +
		"       2  [ ] email\n"
	if stdout != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, stdout)
	}
}

func TestTasksCommand_SpecificList(t *testing.T) {
	f := newFixture("default", "work")
	f.gw.AddTask("work", "report", false)

	cmd := &commands.TasksCmd{}
	cmd.SetListName("work")
	stdout, _, code := runCommand(t, cmd, f.svc, nil, false)

	expectCode(t, exitcode.Success, code)
	if stdout != "   1  [ ] report\n" {
		t.Errorf("unexpected output %q", stdout)
	}

	// Positional list name works the same
	stdout, _, _ = runCommand(t, &commands.TasksCmd{}, f.svc, []string{"work"}, false)
	if stdout != "   1  [ ] report\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestTasksCommand_Empty(t *testing.T) {
	f := newFixture("default")

	stdout, _, code := runCommand(t, &commands.TasksCmd{}, f.svc, nil, false)
	expectCode(t, exitcode.Success, code)
	if stdout != "no tasks\n" {
		t.Errorf("expected 'no tasks', got %q", stdout)
	}

	stdout, _, _ = runCommand(t, &commands.TasksCmd{}, f.svc, nil, true)
	if stdout != "" {
		t.Errorf("expected no output in quiet mode, got %q", stdout)
	}
}

func TestTasksCommand_ListNotFound(t *testing.T) {
	f := newFixture("default")

	cmd := &commands.TasksCmd{}
	cmd.SetListName("nope")
	stdout, stderr, code := runCommand(t, cmd, f.svc, nil, false)

	expectCode(t, exitcode.UserError, code)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: list not found: nope\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestTasksCommand_YAML(t *testing.T) {
	f := newFixture("work")
	f.gw.AddTask("work", "report", true)

	cmd := &commands.TasksCmd{}
	cmd.SetFormat("yaml")
	stdout, _, code := runCommand(t, cmd, f.svc, nil, false)

	expectCode(t, exitcode.Success, code)
	want := "- name: work\n  tasks:\n    - name: report\n      checked: true\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestTasksCommand_BadFormat(t *testing.T) {
	cmd := &commands.TasksCmd{}
	cmd.SetFormat("xml")
	_, stderr, code := runCommand(t, cmd, newFixture().svc, nil, false)

	expectCode(t, exitcode.UserError, code)
	if stderr != "error: unknown format: xml\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for lists command
func TestListsCommand(t *testing.T) {
	f := newFixture("default", "work")

	stdout, stderr, code := runCommand(t, &commands.ListsCmd{}, f.svc, nil, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "default [default]\nwork\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestListsCommand_JSON(t *testing.T) {
	f := newFixture("default", "work")

	cmd := &commands.ListsCmd{}
	cmd.SetFormat("json")
	stdout, _, code := runCommand(t, cmd, f.svc, nil, false)

	expectCode(t, exitcode.Success, code)
	if stdout != "[\n  \"default\",\n  \"work\"\n]\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

// Tests for add command
func TestAddCommand_DefaultList(t *testing.T) {
	f := newFixture("default")

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, f.svc, []string{"buy", "milk"}, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if !f.gw.Snapshot().Contains("default", "buy milk") {
		t.Error("task should be in the default list")
	}
}

func TestAddCommand_ToSpecificList(t *testing.T) {
	f := newFixture("default", "work")

	cmd := &commands.AddCmd{}
	cmd.SetListName("work")
	stdout, _, code := runCommand(t, cmd, f.svc, []string{"report"}, true)

	expectCode(t, exitcode.Success, code)
	if stdout != "" {
		t.Errorf("expected no output in quiet mode, got %q", stdout)
	}
	if !f.gw.Snapshot().Contains("work", "report") {
		t.Error("task should be in work")
	}
}

func TestAddCommand_Errors(t *testing.T) {
	f := newFixture("default")
	f.gw.AddTask("default", "a", false)

	_, stderr, code := runCommand(t, &commands.AddCmd{}, f.svc, nil, false)
	expectCode(t, exitcode.UserError, code)
	if stderr != "error: task name required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}

	_, stderr, code = runCommand(t, &commands.AddCmd{}, f.svc, []string{"a"}, false)
	expectCode(t, exitcode.UserError, code)
	if stderr != "error: task already exists: a\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}

	cmd := &commands.AddCmd{}
	cmd.SetListName("nope")
	_, stderr, code = runCommand(t, cmd, f.svc, []string{"b"}, false)
	expectCode(t, exitcode.UserError, code)
	if stderr != "error: list not found: nope\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	f := newFixture("default")
	f.gw.AddTask("default", "a", false)

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, f.svc, []string{"a"}, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "removed \"a\" from default\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestRmCommand_FoundElsewhere(t *testing.T) {
	f := newFixture("default", "home")
	f.gw.AddTask("home", "buy milk", false)
	f.confirm.Answers = []bool{true}

	stdout, _, code := runCommand(t, &commands.RmCmd{}, f.svc, []string{"buy milk"}, false)

	expectCode(t, exitcode.Success, code)
	if stdout != "removed \"buy milk\" from home\n" {
		t.Errorf("unexpected output %q", stdout)
	}
	if len(f.confirm.Questions) != 1 || !strings.Contains(f.confirm.Questions[0], `"home"`) {
		t.Errorf("expected one question naming home, got %v", f.confirm.Questions)
	}
}

func TestRmCommand_DeclinedIsSilent(t *testing.T) {
	f := newFixture("default", "home")
	f.gw.AddTask("home", "buy milk", false)
	f.confirm.Answers = []bool{false}

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, f.svc, []string{"buy milk"}, false)

	expectCode(t, exitcode.Success, code)
	if stdout != "" || stderr != "" {
		t.Errorf("expected no output, got stdout %q stderr %q", stdout, stderr)
	}
	if !f.gw.Snapshot().Contains("home", "buy milk") {
		t.Error("task should not be removed")
	}
}

func TestRmCommand_NotFound(t *testing.T) {
	f := newFixture("default")

	_, stderr, code := runCommand(t, &commands.RmCmd{}, f.svc, []string{"ghost"}, false)

	expectCode(t, exitcode.UserError, code)
	if stderr != "error: task not found: ghost\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRmCommand_Interactive(t *testing.T) {
	f := newFixture("default", "work")
	f.gw.AddTask("work", "a", false)
	f.gw.AddTask("work", "b", false)
	f.sel.Picks = [][]string{{"All"}, {"work: a", "work: b"}}

	stdout, _, code := runCommand(t, &commands.RmCmd{}, f.svc, nil, false)

	expectCode(t, exitcode.Success, code)
	if stdout != "removed \"a\" from work\nremoved \"b\" from work\n" {
		t.Errorf("unexpected output %q", stdout)
	}
	if tasks, _ := f.gw.Snapshot().Tasks("work"); len(tasks) != 0 {
		t.Errorf("expected work emptied, got %v", tasks)
	}
}

func TestRmCommand_NothingSelected(t *testing.T) {
	f := newFixture("work")
	f.gw.AddTask("work", "a", false)
	f.sel.Picks = [][]string{{}}

	_, stderr, code := runCommand(t, &commands.RmCmd{}, f.svc, nil, false)

	expectCode(t, exitcode.UserError, code)
	if stderr != "error: nothing selected\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for check command
func TestCheckCommand_FirstMatch(t *testing.T) {
	f := newFixture("a", "b")
	f.gw.AddTask("a", "x", false)
	f.gw.AddTask("b", "x", false)

	stdout, _, code := runCommand(t, &commands.CheckCmd{}, f.svc, []string{"x"}, false)

	expectCode(t, exitcode.Success, code)
	if stdout != "checked \"x\" in a\n" {
		t.Errorf("unexpected output %q", stdout)
	}

	stdout, _, _ = runCommand(t, &commands.CheckCmd{}, f.svc, []string{"x"}, false)
	if stdout != "unchecked \"x\" in a\n" {
		t.Errorf("expected toggle back, got %q", stdout)
	}
}

func TestCheckCommand_MultipleCandidates(t *testing.T) {
	f := newFixture("a", "b", "c")
	f.gw.AddTask("a", "x", false)
	f.gw.AddTask("b", "x", false)
	f.confirm.Answers = []bool{true}
	f.sel.Picks = [][]string{{"b"}}

	cmd := &commands.CheckCmd{}
	cmd.SetListName("c")
	stdout, _, code := runCommand(t, cmd, f.svc, []string{"x"}, false)

	expectCode(t, exitcode.Success, code)
	if stdout != "checked \"x\" in b\n" {
		t.Errorf("unexpected output %q", stdout)
	}
	want := "Task \"x\" is not in \"c\" but was found in 2 lists:\n   1  a\n   2  b\n"
	if f.prompts.String() != want {
		t.Errorf("expected prompt %q, got %q", want, f.prompts.String())
	}
}

func TestCheckCommand_AbandonedExitsZero(t *testing.T) {
	f := newFixture("a", "b", "c")
	f.gw.AddTask("a", "x", false)
	f.gw.AddTask("b", "x", false)
	f.confirm.Answers = []bool{false}

	cmd := &commands.CheckCmd{}
	cmd.SetListName("c")
	stdout, stderr, code := runCommand(t, cmd, f.svc, []string{"x"}, false)

	expectCode(t, exitcode.Success, code)
	if stdout != "" || stderr != "" {
		t.Errorf("expected no output, got stdout %q stderr %q", stdout, stderr)
	}
	if len(f.exit.Codes) != 1 || f.exit.Codes[0] != exitcode.Success {
		t.Errorf("expected exit hook with code 0, got %v", f.exit.Codes)
	}
	if f.gw.Saves() != 0 {
		t.Error("store must not be saved")
	}
}

// Tests for list management commands
func TestAddListCommand(t *testing.T) {
	f := newFixture("default")

	stdout, _, code := runCommand(t, &commands.AddListCmd{}, f.svc, []string{"work"}, false)
	expectCode(t, exitcode.Success, code)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	_, stderr, code := runCommand(t, &commands.AddListCmd{}, f.svc, []string{"work"}, false)
	expectCode(t, exitcode.UserError, code)
	if stderr != "error: list already exists: work\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}

	_, stderr, code = runCommand(t, &commands.AddListCmd{}, f.svc, nil, false)
	expectCode(t, exitcode.UserError, code)
	if stderr != "error: list name required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRmListCommand(t *testing.T) {
	f := newFixture("default", "work")
	f.gw.AddTask("work", "a", false)

	stdout, _, code := runCommand(t, &commands.RmListCmd{}, f.svc, []string{"work"}, false)
	expectCode(t, exitcode.Success, code)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if f.gw.Snapshot().Has("work") {
		t.Error("work should be deleted with its tasks")
	}

	_, stderr, code := runCommand(t, &commands.RmListCmd{}, f.svc, []string{"work"}, false)
	expectCode(t, exitcode.UserError, code)
	if stderr != "error: list not found: work\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestChangeCommand(t *testing.T) {
	f := newFixture("default", "work")
	cfg := newConfig(t, false)

	stdout, _, code := runWithConfig(t, cfg, &commands.ChangeCmd{}, f.svc, []string{"work"})
	expectCode(t, exitcode.Success, code)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	data, err := os.ReadFile(cfg.SettingsPath())
	if err != nil {
		t.Fatalf("config.toml not written: %v", err)
	}
	if !strings.Contains(string(data), `default_list = "work"`) {
		t.Errorf("expected default_list in config.toml, got:\n%s", data)
	}

	reloaded, err := config.New(cfg.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Settings.DefaultList != "work" {
		t.Errorf("expected default list work, got %q", reloaded.Settings.DefaultList)
	}
}

func TestChangeCommand_DoesNotPersistEnv(t *testing.T) {
	f := newFixture("default", "work")
	dir := t.TempDir()
	t.Setenv(config.EnvBackend, config.BackendGoogle)
	t.Setenv(config.EnvDefaultList, "scratch")
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.Bootstrap(); err != nil {
		t.Fatal(err)
	}

	_, _, code := runWithConfig(t, cfg, &commands.ChangeCmd{}, f.svc, []string{"work"})
	expectCode(t, exitcode.Success, code)

	data, err := os.ReadFile(cfg.SettingsPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `default_list = "work"`) {
		t.Errorf("expected default_list in config.toml, got:\n%s", data)
	}
	if strings.Contains(string(data), "scratch") || strings.Contains(string(data), config.BackendGoogle) {
		t.Errorf("environment values written to config.toml:\n%s", data)
	}
}

func TestChangeCommand_ListNotFound(t *testing.T) {
	f := newFixture("default")
	cfg := newConfig(t, false)

	_, stderr, code := runWithConfig(t, cfg, &commands.ChangeCmd{}, f.svc, []string{"nope"})
	expectCode(t, exitcode.UserError, code)
	if stderr != "error: list not found: nope\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if _, err := os.Stat(cfg.SettingsPath()); !os.IsNotExist(err) {
		t.Error("config.toml must not be written")
	}
}

// Error mapping
func TestStorageErrorExitCode(t *testing.T) {
	f := newFixture("default")
	f.gw.LoadErr = &store.StorageError{Op: "load", Path: "/x/tasks.json", Err: errors.New("unexpected EOF")}

	_, stderr, code := runCommand(t, &commands.TasksCmd{}, f.svc, nil, false)

	expectCode(t, exitcode.StorageError, code)
	if stderr != "error: load store /x/tasks.json: unexpected EOF\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAuthErrorExitCode(t *testing.T) {
	f := newFixture("default")
	f.gw.LoadErr = fmt.Errorf("%w: token expired or revoked", store.ErrAuth)

	_, _, code := runCommand(t, &commands.ListsCmd{}, f.svc, nil, false)
	expectCode(t, exitcode.AuthError, code)
}
