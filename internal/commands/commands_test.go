package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todosync/internal/commands"
	"todosync/internal/config"
	"todosync/internal/engine"
	"todosync/internal/exitcode"
	"todosync/internal/store"
	"todosync/internal/testutil"
	"todosync/internal/transport"
)

// runCommand is a helper to run a command against a FakeTransport-backed
// engine.
func runCommand(t *testing.T, cmd commands.Command, tp *testutil.FakeTransport, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:     t.TempDir(),
		Backend: config.BackendREST,
		Quiet:   quiet,
	}

	var eng *engine.Engine
	if tp != nil {
		eng = engine.New(tp, store.New(), nil)
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, eng, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todosync 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("help output should contain 'Usage:'")
	}
}

// Tests for lists command
func TestListsCommand(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")
	tp.SeedList("l2", "Work")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "Buy milk"})

	cmd := &commands.ListsCmd{}
	stdout, stderr, code := runCommand(t, cmd, tp, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "a  Shopping (1)\nb  Work (0)\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListsCommand_Empty(t *testing.T) {
	tp := testutil.NewFakeTransport()

	cmd := &commands.ListsCmd{}
	stdout, _, code := runCommand(t, cmd, tp, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no lists found\n" {
		t.Errorf("expected %q, got %q", "no lists found\n", stdout)
	}
}

func TestListsCommand_BackendFailure(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.Fail(testutil.OpGetLists, errors.New("boom"))

	cmd := &commands.ListsCmd{}
	_, stderr, code := runCommand(t, cmd, tp, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.Contains(stderr, "backend error") {
		t.Errorf("expected backend error on stderr, got %q", stderr)
	}
}

// Tests for list command
func TestListCommand_NamedList(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "Buy milk"})
	tp.SeedItem(transport.Item{ID: "i2", ListID: "l1", Title: "Buy eggs"})

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, tp, []string{"shopping"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "------------\nShopping\n------------\n   1  [ ] Buy milk\n   2  [ ] Buy eggs\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_FilterActive(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "Buy milk", Status: transport.StatusCompleted})
	tp.SeedItem(transport.Item{ID: "i2", ListID: "l1", Title: "Buy eggs"})

	cmd := &commands.ListCmd{}
	cmd.SetFilter("active")
	stdout, _, code := runCommand(t, cmd, tp, []string{"Shopping"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}

	expected := "------------\nShopping [active]\n------------\n   1  [ ] Buy eggs\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_UnknownFilter(t *testing.T) {
	tp := testutil.NewFakeTransport()

	cmd := &commands.ListCmd{}
	cmd.SetFilter("bogus")
	_, stderr, code := runCommand(t, cmd, tp, []string{"Shopping"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "unknown filter") {
		t.Errorf("expected filter error, got %q", stderr)
	}
}

func TestListCommand_NotFound(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")

	cmd := &commands.ListCmd{}
	_, stderr, code := runCommand(t, cmd, tp, []string{"nope"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: list not found: nope\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_AllLists(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")
	tp.SeedList("l2", "Work")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "Buy milk"})
	tp.SeedItem(transport.Item{ID: "i2", ListID: "l2", Title: "Ship release", Priority: transport.PriorityHigh, Deadline: "2026-09-01"})

	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, tp, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}

	expected := "------------\nShopping\n------------\na  1  [ ] Buy milk\n" +
		"------------\nWork\n------------\nb  1  [ ] Ship release  !high  due:2026-09-01\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

// Tests for addlist command
func TestAddListCommand(t *testing.T) {
	tp := testutil.NewFakeTransport()

	cmd := &commands.AddListCmd{}
	stdout, stderr, code := runCommand(t, cmd, tp, []string{"Groceries"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
}

func TestAddListCommand_Duplicate(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Groceries")

	cmd := &commands.AddListCmd{}
	_, stderr, code := runCommand(t, cmd, tp, []string{"groceries"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "already exists") {
		t.Errorf("expected duplicate error, got %q", stderr)
	}
}

// Tests for renamelist command
func TestRenameListCommand(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")

	cmd := &commands.RenameListCmd{}
	stdout, _, code := runCommand(t, cmd, tp, []string{"Shopping", "Errands"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
}

func TestRenameListCommand_MissingArgs(t *testing.T) {
	tp := testutil.NewFakeTransport()

	cmd := &commands.RenameListCmd{}
	_, stderr, code := runCommand(t, cmd, tp, []string{"Shopping"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "usage") {
		t.Errorf("expected usage error, got %q", stderr)
	}
}

// Tests for rmlist command
func TestRmListCommand_EmptyList(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")

	cmd := &commands.RmListCmd{}
	stdout, _, code := runCommand(t, cmd, tp, []string{"Shopping"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
}

func TestRmListCommand_NonEmptyNeedsForce(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "Buy milk"})

	cmd := &commands.RmListCmd{}
	_, stderr, code := runCommand(t, cmd, tp, []string{"Shopping"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "--force") {
		t.Errorf("expected force hint, got %q", stderr)
	}
}

func TestRmListCommand_CompletedItemsDoNotBlock(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "Buy milk", Status: transport.StatusCompleted})

	cmd := &commands.RmListCmd{}
	stdout, _, code := runCommand(t, cmd, tp, []string{"Shopping"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
}

func TestRmListCommand_Force(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "Buy milk"})

	cmd := &commands.RmListCmd{}
	cmd.SetForce(true)
	stdout, _, code := runCommand(t, cmd, tp, []string{"Shopping"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
}

// Tests for filter command
func TestFilterCommand(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")

	cmd := &commands.FilterCmd{}
	stdout, _, code := runCommand(t, cmd, tp, []string{"Shopping", "active"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "Shopping: active\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestFilterCommand_UnknownFilter(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")

	cmd := &commands.FilterCmd{}
	_, stderr, code := runCommand(t, cmd, tp, []string{"Shopping", "bogus"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "unknown filter") {
		t.Errorf("expected filter error, got %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_FirstList(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")

	cmd := &commands.AddCmd{}
	stdout, stderr, code := runCommand(t, cmd, tp, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
}

func TestAddCommand_NamedList(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")
	tp.SeedList("l2", "Work")

	cmd := &commands.AddCmd{}
	cmd.SetListName("Work")
	stdout, _, code := runCommand(t, cmd, tp, []string{"Ship release"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")

	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, tp, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "title required") {
		t.Errorf("expected title error, got %q", stderr)
	}
}

func TestAddCommand_NoLists(t *testing.T) {
	tp := testutil.NewFakeTransport()

	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, tp, []string{"Buy milk"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "no lists found") {
		t.Errorf("expected no-lists error, got %q", stderr)
	}
}

func TestAddCommand_FieldRejection(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")
	tp.Reject(testutil.OpCreateItem, testutil.Rejection{
		FieldsErrors: []transport.FieldError{{Field: "title", Error: "too long"}},
	})

	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, tp, []string{"Buy milk"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title: too long\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand_ByNumber(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "Buy milk"})

	cmd := &commands.RmCmd{}
	stdout, _, code := runCommand(t, cmd, tp, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
}

func TestRmCommand_ByLetterRef(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")
	tp.SeedList("l2", "Work")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l2", Title: "Ship release"})

	cmd := &commands.RmCmd{}
	stdout, _, code := runCommand(t, cmd, tp, []string{"b1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
}

func TestRmCommand_OutOfRange(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")

	cmd := &commands.RmCmd{}
	_, stderr, code := runCommand(t, cmd, tp, []string{"5"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "out of range") {
		t.Errorf("expected range error, got %q", stderr)
	}
}

// Tests for done command
func TestDoneCommand(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "Buy milk"})

	cmd := &commands.DoneCmd{}
	stdout, stderr, code := runCommand(t, cmd, tp, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
}

func TestDoneCommand_MissingRef(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")

	cmd := &commands.DoneCmd{}
	_, stderr, code := runCommand(t, cmd, tp, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "item reference required") {
		t.Errorf("expected ref error, got %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "Buy milk"})

	title := "Buy oat milk"
	cmd := &commands.EditCmd{}
	cmd.SetPatch(transport.ItemPatch{Title: &title})
	stdout, _, code := runCommand(t, cmd, tp, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
}

func TestEditCommand_EmptyPatch(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.SeedList("l1", "Shopping")

	cmd := &commands.EditCmd{}
	_, stderr, code := runCommand(t, cmd, tp, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "nothing to change") {
		t.Errorf("expected empty-patch error, got %q", stderr)
	}
}

// Tests for login command (REST backend)
func TestLoginCommand_REST(t *testing.T) {
	tp := testutil.NewFakeTransport()

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("a@b.c", "pw", true)
	stdout, stderr, code := runCommand(t, cmd, tp, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
}

func TestLoginCommand_MissingCredentials(t *testing.T) {
	tp := testutil.NewFakeTransport()

	cmd := &commands.LoginCmd{}
	_, stderr, code := runCommand(t, cmd, tp, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "--email") {
		t.Errorf("expected credentials error, got %q", stderr)
	}
}

func TestLoginCommand_FieldRejection(t *testing.T) {
	tp := testutil.NewFakeTransport()
	tp.Reject(testutil.OpLogin, testutil.Rejection{
		FieldsErrors: []transport.FieldError{{Field: "email", Error: "invalid email"}},
	})

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("bad", "pw", false)
	_, stderr, code := runCommand(t, cmd, tp, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: email: invalid email\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for logout command
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	tp := testutil.NewFakeTransport()

	cmd := &commands.LogoutCmd{}
	stdout, _, code := runCommand(t, cmd, tp, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "not logged in\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestLogoutCommand_RemovesToken(t *testing.T) {
	tp := testutil.NewFakeTransport()

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:     t.TempDir(),
		Backend: config.BackendREST,
	}
	tokenPath := filepath.Join(cfg.Dir, config.TokenFile)
	if err := os.WriteFile(tokenPath, []byte(`{"token":"x"}`), 0600); err != nil {
		t.Fatal(err)
	}

	eng := engine.New(tp, store.New(), nil)
	cmd := &commands.LogoutCmd{}
	code := cmd.Run(context.Background(), cfg, eng, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("unexpected stdout %q", outBuf.String())
	}
	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Error("expected token file to be removed")
	}
}
