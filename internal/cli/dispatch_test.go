package cli_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"golang.org/x/oauth2"

	"taskboard/internal/cli"
	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, tokens oauth2.TokenSource) (service.Service, error) {
		return svc, nil
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	stdout, stderr, code := run(t, dispatcher, "help", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !bytes.Contains([]byte(stdout), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	stdout, stderr, code := run(t, dispatcher, "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskboard 0.1.0\n" {
		t.Errorf("expected 'taskboard 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "list", "--status")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -status\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NotLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	for _, args := range [][]string{{"list"}, {"done", "1"}, {"whoami"}} {
		_, stderr, code := run(t, dispatcher, append(args, "--config", t.TempDir())...)

		if code != exitcode.AuthError {
			t.Errorf("%v: expected exit code %d, got %d", args, exitcode.AuthError, code)
		}
		expected := "error: not logged in (run: taskboard login)\n"
		if stderr != expected {
			t.Errorf("%v: expected %q, got %q", args, expected, stderr)
		}
	}
	if len(svc.Queries) != 0 {
		t.Errorf("expected no requests, got %d", len(svc.Queries))
	}
}

func TestDispatcher_NoArgsRunsList(t *testing.T) {
	// A bare invocation cannot carry --config; point XDG at an empty dir.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not logged in (run: taskboard login)\n" {
		t.Errorf("expected list's auth check, got %q", stderr)
	}
}

func TestDispatcher_LoginThenList(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser(service.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}, "secret")
	svc.AddTask(service.Task{ID: "t1", Title: "Buy milk", Status: service.StatusTodo, Priority: service.PriorityMedium})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))
	dir := t.TempDir()

	stdout, stderr, code := run(t, dispatcher, "login", "--config", dir, "--email", "alice@example.com", "--password", "secret")
	if code != exitcode.Success {
		t.Fatalf("login: expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("login: expected ok, got %q", stdout)
	}

	stdout, stderr, code = run(t, dispatcher, "list", "--config", dir)
	if code != exitcode.Success {
		t.Fatalf("list: expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	expected := "   1  To Do        Medium  Buy milk\n"
	if stdout != expected {
		t.Errorf("list: expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_QuietAndAPIURL(t *testing.T) {
	var gotURL string
	factory := func(ctx context.Context, cfg *config.Config, tokens oauth2.TokenSource) (service.Service, error) {
		gotURL = cfg.APIURL
		return testutil.NewFakeService(), nil
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	stdout, _, code := run(t, dispatcher, "logout", "--config", t.TempDir(), "--quiet", "--api-url", "http://tasks.example.com/api")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected quiet output, got %q", stdout)
	}
	if gotURL != "http://tasks.example.com/api" {
		t.Errorf("expected --api-url to reach the factory, got %q", gotURL)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, tokens oauth2.TokenSource) (service.Service, error) {
		return nil, errors.New(`invalid api url: "::"`)
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	_, stderr, code := run(t, dispatcher, "list", "--config", t.TempDir())

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: invalid api url: \"::\"\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_SessionStoreError(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))
	dispatcher.Sessions = func(cfg *config.Config) (session.Store, error) {
		return nil, errors.New("redis_url is empty")
	}

	_, stderr, code := run(t, dispatcher, "list", "--config", t.TempDir())

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: session store: redis_url is empty\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}
