package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/tunebase/internal/access"
	"github.com/desertthunder/tunebase/internal/memstore"
	"github.com/desertthunder/tunebase/internal/services"
	"github.com/desertthunder/tunebase/internal/shared"
	tu "github.com/desertthunder/tunebase/internal/testing"
)

// newTestRunner wires a Runner over an in-memory store with one signed-up user, "ana".
func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	logger := shared.NewLogger(io.Discard)
	svc := services.New(memstore.New().Repositories(), services.Options{
		Tokens:     access.NewTokens("test-secret", 0),
		Logger:     logger,
		BcryptCost: bcrypt.MinCost,
	})
	if _, err := svc.Auth.Signup(context.Background(), services.SignupInput{Username: "ana", Email: "ana@example.com", Password: "password"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	output := &bytes.Buffer{}
	return NewRunner(RunnerOpts{Config: config, Logger: logger, Output: output, Services: svc}), output
}

// run executes args against r as the tunebase app would, with --config pointed into a temp dir.
func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{
		Name:     "tunebase",
		Flags:    globalFlags(),
		Before:   r.Load,
		After:    r.Close,
		Commands: r.register(),
	}
	argv := append([]string{"tunebase", "--config", filepath.Join(t.TempDir(), "config.toml")}, args...)
	return app.Run(context.Background(), argv)
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			svc := services.New(memstore.New().Repositories(), services.Options{Logger: logger})

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				Services:   svc,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.svc != svc {
				t.Error("expected services to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world" {
			t.Errorf("expected 'hello world', got %q", output.String())
		}

		runner = NewRunner(RunnerOpts{Output: &tu.FWriter{}})
		if err := runner.writePlainln("test"); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		names := make(map[string]bool)
		for _, cmd := range commands {
			names[cmd.Name] = true
		}
		for _, want := range []string{"serve", "setup", "users", "playlists"} {
			if !names[want] {
				t.Errorf("expected %q to be registered", want)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[database]\npath = \"custom.db\"\n\n[log]\nlevel = \"debug\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard)})
	app := &cli.Command{
		Name:   "tunebase",
		Flags:  globalFlags(),
		Before: runner.Load,
		Action: func(context.Context, *cli.Command) error { return nil },
	}

	if err := app.Run(context.Background(), []string{"tunebase", "--config", path, "--secret", "from-flag"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if runner.config.Database.Path != "custom.db" {
		t.Errorf("expected database path from file, got %s", runner.config.Database.Path)
	}
	if runner.config.Server.Port != shared.DefaultConfig().Server.Port {
		t.Errorf("expected default port to survive, got %d", runner.config.Server.Port)
	}
	if runner.config.Auth.Secret != "from-flag" {
		t.Errorf("expected secret override, got %s", runner.config.Auth.Secret)
	}
}

func TestUsersCommands(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		runner, output := newTestRunner(t)

		if err := run(t, runner, "users", "list"); err != nil {
			t.Fatalf("users list failed: %v", err)
		}

		result := output.String()
		for _, want := range []string{"Users (2)", "ana", "admin", "ADMIN", "USER"} {
			if !strings.Contains(result, want) {
				t.Errorf("expected %q in output, got:\n%s", want, result)
			}
		}
	})

	t.Run("list as JSON", func(t *testing.T) {
		runner, output := newTestRunner(t)

		if err := run(t, runner, "users", "list", "--json"); err != nil {
			t.Fatalf("users list failed: %v", err)
		}

		var rows []userRow
		if err := json.Unmarshal(output.Bytes(), &rows); err != nil {
			t.Fatalf("expected JSON output, got %v: %s", err, output.String())
		}
		if len(rows) != 2 {
			t.Errorf("expected 2 users, got %d", len(rows))
		}
	})

	t.Run("promote", func(t *testing.T) {
		runner, output := newTestRunner(t)

		if err := run(t, runner, "users", "promote", "ana", "--role", "ADMIN"); err != nil {
			t.Fatalf("users promote failed: %v", err)
		}
		if !strings.Contains(output.String(), "ana is now ADMIN") {
			t.Errorf("unexpected output: %s", output.String())
		}

		_, caller, err := runner.operator(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		ana, err := findUser(context.Background(), runner.svc, caller, "ana")
		if err != nil {
			t.Fatal(err)
		}
		id, err := runner.svc.Resolver.ForUser(context.Background(), ana.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !id.IsAdmin() {
			t.Error("expected ana to be an administrator")
		}
	})

	t.Run("promote unknown user", func(t *testing.T) {
		runner, _ := newTestRunner(t)

		err := run(t, runner, "users", "promote", "nobody")
		if !errors.Is(err, errUserNotFound) {
			t.Errorf("expected errUserNotFound, got %v", err)
		}
	})

	t.Run("toggle", func(t *testing.T) {
		runner, output := newTestRunner(t)

		if err := run(t, runner, "users", "toggle", "ana"); err != nil {
			t.Fatalf("users toggle failed: %v", err)
		}
		if !strings.Contains(output.String(), "inactive") {
			t.Errorf("expected ana to be inactive, got: %s", output.String())
		}

		if _, _, err := runner.svc.Auth.Login(context.Background(), "ana", "password"); !errors.Is(err, shared.ErrIdentity) {
			t.Errorf("expected deactivated login to fail, got %v", err)
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		runner, _ := newTestRunner(t)

		if err := run(t, runner, "users", "toggle"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestPlaylistsExport(t *testing.T) {
	runner, output := newTestRunner(t)
	ctx := context.Background()
	svc := runner.svc

	_, _, err := runner.operator(ctx)
	if err != nil {
		t.Fatal(err)
	}

	token, _, err := svc.Auth.Login(ctx, "ana", "password")
	if err != nil {
		t.Fatal(err)
	}
	ana, err := svc.Resolver.Resolve(ctx, token)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Artists.Create(ctx, ana, services.ArtistInput{Name: "Ana"}); err != nil {
		t.Fatal(err)
	}
	song, err := svc.Songs.Create(ctx, ana, services.SongInput{Title: "Morning", Public: true})
	if err != nil {
		t.Fatal(err)
	}
	playlist, err := svc.Playlists.Create(ctx, ana, services.PlaylistInput{Name: "Private Mix"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Playlists.AddSong(ctx, ana, playlist.ID, song.ID); err != nil {
		t.Fatal(err)
	}

	t.Run("to stdout", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "playlists", "export", "--id", playlist.ID, "--format", "csv"); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if !strings.Contains(output.String(), "Morning,Ana") {
			t.Errorf("expected CSV row, got: %s", output.String())
		}
	})

	t.Run("to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mix.md")
		if err := run(t, runner, "playlists", "export", "--id", playlist.ID, "-f", "md", "-o", path); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "# Private Mix") {
			t.Errorf("unexpected export: %s", content)
		}
	})

	t.Run("unknown playlist", func(t *testing.T) {
		err := run(t, runner, "playlists", "export", "--id", "missing")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})
		app := &cli.Command{Name: "tunebase", Flags: globalFlags(), Before: runner.Load, Commands: runner.register()}

		if err := app.Run(context.Background(), []string{"tunebase", "--config", path, "setup", "config"}); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		tu.AssertFileExists(t, path)

		if err := app.Run(context.Background(), []string{"tunebase", "--config", path, "setup", "config"}); err == nil {
			t.Error("expected an error when the config already exists")
		}
	})

	t.Run("database", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "tunebase.db")
		config.Auth.BcryptCost = bcrypt.MinCost
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: output})

		if err := run(t, runner, "setup", "database"); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}
		tu.AssertFileExists(t, config.Database.Path)
		if !strings.Contains(output.String(), "Administrator: "+config.Admin.Username) {
			t.Errorf("unexpected output: %s", output.String())
		}
		if runner.db != nil {
			t.Error("expected the database to be closed after the command")
		}
	})
}
