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

	friendlyerrors "shotscraper/internal/errors"
	"shotscraper/internal/testutil"
)

type cliTestEnv struct {
	base       string
	outDir     string
	configPath string
}

func setupCLITestEnv(t *testing.T, rawBaseURL string) *cliTestEnv {
	t.Helper()
	prev := stderr
	stderr = io.Discard
	t.Cleanup(func() { stderr = prev })

	base := t.TempDir()
	env := &cliTestEnv{
		base:       base,
		outDir:     filepath.Join(base, "shots"),
		configPath: filepath.Join(base, "config.yml"),
	}
	if err := os.MkdirAll(env.outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := strings.Join([]string{
		"version: 1",
		"general:",
		"  data_root: \"" + filepath.Join(base, "data") + "\"",
		"output:",
		"  dir: \"" + env.outDir + "\"",
		"sources:",
		"  github:",
		"    raw_base_url: \"" + rawBaseURL + "\"",
		"metrics:",
		"  prometheus_textfile:",
		"    enabled: true",
		"    path: \"" + filepath.Join(base, "data", "shotscraper.prom") + "\"",
	}, "\n")
	if err := os.WriteFile(env.configPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return env
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFilenameCommand(t *testing.T) {
	env := setupCLITestEnv(t, "")
	out, err := env.run(t, "filename", "https://example.com/about/")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(env.outDir, "example-com-about.png") + "\n"
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}

	if err := os.WriteFile(filepath.Join(env.outDir, "example-com-about.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = env.run(t, "filename", "https://example.com/about/")
	if err != nil {
		t.Fatal(err)
	}
	if out != filepath.Join(env.outDir, "example-com-about.1.png")+"\n" {
		t.Fatalf("collision not skipped: %q", out)
	}

	out, err = env.run(t, "filename", "--no-check", "--ext", "jpg", "https://example.com/about/")
	if err != nil {
		t.Fatal(err)
	}
	if out != filepath.Join(env.outDir, "example-com-about.jpg")+"\n" {
		t.Fatalf("unexpected %q", out)
	}

	if _, err := os.Stat(filepath.Join(env.base, "data", "shotscraper.prom")); err != nil {
		t.Fatalf("metrics textfile not written: %v", err)
	}
}

func TestFilenameCommandInvalidTimestamp(t *testing.T) {
	env := setupCLITestEnv(t, "")
	_, err := env.run(t, "filename", "--timestamp", "banana", "https://example.com/")
	if !errors.Is(err, friendlyerrors.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestFilenameRecordSkipsRecordedNames(t *testing.T) {
	env := setupCLITestEnv(t, "")
	first, err := env.run(t, "filename", "--record", "https://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	second, err := env.run(t, "filename", "--record", "https://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(strings.TrimSpace(first)) != "example-com.png" || filepath.Base(strings.TrimSpace(second)) != "example-com.1.png" {
		t.Fatalf("unexpected names %q %q", first, second)
	}

	out, err := env.run(t, "--json", "history")
	if err != nil {
		t.Fatal(err)
	}
	var v historyView
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("bad json %q: %v", out, err)
	}
	if len(v.Shots) != 2 {
		t.Fatalf("expected 2 recorded shots, got %+v", v.Shots)
	}

	out, err = env.run(t, "history", "--search", "example")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "example-com.1.png") {
		t.Fatalf("history table missing row: %s", out)
	}
}

func TestResolveCommand(t *testing.T) {
	env := setupCLITestEnv(t, "")
	out, err := env.run(t, "resolve", "example.com")
	if err != nil {
		t.Fatal(err)
	}
	if out != "http://example.com\n" {
		t.Fatalf("got %q", out)
	}
	f := testutil.TempFile(t, "page.html", "<h1>hi</h1>")
	out, err = env.run(t, "resolve", f)
	if err != nil {
		t.Fatal(err)
	}
	if out != "file:"+f+"\n" {
		t.Fatalf("got %q", out)
	}
	out, err = env.run(t, "resolve", "--no-local", f)
	if err != nil {
		t.Fatal(err)
	}
	if out != "http://"+f+"\n" {
		t.Fatalf("got %q", out)
	}
}

func TestScriptCommand(t *testing.T) {
	ms := testutil.NewMockHTTPServer()
	defer ms.Close()
	ms.AddScript("/simonw/shot-scraper-scripts/main/hide.js", "document.body.hidden = true;\n")
	env := setupCLITestEnv(t, ms.URL)

	out, err := env.run(t, "script", "--record", "gh:simonw/hide")
	if err != nil {
		t.Fatal(err)
	}
	if out != "document.body.hidden = true;\n" {
		t.Fatalf("got %q", out)
	}

	out, err = env.run(t, "script", "--url-only", "simonw/repo/dir/x")
	if err != nil {
		t.Fatal(err)
	}
	if out != ms.URL+"/simonw/repo/main/dir/x.js\n" {
		t.Fatalf("got %q", out)
	}

	out, err = env.run(t, "script", "--url-only", "gh:simonw/x")
	if err != nil {
		t.Fatal(err)
	}
	if out != ms.URL+"/simonw/shot-scraper-scripts/main/x.js\n" {
		t.Fatalf("got %q", out)
	}

	_, err = env.run(t, "script", "simonw/missing")
	if !errors.Is(err, friendlyerrors.ErrRemoteFetchFailed) {
		t.Fatalf("expected RemoteFetchFailed, got %v", err)
	}

	_, err = env.run(t, "script", "onlyuser")
	if !errors.Is(err, friendlyerrors.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}

	out, err = env.run(t, "--json", "history")
	if err != nil {
		t.Fatal(err)
	}
	var v historyView
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatal(err)
	}
	if len(v.Scripts) != 1 || v.Scripts[0].Path != "gh:simonw/hide" {
		t.Fatalf("unexpected scripts %+v", v.Scripts)
	}
}

func TestConfigCommands(t *testing.T) {
	env := setupCLITestEnv(t, "")
	if _, err := env.run(t, "config", "validate"); err != nil {
		t.Fatalf("validate: %v", err)
	}
	out, err := env.run(t, "config", "print")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "data_root:") || !strings.Contains(out, env.outDir) {
		t.Fatalf("unexpected config output:\n%s", out)
	}

	cmd := newRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"--config", filepath.Join(env.base, "missing.yml"), "filename", "x"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if out.String() != version+"\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestPrintErrorPlain(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, friendlyerrors.InvalidArgument("bad input", "try again"))
	if !strings.HasPrefix(buf.String(), "error: bad input") || !strings.Contains(buf.String(), "How to fix:") {
		t.Fatalf("unexpected %q", buf.String())
	}
}

func TestDoctorCommand(t *testing.T) {
	ms := testutil.NewMockHTTPServer()
	defer ms.Close()
	env := setupCLITestEnv(t, ms.URL)
	out, err := env.run(t, "doctor")
	if err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out)
	}
	for _, want := range []string{"config", "data_root", "history", "github"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in:\n%s", want, out)
		}
	}
}
