package resolver

import (
	"context"
	"errors"
	"testing"

	"shotscraper/internal/config"
	friendlyerrors "shotscraper/internal/errors"
)

func TestGitHubScriptURL(t *testing.T) {
	cases := map[string]string{
		"simonw/file.js":           "https://raw.githubusercontent.com/simonw/shot-scraper-scripts/main/file.js",
		"simonw/file":              "https://raw.githubusercontent.com/simonw/shot-scraper-scripts/main/file.js",
		"simonw/myrepo/dir/file":   "https://raw.githubusercontent.com/simonw/myrepo/main/dir/file.js",
		"simonw/myrepo/a/b/c.js":   "https://raw.githubusercontent.com/simonw/myrepo/main/a/b/c.js",
	}
	for in, want := range cases {
		got, err := GitHubScriptURL(in)
		if err != nil {
			t.Fatalf("GitHubScriptURL(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("GitHubScriptURL(%q)=%q want %q", in, got, want)
		}
	}
}

func TestParseGitHubPathRejectsSingleSegment(t *testing.T) {
	for _, in := range []string{"onlyuser", "onlyuser.js", ""} {
		_, err := ParseGitHubPath(in)
		if err == nil {
			t.Fatalf("ParseGitHubPath(%q): expected error", in)
		}
		if !errors.Is(err, friendlyerrors.ErrInvalidArgument) {
			t.Fatalf("ParseGitHubPath(%q): expected InvalidArgument, got %v", in, err)
		}
	}
}

func TestParseGitHubPathFields(t *testing.T) {
	ref, err := ParseGitHubPath("simonw/file")
	if err != nil {
		t.Fatal(err)
	}
	if ref.Owner != "simonw" || ref.Repo != DefaultRepo || ref.Branch != "main" || ref.Path != "file.js" {
		t.Fatalf("unexpected ref: %+v", ref)
	}
}

func TestParseGitHubPathTakesPlainPathsOnly(t *testing.T) {
	ref, err := ParseGitHubPath("gh:x/y")
	if err != nil {
		t.Fatal(err)
	}
	if ref.Owner != "gh:x" || ref.Repo != DefaultRepo || ref.Path != "y.js" {
		t.Fatalf("unexpected ref: %+v", ref)
	}

	res, err := (&GitHub{}).Resolve(context.Background(), "gh:x/y", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.URL != "https://raw.githubusercontent.com/x/shot-scraper-scripts/main/y.js" {
		t.Fatalf("Resolve should strip the gh: prefix, got %s", res.URL)
	}
}

func TestParseGitHubPathErrorLinksScriptsRepo(t *testing.T) {
	_, err := ParseGitHubPath("onlyuser")
	var fe *friendlyerrors.UserFriendlyError
	if !errors.As(err, &fe) || fe.DocsLink != ScriptsRepoURL {
		t.Fatalf("expected docs link on %v", err)
	}
}

func TestGitHubResolveToken(t *testing.T) {
	prev := getenv
	getenv = func(k string) string {
		if k == "GITHUB_TOKEN" {
			return "abc123"
		}
		return ""
	}
	defer func() { getenv = prev }()

	cfg := config.Default()
	cfg.Sources.GitHub.Enabled = true
	cfg.Sources.GitHub.TokenEnv = "GITHUB_TOKEN"
	res, err := Resolve(context.Background(), "gh:simonw/file", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.URL != "https://raw.githubusercontent.com/simonw/shot-scraper-scripts/main/file.js" {
		t.Fatalf("unexpected url %s", res.URL)
	}
	if res.Headers["Authorization"] != "token abc123" {
		t.Fatalf("Authorization header not set: %v", res.Headers)
	}

	cfg.Sources.GitHub.Enabled = false
	res, err = Resolve(context.Background(), "gh:simonw/file", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Headers["Authorization"]; ok {
		t.Fatalf("token should not be sent when github source is disabled")
	}
}

func TestResolvePassthroughAndUnknown(t *testing.T) {
	res, err := Resolve(context.Background(), "https://example.com/x.js", nil)
	if err != nil || res.URL != "https://example.com/x.js" {
		t.Fatalf("passthrough failed: %v %+v", err, res)
	}
	if _, err := Resolve(context.Background(), "ftp://example.com/x.js", nil); err == nil {
		t.Fatalf("expected error for unknown scheme")
	}
}
