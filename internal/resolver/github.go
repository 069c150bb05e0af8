package resolver

import (
	"context"
	"errors"
	"os"
	"strings"

	"shotscraper/internal/config"
	friendlyerrors "shotscraper/internal/errors"
)

const (
	// RawBaseURL serves raw file contents for public repositories.
	RawBaseURL = "https://raw.githubusercontent.com"
	// DefaultRepo is used for the two-segment "user/file.js" shorthand.
	DefaultRepo = "shot-scraper-scripts"
	// Branch is fixed; scripts are always read from main.
	Branch = "main"
	// Prefix marks a GitHub shorthand on the command line.
	Prefix = "gh:"
	// ScriptsRepoURL hosts the scripts the short user/file form points at.
	ScriptsRepoURL = "https://github.com/simonw/shot-scraper-scripts"
)

// ScriptRef is an expanded GitHub shorthand.
type ScriptRef struct {
	Owner  string
	Repo   string
	Branch string
	Path   string
}

// URL returns the raw content URL rooted at base (RawBaseURL when empty).
func (r ScriptRef) URL(base string) string {
	if base == "" {
		base = RawBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + r.Owner + "/" + r.Repo + "/" + r.Branch + "/" + r.Path
}

// ParseGitHubPath expands a shorthand path. Accepted forms:
//
//	user/file[.js]                -> user/shot-scraper-scripts/file.js
//	user/repo/path/to/file[.js]   -> user/repo/path/to/file.js
func ParseGitHubPath(githubPath string) (*ScriptRef, error) {
	p := githubPath
	if !strings.HasSuffix(p, ".js") {
		p += ".js"
	}
	parts := strings.Split(p, "/")
	if len(parts) == 2 {
		parts = []string{parts[0], DefaultRepo, parts[1]}
	}
	if len(parts) < 3 {
		return nil, friendlyerrors.InvalidArgument(
			"GitHub path format should be 'username/repo/path/to/file.js' or 'username/file.js'",
			"Got "+githubPath,
		).WithDocs(ScriptsRepoURL)
	}
	return &ScriptRef{
		Owner:  parts[0],
		Repo:   parts[1],
		Branch: Branch,
		Path:   strings.Join(parts[2:], "/"),
	}, nil
}

// GitHubScriptURL is ParseGitHubPath followed by URL against RawBaseURL.
func GitHubScriptURL(githubPath string) (string, error) {
	ref, err := ParseGitHubPath(githubPath)
	if err != nil {
		return "", err
	}
	return ref.URL(""), nil
}

type GitHub struct{}

// Accepts URIs of the form gh:{user}/{file} or gh:{user}/{repo}/{path}.
func (g *GitHub) CanHandle(u string) bool { return strings.HasPrefix(u, Prefix) }

func (g *GitHub) Resolve(ctx context.Context, uri string, cfg *config.Config) (*Resolved, error) {
	if !g.CanHandle(uri) {
		return nil, errors.New("unsupported scheme")
	}
	ref, err := ParseGitHubPath(strings.TrimPrefix(uri, Prefix))
	if err != nil {
		return nil, err
	}
	base := ""
	if cfg != nil {
		base = cfg.Sources.GitHub.RawBaseURL
	}
	headers := map[string]string{}
	// Token support for private repositories
	if cfg != nil && cfg.Sources.GitHub.Enabled {
		if env := strings.TrimSpace(cfg.Sources.GitHub.TokenEnv); env != "" {
			if tok := strings.TrimSpace(getenv(env)); tok != "" {
				headers["Authorization"] = "token " + tok
			}
		}
	}
	return &Resolved{URL: ref.URL(base), Headers: headers}, nil
}

// getenv split to enable testing
var getenv = os.Getenv
