package scripts

import (
	"context"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/h2non/filetype"

	"shotscraper/internal/config"
	friendlyerrors "shotscraper/internal/errors"
	"shotscraper/internal/logging"
	"shotscraper/internal/resolver"
	"shotscraper/internal/util"
)

// Script is the text of a fetched script and where it came from.
type Script struct {
	Path   string // shorthand as given
	URL    string
	Text   string
	Size   int64
	SHA256 string
}

// Loader fetches scripts from GitHub with one GET per call. It keeps no
// state between calls.
type Loader struct {
	cfg    *config.Config
	log    *logging.Logger
	client *http.Client
}

// NewLoader builds a Loader. cfg and log may be nil.
func NewLoader(cfg *config.Config, log *logging.Logger) *Loader {
	return &Loader{cfg: cfg, log: log, client: newHTTPClient(cfg)}
}

// WithClient swaps the HTTP client, mainly for tests.
func (l *Loader) WithClient(c *http.Client) *Loader {
	l.client = c
	return l
}

// Load returns the UTF-8 text of the script named by githubPath.
func (l *Loader) Load(ctx context.Context, githubPath string) (string, error) {
	s, err := l.Fetch(ctx, githubPath)
	if err != nil {
		return "", err
	}
	return s.Text, nil
}

// Fetch is Load with the URL, size and digest of the body.
func (l *Loader) Fetch(ctx context.Context, githubPath string) (*Script, error) {
	res, err := (&resolver.GitHub{}).Resolve(ctx, resolver.Prefix+strings.TrimPrefix(githubPath, resolver.Prefix), l.cfg)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		return nil, friendlyerrors.NetworkError(err)
	}
	req.Header.Set("User-Agent", userAgent(l.cfg))
	for k, v := range res.Headers {
		req.Header.Set(k, v)
	}
	l.log.Debugf("GET %s", logging.SanitizeURL(res.URL))
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, friendlyerrors.NetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, friendlyerrors.HTTPStatusError(res.URL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, friendlyerrors.NetworkError(err)
	}
	if !utf8.Valid(body) {
		return nil, friendlyerrors.BadContentError(res.URL, describeInvalid(body))
	}
	text := string(body)
	s := &Script{
		Path:   githubPath,
		URL:    res.URL,
		Text:   text,
		Size:   int64(len(body)),
		SHA256: util.HashStringSHA256(text),
	}
	l.log.Debugf("loaded %s (%s)", logging.SanitizeURL(res.URL), humanize.Bytes(uint64(s.Size)))
	return s, nil
}

// describeInvalid names the file type of a non-UTF-8 body when it has a
// recognisable signature.
func describeInvalid(body []byte) string {
	if kind, _ := filetype.Match(body); kind != filetype.Unknown {
		return "not valid UTF-8, looks like " + kind.MIME.Value
	}
	return "not valid UTF-8"
}

// LoadGitHubScript fetches githubPath with a default Loader.
func LoadGitHubScript(ctx context.Context, githubPath string) (string, error) {
	return NewLoader(nil, nil).Load(ctx, githubPath)
}
