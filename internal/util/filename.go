package util

import (
	"fmt"
	"strings"
	"time"

	friendlyerrors "shotscraper/internal/errors"
)

// DefaultExt is used when FilenameForURL is called with an empty extension.
const DefaultExt = "png"

// TimestampMode selects the optional tag inserted between the base filename
// and the extension.
type TimestampMode string

const (
	TimestampNone  TimestampMode = ""
	TimestampEpoch TimestampMode = "epoch"
	TimestampUTC   TimestampMode = "utc"
	TimestampLocal TimestampMode = "local"
)

// FileExists reports whether a candidate filename is already taken.
type FileExists func(name string) bool

// FileExistsNever is the default probe: nothing is ever taken.
func FileExistsNever(string) bool { return false }

// now is split out so tests can pin the clock.
var now = time.Now

// FilenameForURL derives an output filename from rawURL. The host and path are
// flattened into [A-Za-z0-9_-], an optional timestamp tag is appended, and
// ".N" suffixes (N = 1, 2, ...) are tried until exists reports a free name.
// An empty ext means DefaultExt; a nil exists means FileExistsNever.
func FilenameForURL(rawURL, ext string, exists FileExists, mode TimestampMode) (string, error) {
	if ext == "" {
		ext = DefaultExt
	}
	if exists == nil {
		exists = FileExistsNever
	}
	base := baseFilename(rawURL)
	tag, err := timestampTag(mode, now())
	if err != nil {
		return "", err
	}
	name := base + tag + "." + ext
	for suffix := 1; exists(name); suffix++ {
		name = fmt.Sprintf("%s%s.%d.%s", base, tag, suffix, ext)
	}
	return name, nil
}

// baseFilename flattens host+path. The result may be empty.
func baseFilename(rawURL string) string {
	netloc, path := splitNetlocPath(rawURL)
	s := strings.NewReplacer(".", "-", "/", "-").Replace(netloc + path)
	s = strings.TrimRight(s, "-")
	var b strings.Builder
	for _, r := range s {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-'
		if ok {
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "-")
}

// paramSchemes are the schemes whose last path segment may carry ";params".
var paramSchemes = map[string]bool{
	"": true, "ftp": true, "hdl": true, "prospero": true, "http": true,
	"imap": true, "https": true, "shttp": true, "rtsp": true, "rtspu": true,
	"sip": true, "sips": true, "mms": true, "sftp": true, "tel": true,
}

// splitNetlocPath returns the raw, undecoded network location and path of
// rawURL. It never fails: "localhost:8000" has scheme "localhost" and path
// "8000", "example.com" is all path, and a bad percent escape is kept as is.
// Query, fragment and ";params" on the last segment are dropped.
func splitNetlocPath(rawURL string) (netloc, path string) {
	rest := strings.TrimLeftFunc(rawURL, func(r rune) bool { return r <= ' ' })
	rest = strings.NewReplacer("\t", "", "\r", "", "\n", "").Replace(rest)

	scheme := ""
	if i := strings.IndexByte(rest, ':'); i > 0 && isScheme(rest[:i]) {
		scheme = strings.ToLower(rest[:i])
		rest = rest[i+1:]
	}
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		netloc, rest = rest[:end], rest[end:]
	}
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest = rest[:i]
	}
	if paramSchemes[scheme] {
		rest = stripParams(rest)
	}
	return netloc, rest
}

func isScheme(s string) bool {
	for i, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && ((r >= '0' && r <= '9') || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

func stripParams(path string) string {
	from := strings.LastIndexByte(path, '/')
	if from < 0 {
		from = 0
	}
	if i := strings.IndexByte(path[from:], ';'); i >= 0 {
		return path[:from+i]
	}
	return path
}

func timestampTag(mode TimestampMode, t time.Time) (string, error) {
	switch mode {
	case TimestampNone:
		return "", nil
	case TimestampEpoch:
		return fmt.Sprintf("_%d", t.Unix()), nil
	case TimestampUTC:
		return "_" + t.UTC().Format("20060102T150405"), nil
	case TimestampLocal:
		return "_" + t.Local().Format("20060102T150405"), nil
	default:
		return "", friendlyerrors.InvalidArgument(
			"Invalid timestamp format. Use 'epoch', 'utc', or 'local'.",
			fmt.Sprintf("Got %q", string(mode)),
		)
	}
}

// ParseTimestampMode validates a user-supplied mode string.
func ParseTimestampMode(s string) (TimestampMode, error) {
	m := TimestampMode(strings.ToLower(strings.TrimSpace(s)))
	if _, err := timestampTag(m, time.Time{}); err != nil {
		return "", err
	}
	return m, nil
}
