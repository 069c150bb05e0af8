package util

import (
	"os"
	"path/filepath"
	"strings"
)

// DirExists returns a probe that reports names already present in dir.
// Stat errors other than "not exist" count as taken so a name is never
// handed out for a path we could not inspect.
func DirExists(dir string) FileExists {
	return func(name string) bool {
		_, err := os.Stat(filepath.Join(dir, name))
		if err == nil {
			return true
		}
		return !os.IsNotExist(err)
	}
}

// AnyExists combines probes; a name is taken if any probe says so.
func AnyExists(probes ...FileExists) FileExists {
	return func(name string) bool {
		for _, p := range probes {
			if p != nil && p(name) {
				return true
			}
		}
		return false
	}
}

// ResolveLocalFile is the FileResolver used by the CLI: input naming an
// existing regular file resolves to itself, with a leading "~/" expanded.
func ResolveLocalFile(input string) string {
	p := strings.TrimSpace(input)
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "~/") {
		if h, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(h, p[2:])
		}
	}
	fi, err := os.Stat(p)
	if err != nil || fi.IsDir() {
		return ""
	}
	return p
}
