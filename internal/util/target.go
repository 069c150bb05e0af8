package util

import "strings"

// FileResolver maps user input to a local file path, or "" when the input
// does not name a file.
type FileResolver func(input string) string

// ResolveNever never treats input as a local file.
func ResolveNever(string) string { return "" }

// URLOrFilePath turns a user-supplied target into a URL: "file:<path>" when
// resolve finds a local file, the input unchanged when it already has an
// http(s) scheme, otherwise the input prefixed with "http://".
func URLOrFilePath(input string, resolve FileResolver) string {
	if resolve == nil {
		resolve = ResolveNever
	}
	if p := resolve(input); p != "" {
		return "file:" + p
	}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return input
	}
	return "http://" + input
}
