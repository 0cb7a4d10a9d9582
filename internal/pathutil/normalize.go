// Package pathutil implements the lexical path handling used for remappings,
// allow-paths and output locations. Everything here is pure string work: solc
// takes forward-slash paths on every platform, so nothing consults the
// filesystem or os.PathSeparator.
package pathutil

import "strings"

const sep = "/"

// Normalize collapses a path lexically: repeated separators become one, `.`
// components are dropped, and `..` pops the preceding component where one
// exists. It does not follow symlinks and never fails.
//
// Two leading slashes are implementation-defined in POSIX; we treat any run of
// leading slashes as a single root. A `..` never cancels another `..`, so
// `a/../../b` keeps the second parent reference, and on absolute paths `..`
// cannot walk above the root.
func Normalize(path string) string {
	rooted := strings.HasPrefix(path, sep)

	var kept []string
	for _, comp := range strings.Split(path, sep) {
		if comp == "" || comp == "." {
			continue
		}
		if comp != ".." || (!rooted && len(kept) == 0) || (len(kept) > 0 && kept[len(kept)-1] == "..") {
			kept = append(kept, comp)
		} else if len(kept) > 0 {
			kept = kept[:len(kept)-1]
		}
		// rooted with nothing kept: the `..` would escape the root, drop it
	}

	out := strings.Join(kept, sep)
	if rooted {
		return sep + out
	}
	if out == "" {
		return "."
	}
	return out
}
