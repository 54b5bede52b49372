package common

import (
	"path/filepath"
	"strings"
)

var pathCharReplacer = strings.NewReplacer(
	"<", "〈",
	">", "〉",
	":", "：",
	"\"", "“",
	"/", "／",
	"\\", "＼",
	"|", "｜",
	"?", "？",
	"*", "＊",
)

// ResolveRelativePath joins `target` onto `relativeTo` when it is a
// relative path. Absolute paths and the empty string are returned
// unchanged.
func ResolveRelativePath(target, relativeTo string) string {
	if target == "" || filepath.IsAbs(target) {
		return target
	}

	return filepath.Clean(filepath.Join(relativeTo, target))
}

// InvalidPathCharReplace swaps characters not allowed in file names for
// full width look-alikes, so that arbitrary tag text can name a directory.
func InvalidPathCharReplace(name string) string {
	return pathCharReplacer.Replace(name)
}
