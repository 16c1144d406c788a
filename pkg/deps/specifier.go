package deps

import "strings"

// externalPrefixes are the specifier prefixes the registry cannot resolve.
var externalPrefixes = []string{
	"git://", "git+", "github:", "gitlab:", "bitbucket:",
	"file:", "link:", "workspace:",
	"http://", "https://",
}

// IsExternal reports whether a dependency range points outside the registry:
// a git URL or shorthand, a local file/link/workspace path, or a tarball URL.
// External ranges are kept verbatim and never parsed.
func IsExternal(rng string) bool {
	for _, p := range externalPrefixes {
		if strings.HasPrefix(rng, p) {
			return true
		}
	}
	return false
}
