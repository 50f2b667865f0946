//go:build unix

package term

import "github.com/runar-rkmedia/termkit/strutil"

// preferredEncoding derives the codeset the C library would pick for LC_CTYPE.
func preferredEncoding(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_CTYPE"} {
		if enc := codeset(getenv(key)); enc != "" && strutil.ValidEncoding(enc) {
			return enc
		}
	}
	return "UTF-8"
}
