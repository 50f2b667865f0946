package term

import (
	"io"
	"os"
	"strings"

	"github.com/runar-rkmedia/termkit/strutil"
)

// encodingReporter is implemented by writers that know their own encoding.
type encodingReporter interface {
	Encoding() string
}

// DetectEncoding returns the encoding text written to stdout should use.
// It prefers what stdout reports, then the codeset named in LANG, then the
// platform's preferred encoding.
func DetectEncoding(stdout io.Writer) string {
	return detectEncoding(stdout, os.Getenv)
}

func detectEncoding(stdout io.Writer, getenv func(string) string) string {
	if r, ok := stdout.(encodingReporter); ok {
		if enc := r.Encoding(); enc != "" {
			return enc
		}
	}
	if enc := codeset(getenv("LANG")); enc != "" && strutil.ValidEncoding(enc) {
		return enc
	}
	return preferredEncoding(getenv)
}

// codeset extracts the codeset from a locale name such as ja_JP.eucJP@mod.
func codeset(locale string) string {
	if locale == "" {
		return ""
	}
	parts := strings.Split(locale, ".")
	cs := parts[len(parts)-1]
	if i := strings.IndexByte(cs, '@'); i >= 0 {
		cs = cs[:i]
	}
	return cs
}
