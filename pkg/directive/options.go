package directive

import (
	"strings"

	"github.com/vegadoc/vegadoc/pkg/errors"
)

// Options are the recognized directive options, parsed from the fence
// info string after the directive name.
type Options struct {
	// ShowJSON emits the serialized specification as a second listing.
	ShowJSON bool

	// HideCode suppresses the source listing.
	HideCode bool

	// CodeBelow places the plot after the listings instead of above.
	CodeBelow bool

	// Alt is optional alt text for static output formats.
	Alt string
}

// parseOptions parses the option portion of a fence info string, e.g.
//
//	hide-code code-below alt="monthly totals"
//
// Flags take no value; alt takes a (optionally quoted) value.
func parseOptions(info string) (Options, error) {
	var opts Options

	rest := strings.TrimSpace(info)
	for rest != "" {
		var tok string
		tok, rest = nextToken(rest)

		switch {
		case tok == "show-json":
			opts.ShowJSON = true
		case tok == "hide-code":
			opts.HideCode = true
		case tok == "code-below":
			opts.CodeBelow = true
		case strings.HasPrefix(tok, "alt="):
			opts.Alt = unquote(tok[len("alt="):])
		default:
			return Options{}, errors.New(errors.ErrCodeInvalidOption, "unknown option %q", tok)
		}
	}

	return opts, nil
}

// nextToken cuts the next option token off s. Quoted values may
// contain spaces: alt="monthly totals" is one token.
func nextToken(s string) (tok, rest string) {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case ' ', '\t':
			if !inQuote {
				return s[:i], strings.TrimSpace(s[i:])
			}
		}
	}
	return s, ""
}

// unquote strips one level of surrounding double quotes, if present.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
