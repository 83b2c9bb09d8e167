// Package latex holds the stateless formatting helpers shared by every emitter:
// text escaping, fixed-precision numbers and the TBD placeholder.
package latex

import "strings"

// escaper performs a single left-to-right pass, so the backslash replacement
// is never re-escaped by the brace rules.
var escaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// Escape escapes the LaTeX special characters in text.
func Escape(text string) string {
	return escaper.Replace(text)
}
