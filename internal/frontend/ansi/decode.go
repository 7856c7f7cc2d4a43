package ansi

import "strings"

// escapedESC is how ESC appears inside a JSON string literal.
const escapedESC = `\u001b`

// quotePlaceholder stands in for escaped quotes while literal quotes are
// stripped. normalize escapes any occurrence already in the payload.
const quotePlaceholder = "\uE000"

type substitution struct {
	pattern     string
	replacement string
}

// decodeTable is applied in order, every entry to the whole payload. The quote
// entries depend on that order: escaped quotes are parked, the JSON delimiters
// are dropped, then the parked quotes are restored.
var decodeTable = []substitution{
	{`\n`, "<br>"},
	{`\"`, quotePlaceholder},
	{`"`, ""},
	{quotePlaceholder, `"`},
	{escapedESC + "[97;1;4m", "<u>"},
	{escapedESC + "[0m", "</u></font></b>"},
	{escapedESC + "[47m" + escapedESC + "[30m", `<font color="White" style="background-color: black">`},
	{escapedESC + "[32m", `<font color="Green">`},
	{escapedESC + "[36m", `<font color="DarkTurquoise">`},
	{escapedESC + "[93m", `<font color="Orange">`},
	{escapedESC + "[31m", `<font color="Red">`},
	{escapedESC + "[92m", `<font color="Lime">`},
	{escapedESC + "[34m", `<font color="Blue">`},
	{escapedESC + "[1m", "<b>"},
	{escapedESC + "[92;6m", `<font color="Red" style="font-size:24pt;background-color: yellow">`},
}

// normalize brings raw control bytes to the escaped form the table expects,
// so servers that send raw bytes decode the same as servers that send
// escaped strings. Markup characters are escaped first. Escaped tabs become
// real tabs and carriage returns are dropped, since the table has no entry
// for either.
var normalize = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	quotePlaceholder, "&#xE000;",
	"\x1b", escapedESC,
	"\r\n", `\n`,
	"\r", "",
	"\n", `\n`,
	`\r\n`, `\n`,
	`\r`, "",
	`\t`, "\t",
)

// Decoded is the HTML rendering of a narrative payload.
type Decoded struct {
	HTML string `json:"html"`
	// Unknown lists control sequences outside the table, in order of first
	// appearance. They are left in HTML undecoded.
	Unknown []string `json:"unknown"`
}

// Decode converts a narrative payload into HTML with the fixed substitution
// table. It is pure: equal inputs give equal outputs.
//
// Postcondition: Unknown is non-nil and lists every \u001b[...m token left in HTML.
func Decode(payload string) Decoded {
	s := normalize.Replace(payload)
	for _, sub := range decodeTable {
		s = strings.ReplaceAll(s, sub.pattern, sub.replacement)
	}
	return Decoded{HTML: s, Unknown: unknownSequences(s)}
}

// unknownSequences returns the distinct escaped control tokens still in s.
func unknownSequences(s string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for {
		i := strings.Index(s, escapedESC+"[")
		if i < 0 {
			return out
		}
		rest := s[i+len(escapedESC)+1:]
		end := strings.IndexByte(rest, 'm')
		if end < 0 || !isParams(rest[:end]) {
			s = rest
			continue
		}
		tok := escapedESC + "[" + rest[:end+1]
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
		s = rest[end+1:]
	}
}

// isParams reports whether p is a run of SGR parameters: digits and ';'.
func isParams(p string) bool {
	for i := 0; i < len(p); i++ {
		if (p[i] < '0' || p[i] > '9') && p[i] != ';' {
			return false
		}
	}
	return true
}
