// Package ansi provides the ANSI styles used in game narrative and the codecs
// that carry narrative over the action contract: a JSON string encoding on the
// wire and a fixed substitution table that turns it into HTML.
package ansi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ANSI escape code constants for terminal styling.
const (
	Reset     = "\033[0m"
	Bold      = "\033[1m"
	Underline = "\033[4m"

	// Foreground colors
	Black   = "\033[30m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"

	// Bright foreground colors
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightWhite  = "\033[97m"

	// Background colors
	BgWhite = "\033[47m"

	// Title is bright white, bold, and underlined; used for room names.
	Title = "\033[97;1;4m"
	// Inverse is black on white; used for prompts and status bars.
	Inverse = BgWhite + Black
	// Banner is blinking bright green; used for the game objective.
	Banner = "\033[92;6m"
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
//
// Precondition: color must be a valid ANSI escape sequence.
// Postcondition: Returns text wrapped with the color code and Reset.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI color code.
//
// Precondition: color must be a valid ANSI escape sequence.
// Postcondition: Returns the formatted text wrapped with color and Reset.
func Colorf(color, format string, args ...any) string {
	return color + fmt.Sprintf(format, args...) + Reset
}

// StripANSI removes all ANSI escape sequences from a string.
// This is useful for measuring the printable width of styled text.
//
// Postcondition: Returns text with all \033[...m sequences removed.
func StripANSI(s string) string {
	result := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			if j < len(s) {
				i = j + 1
				continue
			}
		}
		result = append(result, s[i])
		i++
	}
	return string(result)
}

// Quote encodes narrative as the JSON string literal sent on the wire.
// Newlines become \n, quotes \", and ESC \u001b; HTML characters are not escaped.
//
// Postcondition: Unescape(Quote(s)) == s.
func Quote(s string) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(b.String(), "\n")
}

// Unescape turns a wire payload back into raw ANSI text. Payloads that are
// not a JSON string literal are returned unchanged.
func Unescape(payload string) string {
	trimmed := strings.TrimSpace(payload)
	if !strings.HasPrefix(trimmed, `"`) {
		return payload
	}
	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
		return payload
	}
	return s
}
