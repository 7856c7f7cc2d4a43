package command

import "strings"

// ParseResult holds the verb and arguments of an action line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the verb.
	Args []string
	// RawArgs is the text after the verb with inner spacing preserved.
	RawArgs string
}

// Arg returns the i-th argument lowercased, or "" when absent.
func (p ParseResult) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return strings.ToLower(p.Args[i])
}

// Empty reports whether the line held no verb.
func (p ParseResult) Empty() bool {
	return p.Command == ""
}

// Parse splits an action line into a verb and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	fields := strings.Fields(line)
	verb := fields[0]
	if len(fields) == 1 {
		return ParseResult{Command: strings.ToLower(verb)}
	}
	rest := strings.TrimSpace(line[len(verb):])

	return ParseResult{
		Command: strings.ToLower(verb),
		Args:    fields[1:],
		RawArgs: rest,
	}
}
