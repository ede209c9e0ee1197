package bot

import (
	"strings"

	"go-checker-bot/checker"
)

// commandPrefixes are the characters that may introduce a command
const commandPrefixes = "/."

// ParsedCommand is the structured form of one inbound command line
type ParsedCommand struct {
	// Name is the lower-cased command with the prefix stripped
	Name string
	// ArgBlob is the first argument token, pipe-delimited fields intact
	ArgBlob string
	// Fields is ArgBlob split on |
	Fields []string
	// Extra is the optional second argument token
	Extra string
}

// Field returns the i-th pipe-delimited field, or the "None" sentinel when
// the field is absent or empty
func (p *ParsedCommand) Field(i int) string {
	if i < 0 || i >= len(p.Fields) || p.Fields[i] == "" {
		return checker.FieldNone
	}
	return p.Fields[i]
}

// ParseCommand classifies one line of text following the grammar
//
//	prefix command (' ' argBlob)? (' ' extra)?
//	argBlob := field ('|' field)*
//
// The second return value is false when the text is not a command at all
// (no prefix, or a prefix with no token attached); such messages are
// silently ignored by the dispatcher.
func ParseCommand(text string) (*ParsedCommand, bool) {
	text = strings.TrimSpace(text)
	if len(text) < 2 {
		return nil, false
	}
	if !strings.ContainsRune(commandPrefixes, rune(text[0])) {
		return nil, false
	}

	body := text[1:]
	if isSpace(body[0]) {
		// prefix followed by whitespace is not a command
		return nil, false
	}

	name := body
	remainder := ""
	if idx := strings.IndexFunc(body, isSpaceRune); idx >= 0 {
		name = body[:idx]
		remainder = strings.TrimSpace(body[idx+1:])
	}

	parsed := &ParsedCommand{Name: strings.ToLower(name)}
	if remainder == "" {
		return parsed, true
	}

	parsed.ArgBlob = remainder
	if idx := strings.IndexFunc(remainder, isSpaceRune); idx >= 0 {
		parsed.ArgBlob = remainder[:idx]
		parsed.Extra = strings.TrimSpace(remainder[idx+1:])
	}
	parsed.Fields = strings.Split(parsed.ArgBlob, "|")

	return parsed, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
