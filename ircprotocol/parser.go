package ircprotocol

import (
	"strings"
)

// Message is the generic split of one inbound line.
type Message struct {
	Tags        string   // Raw tag section, without the leading '@'
	Prefix      string   // Raw source, without the leading ':'
	Command     string   // Upper-cased verb or three-digit numeric
	Params      []string // Positional parameters, excluding the trailing one
	Trailing    string
	HasTrailing bool
}

// Args returns the positional parameters followed by the trailing one.
func (m Message) Args() []string {
	args := make([]string, 0, len(m.Params)+1)
	args = append(args, m.Params...)
	if m.HasTrailing {
		args = append(args, m.Trailing)
	}
	return args
}

// Unpack splits one received line into a Message. Line delimiters may be
// present or already stripped. Unknown verbs are not an error.
func Unpack(line string) (Message, error) {
	rest := strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(rest) == "" {
		return Message{}, newMalformedLineError(line, "empty line")
	}
	rest = strings.TrimLeft(rest, " ")

	var msg Message
	if rest[0] == TagsMarker {
		msg.Tags, rest = nextToken(rest[1:])
	}
	if rest != "" && rest[0] == PrefixMarker {
		msg.Prefix, rest = nextToken(rest[1:])
		if msg.Prefix == "" {
			return Message{}, newMalformedLineError(line, "empty prefix")
		}
	}

	var verb string
	verb, rest = nextToken(rest)
	if verb == "" {
		return Message{}, newMalformedLineError(line, "missing command")
	}
	msg.Command = strings.ToUpper(verb)

	for rest != "" {
		if rest[0] == TrailingMarker {
			msg.Trailing = rest[1:]
			msg.HasTrailing = true
			break
		}
		var param string
		param, rest = nextToken(rest)
		msg.Params = append(msg.Params, param)
	}
	return msg, nil
}

// nextToken returns the text up to the first space and the remainder with
// leading spaces removed.
func nextToken(s string) (string, string) {
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i+1:], " ")
}

// Event maps the message onto its dispatch name and named parameters.
//
// Known verbs and numerics name their arguments from the parameter table;
// arguments beyond the table, and all arguments of unknown verbs, are
// stored under ParamArgs. A source prefix is stored under ParamPrefix.
func (m Message) Event() (string, Params) {
	params := Params{}
	args := m.Args()

	name := m.Command
	if def, ok := lookupCommand(m.Command); ok {
		name = def.Event
		n := min(len(args), len(def.Params))
		for i := 0; i < n; i++ {
			params[def.Params[i]] = args[i]
		}
		args = args[n:]
	}
	if len(args) > 0 {
		params[ParamArgs] = args
	}
	if m.Prefix != "" {
		params[ParamPrefix] = ParsePrefix(m.Prefix)
	}
	return name, params
}
