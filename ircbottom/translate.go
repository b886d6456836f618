// =============================================================================
// translate.go - REPL Input to IRC Commands
// =============================================================================
//
// The REPL accepts slash commands in the style of most IRC clients, plus
// plain text:
//
//	/join #go secret     -> JOIN #go secret   (and makes #go the target)
//	/msg alice hi there  -> PRIVMSG alice :hi there
//	/quote CAP LS 302    -> CAP LS 302
//	hello everyone       -> PRIVMSG <current target> :hello everyone
//	//not a command      -> PRIVMSG <current target> :/not a command
//
// translateInput turns one line into an action; runREPL carries it out.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ircbottom/ircbottom/ircprotocol"
)

// actionKind says what runREPL should do with a translated line.
type actionKind int

const (
	// actionSend sends command with params to the server.
	actionSend actionKind = iota
	// actionTarget only changes the current target.
	actionTarget
	// actionHelp prints help for topic.
	actionHelp
	// actionQuit sends command (a QUIT) if connected and leaves the REPL.
	actionQuit
)

// action is the result of translating one input line.
type action struct {
	kind    actionKind
	command string
	params  ircprotocol.Params

	// target is the current target after the action; runREPL applies it
	// when changeTarget is set.
	target       string
	changeTarget bool

	topic string
}

// errNoTarget is returned for plain text when no channel or query is active.
var errNoTarget = errors.New("no target: /join a channel or /query a nick first")

// usageError reports a slash command used with the wrong arguments.
type usageError struct {
	command string
}

func (e *usageError) Error() string {
	if usage, ok := commandUsage[e.command]; ok {
		return "usage: " + usage
	}
	return "usage: /" + e.command
}

// GO CONCEPT: Splitting Arguments
// --------------------------------
// strings.Fields splits on any run of whitespace and drops empty pieces,
// which suits argument lists. For commands whose last argument is free
// text (/msg alice hi  there) we use splitArgs, which stops after n-1
// fields so the text keeps its inner spacing.

// splitArgs splits s into at most n whitespace-separated fields. The last
// field keeps everything that follows, with its leading space removed.
func splitArgs(s string, n int) []string {
	var out []string
	s = strings.TrimLeft(s, " \t")
	for len(out) < n-1 && s != "" {
		i := strings.IndexAny(s, " \t")
		if i < 0 {
			break
		}
		out = append(out, s[:i])
		s = strings.TrimLeft(s[i:], " \t")
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// translateInput translates one REPL line given the current target.
func translateInput(line, target string) (action, error) {
	trimmed := strings.TrimSpace(line)

	// "//text" sends "/text" as a message.
	if strings.HasPrefix(trimmed, "//") {
		return message(target, trimmed[1:])
	}
	if !strings.HasPrefix(trimmed, "/") {
		return message(target, trimmed)
	}

	name, rest, _ := strings.Cut(trimmed[1:], " ")
	name = strings.ToLower(name)
	rest = strings.TrimSpace(rest)

	switch name {
	case "join", "j":
		args := strings.Fields(rest)
		if len(args) < 1 || len(args) > 2 {
			return action{}, &usageError{"join"}
		}
		params := ircprotocol.Params{"channel": args[0]}
		if len(args) == 2 {
			params["key"] = args[1]
		}
		return action{kind: actionSend, command: "JOIN", params: params, target: args[0], changeTarget: true}, nil

	case "part", "leave":
		channel, text := channelArg(rest, target)
		if channel == "" {
			return action{}, &usageError{"part"}
		}
		params := ircprotocol.Params{"channel": channel}
		if text != "" {
			params["message"] = text
		}
		a := action{kind: actionSend, command: "PART", params: params}
		if strings.EqualFold(channel, target) {
			a.target, a.changeTarget = "", true
		}
		return a, nil

	case "msg", "m":
		args := splitArgs(rest, 2)
		if len(args) != 2 {
			return action{}, &usageError{"msg"}
		}
		return action{kind: actionSend, command: "PRIVMSG",
			params: ircprotocol.Params{"target": args[0], "message": args[1]}}, nil

	case "notice":
		args := splitArgs(rest, 2)
		if len(args) != 2 {
			return action{}, &usageError{"notice"}
		}
		return action{kind: actionSend, command: "NOTICE",
			params: ircprotocol.Params{"target": args[0], "message": args[1]}}, nil

	case "me":
		if rest == "" {
			return action{}, &usageError{"me"}
		}
		if target == "" {
			return action{}, errNoTarget
		}
		return action{kind: actionSend, command: "PRIVMSG",
			params: ircprotocol.Params{"target": target, "message": "\x01ACTION " + rest + "\x01"}}, nil

	case "query", "q":
		args := strings.Fields(rest)
		if len(args) > 1 {
			return action{}, &usageError{"query"}
		}
		a := action{kind: actionTarget, changeTarget: true}
		if len(args) == 1 {
			a.target = args[0]
		}
		return a, nil

	case "nick":
		args := strings.Fields(rest)
		if len(args) != 1 {
			return action{}, &usageError{"nick"}
		}
		return action{kind: actionSend, command: "NICK", params: ircprotocol.Params{"nick": args[0]}}, nil

	case "topic":
		channel, text := channelArg(rest, target)
		if channel == "" {
			return action{}, &usageError{"topic"}
		}
		params := ircprotocol.Params{"channel": channel}
		if text != "" {
			params["message"] = text
		}
		return action{kind: actionSend, command: "TOPIC", params: params}, nil

	case "names":
		channel := rest
		if channel == "" {
			channel = target
		}
		if channel == "" {
			return action{}, &usageError{"names"}
		}
		return action{kind: actionSend, command: "NAMES", params: ircprotocol.Params{"channel": channel}}, nil

	case "whois":
		args := strings.Fields(rest)
		if len(args) != 1 {
			return action{}, &usageError{"whois"}
		}
		return action{kind: actionSend, command: "WHOIS", params: ircprotocol.Params{"mask": args[0]}}, nil

	case "mode":
		args := strings.Fields(rest)
		if len(args) < 1 {
			return action{}, &usageError{"mode"}
		}
		params := ircprotocol.Params{"target": args[0]}
		if len(args) > 1 {
			params["modes"] = args[1]
		}
		if len(args) > 2 {
			params[ircprotocol.ParamArgs] = args[2:]
		}
		return action{kind: actionSend, command: "MODE", params: params}, nil

	case "away":
		params := ircprotocol.Params{}
		if rest != "" {
			params["message"] = rest
		}
		return action{kind: actionSend, command: "AWAY", params: params}, nil

	case "quote", "raw":
		if rest == "" {
			return action{}, &usageError{"quote"}
		}
		return quote(rest)

	case "quit", "exit":
		params := ircprotocol.Params{}
		if rest != "" {
			params["message"] = rest
		}
		return action{kind: actionQuit, command: "QUIT", params: params}, nil

	case "help", "h", "?":
		return action{kind: actionHelp, topic: rest}, nil

	default:
		return action{}, fmt.Errorf("unknown command /%s (try /help)", name)
	}
}

// message builds a PRIVMSG to the current target.
func message(target, text string) (action, error) {
	if target == "" {
		return action{}, errNoTarget
	}
	return action{kind: actionSend, command: "PRIVMSG",
		params: ircprotocol.Params{"target": target, "message": text}}, nil
}

// quote parses a raw protocol line and sends it back through the codec,
// so malformed input is caught before it reaches the server.
func quote(raw string) (action, error) {
	msg, err := ircprotocol.Unpack(raw)
	if err != nil {
		return action{}, err
	}
	_, params := msg.Event()
	delete(params, ircprotocol.ParamPrefix)
	return action{kind: actionSend, command: msg.Command, params: params}, nil
}

// channelArg splits an optional leading channel off rest. Without one the
// channel is the current target and all of rest is the text.
func channelArg(rest, target string) (channel, text string) {
	first, remainder, _ := strings.Cut(rest, " ")
	if isChannel(first) {
		return first, strings.TrimSpace(remainder)
	}
	return target, rest
}

// isChannel reports whether name looks like a channel rather than a nick.
func isChannel(name string) bool {
	return name != "" && strings.ContainsRune("#&+!", rune(name[0]))
}
