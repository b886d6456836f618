// =============================================================================
// help.go - REPL Help System
// =============================================================================
//
// "/help" prints an overview of every command; "/help <cmd>" prints the
// detailed entry for one of them. Topics are matched case-insensitively and
// a leading slash is ignored, so "/help /JOIN" works as well.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"
)

// commandUsage holds the one-line synopsis of each slash command, keyed by
// the command name without the slash. usageError uses it too.
var commandUsage = map[string]string{
	"join":   "/join <#channel> [key]",
	"part":   "/part [#channel] [message]",
	"msg":    "/msg <target> <text>",
	"notice": "/notice <target> <text>",
	"me":     "/me <action>",
	"query":  "/query [target]",
	"nick":   "/nick <nickname>",
	"topic":  "/topic [#channel] [text]",
	"names":  "/names [#channel]",
	"whois":  "/whois <nick>",
	"mode":   "/mode <target> [modes] [args...]",
	"away":   "/away [message]",
	"quote":  "/quote <raw line>",
	"quit":   "/quit [message]",
	"help":   "/help [command]",
}

// commandHelp holds the detailed description of each slash command.
var commandHelp = map[string]string{
	"join": `Join a channel and make it the current target.
    The key is only needed for channels with mode +k.
    Alias: /j
    Example: /join #go`,

	"part": `Leave a channel, the current target if none is given.
    Leaving the current target clears it.
    Alias: /leave
    Example: /part #go see you later`,

	"msg": `Send a private message to a nick or a channel.
    The current target is unchanged.
    Alias: /m
    Example: /msg alice are you around?`,

	"notice": `Send a notice. Clients and bots must never reply to notices.
    Example: /notice #go deploy finished`,

	"me": `Send an action (CTCP ACTION) to the current target.
    Example: /me waves`,

	"query": `Make a nick or channel the current target without joining.
    Plain text is then sent there. With no argument, clears the target.
    Alias: /q
    Example: /query alice`,

	"nick": `Change your nickname.
    Example: /nick gopher`,

	"topic": `Show the topic of a channel, or set it when text is given.
    Example: /topic #go Go 1.24 is out`,

	"names": `List the nicks in a channel.
    Example: /names #go`,

	"whois": `Ask the server about a nick.
    Example: /whois alice`,

	"mode": `Show or change channel or user modes.
    Example: /mode #go +o alice`,

	"away": `Mark yourself away with a message, or back with none.
    Example: /away lunch`,

	"quote": `Send a raw protocol line. It is parsed first, so malformed
    lines are rejected locally instead of by the server.
    Alias: /raw
    Example: /quote CAP LS 302`,

	"quit": `Disconnect from the server and exit.
    Alias: /exit
    Example: /quit bye all`,

	"help": `Show the command overview, or details for one command.
    Aliases: /h, /?
    Example: /help join`,
}

// helpOrder is the order commands appear in the overview.
var helpOrder = []string{
	"join", "part", "msg", "notice", "me", "query", "nick", "topic",
	"names", "whois", "mode", "away", "quote", "quit", "help",
}

// printHelp prints help to w. An empty topic prints the overview.
func printHelp(w io.Writer, topic string) {
	if topic == "" {
		printHelpOverview(w)
		return
	}

	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(topic), "/"))
	text, ok := commandHelp[key]
	if !ok {
		fmt.Fprintf(w, "Error: No help for '%s'. Type /help to see available commands.\n", topic)
		return
	}
	fmt.Fprintf(w, "  %s\n    %s\n", commandUsage[key], text)
}

// printHelpOverview prints every command's synopsis.
func printHelpOverview(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	for _, name := range helpOrder {
		fmt.Fprintf(w, "  %-34s %s\n", commandUsage[name], firstLine(commandHelp[name]))
	}
	fmt.Fprint(w, `
Anything not starting with / is sent to the current target.
Start a line with // to send text that begins with a slash.
`)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
