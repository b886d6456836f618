// =============================================================================
// handlers.go - Event Handlers
// =============================================================================
//
// ircprotocol only turns lines into events; everything an IRC client is
// expected to do lives here, as handlers registered on the Client:
//
//	CLIENT_CONNECT       register with PASS/NICK/USER
//	RPL_WELCOME          join the configured channels
//	PING                 answer with PONG
//	ERR_NICKNAMEINUSE    retry with an underscore appended
//	PRIVMSG, NOTICE, ... print to the terminal
//	CLIENT_DISCONNECT    print a notice
//
// Handlers run concurrently on their own goroutines, so all terminal output
// goes through bot.printf, which holds a mutex.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ircbottom/ircbottom/ircprotocol"
)

// nickRetrySuffix is appended to the nickname when the server says it is
// taken.
const nickRetrySuffix = "_"

// bot holds the state shared by the handlers.
type bot struct {
	client *ircprotocol.Client
	cfg    Config

	outMu sync.Mutex
	out   io.Writer

	nickMu sync.Mutex
	nick   string
}

func newBot(client *ircprotocol.Client, cfg Config, out io.Writer) *bot {
	return &bot{
		client: client,
		cfg:    cfg,
		out:    out,
		nick:   cfg.Nick,
	}
}

// GO CONCEPT: Method Values
// -------------------------
// b.onPing is a "method value": a func bound to this particular bot. It has
// exactly the ircprotocol.Handler signature, func(ircprotocol.Params) error,
// so it can be registered directly.

// register installs every handler on the client.
func (b *bot) register() {
	b.client.On(ircprotocol.EventClientConnect, b.onConnect)
	b.client.On(ircprotocol.EventClientDisconnect, b.onDisconnect)
	b.client.On("RPL_WELCOME", b.onWelcome)
	b.client.On("ERR_NICKNAMEINUSE", b.onNickInUse)
	b.client.On("PING", b.onPing)

	b.client.On("PRIVMSG", b.onPrivmsg)
	b.client.On("NOTICE", b.onNotice)
	b.client.On("JOIN", b.onJoin)
	b.client.On("PART", b.onPart)
	b.client.On("QUIT", b.onQuit)
	b.client.On("NICK", b.onNick)
	b.client.On("KICK", b.onKick)
	b.client.On("RPL_TOPIC", b.onTopic)
	b.client.On("RPL_NAMREPLY", b.onNames)
	b.client.On("ERROR", b.onError)

	for _, event := range []string{"RPL_MOTDSTART", "RPL_MOTD", "RPL_ENDOFMOTD", "ERR_NOMOTD"} {
		b.client.On(event, b.onServerText)
	}
}

// currentNick returns the nickname we last registered or were renamed to.
func (b *bot) currentNick() string {
	b.nickMu.Lock()
	defer b.nickMu.Unlock()
	return b.nick
}

func (b *bot) setNick(nick string) {
	b.nickMu.Lock()
	defer b.nickMu.Unlock()
	b.nick = nick
}

// printf writes one line of chat output.
func (b *bot) printf(format string, args ...any) {
	b.outMu.Lock()
	defer b.outMu.Unlock()
	fmt.Fprintf(b.out, format+"\n", args...)
}

// reportError is the client's error handler for failing handlers.
func (b *bot) reportError(err error) {
	b.printf("! %v", err)
}

// =============================================================================
// Connection Lifecycle
// =============================================================================

func (b *bot) onConnect(p ircprotocol.Params) error {
	b.printf("* Connected to %s:%s", p.String("host"), p.String("port"))

	if b.cfg.Password != "" {
		if err := b.client.Send("PASS", ircprotocol.Params{"password": b.cfg.Password}); err != nil {
			return err
		}
	}
	if err := b.client.Send("NICK", ircprotocol.Params{"nick": b.currentNick()}); err != nil {
		return err
	}
	user := b.cfg.User
	if user == "" {
		user = b.currentNick()
	}
	realname := b.cfg.Realname
	if realname == "" {
		realname = user
	}
	return b.client.Send("USER", ircprotocol.Params{
		"user":     user,
		"mode":     "0",
		"unused":   "*",
		"realname": realname,
	})
}

func (b *bot) onDisconnect(p ircprotocol.Params) error {
	if err, ok := p.Get("error"); ok {
		b.printf("* Disconnected from %s:%s: %v", p.String("host"), p.String("port"), err)
		return nil
	}
	b.printf("* Disconnected from %s:%s", p.String("host"), p.String("port"))
	return nil
}

func (b *bot) onWelcome(p ircprotocol.Params) error {
	if nick := p.String("nick"); nick != "" {
		b.setNick(nick)
	}
	b.printf("-%s- %s", serverName(p), p.String("message"))

	if len(b.cfg.Channels) == 0 {
		return nil
	}
	return b.client.Send("JOIN", ircprotocol.Params{"channel": b.cfg.Channels})
}

func (b *bot) onNickInUse(p ircprotocol.Params) error {
	attempted := p.String("attempted")
	if attempted == "" {
		attempted = b.currentNick()
	}
	next := attempted + nickRetrySuffix
	b.printf("* Nickname %s is in use, trying %s", attempted, next)
	b.setNick(next)
	return b.client.Send("NICK", ircprotocol.Params{"nick": next})
}

func (b *bot) onPing(p ircprotocol.Params) error {
	return b.client.Send("PONG", ircprotocol.Params{"message": p.String("message")})
}

// =============================================================================
// Display
// =============================================================================

func (b *bot) onPrivmsg(p ircprotocol.Params) error {
	target, text := p.String("target"), p.String("message")
	if action, ok := ctcpAction(text); ok {
		b.printf("[%s] * %s %s", target, sourceNick(p), action)
		return nil
	}
	b.printf("[%s] <%s> %s", target, sourceNick(p), text)
	return nil
}

func (b *bot) onNotice(p ircprotocol.Params) error {
	b.printf("[%s] -%s- %s", p.String("target"), sourceNick(p), p.String("message"))
	return nil
}

func (b *bot) onJoin(p ircprotocol.Params) error {
	b.printf("[%s] * %s has joined", p.String("channel"), sourceNick(p))
	return nil
}

func (b *bot) onPart(p ircprotocol.Params) error {
	if reason := p.String("message"); reason != "" {
		b.printf("[%s] * %s has left (%s)", p.String("channel"), sourceNick(p), reason)
		return nil
	}
	b.printf("[%s] * %s has left", p.String("channel"), sourceNick(p))
	return nil
}

func (b *bot) onQuit(p ircprotocol.Params) error {
	b.printf("* %s has quit (%s)", sourceNick(p), p.String("message"))
	return nil
}

func (b *bot) onNick(p ircprotocol.Params) error {
	old, nick := sourceNick(p), p.String("nick")
	if strings.EqualFold(old, b.currentNick()) {
		b.setNick(nick)
	}
	b.printf("* %s is now known as %s", old, nick)
	return nil
}

func (b *bot) onKick(p ircprotocol.Params) error {
	b.printf("[%s] * %s was kicked by %s (%s)",
		p.String("channel"), p.String("nick"), sourceNick(p), p.String("message"))
	return nil
}

func (b *bot) onTopic(p ircprotocol.Params) error {
	b.printf("[%s] * Topic: %s", p.String("channel"), p.String("message"))
	return nil
}

func (b *bot) onNames(p ircprotocol.Params) error {
	b.printf("[%s] * Users: %s", p.String("channel"), p.String("users"))
	return nil
}

func (b *bot) onServerText(p ircprotocol.Params) error {
	b.printf("-%s- %s", serverName(p), p.String("message"))
	return nil
}

func (b *bot) onError(p ircprotocol.Params) error {
	b.printf("! Server error: %s", p.String("message"))
	return nil
}

// sourceNick returns the nick that sent the message, or "*" for lines
// without a prefix.
func sourceNick(p ircprotocol.Params) string {
	if prefix, ok := p.Prefix(); ok {
		return prefix.Nick
	}
	return "*"
}

// serverName returns the prefix of a server reply, or "server".
func serverName(p ircprotocol.Params) string {
	if prefix, ok := p.Prefix(); ok {
		return prefix.Raw
	}
	return "server"
}

// ctcpAction extracts the text of a CTCP ACTION ("/me") message.
func ctcpAction(text string) (string, bool) {
	const prefix = "\x01ACTION "
	if !strings.HasPrefix(text, prefix) {
		return "", false
	}
	return strings.TrimSuffix(text[len(prefix):], "\x01"), true
}
