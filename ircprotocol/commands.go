package ircprotocol

// verbDef names the positional slots of a verb. Event is the name the
// verb dispatches under; it differs from the verb only for numeric replies.
type verbDef struct {
	Event  string
	Params []string
}

// commands maps client-sendable verbs (RFC 1459/2812) to their slot names.
// The last slot is the one that may hold a trailing parameter.
var commands = map[string]verbDef{
	// Connection registration
	"PASS": {"PASS", []string{"password"}},
	"NICK": {"NICK", []string{"nick"}},
	"USER": {"USER", []string{"user", "mode", "unused", "realname"}},
	"OPER": {"OPER", []string{"user", "password"}},
	"MODE": {"MODE", []string{"target", "modes"}},
	"QUIT": {"QUIT", []string{"message"}},

	// Channel operations
	"JOIN":   {"JOIN", []string{"channel", "key"}},
	"PART":   {"PART", []string{"channel", "message"}},
	"TOPIC":  {"TOPIC", []string{"channel", "message"}},
	"NAMES":  {"NAMES", []string{"channel"}},
	"LIST":   {"LIST", []string{"channel"}},
	"INVITE": {"INVITE", []string{"nick", "channel"}},
	"KICK":   {"KICK", []string{"channel", "nick", "message"}},

	// Messaging
	"PRIVMSG": {"PRIVMSG", []string{"target", "message"}},
	"NOTICE":  {"NOTICE", []string{"target", "message"}},

	// Queries
	"MOTD":  {"MOTD", []string{"target"}},
	"WHO":   {"WHO", []string{"mask"}},
	"WHOIS": {"WHOIS", []string{"mask"}},
	"ISON":  {"ISON", []string{"nicks"}},

	// Miscellaneous
	"AWAY":  {"AWAY", []string{"message"}},
	"PING":  {"PING", []string{"message"}},
	"PONG":  {"PONG", []string{"message"}},
	"ERROR": {"ERROR", []string{"message"}},
}

// replies maps common numeric replies to a symbolic event name and slots.
// Numerics not listed dispatch under their three-digit code.
var replies = map[string]verbDef{
	"001": {"RPL_WELCOME", []string{"nick", "message"}},
	"002": {"RPL_YOURHOST", []string{"nick", "message"}},
	"003": {"RPL_CREATED", []string{"nick", "message"}},
	"004": {"RPL_MYINFO", []string{"nick", "server", "version", "usermodes", "chanmodes"}},
	"332": {"RPL_TOPIC", []string{"nick", "channel", "message"}},
	"353": {"RPL_NAMREPLY", []string{"nick", "channel_type", "channel", "users"}},
	"366": {"RPL_ENDOFNAMES", []string{"nick", "channel", "message"}},
	"372": {"RPL_MOTD", []string{"nick", "message"}},
	"375": {"RPL_MOTDSTART", []string{"nick", "message"}},
	"376": {"RPL_ENDOFMOTD", []string{"nick", "message"}},
	"422": {"ERR_NOMOTD", []string{"nick", "message"}},
	"433": {"ERR_NICKNAMEINUSE", []string{"nick", "attempted", "message"}},
}

// lookupCommand resolves an upper-cased verb or numeric.
func lookupCommand(verb string) (verbDef, bool) {
	if def, ok := commands[verb]; ok {
		return def, true
	}
	def, ok := replies[verb]
	return def, ok
}

// isNumeric reports whether verb is a three-digit numeric reply.
func isNumeric(verb string) bool {
	if len(verb) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if verb[i] < '0' || verb[i] > '9' {
			return false
		}
	}
	return true
}

// isVerb reports whether s is a protocol-legal verb: letters only, or a
// three-digit numeric.
func isVerb(s string) bool {
	if s == "" {
		return false
	}
	if isNumeric(s) {
		return true
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
