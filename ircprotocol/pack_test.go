package ircprotocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringer string

func (s stringer) String() string { return string(s) }

// TestPack verifies command formatting for known and unknown verbs.
func TestPack(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		params   Params
		expected string
	}{
		{"Nick", "nick", Params{"nick": "weatherbot"}, "NICK weatherbot"},
		{"User", "USER", Params{"user": "bot", "mode": "0", "unused": "*", "realname": "Weather Bot"},
			"USER bot 0 * :Weather Bot"},
		{"Privmsg trailing", "privmsg", Params{"message": "hello world", "target": "#test"},
			"PRIVMSG #test :hello world"},
		{"Privmsg single word", "PRIVMSG", Params{"target": "#test", "message": "hello"}, "PRIVMSG #test hello"},
		{"Empty trailing", "TOPIC", Params{"channel": "#test", "message": ""}, "TOPIC #test :"},
		{"Leading colon", "PRIVMSG", Params{"target": "bob", "message": ":)"}, "PRIVMSG bob ::)"},
		{"Optional omitted", "JOIN", Params{"channel": "#go"}, "JOIN #go"},
		{"Join with key", "JOIN", Params{"channel": "#go", "key": "secret"}, "JOIN #go secret"},
		{"Join list", "JOIN", Params{"channel": []string{"#a", "#b"}}, "JOIN #a,#b"},
		{"Integer value", "MODE", Params{"target": "bot", "modes": 0}, "MODE bot 0"},
		{"Stringer value", "NICK", Params{"nick": stringer("bob")}, "NICK bob"},
		{"Mode extra args", "MODE", Params{"target": "#go", "modes": "+o", ParamArgs: []string{"alice"}},
			"MODE #go +o alice"},
		{"No params", "quit", nil, "QUIT"},
		{"Unknown verb", "cap", Params{ParamArgs: []string{"REQ", "multi-prefix sasl"}},
			"CAP REQ :multi-prefix sasl"},
		{"Unknown verb no params", "starttls", Params{}, "STARTTLS"},
		{"Numeric", "001", Params{"nick": "bot", "message": "Welcome to IRC"}, "001 bot :Welcome to IRC"},
		{"Prefix ignored", "PING", Params{"message": "x", ParamPrefix: Prefix{Nick: "srv"}}, "PING x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pack(tt.command, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestPackErrors verifies unrepresentable commands are rejected.
func TestPackErrors(t *testing.T) {
	tests := []struct {
		name    string
		command string
		params  Params
		param   string
	}{
		{"Empty verb", "", nil, ""},
		{"Verb with space", "PRIV MSG", nil, ""},
		{"Verb with digits", "PRIV2", nil, ""},
		{"Two spaced values", "PRIVMSG", Params{"target": "#a b", "message": "c d"}, "target"},
		{"Space mid-line", "KICK", Params{"channel": "#go", "nick": "bad nick", "message": "bye"}, "nick"},
		{"Empty mid-line", "KICK", Params{"channel": "", "nick": "bob"}, "channel"},
		{"Colon mid-line", "PRIVMSG", Params{"target": ":x", "message": "hi"}, "target"},
		{"CRLF in trailing", "PRIVMSG", Params{"target": "#go", "message": "hi\r\nQUIT"}, "message"},
		{"LF in middle", "JOIN", Params{"channel": "#go\n", "key": "k"}, "channel"},
		{"NUL", "NICK", Params{"nick": "a\x00b"}, "nick"},
		{"Gap in slots", "KICK", Params{"channel": "#go", "message": "bye"}, "message"},
		{"Args with gap", "MODE", Params{"target": "#go", ParamArgs: []string{"alice"}}, ParamArgs},
		{"Args wrong type", "CAP", Params{ParamArgs: "LS"}, ParamArgs},
		{"Unknown verb two spaced", "CAP", Params{ParamArgs: []string{"a b", "c d"}}, "params[0]"},
		{"Unknown key", "NICK", Params{"nick": "bot", "extra": "x"}, "extra"},
		{"Misspelled key", "PRIVMSG", Params{"target": "#a", "msg": "hi"}, "msg"},
		{"Named key on unknown verb", "FOO", Params{"x": "y"}, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pack(tt.command, tt.params)
			require.Error(t, err)

			var encErr *EncodingError
			require.True(t, errors.As(err, &encErr), "expected *EncodingError, got %T", err)
			assert.Equal(t, tt.param, encErr.Param)
		})
	}
}

// TestPackTrailingIsLast verifies the space-containing value always ends up
// last, however the caller built the map.
func TestPackTrailingIsLast(t *testing.T) {
	for i := 0; i < 20; i++ {
		params := Params{}
		params["message"] = "goodbye cruel world"
		params["nick"] = "bob"
		params["channel"] = "#go"

		got, err := Pack("KICK", params)
		require.NoError(t, err)
		assert.Equal(t, "KICK #go bob :goodbye cruel world", got)
	}
}

// TestPackUnpackRoundTrip verifies Unpack(Pack(cmd, p)) gives back cmd and p.
func TestPackUnpackRoundTrip(t *testing.T) {
	tests := []struct {
		command string
		params  Params
	}{
		{"NICK", Params{"nick": "weatherbot"}},
		{"PASS", Params{"password": "hunter2"}},
		{"JOIN", Params{"channel": "#go", "key": "secret"}},
		{"PART", Params{"channel": "#go"}},
		{"PRIVMSG", Params{"target": "#go", "message": "hello"}},
		{"NOTICE", Params{"target": "alice", "message": "hi"}},
		{"KICK", Params{"channel": "#go", "nick": "bob", "message": "spam"}},
		{"INVITE", Params{"nick": "bob", "channel": "#go"}},
		{"MODE", Params{"target": "#go", "modes": "+o", ParamArgs: []string{"alice"}}},
		{"PING", Params{"message": "irc.example.net"}},
		{"QUIT", Params{}},
		{"WHOIS", Params{"mask": "alice"}},
		{"CAP", Params{ParamArgs: []string{"LS", "302"}}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			line, err := Pack(tt.command, tt.params)
			require.NoError(t, err)

			msg, err := Unpack(line)
			require.NoError(t, err)

			event, params := msg.Event()
			assert.Equal(t, tt.command, event)
			assert.Equal(t, tt.params, params)
		})
	}
}
