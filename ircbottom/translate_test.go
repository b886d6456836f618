package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ircbottom/ircbottom/ircprotocol"
)

// TestTranslateInput verifies slash commands and plain text map to the
// right command and params.
func TestTranslateInput(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		target  string
		command string
		params  ircprotocol.Params
	}{
		{"Plain text", "hello there", "#go", "PRIVMSG", ircprotocol.Params{"target": "#go", "message": "hello there"}},
		{"Escaped slash", "//usr/bin", "#go", "PRIVMSG", ircprotocol.Params{"target": "#go", "message": "/usr/bin"}},
		{"Join", "/join #go", "", "JOIN", ircprotocol.Params{"channel": "#go"}},
		{"Join with key", "/JOIN #go secret", "", "JOIN", ircprotocol.Params{"channel": "#go", "key": "secret"}},
		{"Join alias", "/j #go", "", "JOIN", ircprotocol.Params{"channel": "#go"}},
		{"Part current", "/part", "#go", "PART", ircprotocol.Params{"channel": "#go"}},
		{"Part current with reason", "/part see you later", "#go", "PART",
			ircprotocol.Params{"channel": "#go", "message": "see you later"}},
		{"Part other", "/part #rust bye", "#go", "PART", ircprotocol.Params{"channel": "#rust", "message": "bye"}},
		{"Msg", "/msg alice hi  there", "#go", "PRIVMSG", ircprotocol.Params{"target": "alice", "message": "hi  there"}},
		{"Notice", "/notice #go deploy done", "", "NOTICE", ircprotocol.Params{"target": "#go", "message": "deploy done"}},
		{"Me", "/me waves", "#go", "PRIVMSG", ircprotocol.Params{"target": "#go", "message": "\x01ACTION waves\x01"}},
		{"Nick", "/nick gopher", "", "NICK", ircprotocol.Params{"nick": "gopher"}},
		{"Topic query", "/topic", "#go", "TOPIC", ircprotocol.Params{"channel": "#go"}},
		{"Topic set", "/topic Go 1.24 is out", "#go", "TOPIC", ircprotocol.Params{"channel": "#go", "message": "Go 1.24 is out"}},
		{"Topic other", "/topic #rust hi", "#go", "TOPIC", ircprotocol.Params{"channel": "#rust", "message": "hi"}},
		{"Names", "/names", "#go", "NAMES", ircprotocol.Params{"channel": "#go"}},
		{"Whois", "/whois alice", "", "WHOIS", ircprotocol.Params{"mask": "alice"}},
		{"Mode", "/mode #go +ov alice bob", "", "MODE",
			ircprotocol.Params{"target": "#go", "modes": "+ov", ircprotocol.ParamArgs: []string{"alice", "bob"}}},
		{"Mode query", "/mode #go", "", "MODE", ircprotocol.Params{"target": "#go"}},
		{"Away", "/away lunch break", "", "AWAY", ircprotocol.Params{"message": "lunch break"}},
		{"Back", "/away", "", "AWAY", ircprotocol.Params{}},
		{"Quote unknown verb", "/quote CAP LS 302", "", "CAP", ircprotocol.Params{ircprotocol.ParamArgs: []string{"LS", "302"}}},
		{"Quote known verb", "/raw privmsg #go :hi all", "", "PRIVMSG", ircprotocol.Params{"target": "#go", "message": "hi all"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act, err := translateInput(tt.line, tt.target)
			require.NoError(t, err)
			assert.Equal(t, actionSend, act.kind)
			assert.Equal(t, tt.command, act.command)
			assert.Equal(t, tt.params, act.params)

			// Everything translated must be packable.
			_, err = ircprotocol.Pack(act.command, act.params)
			assert.NoError(t, err)
		})
	}
}

// TestTranslateTargetChanges verifies which commands move the current target.
func TestTranslateTargetChanges(t *testing.T) {
	tests := []struct {
		line    string
		target  string
		changes bool
		next    string
	}{
		{"/join #go", "", true, "#go"},
		{"/part", "#go", true, ""},
		{"/part #GO", "#go", true, ""},
		{"/part #rust", "#go", false, ""},
		{"/query alice", "#go", true, "alice"},
		{"/query", "#go", true, ""},
		{"hello", "#go", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			act, err := translateInput(tt.line, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.changes, act.changeTarget)
			if tt.changes {
				assert.Equal(t, tt.next, act.target)
			}
		})
	}
}

func TestTranslateLocalCommands(t *testing.T) {
	act, err := translateInput("/help join", "")
	require.NoError(t, err)
	assert.Equal(t, actionHelp, act.kind)
	assert.Equal(t, "join", act.topic)

	act, err = translateInput("/?", "")
	require.NoError(t, err)
	assert.Equal(t, actionHelp, act.kind)
	assert.Empty(t, act.topic)

	act, err = translateInput("/query alice", "")
	require.NoError(t, err)
	assert.Equal(t, actionTarget, act.kind)

	act, err = translateInput("/quit", "")
	require.NoError(t, err)
	assert.Equal(t, actionQuit, act.kind)
	assert.Equal(t, "QUIT", act.command)
	assert.Equal(t, ircprotocol.Params{}, act.params)

	act, err = translateInput("/exit gone fishing", "")
	require.NoError(t, err)
	assert.Equal(t, ircprotocol.Params{"message": "gone fishing"}, act.params)
}

// TestTranslateErrors verifies incomplete commands produce usage errors.
func TestTranslateErrors(t *testing.T) {
	usage := []string{
		"/join", "/join #a k extra", "/part", "/msg alice", "/notice",
		"/me", "/query a b", "/nick", "/nick a b", "/topic", "/names",
		"/whois", "/mode", "/quote",
	}
	for _, line := range usage {
		_, err := translateInput(line, "")
		var uerr *usageError
		assert.True(t, errors.As(err, &uerr), "line %q: expected usage error, got %v", line, err)
	}

	_, err := translateInput("hello", "")
	assert.ErrorIs(t, err, errNoTarget)

	_, err = translateInput("/me waves", "")
	assert.ErrorIs(t, err, errNoTarget)

	_, err = translateInput("/frobnicate now", "#go")
	assert.EqualError(t, err, "unknown command /frobnicate (try /help)")

	_, err = translateInput("/quote :srv", "")
	var malformed *ircprotocol.MalformedLineError
	assert.ErrorAs(t, err, &malformed)
}

func TestUsageErrorMessage(t *testing.T) {
	assert.EqualError(t, &usageError{"join"}, "usage: /join <#channel> [key]")
	assert.EqualError(t, &usageError{"nosuch"}, "usage: /nosuch")
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in       string
		n        int
		expected []string
	}{
		{"", 2, nil},
		{"alice", 2, []string{"alice"}},
		{"alice hi", 2, []string{"alice", "hi"}},
		{"  alice   hi  there ", 2, []string{"alice", "hi  there "}},
		{"a b c", 3, []string{"a", "b", "c"}},
		{"a\tb", 2, []string{"a", "b"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, splitArgs(tt.in, tt.n), "splitArgs(%q, %d)", tt.in, tt.n)
	}
}

func TestIsChannel(t *testing.T) {
	for _, name := range []string{"#go", "&local", "+modeless", "!12345safe"} {
		assert.True(t, isChannel(name), name)
	}
	for _, name := range []string{"", "alice", "go#"} {
		assert.False(t, isChannel(name), name)
	}
}
