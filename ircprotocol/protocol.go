package ircprotocol

// Wire format constants.
const (
	// LineDelimiter terminates every line written to the server. A bare LF
	// is accepted on input.
	LineDelimiter = "\r\n"

	// TrailingMarker introduces the final parameter, which may contain spaces.
	TrailingMarker = ':'

	// PrefixMarker introduces the message source on inbound lines.
	PrefixMarker = ':'

	// TagsMarker introduces the IRCv3 message tag section.
	TagsMarker = '@'

	// MaxLineLength is the RFC 1459 line limit in bytes, delimiter included.
	// Longer lines are written as-is; servers truncate them.
	MaxLineLength = 512

	// MaxReadLength bounds a received line: the IRCv3 tag section (8191
	// bytes) plus a full RFC 1459 line. Longer lines are dropped.
	MaxReadLength = 8191 + MaxLineLength

	// DefaultPort is the conventional plain-text IRC port.
	DefaultPort = 6667

	// DefaultTLSPort is the conventional IRC-over-TLS port.
	DefaultTLSPort = 6697
)

// Events triggered by the client itself rather than by a server line.
const (
	// EventClientConnect is triggered after the transport is open and
	// before the first server line is read, so its handlers are scheduled
	// ahead of any server event. Params carry "host" and "port".
	EventClientConnect = "CLIENT_CONNECT"

	// EventClientDisconnect is triggered once a session has ended, whether
	// by Disconnect, server EOF or a transport error. Params carry "host"
	// and "port".
	EventClientDisconnect = "CLIENT_DISCONNECT"
)
