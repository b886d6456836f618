// Package ircprotocol provides a minimal event-driven client for the IRC
// line-oriented text protocol.
//
// The package owns three things: the wire codec (Pack and Unpack), the
// connection lifecycle (Connection), and event dispatch (Client). It does not
// implement protocol business logic such as channel tracking, nick collision
// handling or CTCP; handlers registered by the application build that on top
// of the raw events.
//
// # Protocol Overview
//
// Every message is a single line terminated by CR LF:
//
//	[@tags ][:prefix ]VERB[ param]*[ :trailing]\r\n
//
// The verb is case-insensitive and is upper-cased for dispatch. The final
// parameter may contain spaces when it is marked with a leading colon.
//
// # Basic Usage
//
//	client := ircprotocol.NewClient("irc.libera.chat", 6697)
//
//	client.On(ircprotocol.EventClientConnect, func(p ircprotocol.Params) error {
//	    if err := client.Send("NICK", ircprotocol.Params{"nick": "weatherbot"}); err != nil {
//	        return err
//	    }
//	    return client.Send("USER", ircprotocol.Params{
//	        "user": "weatherbot", "mode": "0", "unused": "*", "realname": "Weather Bot",
//	    })
//	})
//
//	client.On("PING", func(p ircprotocol.Params) error {
//	    return client.Send("PONG", ircprotocol.Params{"message": p.String("message")})
//	})
//
//	if err := client.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	err := client.Run(ctx)
//
// # Event Handling
//
// Handlers receive a Params map. Inbound verbs with a known parameter table
// get named keys (PRIVMSG carries "target" and "message"); other verbs carry
// their positional arguments under "params". When the line had a source, the
// parsed Prefix is stored under "prefix".
//
// Trigger never waits for handlers. Each handler runs as its own task on the
// configured Scheduler; an error or panic in one handler is reported through
// the error handler and never reaches the read loop or other handlers.
//
// # Thread Safety
//
// Client and Connection are safe for concurrent use from multiple goroutines.
package ircprotocol
