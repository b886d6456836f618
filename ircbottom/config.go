// =============================================================================
// config.go - Configuration File and Client Options
// =============================================================================
//
// Settings come from three layers, each overriding the one before:
//
//  1. Built-in defaults (defaultConfig)
//  2. The TOML file at ~/.ircbottom.toml, or the path given with --config
//  3. Command-line arguments (see main.go)
//
// Example ~/.ircbottom.toml:
//
//	host     = "irc.libera.chat"
//	port     = 6697
//	tls      = true
//	nick     = "weatherbot"
//	channels = ["#ircbottom"]
//
// =============================================================================

package main

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gorilla/websocket"

	"github.com/ircbottom/ircbottom/ircprotocol"
)

const (
	// configFileName is the name of the config file in the user's home
	// directory.
	configFileName = ".ircbottom.toml"

	// dialTimeout bounds the TCP connect and the WebSocket handshake.
	dialTimeout = 30 * time.Second
)

// Transport names accepted in the config file.
const (
	transportTCP       = "tcp"
	transportWebSocket = "websocket"
)

// Config holds every user-tunable setting of the CLI.
type Config struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"` // 0 picks 6697 with TLS, 6667 without
	TLS      bool   `toml:"tls"`
	Insecure bool   `toml:"insecure"` // skip certificate verification
	Encoding string `toml:"encoding"`

	Nick     string   `toml:"nick"`
	User     string   `toml:"user"`
	Realname string   `toml:"realname"`
	Password string   `toml:"password"`
	Channels []string `toml:"channels"`

	Transport string `toml:"transport"`
	WSPath    string `toml:"ws_path"`
	Proxy     string `toml:"proxy"`

	LogFile string `toml:"log_file"`
}

// defaultConfig returns the settings used when nothing else is specified.
func defaultConfig() Config {
	return Config{
		Host:      "irc.libera.chat",
		TLS:       true,
		Encoding:  "utf-8",
		Nick:      "ircbottom",
		User:      "ircbottom",
		Realname:  "ircbottom IRC client",
		Transport: transportTCP,
	}
}

// defaultConfigPath returns ~/.ircbottom.toml, or "" if the home directory
// cannot be determined.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configFileName)
}

// loadConfig reads the TOML file at path on top of the defaults.
//
// When explicit is false a missing file is not an error; the defaults are
// returned as they are. A file that exists but cannot be decoded is always
// an error.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// port returns the configured port, or the protocol default.
func (c Config) port() int {
	if c.Port != 0 {
		return c.Port
	}
	if c.TLS {
		return ircprotocol.DefaultTLSPort
	}
	return ircprotocol.DefaultPort
}

// validate checks the settings that would otherwise only fail at connect.
func (c Config) validate() error {
	if c.Host == "" {
		return errors.New("no server host configured")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Nick == "" {
		return errors.New("no nickname configured")
	}
	switch c.Transport {
	case "", transportTCP, transportWebSocket:
	default:
		return fmt.Errorf("unknown transport %q (want %q or %q)", c.Transport, transportTCP, transportWebSocket)
	}
	return nil
}

// clientOptions translates the settings into ircprotocol options.
// Logging is left to the package default; see protocolLogger.
func (c Config) clientOptions() ([]ircprotocol.Option, error) {
	opts := []ircprotocol.Option{
		ircprotocol.WithTLS(c.TLS),
	}

	if c.TLS && c.Insecure {
		opts = append(opts, ircprotocol.WithTLSConfig(&tls.Config{
			InsecureSkipVerify: true,
			MinVersion:         tls.VersionTLS12,
		}))
	}

	if c.Encoding != "" {
		enc, err := ircprotocol.LookupEncoding(c.Encoding)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ircprotocol.WithEncoding(enc))
	}

	transport, err := c.transport()
	if err != nil {
		return nil, err
	}
	return append(opts, ircprotocol.WithTransport(transport)), nil
}

func (c Config) transport() (ircprotocol.Transport, error) {
	switch c.Transport {
	case "", transportTCP:
		return &ircprotocol.TCPTransport{
			Dialer: &net.Dialer{Timeout: dialTimeout},
			Proxy:  c.Proxy,
		}, nil

	case transportWebSocket:
		dialer := *websocket.DefaultDialer
		dialer.HandshakeTimeout = dialTimeout
		if c.Proxy != "" {
			u, err := url.Parse(c.Proxy)
			if err != nil {
				return nil, fmt.Errorf("invalid proxy %q: %w", c.Proxy, err)
			}
			dialer.Proxy = http.ProxyURL(u)
		}
		return &ircprotocol.WebSocketTransport{Path: c.WSPath, Dialer: &dialer}, nil

	default:
		return nil, fmt.Errorf("unknown transport %q", c.Transport)
	}
}
