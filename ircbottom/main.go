// =============================================================================
// main.go - ircbottom CLI Entry Point
// =============================================================================
//
// ircbottom is a terminal IRC client built on the ircprotocol package. It
// connects to one server, registers, joins the configured channels and
// gives you a REPL for chatting.
//
// Usage:
//
//	ircbottom                                  Connect using ~/.ircbottom.toml
//	ircbottom --host irc.libera.chat --nick me Override the server and nick
//	ircbottom --plain --port 6667              Connect without TLS
//	ircbottom --help                           Show help
//
// The ircprotocol package does the protocol work; this program supplies
// the behavior (handlers.go), the input side (repl.go, translate.go) and
// the settings (config.go).
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ircbottom/ircbottom/ircprotocol"
)

// =============================================================================
// Version Information
// =============================================================================

const (
	// version is the current version of the CLI.
	version = "0.1.0"

	// appName is the application name.
	appName = "ircbottom"

	// shutdownTimeout bounds how long exiting waits for the connection to
	// close.
	shutdownTimeout = 5 * time.Second
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// welcomeBanner returns the banner displayed when the REPL starts.
func welcomeBanner() string {
	return fmt.Sprintf(`%s - minimal event-driven IRC client

Type '/help' for available commands.
Type '/quit' to exit.
`, fullTitle())
}

// =============================================================================
// Command-Line Arguments
// =============================================================================

// arguments holds the parsed command-line arguments. Zero values mean "not
// given"; only given arguments override the config file.
type arguments struct {
	configPath string

	host string
	port int

	// tlsSet records whether --tls or --plain was given.
	tlsSet   bool
	tls      bool
	insecure bool

	nick     string
	channels []string
	encoding string

	websocket bool
	proxy     string
	logFile   string

	showHelp    bool
	showVersion bool
}

// GO CONCEPT: Closures Over Loop State
// ------------------------------------
// value() below is a closure: it reads and advances the remaining slice
// declared in parseArguments, so every flag that takes an argument can
// fetch it with one call and a single error path.

// parseArguments parses the command-line arguments (without the program
// name).
//
// Like the rest of the CLI it is a small hand-written loop; there are few
// flags and no subcommands.
func parseArguments(argv []string) (arguments, error) {
	var args arguments
	remaining := argv

	value := func(flag string) (string, error) {
		if len(remaining) == 0 {
			return "", fmt.Errorf("%s requires an argument", flag)
		}
		v := remaining[0]
		remaining = remaining[1:]
		return v, nil
	}

	for len(remaining) > 0 {
		arg := remaining[0]
		remaining = remaining[1:]

		var err error
		switch arg {
		case "--config", "-c":
			args.configPath, err = value(arg)

		case "--host":
			args.host, err = value(arg)

		case "--port", "-p":
			var v string
			if v, err = value(arg); err == nil {
				args.port, err = strconv.Atoi(v)
				if err != nil || args.port <= 0 || args.port > 65535 {
					err = fmt.Errorf("invalid port: %s", v)
				}
			}

		case "--tls":
			args.tlsSet, args.tls = true, true

		case "--plain":
			args.tlsSet, args.tls = true, false

		case "--insecure":
			args.insecure = true

		case "--nick", "-n":
			args.nick, err = value(arg)

		case "--channel", "-j":
			var v string
			if v, err = value(arg); err == nil {
				args.channels = append(args.channels, v)
			}

		case "--encoding":
			args.encoding, err = value(arg)

		case "--websocket":
			args.websocket = true

		case "--proxy":
			args.proxy, err = value(arg)

		case "--log":
			args.logFile, err = value(arg)

		case "--help", "-h":
			args.showHelp = true

		case "--version", "-v":
			args.showVersion = true

		default:
			return args, fmt.Errorf("unknown argument: %s", arg)
		}
		if err != nil {
			return args, err
		}
	}

	return args, nil
}

// apply overrides cfg with every argument that was given.
func (a arguments) apply(cfg *Config) {
	if a.host != "" {
		cfg.Host = a.host
	}
	if a.port != 0 {
		cfg.Port = a.port
	}
	if a.tlsSet {
		cfg.TLS = a.tls
	}
	if a.insecure {
		cfg.Insecure = true
	}
	if a.nick != "" {
		cfg.Nick = a.nick
	}
	if len(a.channels) > 0 {
		cfg.Channels = a.channels
	}
	if a.encoding != "" {
		cfg.Encoding = a.encoding
	}
	if a.websocket {
		cfg.Transport = transportWebSocket
	}
	if a.proxy != "" {
		cfg.Proxy = a.proxy
	}
	if a.logFile != "" {
		cfg.LogFile = a.logFile
	}
}

// loadSettings merges defaults, the config file and the arguments.
func loadSettings(args arguments) (Config, error) {
	path, explicit := args.configPath, args.configPath != ""
	if !explicit {
		path = defaultConfigPath()
	}

	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return cfg, err
	}
	args.apply(&cfg)
	return cfg, cfg.validate()
}

// =============================================================================
// Help and Usage
// =============================================================================

// printUsage prints usage information to w.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `USAGE: ircbottom [options]

OPTIONS:
  --config, -c <path>   Config file (default: ~/.ircbottom.toml)
  --host <host>         Server host name
  --port, -p <port>     Server port (default: 6697 with TLS, 6667 without)
  --tls                 Use TLS (default)
  --plain               Do not use TLS
  --insecure            Do not verify the server certificate
  --nick, -n <nick>     Nickname
  --channel, -j <chan>  Channel to join after registering (repeatable)
  --encoding <name>     Server charset, e.g. latin1 (default: utf-8)
  --websocket           Connect over WebSocket instead of TCP
  --proxy <url>         Proxy URL, e.g. socks5://127.0.0.1:1080
  --log <path>          Write diagnostics to a file ("stderr" or "stdlog" for
                        the terminal)
  --help, -h            Show this help
  --version, -v         Show version

EXAMPLES:
  ircbottom --host irc.libera.chat --nick gopher --channel #go
  ircbottom --plain --host localhost --port 6667
  ircbottom --websocket --host irc.example.net --port 443

Inside the REPL, type /help for the list of commands.
`)
}

// printVersion prints version information to stdout.
func printVersion() {
	fmt.Println(fullTitle())
}

// printError prints an error message to stderr.
func printError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

// =============================================================================
// Session
// =============================================================================

// GO CONCEPT: errgroup
// --------------------
// golang.org/x/sync/errgroup runs a set of goroutines and returns the first
// error any of them reports. With WithContext, that first error also
// cancels the shared context. A server that closes the connection cleanly
// makes Run return nil, which errgroup does not treat as a reason to
// cancel, so the Run goroutine cancels the REPL itself.

// runSession runs the REPL next to the connection until the user quits or
// the connection ends. The REPL notices a closed connection before reading
// its next line.
func runSession(ctx context.Context, client *ircprotocol.Client, editor lineReader, out io.Writer, target string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return client.Run(ctx)
	})

	g.Go(func() error {
		if err := runREPL(ctx, client, editor, out, target); err != nil {
			return err
		}
		return disconnect(client)
	})

	return g.Wait()
}

// disconnect closes the connection, waiting at most shutdownTimeout.
func disconnect(client *ircprotocol.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// shutdown releases everything main acquired. Errors are collected rather
// than stopping at the first one.
func shutdown(client *ircprotocol.Client, editor *LineEditor, logger *zap.Logger, logFile string) error {
	editor.Close()

	err := disconnect(client)
	if logsToFile(logFile) {
		err = multierr.Append(err, logger.Sync())
	}
	return err
}

// =============================================================================
// Signal Handling
// =============================================================================

// setupSignalHandler runs cleanup and exits on SIGINT or SIGTERM.
func setupSignalHandler(cleanup func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println()
		cleanup()
		os.Exit(0)
	}()
}

// =============================================================================
// Main
// =============================================================================

func main() {
	args, err := parseArguments(os.Args[1:])
	if err != nil {
		printError(err.Error())
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if args.showHelp {
		printUsage(os.Stdout)
		return
	}
	if args.showVersion {
		printVersion()
		return
	}

	cfg, err := loadSettings(args)
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogFile)
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	ircprotocol.SetLogger(protocolLogger(cfg.LogFile, logger))

	opts, err := cfg.clientOptions()
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	// The bot needs the client and the client needs the bot's error
	// handler, so the handler closes over b.
	var b *bot
	opts = append(opts, ircprotocol.WithErrorHandler(func(err error) {
		logger.Warn("handler failed", zap.Error(err))
		b.reportError(err)
	}))

	client := ircprotocol.NewClient(cfg.Host, cfg.port(), opts...)
	b = newBot(client, cfg, os.Stdout)
	b.register()

	fmt.Print(welcomeBanner())
	fmt.Println()
	fmt.Printf("Connecting to %s:%d...\n", cfg.Host, cfg.port())

	connectCtx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	err = client.Connect(connectCtx)
	cancel()
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	editor := NewLineEditor()
	cleanup := func() {
		if err := shutdown(client, editor, logger, cfg.LogFile); err != nil {
			printError(err.Error())
		}
	}
	setupSignalHandler(cleanup)

	target := ""
	if len(cfg.Channels) > 0 {
		target = cfg.Channels[0]
	}

	err = runSession(context.Background(), client, editor, os.Stdout, target)
	cleanup()

	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}
