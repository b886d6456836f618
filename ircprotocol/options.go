package ircprotocol

import (
	"crypto/tls"
	"fmt"

	"github.com/go-log/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Options describes the configuration shared by Client and Connection.
type Options struct {
	TLS          bool
	TLSConfig    *tls.Config
	Encoding     encoding.Encoding
	Scheduler    Scheduler
	Transport    Transport
	Logger       log.Logger
	ErrorHandler func(err error)
}

// Option allows a common way to set Options.
type Option func(opts *Options)

func defaultOptions() *Options {
	return &Options{
		TLS:       true,
		Encoding:  unicode.UTF8,
		Scheduler: GoroutineScheduler{},
		Transport: &TCPTransport{},
		Logger:    defaultLogger{},
	}
}

func buildOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTLS enables or disables TLS. TLS is on by default.
func WithTLS(enabled bool) Option {
	return func(opts *Options) {
		opts.TLS = enabled
	}
}

// WithTLSConfig sets the TLS configuration and enables TLS. ServerName is
// filled in from the host when empty.
func WithTLSConfig(config *tls.Config) Option {
	return func(opts *Options) {
		opts.TLS = true
		opts.TLSConfig = config
	}
}

// WithEncoding sets the charset used to convert between wire bytes and text.
func WithEncoding(enc encoding.Encoding) Option {
	return func(opts *Options) {
		if enc != nil {
			opts.Encoding = enc
		}
	}
}

// WithScheduler sets the scheduler handler tasks are submitted to.
func WithScheduler(s Scheduler) Option {
	return func(opts *Options) {
		if s != nil {
			opts.Scheduler = s
		}
	}
}

// WithTransport sets the transport used to open the connection.
func WithTransport(t Transport) Option {
	return func(opts *Options) {
		if t != nil {
			opts.Transport = t
		}
	}
}

// WithLogger sets the logger. The package default logger is used otherwise.
func WithLogger(logger log.Logger) Option {
	return func(opts *Options) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// WithErrorHandler sets the function handler failures are reported to.
// By default they are logged.
func WithErrorHandler(fn func(err error)) Option {
	return func(opts *Options) {
		opts.ErrorHandler = fn
	}
}

// LookupEncoding resolves a charset name such as "UTF-8", "latin1" or
// "windows-1252".
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}
