package config

import (
	"time"
)

type (
	HeadersNumber struct {
		Default, Maximal int
	}

	NETBuffer struct {
		Default, Maximal int
	}
)

type (
	Headers struct {
		// MaxKeyLength is the longest header key accepted in a request. Longer lines are
		// dropped without failing the request.
		MaxKeyLength int
		// Number is responsible for the header lines storage.
		// Default value is an initial capacity of the lines' storage.
		// Maximal value is maximum number of headers kept per request. Excess lines
		// are parsed but not stored.
		Number HeadersNumber
	}

	Body struct {
		// MaxSize is the maximal Content-Length accepted in a POST request. Requests
		// announcing more are rejected and the connection is closed.
		MaxSize int
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of IDLE connections. If no data was
		// received in this period of time, it'll be closed.
		ReadTimeout time.Duration
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
		// Buffer is the per-connection storage of unconsumed bytes. Default is its
		// initial capacity, Maximal is the amount of bytes after which the connection
		// is forcibly closed.
		Buffer NETBuffer
	}

	WebSocket struct {
		// MaxBuffered is the ceiling for bytes accumulated by a websocket connection
		// without completing a frame. Exceeding it shuts the connection down.
		MaxBuffered int
	}
)

// Config holds settings used across the server, mainly restrictions, limitations
// and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Headers   Headers
	Body      Body
	NET       NET
	WebSocket WebSocket
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Headers: Headers{
			MaxKeyLength: 63,
			Number: HeadersNumber{
				Default: 10,
				Maximal: 50,
			},
		},
		Body: Body{
			MaxSize: 100 * 1024,
		},
		NET: NET{
			ReadBufferSize:            4 * 1024,
			ReadTimeout:               90 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
			Buffer: NETBuffer{
				Default: 4 * 1024,
				// a little more than the websocket ceiling, so the ceiling is the
				// one to trip first in websocket mode
				Maximal: 512 * 1024,
			},
		},
		WebSocket: WebSocket{
			MaxBuffered: 502400,
		},
	}
}
