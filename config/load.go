package config

import (
	"fmt"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// document mirrors Config with every field optional. Durations are written the
// way time.ParseDuration accepts them, e.g. "90s".
type document struct {
	Headers *struct {
		MaxKeyLength *int `json:"max_key_length"`
		Number       *struct {
			Default *int `json:"default"`
			Maximal *int `json:"maximal"`
		} `json:"number"`
	} `json:"headers"`
	Body *struct {
		MaxSize *int `json:"max_size"`
	} `json:"body"`
	NET *struct {
		ReadBufferSize            *int    `json:"read_buffer_size"`
		ReadTimeout               *string `json:"read_timeout"`
		AcceptLoopInterruptPeriod *string `json:"accept_loop_interrupt_period"`
		Buffer                    *struct {
			Default *int `json:"default"`
			Maximal *int `json:"maximal"`
		} `json:"buffer"`
	} `json:"net"`
	WebSocket *struct {
		MaxBuffered *int `json:"max_buffered"`
	} `json:"websocket"`
}

// Load reads a JSON config file and overlays it onto the defaults.
func Load(path string) (*Config, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer fd.Close()

	return Decode(fd)
}

// Decode overlays a JSON document onto the defaults. Absent fields keep their default
// values.
func Decode(r io.Reader) (*Config, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	if err := doc.apply(cfg); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func (d document) apply(cfg *Config) error {
	if h := d.Headers; h != nil {
		setInt(&cfg.Headers.MaxKeyLength, h.MaxKeyLength)
		if n := h.Number; n != nil {
			setInt(&cfg.Headers.Number.Default, n.Default)
			setInt(&cfg.Headers.Number.Maximal, n.Maximal)
		}
	}

	if b := d.Body; b != nil {
		setInt(&cfg.Body.MaxSize, b.MaxSize)
	}

	if n := d.NET; n != nil {
		setInt(&cfg.NET.ReadBufferSize, n.ReadBufferSize)
		if err := setDuration(&cfg.NET.ReadTimeout, n.ReadTimeout); err != nil {
			return err
		}
		if err := setDuration(&cfg.NET.AcceptLoopInterruptPeriod, n.AcceptLoopInterruptPeriod); err != nil {
			return err
		}
		if b := n.Buffer; b != nil {
			setInt(&cfg.NET.Buffer.Default, b.Default)
			setInt(&cfg.NET.Buffer.Maximal, b.Maximal)
		}
	}

	if ws := d.WebSocket; ws != nil {
		setInt(&cfg.WebSocket.MaxBuffered, ws.MaxBuffered)
	}

	return nil
}

// Validate reports settings which cannot work together.
func (c *Config) Validate() error {
	switch {
	case c.Headers.MaxKeyLength < 1:
		return fmt.Errorf("config: headers.max_key_length must be positive, got %d", c.Headers.MaxKeyLength)
	case c.Headers.Number.Maximal < c.Headers.Number.Default:
		return fmt.Errorf("config: headers.number.maximal is less than default")
	case c.Body.MaxSize < 1:
		return fmt.Errorf("config: body.max_size must be positive, got %d", c.Body.MaxSize)
	case c.NET.ReadBufferSize < 1:
		return fmt.Errorf("config: net.read_buffer_size must be positive, got %d", c.NET.ReadBufferSize)
	case c.NET.Buffer.Maximal < c.NET.Buffer.Default:
		return fmt.Errorf("config: net.buffer.maximal is less than default")
	case c.WebSocket.MaxBuffered < 1:
		return fmt.Errorf("config: websocket.max_buffered must be positive, got %d", c.WebSocket.MaxBuffered)
	}

	return nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string) error {
	if src == nil {
		return nil
	}

	d, err := time.ParseDuration(*src)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	*dst = d
	return nil
}
