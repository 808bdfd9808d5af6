package address

import (
	"errors"
	"net"
	"strconv"
)

const DefaultHost = "0.0.0.0"

var ErrBadPort = errors.New("port must be in range 0-65535")

// Normalize validates the listening address and fills the host if only the port is
// given, so ":8080" becomes "0.0.0.0:8080".
func Normalize(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", err
	}

	if p, err := strconv.Atoi(port); err != nil || p < 0 || p > 65535 {
		return "", ErrBadPort
	}

	if len(host) == 0 {
		host = DefaultHost
	}

	return net.JoinHostPort(host, port), nil
}
