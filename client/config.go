package client

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPort is used when the address carries no explicit port.
const DefaultPort = 27017

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds the configuration of a bridge connection.
type ClientConfig struct {
	// Address is the server to connect to, in host[:port] form
	Address string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Address", c.Address)
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Address parsing
// --------------------------------------------------------------------------

// ParseAddress validates a host[:port] address and returns it with an
// explicit port, applying DefaultPort when none is given. A malformed
// address is an error, never a panic.
func ParseAddress(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("empty host")
	}

	idx := strings.LastIndex(host, ":")
	if idx == -1 {
		return fmt.Sprintf("%s:%d", host, DefaultPort), nil
	}

	name, portStr := host[:idx], host[idx+1:]
	if name == "" {
		return "", fmt.Errorf("invalid address %q: empty host", host)
	}
	if strings.Contains(name, ":") {
		return "", fmt.Errorf("invalid address %q: more than one colon", host)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid address %q: bad port %q", host, portStr)
	}

	return fmt.Sprintf("%s:%d", name, port), nil
}
