package store

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/muhlenberg/searchengine/internal/apperror"
)

// connString is a parsed store connection URI of the form
// "laura://host:port" (or the "mongodb://" alias) together with the
// separately supplied database name; any path in the URI is ignored. Only
// the pieces LauraStore needs are kept: the scheme, the host list, the
// database name, and a request timeout.
type connString struct {
	Scheme   string
	Hosts    []host
	Database string
	Timeout  time.Duration
}

type host struct {
	Host string
	Port int
}

func (cs *connString) firstHost() host {
	return cs.Hosts[0]
}

// parseConnString parses a store URI, returning apperror.ErrInvalidStoreConfig
// for anything malformed: wrong scheme, no hosts, or a missing database name.
func parseConnString(uri, dbName string) (*connString, error) {
	if uri == "" || dbName == "" {
		return nil, fmt.Errorf("%w: both store URI and database name are required", apperror.ErrInvalidStoreConfig)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrInvalidStoreConfig, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "laura" && scheme != "mongodb" {
		return nil, fmt.Errorf("%w: scheme must be laura:// or mongodb://, got %q", apperror.ErrInvalidStoreConfig, u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("%w: no hosts specified", apperror.ErrInvalidStoreConfig)
	}
	hosts, err := parseHosts(u.Host)
	if err != nil {
		return nil, err
	}

	cs := &connString{
		Scheme:   scheme,
		Hosts:    hosts,
		Database: dbName,
		Timeout:  30 * time.Second,
	}

	if ms := u.Query().Get("timeoutms"); ms != "" {
		n, err := strconv.Atoi(ms)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: invalid timeoutms %q", apperror.ErrInvalidStoreConfig, ms)
		}
		cs.Timeout = time.Duration(n) * time.Millisecond
	}

	return cs, nil
}

func parseHosts(hostStr string) ([]host, error) {
	parts := strings.Split(hostStr, ",")
	hosts := make([]host, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		h, portStr, hasPort := strings.Cut(part, ":")
		port := 8080
		if hasPort {
			var err error
			port, err = strconv.Atoi(portStr)
			if err != nil || port < 1 || port > 65535 {
				return nil, fmt.Errorf("%w: invalid port %q", apperror.ErrInvalidStoreConfig, portStr)
			}
		}
		hosts = append(hosts, host{Host: h, Port: port})
	}

	if len(hosts) == 0 {
		return nil, fmt.Errorf("%w: no hosts specified", apperror.ErrInvalidStoreConfig)
	}
	return hosts, nil
}
