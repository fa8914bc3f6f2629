// Command healthcheck probes a running "reviewregistry serve" instance and
// exits non-zero when it is unhealthy. It is meant for container HEALTHCHECKs.
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"
)

const (
	probeTimeout = 2 * time.Second
	// defaultAddr mirrors the serve command's default listen address.
	defaultAddr = "127.0.0.1:8080"
)

func main() {
	os.Exit(check(os.Getenv("ND_LISTEN_ADDR")))
}

// check returns 0 when GET /api/v1/health on addr answers 200.
func check(addr string) int {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+probeAddr(addr)+"/api/v1/health", nil)
	if err != nil {
		return 1
	}

	resp, err := (&http.Client{Timeout: probeTimeout}).Do(req)
	if err != nil {
		return 1
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 1
	}
	return 0
}

// probeAddr maps a listen address to one reachable from inside the same
// container: empty and wildcard hosts become loopback.
func probeAddr(raw string) string {
	if raw == "" {
		raw = defaultAddr
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return defaultAddr
	}

	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
