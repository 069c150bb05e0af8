package scripts

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"time"

	"shotscraper/internal/config"
)

// newHTTPClient builds the client for script fetches. A zero
// network.timeout_seconds leaves the request unbounded.
func newHTTPClient(cfg *config.Config) *http.Client {
	var timeout time.Duration
	if cfg != nil && cfg.Network.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Network.TimeoutSeconds) * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
	client := &http.Client{Transport: tr, Timeout: timeout}
	// Keep the User-Agent across redirects; net/http already drops
	// Authorization when the host changes.
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return fmt.Errorf("stopped after %d redirects", len(via))
		}
		if ua := via[len(via)-1].Header.Get("User-Agent"); ua != "" {
			req.Header.Set("User-Agent", ua)
		}
		return nil
	}
	return client
}

// userAgent returns the configured User-Agent, or
// "shotscraper/<version> (<goos>/<goarch>)" when not set.
func userAgent(cfg *config.Config) string {
	if cfg != nil && cfg.Network.UserAgent != "" {
		return cfg.Network.UserAgent
	}
	return fmt.Sprintf("shotscraper/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}

// Version is set by the CLI from its linker-provided version.
var Version = "dev"
