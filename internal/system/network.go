package system

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	friendlyerrors "shotscraper/internal/errors"
)

// CheckURLReachable resolves the host of rawURL and opens a TCP connection
// to it. Nothing is sent over the connection.
func CheckURLReachable(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return friendlyerrors.InvalidArgument(fmt.Sprintf("Not a URL: %s", rawURL), "Use an http(s) URL")
	}
	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}
	return CheckHostReachable(ctx, u.Hostname(), port)
}

// CheckHostReachable checks DNS and a TCP connect to host:port.
func CheckHostReachable(ctx context.Context, host, port string) error {
	resolver := &net.Resolver{}
	if _, err := resolver.LookupHost(ctx, host); err != nil {
		return friendlyerrors.NewFriendlyError(
			fmt.Sprintf("Cannot resolve host: %s", host),
			"Check that the hostname is correct and your DNS is working",
		).WithDetails(err)
	}

	dialer := &net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return friendlyerrors.NewFriendlyError(
			fmt.Sprintf("Cannot connect to host: %s", host),
			fmt.Sprintf("Host is unreachable:\n"+
				"1. Check internet connection\n"+
				"2. Verify host is not blocked by firewall\n"+
				"3. Try: curl -I https://%s", host),
		).WithDetails(err)
	}
	_ = conn.Close()

	return nil
}

// DetectProxySettings returns proxy configuration from environment
func DetectProxySettings() map[string]string {
	proxies := make(map[string]string)

	for _, envVar := range []string{"HTTP_PROXY", "HTTPS_PROXY", "NO_PROXY", "http_proxy", "https_proxy", "no_proxy"} {
		if val := os.Getenv(envVar); val != "" {
			proxies[envVar] = val
		}
	}

	req, _ := http.NewRequest(http.MethodGet, "https://raw.githubusercontent.com", nil)
	if proxyURL, _ := http.ProxyFromEnvironment(req); proxyURL != nil {
		if _, exists := proxies["HTTPS_PROXY"]; !exists {
			proxies["HTTPS_PROXY"] = proxyURL.String()
		}
	}

	return proxies
}
