package discovery

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Service type constants for mDNS.
const (
	// ServiceType is the DNS-SD service type for restbind API servers.
	ServiceType = "_restbind._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the port assumed when an announcement carries none.
	DefaultPort = 8080
)

// TXT record key constants.
const (
	TXTKeyPath    = "path" // API base path, e.g. "/api/todos" (required)
	TXTKeyVersion = "ver"  // API version (optional)
	TXTKeyName    = "name" // Human-readable server name (optional)
	TXTKeyTLS     = "tls"  // "1" when the endpoint expects HTTPS (optional)
)

// Timing constants.
const (
	// BrowseTimeout is the default timeout for one-shot lookups.
	BrowseTimeout = 10 * time.Second
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63
)

// Discovery errors.
var (
	ErrMissingRequired     = errors.New("missing required field")
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrNotFound            = errors.New("service not found")
)

// Endpoint is a restbind API server found via mDNS.
type Endpoint struct {
	// Instance is the mDNS instance name, e.g. "todos-api".
	Instance string

	// Host is the announced hostname, e.g. "workstation.local.".
	Host string

	// Port is the service port.
	Port uint16

	// Addresses contains the resolved IP addresses.
	Addresses []string

	// Path is the API base path (from TXT "path").
	Path string

	// Version is the optional API version (from TXT "ver").
	Version string

	// Name is the optional human-readable server name (from TXT "name").
	Name string

	// TLS reports whether the endpoint expects HTTPS (from TXT "tls").
	TLS bool
}

// BaseURL renders the endpoint as a base URL suitable for rest.New. The
// announced hostname is preferred; the first resolved address serves as a
// fallback when there is none.
func (e *Endpoint) BaseURL() string {
	scheme := "http"
	if e.TLS {
		scheme = "https"
	}

	host := strings.TrimSuffix(e.Host, ".")
	if host == "" && len(e.Addresses) > 0 {
		host = e.Addresses[0]
	}

	port := e.Port
	if port == 0 {
		port = DefaultPort
	}

	u := url.URL{
		Scheme: scheme,
		Host:   joinHostPort(host, port),
	}
	return u.String()
}

// joinHostPort brackets IPv6 literals the way net.JoinHostPort does.
func joinHostPort(host string, port uint16) string {
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return host + ":" + strconv.Itoa(int(port))
}

// AnnounceInfo describes one restbind API server to advertise.
type AnnounceInfo struct {
	// Instance is the mDNS instance name, e.g. "todos-api".
	Instance string

	// Port is the service port. Zero advertises DefaultPort.
	Port uint16

	// Path is the API base path, e.g. "/api/todos".
	Path string

	// Version is an optional API version.
	Version string

	// Name is an optional human-readable server name.
	Name string

	// TLS marks the endpoint as expecting HTTPS.
	TLS bool
}

// Validate checks that the announcement is well-formed.
func (a *AnnounceInfo) Validate() error {
	if a.Instance == "" {
		return ErrMissingRequired
	}
	if len(a.Instance) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	if !strings.HasPrefix(a.Path, "/") {
		return ErrMissingRequired
	}
	return nil
}

// AdvertiserConfig configures an Advertiser.
type AdvertiserConfig struct {
	// Interface restricts advertising to one network interface by name.
	// Empty uses all interfaces.
	Interface string

	// TTL overrides the record time-to-live. Zero keeps the library default.
	TTL time.Duration
}

// BrowserConfig configures a Browser.
type BrowserConfig struct {
	// Interface restricts browsing to one network interface by name.
	// Empty uses all interfaces.
	Interface string
}
