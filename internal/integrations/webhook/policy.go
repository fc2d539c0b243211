package webhook

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

var blockedHosts = map[string]struct{}{
	"localhost":                {},
	"127.0.0.1":                {},
	"0.0.0.0":                  {},
	"::1":                      {},
	"metadata.google.internal": {},
}

var blockedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fe80::/10"),
}

// Policy правила допустимых адресов вебхука.
// Одна и та же политика применяется при сохранении адреса и при отправке.
type Policy struct {
	allowedDomains     []string
	allowCustomDomains bool
}

// NewPolicy создает политику. Пустой allowedDomains разрешает любой публичный хост.
func NewPolicy(allowedDomains []string, allowCustomDomains bool) *Policy {
	normalized := make([]string, 0, len(allowedDomains))
	for _, d := range allowedDomains {
		d = strings.Trim(strings.ToLower(strings.TrimSpace(d)), ".")
		if d != "" {
			normalized = append(normalized, d)
		}
	}
	return &Policy{allowedDomains: normalized, allowCustomDomains: allowCustomDomains}
}

// Validate проверяет схему, хост и список разрешенных доменов
func (p *Policy) Validate(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrURLNotAllowed, u.Scheme)
	}

	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	if _, blocked := blockedHosts[host]; blocked {
		return fmt.Errorf("%w: host %s", ErrURLNotAllowed, host)
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		addr = addr.Unmap()
		if addr.IsLoopback() || addr.IsUnspecified() {
			return fmt.Errorf("%w: host %s", ErrURLNotAllowed, host)
		}
		for _, prefix := range blockedPrefixes {
			if prefix.Contains(addr) {
				return fmt.Errorf("%w: private address %s", ErrURLNotAllowed, host)
			}
		}
	}

	if len(p.allowedDomains) == 0 || p.allowCustomDomains {
		return nil
	}

	for _, domain := range p.allowedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return nil
		}
	}

	return fmt.Errorf("%w: host %s is not in allowed domains", ErrURLNotAllowed, host)
}
