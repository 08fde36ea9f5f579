package normalize

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// itemNamespace seeds UUIDv5 identities so ids stay stable across runs and hosts.
var itemNamespace = uuid.MustParse("6f1b3c7e-2a41-5d8e-9c0f-4b7a1e2d3c55")

var trackingParams = map[string]struct{}{
	"utm":      {},
	"igshid":   {},
	"ref_src":  {},
	"ref_url":  {},
	"_hsenc":   {},
	"_hsmi":    {},
	"mkt_tok":  {},
	"si":       {},
	"spm":      {},
	"cmpid":    {},
	"share_id": {},
}

func isTrackingParam(key string) bool {
	k := strings.ToLower(key)
	if _, ok := trackingParams[k]; ok {
		return true
	}
	return strings.HasPrefix(k, "utm_") ||
		strings.HasPrefix(k, "mc_") ||
		strings.HasSuffix(k, "clid")
}

// CanonicalURL strips tracking parameters and cosmetic differences from an absolute http(s) URL.
func CanonicalURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url %q", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", raw)
	}

	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host = host + ":" + port
	}
	u.Host = host
	u.User = nil
	u.Fragment = ""
	u.RawFragment = ""

	query := u.Query()
	for key := range query {
		if isTrackingParam(key) {
			query.Del(key)
		}
	}
	u.RawQuery = query.Encode()
	u.ForceQuery = false

	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""

	return u.String(), nil
}

// ItemID derives the identity of a canonical URL.
func ItemID(canonical string) string {
	return uuid.NewSHA1(itemNamespace, []byte(canonical)).String()
}

// ExternalID derives the identity of an item that has no usable URL.
func ExternalID(source, externalID string) string {
	return uuid.NewSHA1(itemNamespace, []byte(source+":"+externalID)).String()
}
