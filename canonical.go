package recall

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters stripped during canonicalization.
// They identify campaigns, not content.
var trackingParams = map[string]bool{
	"fbclid":   true,
	"gclid":    true,
	"igshid":   true,
	"mc_cid":   true,
	"mc_eid":   true,
	"msclkid":  true,
	"ref":      true,
	"ref_src":  true,
	"yclid":    true,
	"mkt_tok":  true,
	"_hsenc":   true,
	"_hsmi":    true,
	"oly_enc":  true,
	"vero_id":  true,
	"wickedid": true,
}

// CanonicalizeURL normalizes a URL into its dedup identity: lowercased
// scheme and host, default port removed, fragment stripped, tracking
// parameters removed, remaining query sorted for a stable encoding.
func CanonicalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", Errorf(EINVALID, "url required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", Errorf(EINVALID, "invalid url %q: %s", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "url host required")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	// Remove default ports
	if u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	} else {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if trackingParams[key] || strings.HasPrefix(key, "utm_") {
				q.Del(key)
			}
		}
		u.RawQuery = q.Encode() // Encode sorts keys
	}

	return u.String(), nil
}
