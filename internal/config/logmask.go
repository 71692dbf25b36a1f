// SPDX-License-Identifier: MIT

package config

import (
	"net/url"
	"sort"
	"strings"

	"github.com/ManuGH/deploycfg/internal/secrets"
)

const masked = "***"

// MaskURL hides credentials embedded in an RPC URL: userinfo, query values
// and path segments that look like API keys. Secret references stay visible.
//
//	https://eth-rinkeby.alchemyapi.io/v2/123abc123abc123abc123abc123abcde
//	-> https://eth-rinkeby.alchemyapi.io/v2/***
func MaskURL(rawURL string) string {
	if rawURL == "" || secrets.IsWholeReference(rawURL) {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return masked
	}

	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	if u.User != nil {
		b.WriteString(masked)
		b.WriteByte('@')
	}
	b.WriteString(u.Host)

	segments := strings.Split(u.Path, "/")
	for i, seg := range segments {
		if looksLikeKey(seg) {
			segments[i] = masked
		}
	}
	b.WriteString(strings.Join(segments, "/"))

	if u.RawQuery != "" {
		keys := make([]string, 0)
		for k := range u.Query() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i == 0 {
				b.WriteByte('?')
			} else {
				b.WriteByte('&')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(masked)
		}
	}
	return b.String()
}

// looksLikeKey matches long opaque tokens such as Alchemy or Infura keys.
func looksLikeKey(seg string) bool {
	if len(seg) < 16 || secrets.HasReference(seg) {
		return false
	}
	digits := 0
	for _, r := range seg {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
		default:
			return false
		}
	}
	return digits > 0
}

// MaskAccount hides a literal private key. References are returned as is.
func MaskAccount(account string) string {
	if secrets.HasReference(account) {
		return account
	}
	return masked
}

// MaskConfig returns a copy of cfg that is safe to log, print or serve.
func MaskConfig(cfg ProjectConfig) ProjectConfig {
	out := cfg.Clone()
	for name, n := range out.Networks {
		n.URL = MaskURL(n.URL)
		for i, acc := range n.Accounts {
			n.Accounts[i] = MaskAccount(acc)
		}
		out.Networks[name] = n
	}
	return out
}
