package common

import (
	"errors"
	"net/url"
	"slices"
	"strings"
)

// ErrBlockedLink is returned for links the ingester cannot follow
var ErrBlockedLink = errors.New("단축 URL 또는 지원하지 않는 형식의 링크는 등록할 수 없습니다")

// URL shorteners hide the real provider page
var blockedLinkDomains = []string{
	"naver.me",
	"bit.ly",
	"han.gl",
	"t.co",
	"tinyurl.com",
}

// ValidateSourceLink checks that a suggested notice source is a plain
// http(s) URL pointing at a real host rather than a redirector.
func ValidateSourceLink(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ErrBlockedLink
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrBlockedLink
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if slices.Contains(blockedLinkDomains, host) {
		return ErrBlockedLink
	}
	return nil
}

// SplitList parses a comma-separated query value, dropping blanks.
// An empty input yields an empty (non-nil) slice.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
