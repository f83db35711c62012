package enrichment

import (
	"net/url"
	"strings"
)

const logoBaseURL = "https://logo.clearbit.com/"

// GuessLogo derives a logo URL from a company website's domain.
func GuessLogo(website string) (string, bool) {
	website = strings.TrimSpace(website)
	if website == "" {
		return "", false
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}

	u, err := url.Parse(website)
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" || !strings.Contains(host, ".") {
		return "", false
	}
	return logoBaseURL + host, true
}
