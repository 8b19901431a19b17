package crawler

import "strings"

// schemePrefixes lists the prefixes stripped, in order, when computing a
// URL's visited-set key. The first match wins.
var schemePrefixes = []string{
	"https://www.",
	"http://www.",
	"https://",
	"http://",
}

// normalizeURL strips a leading scheme and "www." and returns the
// remainder as the visited-set dedup key.
func normalizeURL(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, prefix := range schemePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return rawURL[len(prefix):]
		}
	}
	return rawURL
}

// cleanLink reports whether rawURL should be enqueued: its lowercased
// form must contain domain and must not contain "keyword".
func cleanLink(rawURL, domain string) bool {
	lower := strings.ToLower(rawURL)
	return strings.Contains(lower, strings.ToLower(domain)) && !strings.Contains(lower, "keyword")
}
