package extractor

import (
	"regexp"
	"strings"
)

// strictPattern is the anchored form of the candidate pattern.
var strictPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}(?:\.[A-Za-z]{2,})?$`)

// imageExtensions catch filenames mis-captured as emails, e.g. photo@2x.png.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg"}

// denylist holds substrings whose presence (in the lowercased candidate)
// marks a known false positive: placeholder domains, third-party script
// identifiers, asset filenames. Heuristic and deliberately non-exhaustive;
// kept verbatim for output parity with prior releases.
var denylist = []string{
	"example.com",
	"example.org",
	"domain.com",
	"email.com",
	"test.com",
	"yourdomain.com",
	"yoursite.com",
	"sentry.io",
	"wixpress.com",
	"example@example",
	".png",
	".jpg",
	".jpeg",
	".gif",
	".svg",
	".css",
	".js",
	".webp",
	"email@email",
	"your@email",
	"you@example",
}

// Valid reports whether a candidate survives strict validation and the
// false-positive filters.
func Valid(email string) bool {
	if len(email) < 6 {
		return false
	}
	if !strictPattern.MatchString(email) {
		return false
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || !strings.Contains(domain, ".") {
		return false
	}
	if strings.Contains(domain, "@") {
		return false
	}
	lower := strings.ToLower(email)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	for _, blocked := range denylist {
		if strings.Contains(lower, blocked) {
			return false
		}
	}
	return true
}

// Filter returns the candidates that pass Valid, preserving input order.
func Filter(candidates []string) []string {
	kept := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if Valid(c) {
			kept = append(kept, c)
		}
	}
	return kept
}
