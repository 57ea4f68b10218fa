// Package extractor scans page content for email-address-like strings.
// Candidates come from two sources: a regex sweep over the visible text and
// the targets of mailto: anchors. Candidates are unvalidated; Filter applies
// the strict pattern and the false-positive denylist.
package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// emailPattern is the loose candidate pattern. The trailing optional segment
// keeps compound suffixes such as .co.uk in a single match.
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}(?:\.[A-Za-z]{2,})?`)

// Extract parses html and returns every candidate email found in the visible
// text or in mailto: links. The two sources are unioned; duplicates may remain
// and are resolved downstream. A page that cannot be parsed yields an empty
// list, never an error.
func Extract(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var candidates []string
	add := func(email string) {
		if email == "" {
			return
		}
		if _, dup := seen[email]; dup {
			return
		}
		seen[email] = struct{}{}
		candidates = append(candidates, email)
	}

	for _, email := range fromMailtoLinks(doc) {
		add(email)
	}
	for _, email := range fromVisibleText(doc) {
		add(email)
	}
	return candidates
}

// fromMailtoLinks collects addresses from anchors whose href uses the mailto:
// scheme, stripping the scheme prefix and any ?subject=... query string.
func fromMailtoLinks(doc *goquery.Document) []string {
	var emails []string
	doc.Find("a[href^='mailto:'], a[href^='Mailto:'], a[href^='MAILTO:']").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		value := strings.TrimSpace(href)
		if len(value) >= len("mailto:") && strings.EqualFold(value[:len("mailto:")], "mailto:") {
			value = value[len("mailto:"):]
		}
		if idx := strings.Index(value, "?"); idx >= 0 {
			value = value[:idx]
		}
		emails = append(emails, strings.TrimSpace(value))
	})
	return emails
}

// fromVisibleText runs the candidate pattern over the text content of the
// document body, with script, style and noscript subtrees removed.
func fromVisibleText(doc *goquery.Document) []string {
	scope := doc.Clone()
	scope.Find("script, style, noscript").Remove()
	text := scope.Find("body").Text()
	return emailPattern.FindAllString(text, -1)
}
