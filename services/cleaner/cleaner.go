// Package cleaner strips advertising and tracking markup from upstream
// watch pages before they are proxied to the client.
package cleaner

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// removeSelectors match elements dropped wholesale from the document.
var removeSelectors = []string{
	"script",
	"iframe",
	"ins",
	"object",
	"embed",
	"aside",
	`[class*="ad-"]`,
	`[class*="advert"]`,
	`[id*="sponsor"]`,
}

// inlineHandlers are attributes stripped from every remaining element.
var inlineHandlers = []string{"onclick", "onload", "onerror", "onmouseover"}

// Clean parses the HTML document from r and returns it with ad and script
// content removed.
func Clean(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	for _, sel := range removeSelectors {
		doc.Find(sel).Remove()
	}

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range inlineHandlers {
			s.RemoveAttr(attr)
		}
	})

	html, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return html, nil
}

// CleanString is Clean over an in-memory document.
func CleanString(page string) (string, error) {
	return Clean(strings.NewReader(page))
}
