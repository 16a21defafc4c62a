package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractText pulls whitespace-normalized visible text out of an HTML
// payload. Inputs without markup come back empty so callers can tell
// "no text layer" from "text equals the payload".
func ExtractText(html string) string {
	if !strings.Contains(html, "<") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
