package fetcher

import (
	"strings"

	"golang.org/x/net/html"
)

// blockMarkers are phrases the target's edge serves on its denial page.
var blockMarkers = []string{
	"Access Denied",
	"You don't have permission",
}

// isBlocked reports whether body looks like an anti-bot denial page.
func isBlocked(body string) bool {
	for _, m := range blockMarkers {
		if strings.Contains(body, m) {
			return true
		}
	}
	return false
}

// pageTitle uses the Go HTML tokenizer to find the first <title> element.
func pageTitle(body string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(body))
	inTitle := false
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(tokenizer.Text()))
			}
		case html.EndTagToken:
			if inTitle {
				return ""
			}
		}
	}
}
