// Package extract turns a product page's markup into a models.ProductRecord:
// Locate finds and decodes the embedded data blob, Map normalizes it.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/goccy/go-json"
	"github.com/use-agent/pdpscrape/models"
)

// BlobMarker identifies the script that carries the product state.
const BlobMarker = "pdpData"

var scriptMatcher = cascadia.MustCompile("script")

// Locate returns the decoded data blob of rawHTML.
//
// The first <script>, in document order, whose text contains BlobMarker is
// selected. Decoding starts at its first '{' and reads a single JSON value;
// whatever follows that value (";", more statements) is ignored.
func Locate(rawHTML string) (Value, error) {
	script, err := findBlobScript(rawHTML)
	if err != nil {
		return Value{}, err
	}
	return decodeBlob(script)
}

func findBlobScript(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", models.NewExtractError(models.ErrCodeBlobNotFound,
			"locate: parse page markup", err)
	}

	var found string
	doc.FindMatcher(scriptMatcher).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if strings.Contains(text, BlobMarker) {
			found = text
			return false
		}
		return true
	})

	if found == "" {
		return "", models.NewExtractError(models.ErrCodeBlobNotFound,
			"locate: unable to locate product data ("+BlobMarker+") in page", nil)
	}
	return found, nil
}

func decodeBlob(script string) (Value, error) {
	start := strings.IndexByte(script, '{')
	if start < 0 {
		return Value{}, models.NewExtractError(models.ErrCodeBlobParse,
			"locate: failed to parse product JSON: no object literal in script", nil)
	}

	var raw any
	dec := json.NewDecoder(strings.NewReader(script[start:]))
	if err := dec.Decode(&raw); err != nil {
		return Value{}, models.NewExtractError(models.ErrCodeBlobParse,
			"locate: failed to parse product JSON", err)
	}
	return NewValue(raw), nil
}
