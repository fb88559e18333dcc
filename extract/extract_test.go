package extract

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/use-agent/pdpscrape/models"
)

func page(scripts ...string) string {
	html := "<html><head><title>p</title>"
	for _, s := range scripts {
		html += "<script>" + s + "</script>"
	}
	return html + "</head><body><div id=\"mountRoot\"></div></body></html>"
}

func extractCode(err error) string {
	var ee *models.ExtractError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

func run(t *testing.T, rawHTML string) *models.ProductRecord {
	t.Helper()
	blob, err := Locate(rawHTML)
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	rec, err := Map(blob)
	if err != nil {
		t.Fatalf("Map() error: %v", err)
	}
	return rec
}

func TestPipeline_ShoeScenario(t *testing.T) {
	html := page(`var pdpData={"name":"Shoe","mrp":2000,"price":{"effective":1500},"flags":{"outOfStock":true}}`)

	got := run(t, html)
	want := models.ProductRecord{
		Title:           "Shoe",
		PrimaryImage:    "",
		OriginalPrice:   2000,
		DiscountedPrice: 1500,
		InStock:         false,
	}
	if *got != want {
		t.Errorf("record = %+v, want %+v", *got, want)
	}
}

func TestPipeline_EmptyObject(t *testing.T) {
	got := run(t, page(`window.pdpData = {}`))
	want := models.ProductRecord{
		Title:           UnknownTitle,
		PrimaryImage:    "",
		OriginalPrice:   0,
		DiscountedPrice: 0,
		InStock:         true,
	}
	if *got != want {
		t.Errorf("record = %+v, want %+v", *got, want)
	}
}

func TestPipeline_NestedUnderMarker(t *testing.T) {
	html := page(`window.__myx = {"pdpData":{"name":"Kurta","price":{"mrp":1999,"discountedPrice":999},` +
		`"media":{"albums":[{"images":[{"imageURL":"http://img/1.jpg","src":"http://img/s.jpg"}]}]}}};`)

	got := run(t, html)
	if got.Title != "Kurta" {
		t.Errorf("title = %q", got.Title)
	}
	if got.PrimaryImage != "http://img/1.jpg" {
		t.Errorf("primary_image = %q, want imageURL", got.PrimaryImage)
	}
	if got.OriginalPrice != 1999 || got.DiscountedPrice != 999 {
		t.Errorf("prices = %d/%d, want 1999/999", got.OriginalPrice, got.DiscountedPrice)
	}
	if !got.InStock {
		t.Error("in_stock should default to true")
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	html := page(`var pdpData={"name":"Tee","mrp":"799","media":{"albums":[{"images":[{"secureSrc":"https://a/b.jpg"}]}]}}`)

	first, err := json.Marshal(run(t, html))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(run(t, html))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("outputs differ:\n%s\n%s", first, second)
	}
}

func TestLocate_NoMarker(t *testing.T) {
	_, err := Locate(page(`var x = {"a":1}`, `console.log("hi")`))
	if got := extractCode(err); got != models.ErrCodeBlobNotFound {
		t.Errorf("code = %q, want %s (err: %v)", got, models.ErrCodeBlobNotFound, err)
	}
}

func TestLocate_FirstMatchingScriptWins(t *testing.T) {
	html := page(
		`var analytics = 1;`,
		`var pdpData = {"name":"First"}`,
		`var pdpData = {"name":"Second"}`,
	)
	got := run(t, html)
	if got.Title != "First" {
		t.Errorf("title = %q, want First", got.Title)
	}
}

func TestLocate_TrailingScriptIgnored(t *testing.T) {
	got := run(t, page(`window.pdpData = {"name":"Cap","mrp":500}; window.other = {"x": 1};`))
	if got.Title != "Cap" || got.OriginalPrice != 500 {
		t.Errorf("record = %+v", *got)
	}
}

func TestLocate_ParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"truncated", `var pdpData = {"name":"Shoe","mrp":`},
		{"malformed", `var pdpData = {name: 'Shoe'}`},
		{"no object", `var pdpData = null;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Locate(page(tt.script))
			if got := extractCode(err); got != models.ErrCodeBlobParse {
				t.Errorf("code = %q, want %s (err: %v)", got, models.ErrCodeBlobParse, err)
			}
		})
	}
}

func TestLocate_ExternalScriptsSkipped(t *testing.T) {
	html := `<html><head><script src="/pdpData.js"></script>` +
		`<script>var pdpData={"name":"Inline"}</script></head></html>`
	got := run(t, html)
	if got.Title != "Inline" {
		t.Errorf("title = %q, want Inline", got.Title)
	}
}

func mapJSON(t *testing.T, blob string) (*models.ProductRecord, error) {
	t.Helper()
	var raw any
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		t.Fatalf("bad test blob: %v", err)
	}
	return Map(NewValue(raw))
}

func TestMap_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want models.ProductRecord
	}{
		{
			name: "title from product.productName",
			blob: `{"name":"","product":{"productName":"Nested"}}`,
			want: models.ProductRecord{Title: "Nested", InStock: true},
		},
		{
			name: "direct name wins over broken product",
			blob: `{"name":"Direct","product":"not an object"}`,
			want: models.ProductRecord{Title: "Direct", InStock: true},
		},
		{
			name: "mrp from price.marked",
			blob: `{"price":{"marked":1200}}`,
			want: models.ProductRecord{Title: UnknownTitle, OriginalPrice: 1200, DiscountedPrice: 1200, InStock: true},
		},
		{
			name: "zero mrp falls through",
			blob: `{"mrp":0,"price":{"mrp":900}}`,
			want: models.ProductRecord{Title: UnknownTitle, OriginalPrice: 900, DiscountedPrice: 900, InStock: true},
		},
		{
			name: "top-level discountedPrice first",
			blob: `{"mrp":1000,"discountedPrice":700,"price":{"effective":800}}`,
			want: models.ProductRecord{Title: UnknownTitle, OriginalPrice: 1000, DiscountedPrice: 700, InStock: true},
		},
		{
			name: "fractional prices truncate",
			blob: `{"mrp":1999.99,"price":{"discountedPrice":"1499.5"}}`,
			want: models.ProductRecord{Title: UnknownTitle, OriginalPrice: 1999, DiscountedPrice: 1499, InStock: true},
		},
		{
			name: "huge prices saturate",
			blob: `{"mrp":1e20,"price":{"discountedPrice":"5e19"}}`,
			want: models.ProductRecord{Title: UnknownTitle, OriginalPrice: math.MaxInt, DiscountedPrice: math.MaxInt, InStock: true},
		},
		{
			name: "negative prices clamp to zero",
			blob: `{"mrp":-5}`,
			want: models.ProductRecord{Title: UnknownTitle, InStock: true},
		},
		{
			name: "image secureSrc preferred",
			blob: `{"media":{"albums":[{"images":[{"secureSrc":"s","imageURL":"i","src":"r"}]}]}}`,
			want: models.ProductRecord{Title: UnknownTitle, PrimaryImage: "s", InStock: true},
		},
		{
			name: "image src last resort",
			blob: `{"media":{"albums":[{"images":[{"secureSrc":"","src":"r"}]}]}}`,
			want: models.ProductRecord{Title: UnknownTitle, PrimaryImage: "r", InStock: true},
		},
		{
			name: "empty albums",
			blob: `{"media":{"albums":[]}}`,
			want: models.ProductRecord{Title: UnknownTitle, InStock: true},
		},
		{
			name: "albums not an array is ignored",
			blob: `{"media":{"albums":{"0":{}}}}`,
			want: models.ProductRecord{Title: UnknownTitle, InStock: true},
		},
		{
			name: "album without images",
			blob: `{"media":{"albums":[{"name":"default"}]}}`,
			want: models.ProductRecord{Title: UnknownTitle, InStock: true},
		},
		{
			name: "falsy pdpData uses root",
			blob: `{"pdpData":null,"name":"Root"}`,
			want: models.ProductRecord{Title: "Root", InStock: true},
		},
		{
			name: "outOfStock false",
			blob: `{"flags":{"outOfStock":false}}`,
			want: models.ProductRecord{Title: UnknownTitle, InStock: true},
		},
		{
			name: "null flags",
			blob: `{"flags":null}`,
			want: models.ProductRecord{Title: UnknownTitle, InStock: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mapJSON(t, tt.blob)
			if err != nil {
				t.Fatalf("Map() error: %v", err)
			}
			if *got != tt.want {
				t.Errorf("record = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestMap_DiscountDefaultsToOriginal(t *testing.T) {
	blobs := []string{
		`{"mrp":2500}`,
		`{"price":{"mrp":2500}}`,
		`{"mrp":2500,"discountedPrice":0,"price":{"discountedPrice":null,"effective":""}}`,
	}
	for _, b := range blobs {
		got, err := mapJSON(t, b)
		if err != nil {
			t.Fatalf("Map(%s) error: %v", b, err)
		}
		if got.DiscountedPrice != got.OriginalPrice || got.OriginalPrice != 2500 {
			t.Errorf("Map(%s) prices = %d/%d, want 2500/2500", b, got.OriginalPrice, got.DiscountedPrice)
		}
	}
}

func TestMap_SchemaMismatch(t *testing.T) {
	blobs := []string{
		`[1,2,3]`,
		`"just a string"`,
		`{"pdpData":"oops"}`,
		`{"product":"x"}`,
		`{"price":[1,2]}`,
		`{"flags":"yes"}`,
		`{"media":{"albums":["x"]}}`,
		`{"media":{"albums":[{"images":[42]}]}}`,
		`{"name":123}`,
		`{"mrp":"free"}`,
	}
	for _, b := range blobs {
		_, err := mapJSON(t, b)
		if got := extractCode(err); got != models.ErrCodeSchemaMismatch {
			t.Errorf("Map(%s) code = %q, want %s (err: %v)", b, got, models.ErrCodeSchemaMismatch, err)
		}
	}
}

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{0.0, false},
		{1.5, true},
		{"", false},
		{"x", true},
		{[]any{}, false},
		{[]any{nil}, true},
		{map[string]any{}, false},
		{map[string]any{"a": nil}, true},
	}
	for _, tt := range tests {
		if got := NewValue(tt.in).Truthy(); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValue_PathReportsLocation(t *testing.T) {
	v := NewValue(map[string]any{"media": map[string]any{"albums": "bad"}})
	_, err := v.Path("media", "albums", 0)
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
	if se.At != "media.albums.0" || se.Want != KindArray || se.Got != KindString {
		t.Errorf("unexpected shape error: %+v", se)
	}
}
