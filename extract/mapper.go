package extract

import (
	"fmt"

	"github.com/use-agent/pdpscrape/models"
)

// UnknownTitle is the title reported when the blob names no product.
const UnknownTitle = "Unknown Product"

// Field fallback chains, tried in order against the effective record.
var (
	titlePaths = [][]any{
		{"name"},
		{"product", "productName"},
	}
	imageKeys = [][]any{
		{"secureSrc"},
		{"imageURL"},
		{"src"},
	}
	originalPricePaths = [][]any{
		{"mrp"},
		{"price", "mrp"},
		{"price", "marked"},
	}
	discountedPricePaths = [][]any{
		{"discountedPrice"},
		{"price", "discountedPrice"},
		{"price", "effective"},
	}
)

// Map normalizes a decoded blob into a ProductRecord.
//
// Missing fields are not errors; they fall back to defaults. Only a value of
// the wrong shape where the traversal needs a container fails, with
// SCHEMA_MISMATCH.
func Map(blob Value) (*models.ProductRecord, error) {
	rec, err := effectiveRecord(blob)
	if err != nil {
		return nil, schemaMismatch("resolve record", err)
	}

	title, err := mapTitle(rec)
	if err != nil {
		return nil, schemaMismatch("title", err)
	}

	image, err := mapImage(rec)
	if err != nil {
		return nil, schemaMismatch("primary_image", err)
	}

	original, err := rec.FirstOf(originalPricePaths...)
	if err != nil {
		return nil, schemaMismatch("original_price", err)
	}
	discounted, err := rec.FirstOf(discountedPricePaths...)
	if err != nil {
		return nil, schemaMismatch("discounted_price", err)
	}
	if !discounted.Truthy() {
		discounted = original
	}

	originalPrice, err := price(original)
	if err != nil {
		return nil, schemaMismatch("original_price", err)
	}
	discountedPrice, err := price(discounted)
	if err != nil {
		return nil, schemaMismatch("discounted_price", err)
	}

	outOfStock, err := rec.Path("flags", "outOfStock")
	if err != nil {
		return nil, schemaMismatch("in_stock", err)
	}

	return &models.ProductRecord{
		Title:           title,
		PrimaryImage:    image,
		OriginalPrice:   originalPrice,
		DiscountedPrice: discountedPrice,
		InStock:         !outOfStock.Truthy(),
	}, nil
}

// effectiveRecord returns the BlobMarker member when it is set, else the
// blob itself. Either way the result must be an object.
func effectiveRecord(blob Value) (Value, error) {
	if blob.Kind() != KindObject {
		return Value{}, &ShapeError{Want: KindObject, Got: blob.Kind()}
	}
	nested, _ := blob.Field(BlobMarker)
	if !nested.Truthy() {
		return blob, nil
	}
	if nested.Kind() != KindObject {
		return Value{}, &ShapeError{Want: KindObject, Got: nested.Kind(), At: BlobMarker}
	}
	return nested, nil
}

func mapTitle(rec Value) (string, error) {
	v, err := rec.FirstOf(titlePaths...)
	if err != nil {
		return "", err
	}
	if !v.Truthy() {
		return UnknownTitle, nil
	}
	return v.Str()
}

// mapImage walks media.albums[0].images[0]. albums is only followed when it
// is a non-empty array; any other gap yields "".
func mapImage(rec Value) (string, error) {
	albums, err := rec.Path("media", "albums")
	if err != nil {
		return "", err
	}
	if albums.Kind() != KindArray || albums.Len() == 0 {
		return "", nil
	}

	img, err := albums.Path(0, "images", 0)
	if err != nil {
		return "", err
	}
	if !img.Truthy() {
		return "", nil
	}
	if img.Kind() != KindObject {
		return "", &ShapeError{Want: KindObject, Got: img.Kind(), At: "media.albums.0.images.0"}
	}

	src, err := img.FirstOf(imageKeys...)
	if err != nil {
		return "", err
	}
	return src.Str()
}

// price coerces the end of a fallback chain to a non-negative integer.
func price(v Value) (int, error) {
	n, err := v.Int()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

func schemaMismatch(field string, err error) *models.ExtractError {
	return models.NewExtractError(models.ErrCodeSchemaMismatch,
		fmt.Sprintf("map: unexpected product data shape for %s", field), err)
}
