// Package parser normalizes heterogeneous product-record JSON shapes into
// the uniform Record model and validates required fields.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gkwa/noblenewtonia/models"
)

const maxSlugLen = 50

// ExtractRecords normalizes already-deserialized JSON into records.
//
// Three source shapes are accepted: an {Items: [...]} envelope whose item
// fields may each be wrapped as {Value: x}, with the product payload either
// directly on the item or one level deeper under product.Value; a flat
// array of plain objects; and the empty terminal cases (Items null or
// empty, or an empty top-level array), which yield zero records without
// error. Anything else is a MalformedInputError.
func ExtractRecords(doc any) ([]*models.Record, error) {
	switch top := doc.(type) {
	case map[string]any:
		items, ok := top["Items"]
		if !ok {
			return nil, &MalformedInputError{Detail: "object has no Items field"}
		}
		if items == nil {
			return nil, nil
		}
		entries, ok := items.([]any)
		if !ok {
			return nil, &MalformedInputError{Detail: fmt.Sprintf("Items is %T, not an array", items)}
		}
		return extractNested(entries), nil
	case []any:
		return extractFlat(top), nil
	case nil:
		return nil, &MalformedInputError{Detail: "input is null"}
	default:
		return nil, &MalformedInputError{Detail: fmt.Sprintf("unsupported top-level type %T", doc)}
	}
}

// ValidateRecord ensures the record still carries its compressed payload.
func ValidateRecord(r *models.Record) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	if strings.TrimSpace(r.RawHTML) == "" {
		return &MissingFieldError{Field: "rawHtml", Name: r.Name}
	}
	return nil
}

func extractNested(entries []any) []*models.Record {
	records := make([]*models.Record, 0, len(entries))
	for _, entry := range entries {
		item, ok := entry.(map[string]any)
		if !ok {
			records = append(records, &models.Record{Name: "Unknown"})
			continue
		}
		// The product payload sits either directly on the item or one
		// level deeper under product.Value.
		fields := item
		if product, ok := item["product"]; ok {
			if inner, ok := unwrapValue(product).(map[string]any); ok {
				fields = inner
			}
		}
		rec := recordFromFields(fields)
		if rec.Category == "" {
			rec.Category = stringField(item, "category")
		}
		if rec.Domain == "" {
			rec.Domain = stringField(item, "domain")
		}
		records = append(records, rec)
	}
	return records
}

func extractFlat(entries []any) []*models.Record {
	if len(entries) == 0 {
		return nil
	}
	records := make([]*models.Record, 0, len(entries))
	for _, entry := range entries {
		item, ok := entry.(map[string]any)
		if !ok {
			records = append(records, &models.Record{Name: "Unknown"})
			continue
		}
		records = append(records, recordFromFields(item))
	}
	return records
}

func recordFromFields(fields map[string]any) *models.Record {
	rec := &models.Record{
		ID:            stringField(fields, "id"),
		Name:          stringField(fields, "name"),
		Category:      stringField(fields, "category"),
		Domain:        stringField(fields, "domain"),
		URL:           stringField(fields, "url"),
		ImageURL:      stringField(fields, "imageUrl"),
		Price:         stringField(fields, "price"),
		OriginalPrice: stringField(fields, "originalPrice"),
		Shipping:      stringField(fields, "shipping"),
		IsSponsored:   boolField(fields, "isSponsored"),
		Timestamp:     stringField(fields, "timestamp"),
		TTL:           stringField(fields, "ttl"),
		RawHTML:       stringField(fields, "rawHtml"),
	}
	if rec.Name == "" {
		rec.Name = "Unknown"
	}
	if rec.ID == "" {
		rec.ID = Slugify(rec.Name)
	}
	return rec
}

// unwrapValue resolves the legacy {Value: x} wrapper, if present.
// The ambiguity is settled here once; nothing downstream sees it.
func unwrapValue(v any) any {
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["Value"]; ok {
			return inner
		}
	}
	return v
}

func stringField(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	switch t := unwrapValue(v).(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func boolField(fields map[string]any, key string) bool {
	v, ok := fields[key]
	if !ok {
		return false
	}
	b, _ := unwrapValue(v).(bool)
	return b
}

// Slugify derives a URL-safe id from a record name: lower-cased, runs of
// non-alphanumerics collapsed to single hyphens, edges trimmed, capped at
// 50 characters.
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	slug := b.String()
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}
