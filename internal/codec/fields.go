package codec

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bansalKrishna311/tryo/internal/domain"
)

// productWire is the flat product shape shared by every element kind. Field
// names match what earlier app builds wrote.
type productWire struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	Image         string `json:"image,omitempty"`
	Category      string `json:"category,omitempty"`
	Description   string `json:"description,omitempty"`
	Discount      string `json:"discount,omitempty"`
	OriginalPrice string `json:"originalPrice,omitempty"`
}

func toProductWire(p domain.Product) productWire {
	return productWire{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.DisplayPrice,
		Image:         p.Image,
		Category:      p.Category,
		Description:   p.Description,
		Discount:      p.Discount,
		OriginalPrice: p.OriginalPrice,
	}
}

// fields is one decoded element, read leniently field by field.
type fields map[string]json.RawMessage

func parseFields(raw json.RawMessage) (fields, string) {
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil || f == nil {
		return nil, "not an object"
	}
	return f, ""
}

// str returns the field as a string. Numbers are accepted and rendered in
// their JSON form; any other type reads as "".
func (f fields) str(key string) string {
	raw, ok := f[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func (f fields) has(key string) bool {
	raw, ok := f[key]
	return ok && string(raw) != "null"
}

func (f fields) boolean(key string) bool {
	var b bool
	_ = json.Unmarshal(f[key], &b)
	return b
}

func (f fields) product() (domain.Product, string) {
	p := domain.Product{
		ID:            strings.TrimSpace(f.str("id")),
		Name:          f.str("name"),
		DisplayPrice:  f.str("price"),
		Image:         f.str("image"),
		Category:      f.str("category"),
		Description:   f.str("description"),
		Discount:      f.str("discount"),
		OriginalPrice: f.str("originalPrice"),
	}
	if p.ID == "" {
		return p, "missing id"
	}
	return p, ""
}

// quantity coerces the quantity field to a positive integer. Numeric strings
// are accepted. Values above limit are clamped.
func (f fields) quantity(limit int) (int, string) {
	s := strings.TrimSpace(f.str("quantity"))
	if s == "" {
		return 0, "quantity is not a number"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, "quantity is not a number"
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, "quantity " + s + " is not an integer"
	}
	if !d.IsPositive() {
		return 0, "quantity " + s + " is not positive"
	}
	if d.GreaterThan(decimal.NewFromInt(domain.MaxQuantity)) {
		return domain.ClampQuantity(domain.MaxQuantity, limit), ""
	}
	return domain.ClampQuantity(int(d.IntPart()), limit), ""
}
