package domain

// Product is a catalog record. It is owned by the catalog and copied into
// collection items so a stored cart still renders if the catalog changes.
type Product struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DisplayPrice  string `json:"display_price"`
	Image         string `json:"image"`
	Category      string `json:"category"`
	Description   string `json:"description,omitempty"`
	Discount      string `json:"discount,omitempty"`
	OriginalPrice string `json:"original_price,omitempty"`
}
