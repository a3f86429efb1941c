package woo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Product is a WooCommerce catalog product. Prices arrive as decimal
// strings, stock_quantity may be null.
type Product struct {
	ID               int64     `json:"id"`
	SKU              string    `json:"sku"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description"`
	Price            string    `json:"price"`
	RegularPrice     string    `json:"regular_price"`
	StockQuantity    *int      `json:"stock_quantity"`
	Images           ImageList `json:"images"`
	Variations       []int64   `json:"variations"`
}

// Simple reports whether the product is in scope for the sync: Woo "simple"
// type or a product carrying no variations.
func (p Product) Simple() bool {
	return p.Type == "simple" || len(p.Variations) == 0
}

// UnitPrice parses the sale price, falling back to the regular price.
// Unparseable prices count as zero.
func (p Product) UnitPrice() float64 {
	for _, s := range []string{p.Price, p.RegularPrice} {
		if s == "" {
			continue
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return 0
}

// Quantity returns the stock quantity, treating missing or negative values
// as zero.
func (p Product) Quantity() int {
	if p.StockQuantity == nil || *p.StockQuantity < 0 {
		return 0
	}
	return *p.StockQuantity
}

// ImageList decodes the shapes Woo and feed exports use for product images:
// an array of objects carrying src/srcUrl, an array of plain URLs, or a
// single comma-separated string. Empty entries are discarded.
type ImageList []string

func (l *ImageList) UnmarshalJSON(data []byte) error {
	*l = nil

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		for _, part := range strings.Split(asString, ",") {
			if part = strings.TrimSpace(part); part != "" {
				*l = append(*l, part)
			}
		}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("images: %w", err)
	}
	for _, item := range raw {
		var s string
		if json.Unmarshal(item, &s) == nil {
			if s = strings.TrimSpace(s); s != "" {
				*l = append(*l, s)
			}
			continue
		}
		var obj struct {
			Src    string `json:"src"`
			SrcURL string `json:"srcUrl"`
		}
		if json.Unmarshal(item, &obj) == nil {
			u := obj.Src
			if u == "" {
				u = obj.SrcURL
			}
			if u = strings.TrimSpace(u); u != "" {
				*l = append(*l, u)
			}
		}
	}
	return nil
}
