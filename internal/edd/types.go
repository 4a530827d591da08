package edd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The EDD API is loosely typed: several fields switch between a string
// and boolean false depending on store configuration, and money fields
// arrive as either numbers or numeric strings. Each such field gets an
// explicit union type rather than loosening the whole record.

// Text is a string field that the API may also return as boolean false
// (meaning "not set"). OK reports whether a string value was present.
type Text struct {
	Value string
	OK    bool
}

func (t *Text) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null" || s == "false":
		*t = Text{}
		return nil
	case s == "true":
		return fmt.Errorf("edd: unexpected boolean true for text field")
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*t = Text{Value: v, OK: true}
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.OK {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// Terms is a taxonomy field (category, tags) that the API returns as a
// single string, boolean false, or an array of strings.
type Terms struct {
	Values []string
	OK     bool
}

func (t *Terms) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null" || s == "false":
		*t = Terms{}
		return nil
	case strings.HasPrefix(s, "["):
		var vs []string
		if err := json.Unmarshal(b, &vs); err != nil {
			return err
		}
		*t = Terms{Values: vs, OK: true}
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*t = Terms{Values: []string{v}, OK: true}
	return nil
}

func (t Terms) MarshalJSON() ([]byte, error) {
	if !t.OK {
		return []byte("null"), nil
	}
	return json.Marshal(t.Values)
}

// Money is an amount the API returns as either a JSON number or a
// numeric string ("10.00").
type Money float64

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*m = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*m = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("edd: parse money value %q: %w", s, err)
	}
	*m = Money(v)
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(m))
}

// Product is one record from the products envelope.
type Product struct {
	Info    ProductInfo      `json:"info"`
	Pricing map[string]Money `json:"pricing"`
	Files   []ProductFile    `json:"files"`
	Notes   string           `json:"notes"`
}

// ProductInfo carries the core product attributes.
type ProductInfo struct {
	ID           int    `json:"id"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	CreateDate   string `json:"create_date"`
	ModifiedDate string `json:"modified_date"`
	Status       string `json:"status"`
	Link         string `json:"link"`
	Content      string `json:"content"`
	Thumbnail    Text   `json:"thumbnail"`
	Category     Terms  `json:"category"`
	Tags         Terms  `json:"tags"`
}

// ProductFile is a downloadable file attached to a product.
type ProductFile struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	Condition string `json:"condition"`
}

// Sale is one record from the sales envelope.
type Sale struct {
	ID            int           `json:"ID"`
	Mode          string        `json:"mode"`
	Status        string        `json:"status"`
	TransactionID Text          `json:"transaction_id"`
	Key           string        `json:"key"`
	Discount      Text          `json:"discount"`
	Subtotal      Money         `json:"subtotal"`
	Tax           Money         `json:"tax"`
	Total         Money         `json:"total"`
	Gateway       string        `json:"gateway"`
	Email         string        `json:"email"`
	Date          string        `json:"date"`
	Products      []SaleProduct `json:"products"`
}

// SaleProduct is one purchased item within a sale.
type SaleProduct struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     Money  `json:"price"`
	PriceName string `json:"price_name"`
}

// Customer is one record from the customers envelope.
type Customer struct {
	Info  CustomerInfo  `json:"info"`
	Stats CustomerStats `json:"stats"`
}

// CustomerInfo carries the customer's identity fields.
type CustomerInfo struct {
	ID          int    `json:"customer_id"`
	UserID      int    `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Date        string `json:"date_created"`
}

// CustomerStats carries a customer's lifetime purchase aggregates.
type CustomerStats struct {
	TotalPurchases int   `json:"total_purchases"`
	TotalSpent     Money `json:"total_spent"`
	TotalDownloads int   `json:"total_downloads"`
}

// Discount is one record from the discounts envelope.
type Discount struct {
	ID             int    `json:"ID"`
	Name           string `json:"name"`
	Code           string `json:"code"`
	Amount         Money  `json:"amount"`
	MinPrice       Money  `json:"min_price"`
	Type           string `json:"type"`
	Uses           int    `json:"uses"`
	MaxUses        Text   `json:"max_uses"`
	Status         string `json:"status"`
	StartDate      Text   `json:"start_date"`
	ExpirationDate Text   `json:"exp_date"`
	GlobalDiscount bool   `json:"global_discount"`
	SingleUse      bool   `json:"single_use"`
}

// DownloadLog is one record from the download_logs envelope.
type DownloadLog struct {
	ID          int    `json:"ID"`
	UserID      int    `json:"user_id"`
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	CustomerID  int    `json:"customer_id"`
	PaymentID   int    `json:"payment_id"`
	File        string `json:"file"`
	IP          string `json:"ip"`
	Date        string `json:"date"`
}

// ProductStat is one name/value pair from the per-product stats shape.
type ProductStat struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}
