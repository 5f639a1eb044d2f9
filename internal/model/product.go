package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// TimestampLayout is the createdAt format: UTC with exactly three fractional
// digits.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Product represents a catalogue item in the storefront.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MarshalJSON writes createdAt with TimestampLayout. HTML characters are left
// unescaped so stored documents keep names verbatim.
func (p Product) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(struct {
		ID          int64   `json:"id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		CreatedAt   string  `json:"createdAt"`
	}{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt.UTC().Format(TimestampLayout),
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// legacyProduct carries the keys used by documents written before the
// English field names were adopted.
type legacyProduct struct {
	ID          int64      `json:"id"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Price       *float64   `json:"price"`
	CreatedAt   *time.Time `json:"createdAt"`

	Nombre        *string    `json:"nombre"`
	Descripcion   *string    `json:"descripcion"`
	Precio        *float64   `json:"precio"`
	FechaCreacion *time.Time `json:"fechaCreacion"`
}

// UnmarshalJSON accepts both the current and the legacy Spanish field names.
// When both are present the current name wins.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw legacyProduct
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Product{ID: raw.ID}
	p.Name = firstString(raw.Name, raw.Nombre)
	p.Description = firstString(raw.Description, raw.Descripcion)

	switch {
	case raw.Price != nil:
		p.Price = *raw.Price
	case raw.Precio != nil:
		p.Price = *raw.Precio
	}

	switch {
	case raw.CreatedAt != nil:
		p.CreatedAt = *raw.CreatedAt
	case raw.FechaCreacion != nil:
		p.CreatedAt = *raw.FechaCreacion
	}

	return nil
}

func firstString(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}

// ProductForm is the raw, untyped product submission as received from a form
// or the command line.
type ProductForm struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	Price       string `validate:"required"`
}

// ProductListResponse is the envelope returned by the JSON listing endpoint.
type ProductListResponse struct {
	Success  bool      `json:"success"`
	Count    int       `json:"count"`
	Products []Product `json:"products"`
}
