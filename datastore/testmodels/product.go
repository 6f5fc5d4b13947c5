package testmodels

import (
	"errors"
	"fmt"

	"github.com/go-openapi/strfmt"
)

type Product struct {

	// Unique identifier of the product.
	// Required: true
	ID string `json:"id"`

	// Category the product is listed under, also used as partition key.
	Category string `json:"category,omitempty"`

	// Display name of the product.
	// Required: true
	Name string `json:"name"`

	// Unit price.
	Price float64 `json:"price"`

	// Stock keeping unit.
	// Format: uuid
	SKU strfmt.UUID `json:"sku,omitempty"`

	// Timestamp when the product was created.
	// Format: date-time
	CreatedAt strfmt.DateTime `json:"createdAt"`

	// Timestamp when the product was last updated.
	// Format: date-time
	UpdatedAt *strfmt.DateTime `json:"updatedAt,omitempty"`
}

// Validate checks required fields and formats.
func (p *Product) Validate() error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if p.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if p.SKU != "" && !strfmt.IsUUID(p.SKU.String()) {
		errs = append(errs, fmt.Errorf("sku %q is not a uuid", p.SKU))
	}
	return errors.Join(errs...)
}
