package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/shopfacade/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxPriceScale is the number of decimal places a stored price keeps
const MaxPriceScale = 4

// Product represents a sellable item in the catalog
type Product struct {
	shared.BaseEntity
	Name        string
	Description string
	Price       decimal.Decimal
}

// NewProduct creates a new product. An empty id gets a generated one.
func NewProduct(id, name string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity: shared.NewBaseEntityWithID(strings.TrimSpace(id)),
		Name:       name,
		Price:      price,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Touch()
	return nil
}

// SetPrice sets the selling price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}

	p.Price = price
	p.Touch()
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if !price.Equal(price.Truncate(MaxPriceScale)) {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot have more than 4 decimal places")
	}
	return nil
}
