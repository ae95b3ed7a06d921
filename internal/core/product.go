package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/backoffice/internal/clock"
)

// Product is the inventory aggregate. OnHand changes only through AdjustStock.
type Product struct {
	id        string
	sku       string
	name      string
	category  string
	model     string
	color     string
	brand     string
	costCNY   float64
	onHand    int
	createdAt time.Time
	updatedAt time.Time
	version   int

	clock clock.Clock
}

// NewProduct validates in and creates a product with a freshly generated SKU.
func NewProduct(in ProductInput, clk clock.Clock) (*Product, error) {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if res := ValidateProduct(in); !res.IsValid {
		return nil, &InvalidInputError{Result: res}
	}
	sku, err := GenerateSKU(SKUInput{Category: in.Category, Model: in.Model, Color: in.Color, Brand: in.Brand})
	if err != nil {
		return nil, err
	}

	now := clk.Now()
	return &Product{
		id:        uuid.NewString(),
		sku:       sku,
		name:      strings.TrimSpace(in.Name),
		category:  strings.TrimSpace(in.Category),
		model:     strings.TrimSpace(in.Model),
		color:     strings.TrimSpace(in.Color),
		brand:     strings.TrimSpace(in.Brand),
		costCNY:   in.CostCNY,
		onHand:    in.OnHand,
		createdAt: now,
		updatedAt: now,
		version:   1,
		clock:     clk,
	}, nil
}

func (p *Product) ID() string           { return p.id }
func (p *Product) SKU() string          { return p.sku }
func (p *Product) Name() string         { return p.name }
func (p *Product) Category() string     { return p.category }
func (p *Product) Model() string        { return p.model }
func (p *Product) Color() string        { return p.color }
func (p *Product) Brand() string        { return p.brand }
func (p *Product) CostCNY() float64     { return p.costCNY }
func (p *Product) OnHand() int          { return p.onHand }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }
func (p *Product) Version() int         { return p.version }

// TotalValue is OnHand × CostCNY.
func (p *Product) TotalValue() float64 {
	return float64(p.onHand) * p.costCNY
}

// AdjustStock adds delta to OnHand. A result below zero fails with
// ErrInsufficientStock and leaves OnHand untouched.
func (p *Product) AdjustStock(delta int) error {
	next := p.onHand + delta
	if next < 0 {
		return insufficientStock(p.onHand, delta)
	}
	p.onHand = next
	p.updatedAt = p.clock.Now()
	return nil
}

func insufficientStock(onHand, delta int) error {
	return &stockError{onHand: onHand, delta: delta}
}

type stockError struct {
	onHand, delta int
}

func (e *stockError) Error() string {
	return fmt.Sprintf("%v: cannot remove %d with %d on hand", ErrInsufficientStock, -e.delta, e.onHand)
}

func (e *stockError) Unwrap() error { return ErrInsufficientStock }

// ProductSnapshot is the flat, persistable form of a Product.
type ProductSnapshot struct {
	ID        string
	SKU       string
	Name      string
	Category  string
	Model     string
	Color     string
	Brand     string
	CostCNY   float64
	OnHand    int
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

// Snapshot copies the aggregate state for persistence.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:        p.id,
		SKU:       p.sku,
		Name:      p.name,
		Category:  p.category,
		Model:     p.model,
		Color:     p.color,
		Brand:     p.brand,
		CostCNY:   p.costCNY,
		OnHand:    p.onHand,
		CreatedAt: p.createdAt,
		UpdatedAt: p.updatedAt,
		Version:   p.version,
	}
}

// RestoreProduct rebuilds an aggregate from a persisted snapshot.
func RestoreProduct(s ProductSnapshot, clk clock.Clock) *Product {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Product{
		id:        s.ID,
		sku:       s.SKU,
		name:      s.Name,
		category:  s.Category,
		model:     s.Model,
		color:     s.Color,
		brand:     s.Brand,
		costCNY:   s.CostCNY,
		onHand:    s.OnHand,
		createdAt: s.CreatedAt,
		updatedAt: s.UpdatedAt,
		version:   s.Version,
		clock:     clk,
	}
}
