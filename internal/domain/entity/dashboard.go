package entity

import "github.com/shopspring/decimal"

// SellerDashboard summarises a seller's own inventory.
type SellerDashboard struct {
	Profile        *Profile
	Products       []*Product
	TotalProducts  int
	ActiveProducts int
	TotalUnits     int
	OutOfStock     int
	InventoryValue decimal.Decimal
}

// NewSellerDashboard aggregates the seller's products.
func NewSellerDashboard(profile *Profile, products []*Product) *SellerDashboard {
	d := &SellerDashboard{
		Profile:        profile,
		Products:       products,
		TotalProducts:  len(products),
		InventoryValue: decimal.Zero,
	}
	for _, p := range products {
		if p.Active {
			d.ActiveProducts++
		}
		if p.Quantity == 0 {
			d.OutOfStock++
		}
		d.TotalUnits += p.Quantity
		d.InventoryValue = d.InventoryValue.Add(p.StockValue())
	}

	return d
}
