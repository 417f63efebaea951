// Package menu holds the static bar menu: combinable breakfast products,
// combo beverages with their fixed prices, and the supplement surcharge
// tables. Pure data plus lookup predicates.
package menu

import "github.com/shopspring/decimal"

// JuiceProduct is billed as a per-combo supplement, never as its own line.
const JuiceProduct = "Zumo de naranja natural"

var (
	pastries = []string{
		"Croissant",
		"Napolitana de chocolate",
		"Napolitana de crema",
		"Donut de chocolate",
		"Donut de azúcar",
		"Palmera de chocolate",
		"Palmera de azúcar",
		"Porras (2 uds)",
		"Churros (3 uds)",
		"Pincho de tortilla de patatas",
	}

	barritaTypes = []string{
		"Super barrita",
		"Chapata",
		"Integral",
		"Mollete",
		"Multisemillas",
		"Centeno",
		"Pan de molde",
	}

	toastsAndMontados = []string{
		"Tostadas sin gluten",
		"Croissant a la plancha",
		"Croissant mixto",
		"Sandwich J.York y queso",
		"Sandwich de pollo desmechado",
		"Montado de J.York y queso",
		"Montado de J.Serrano con tomate",
		"Montado de salchichón cular",
		"Montado de chorizo cular",
		"Montado de pavo",
		"Montado tortilla de patatas",
		"Montado de bacon a la plancha con queso",
	}

	coffeeOptions = []string{
		"Café con leche",
		"Cortado",
		"Café solo",
		"Café solo con hielo",
		"Café con leche sin lactosa",
		"Café con leche de avena",
		"Café con leche de almendras",
	}

	breadOptions = []string{
		"Con tomate y aceite",
		"Con aceite",
		"Con mermelada y mantequilla",
	}
)

// Catalog exposes lookup predicates over the menu data.
type Catalog struct {
	combinableFoods    map[string]struct{}
	allowsSupplements  map[string]struct{}
	hasPreparation     map[string]struct{}
	barritaSupplements map[string]decimal.Decimal
	comboBeverages     map[string]decimal.Decimal
	specialSurcharges  map[string]decimal.Decimal
	juicePrice         decimal.Decimal
}

// Default builds the catalog for the current bar menu.
func Default() *Catalog {
	c := &Catalog{
		combinableFoods:   map[string]struct{}{},
		allowsSupplements: map[string]struct{}{},
		hasPreparation:    map[string]struct{}{},
		barritaSupplements: map[string]decimal.Decimal{
			"Jamón York":    decimal.RequireFromString("1.30"),
			"Queso":         decimal.RequireFromString("1.30"),
			"Pavo":          decimal.RequireFromString("1.30"),
			"Jamón Serrano": decimal.RequireFromString("1.50"),
			"Guacamole":     decimal.RequireFromString("0.80"),
		},
		comboBeverages: map[string]decimal.Decimal{
			"Café":             decimal.RequireFromString("3.30"),
			"Infusión":         decimal.RequireFromString("3.30"),
			"Cola-cao":         decimal.RequireFromString("3.50"),
			"Refresco":         decimal.RequireFromString("4.00"),
			"Cerveza 1/5":      decimal.RequireFromString("4.30"),
			"Cerveza botellín": decimal.RequireFromString("4.30"),
		},
		specialSurcharges: map[string]decimal.Decimal{
			"Croissant mixto":                         decimal.RequireFromString("0.30"),
			"Montado de J.Serrano con tomate":         decimal.RequireFromString("0.30"),
			"Montado de bacon a la plancha con queso": decimal.RequireFromString("0.30"),
		},
		juicePrice: decimal.RequireFromString("1.50"),
	}

	for _, lists := range [][]string{pastries, barritaTypes, toastsAndMontados} {
		for _, product := range lists {
			c.combinableFoods[product] = struct{}{}
		}
	}
	for _, product := range barritaTypes {
		c.allowsSupplements[product] = struct{}{}
		c.hasPreparation[product] = struct{}{}
	}
	// Gluten-free toasts take the same preparation options as the bars.
	c.hasPreparation["Tostadas sin gluten"] = struct{}{}

	return c
}

// IsCombinableFood reports whether the product can take the food side of a
// combo.
func (c *Catalog) IsCombinableFood(product string) bool {
	_, ok := c.combinableFoods[product]
	return ok
}

// IsComboBeverage reports whether the product can take the beverage side.
func (c *Catalog) IsComboBeverage(product string) bool {
	_, ok := c.comboBeverages[product]
	return ok
}

// BeveragePrice returns the fixed combo price for a beverage.
func (c *Catalog) BeveragePrice(product string) (decimal.Decimal, bool) {
	price, ok := c.comboBeverages[product]
	return price, ok
}

// IsJuice reports whether the product is the fixed juice supplement.
func (c *Catalog) IsJuice(product string) bool {
	return product == JuiceProduct
}

// JuicePrice returns the fixed juice surcharge.
func (c *Catalog) JuicePrice() decimal.Decimal {
	return c.juicePrice
}

// AllowsSupplements reports whether the product takes paid supplements.
// Surcharges are scoped to the bread-bar category.
func (c *Catalog) AllowsSupplements(product string) bool {
	_, ok := c.allowsSupplements[product]
	return ok
}

// SupplementPrice returns the surcharge for a supplement name.
func (c *Catalog) SupplementPrice(name string) (decimal.Decimal, bool) {
	price, ok := c.barritaSupplements[name]
	return price, ok
}

// SpecialSurcharge returns the fixed surcharge tied to a specific product
// name, if any.
func (c *Catalog) SpecialSurcharge(product string) (decimal.Decimal, bool) {
	price, ok := c.specialSurcharges[product]
	return price, ok
}

// HasPreparationOptions reports whether the product carries a preparation
// variant that belongs in its display name.
func (c *Catalog) HasPreparationOptions(product string) bool {
	_, ok := c.hasPreparation[product]
	return ok
}

// Pastries lists the plain breakfast products.
func (c *Catalog) Pastries() []string { return append([]string(nil), pastries...) }

// BarritaTypes lists the bread-bar products.
func (c *Catalog) BarritaTypes() []string { return append([]string(nil), barritaTypes...) }

// ToastsAndMontados lists the toasted products.
func (c *Catalog) ToastsAndMontados() []string { return append([]string(nil), toastsAndMontados...) }

// CoffeeOptions lists the coffee preparation variants.
func (c *Catalog) CoffeeOptions() []string { return append([]string(nil), coffeeOptions...) }

// BreadOptions lists the bread preparation variants.
func (c *Catalog) BreadOptions() []string { return append([]string(nil), breadOptions...) }
