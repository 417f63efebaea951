// Package pricing computes combo-discounted billing for breakfast orders.
// Single-order mode prices one participant's selection; group mode greedily
// matches the union of everyone's items into the cheapest combo pairing.
package pricing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/davidmorenoc/desayunos-backend/internal/menu"
	"github.com/davidmorenoc/desayunos-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	modeOrder = "order"
	modeGroup = "group"
)

// NoComboMessage explains an unpriced single-order result.
const NoComboMessage = "se cobra por separado: el pedido no forma ningún combo"

// Engine prices item selections against a menu catalog. Pure computation,
// safe for concurrent use.
type Engine struct {
	catalog *menu.Catalog
	metrics *metrics.PricingMetrics
}

func NewEngine(catalog *menu.Catalog, m *metrics.PricingMetrics) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("menu catalog required")
	}
	return &Engine{catalog: catalog, metrics: m}, nil
}

// Price computes the combo price for a single participant's order. The first
// beverage in the given order sets the combo base; qualifying supplements are
// added on top. When the items cannot form a combo the result is unpriced.
func (e *Engine) Price(items []Item) Result {
	start := time.Now()
	defer func() { e.metrics.Observe(modeOrder, time.Since(start)) }()

	var hasFood, hasBeverage bool
	var base decimal.Decimal
	for _, item := range items {
		if !item.Valid() {
			continue
		}
		if e.catalog.IsCombinableFood(item.Product) {
			hasFood = true
			continue
		}
		if !hasBeverage {
			if price, ok := e.catalog.BeveragePrice(item.Product); ok {
				hasBeverage = true
				base = price
			}
		}
	}

	if !hasFood || !hasBeverage {
		return Result{HasCombo: false, Message: NoComboMessage}
	}

	supplements := decimal.Zero
	for _, item := range items {
		if !item.Valid() {
			continue
		}
		supplements = supplements.Add(e.itemSupplements(item))
		if e.catalog.IsJuice(item.Product) {
			supplements = supplements.Add(e.catalog.JuicePrice())
		}
	}

	total := base.Add(supplements)
	return Result{
		Total:    &total,
		HasCombo: true,
		Breakdown: &Breakdown{
			ComboBase:   base,
			Supplements: supplements,
		},
	}
}

// OptimalPrice computes the cheapest combo matching over every participant's
// items. Greedy pairing: foods carrying the most supplements are matched
// first so their surcharges land inside a paid combo, then food[i] pairs with
// beverage[i]. Leftovers are reported, not priced.
func (e *Engine) OptimalPrice(items []Item) OptimalResult {
	start := time.Now()
	defer func() { e.metrics.Observe(modeGroup, time.Since(start)) }()

	result := OptimalResult{
		Total:       decimal.Zero,
		Assignments: []ComboAssignment{},
		Leftovers:   []string{},
	}
	if len(items) == 0 {
		return result
	}

	var foods, beverages []Item
	var separate []string
	juicePool := 0

	for _, item := range items {
		if !item.Valid() {
			continue
		}
		switch {
		case e.catalog.IsCombinableFood(item.Product):
			foods = append(foods, item)
		case e.catalog.IsComboBeverage(item.Product):
			beverages = append(beverages, item)
		case e.catalog.IsJuice(item.Product):
			// Juices join a shared pool and attach one per combo.
			juicePool++
		default:
			separate = append(separate, item.Product)
		}
	}

	// Supplement-heavy foods first; ties keep insertion order.
	sort.SliceStable(foods, func(i, j int) bool {
		return len(foods[i].Supplements) > len(foods[j].Supplements)
	})

	pairs := len(foods)
	if len(beverages) < pairs {
		pairs = len(beverages)
	}

	for i := 0; i < pairs; i++ {
		food := foods[i]
		beverage := beverages[i]
		base, _ := e.catalog.BeveragePrice(beverage.Product)

		assignment := ComboAssignment{
			Beverage: e.displayName(beverage),
			Food:     e.displayName(food),
			Price:    base,
		}

		if e.catalog.AllowsSupplements(food.Product) {
			for _, sup := range food.Supplements {
				if price, ok := e.catalog.SupplementPrice(sup); ok {
					assignment.Supplements = append(assignment.Supplements, sup)
					assignment.Price = assignment.Price.Add(price)
				}
			}
		}

		if juicePool > 0 {
			assignment.Supplements = append(assignment.Supplements, menu.JuiceProduct)
			assignment.Price = assignment.Price.Add(e.catalog.JuicePrice())
			juicePool--
		}

		if surcharge, ok := e.catalog.SpecialSurcharge(food.Product); ok {
			assignment.Price = assignment.Price.Add(surcharge)
		}

		parts := append([]string{assignment.Beverage, assignment.Food}, assignment.Supplements...)
		assignment.Description = strings.Join(parts, " + ")

		result.Assignments = append(result.Assignments, assignment)
		result.Total = result.Total.Add(assignment.Price)
	}

	for _, item := range foods[pairs:] {
		result.Leftovers = append(result.Leftovers, item.Product)
	}
	for _, item := range beverages[pairs:] {
		result.Leftovers = append(result.Leftovers, item.Product)
	}
	result.Leftovers = append(result.Leftovers, separate...)
	for ; juicePool > 0; juicePool-- {
		result.Leftovers = append(result.Leftovers, menu.JuiceProduct)
	}

	result.HasCombo = len(result.Assignments) > 0
	return result
}

func (e *Engine) itemSupplements(item Item) decimal.Decimal {
	sum := decimal.Zero
	if e.catalog.AllowsSupplements(item.Product) {
		for _, sup := range item.Supplements {
			if price, ok := e.catalog.SupplementPrice(sup); ok {
				sum = sum.Add(price)
			}
		}
	}
	if surcharge, ok := e.catalog.SpecialSurcharge(item.Product); ok {
		sum = sum.Add(surcharge)
	}
	return sum
}

func (e *Engine) displayName(item Item) string {
	if item.Variant == "" {
		return item.Product
	}
	if e.catalog.IsComboBeverage(item.Product) {
		return item.Variant
	}
	if e.catalog.HasPreparationOptions(item.Product) {
		return item.Product + " " + item.Variant
	}
	return item.Product
}
