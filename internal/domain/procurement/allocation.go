package procurement

import (
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AllocateLandedCosts distributes the order's shipping and customs costs
// across its items, each cost separately, proportionally to item value
// (qty * unit_price). Shares are rounded to 2 decimal places and the final
// item absorbs the rounding remainder, so each cost's shares sum exactly to
// that cost.
//
// An order whose items carry no value cannot be allocated against; receipt
// of such an order is an InvalidOrderState.
//
// Each item's AllocatedShipping, AllocatedCustoms and LandedUnitCost are
// written in place: landed_unit_cost = (item_value + shares) / qty, rounded
// to 4 places.
func AllocateLandedCosts(items []OrderItem, shippingCost, customsCost decimal.Decimal) error {
	if len(items) == 0 {
		return shared.ErrInvalidOrderState
	}

	totalValue := decimal.Zero
	for i := range items {
		totalValue = totalValue.Add(items[i].ItemValue())
	}
	if !totalValue.IsPositive() {
		return shared.ErrInvalidOrderState
	}

	allocate := func(total decimal.Decimal, assign func(i int, share decimal.Decimal)) {
		allocated := decimal.Zero
		for i := range items {
			var share decimal.Decimal
			if i == len(items)-1 {
				share = total.Sub(allocated)
			} else {
				share = total.Mul(items[i].ItemValue()).DivRound(totalValue, 2)
			}
			assign(i, share)
			allocated = allocated.Add(share)
		}
	}
	allocate(shippingCost, func(i int, share decimal.Decimal) { items[i].AllocatedShipping = share })
	allocate(customsCost, func(i int, share decimal.Decimal) { items[i].AllocatedCustoms = share })

	for i := range items {
		if items[i].Qty.IsPositive() {
			landedTotal := items[i].ItemValue().Add(items[i].AllocatedTotal())
			items[i].LandedUnitCost = landedTotal.DivRound(items[i].Qty, 4)
		}
	}
	return nil
}
