package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost blends a received lot into an existing stock position:
// (old_qty*old_cost + new_qty*new_cost) / (old_qty + new_qty), rounded to
// 4 decimal places. When the combined quantity is zero the old cost is kept.
func WeightedAverageCost(oldQty, oldCost, newQty, newCost decimal.Decimal) decimal.Decimal {
	totalQty := oldQty.Add(newQty)
	if !totalQty.IsPositive() {
		return oldCost
	}
	totalValue := oldQty.Mul(oldCost).Add(newQty.Mul(newCost))
	return totalValue.DivRound(totalQty, 4)
}
