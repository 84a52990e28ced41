package model

// BestPrice returns the best qualifying price for an alert: the lowest
// ask or the highest bid in the alert's target size, across the stores
// the alert watches. Entries without a price do not qualify. Returns 0
// when no entry qualifies.
func BestPrice(item Item, alert PriceAlert) float64 {
	var best float64
	for _, sp := range item.StorePrices {
		if !alert.watchesStore(sp.Store) {
			continue
		}
		for _, inv := range sp.Inventory {
			if inv.Size != alert.TargetSize {
				continue
			}
			price := inv.LowestAsk
			if alert.PriceType == PriceTypeBid {
				price = inv.HighestBid
			}
			if price <= 0 {
				continue
			}
			if best == 0 {
				best = price
				continue
			}
			if alert.PriceType == PriceTypeBid {
				if price > best {
					best = price
				}
			} else if price < best {
				best = price
			}
		}
	}
	return best
}
