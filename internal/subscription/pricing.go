package subscription

import "math"

// PriceTable — базовые цены тарифов в Stars.
type PriceTable map[Plan]int

// Price считает цену счёта. Скидка применяется только к подарку от
// пользователя с уже активной подпиской; цена никогда не опускается ниже 1.
func Price(plan Plan, isGift, buyerHasActive bool, prices PriceTable, discountPct int) (int, error) {
	base, ok := prices[plan]
	if !ok || !plan.Valid() {
		return 0, ErrUnknownPlan
	}
	if isGift && buyerHasActive {
		p := int(math.Round(float64(base) * float64(100-discountPct) / 100))
		if p < 1 {
			p = 1
		}
		return p, nil
	}
	return base, nil
}
