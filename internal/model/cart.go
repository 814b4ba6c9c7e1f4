package model

// CartItem is one buyer-side cart entry: a (product, variant) pair the buyer
// intends to offer on.
type CartItem struct {
	ProductID   string  `json:"productId"`
	VariantID   string  `json:"variantId"`
	SKU         string  `json:"sku"`
	DisplayName string  `json:"displayName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// CartTotals summarises the cart for badges and footer bars.
type CartTotals struct {
	ItemCount       int     `json:"itemCount"`
	TotalUnits      int     `json:"totalUnits"`
	TotalValue      float64 `json:"totalValue"`
	AvgPricePerUnit float64 `json:"avgPricePerUnit"`
}
