package api

type CustomerInput struct {
	Name string `json:"name" binding:"required"`
}

type ItemInput struct {
	Name  string   `json:"name" binding:"required"`
	Price *float64 `json:"price" binding:"required"`
}

type ReviewInput struct {
	Comment    string `json:"comment"`
	CustomerID uint   `json:"customer_id" binding:"required"`
	ItemID     uint   `json:"item_id" binding:"required"`
}

type CustomerPatch struct {
	Name *string `json:"name"`
}

type ItemPatch struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

type ReviewPatch struct {
	Comment    *string `json:"comment"`
	CustomerID *uint   `json:"customer_id"`
	ItemID     *uint   `json:"item_id"`
}
