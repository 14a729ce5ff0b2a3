package store

type Customer struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string
	Reviews []Review `gorm:"foreignKey:CustomerID"`
}

type Item struct {
	ID      uint `gorm:"primaryKey"`
	Name    string
	Price   float64
	Reviews []Review `gorm:"foreignKey:ItemID"`
}

type Review struct {
	ID         uint `gorm:"primaryKey"`
	Comment    string
	CustomerID uint `gorm:"not null;index"`
	ItemID     uint `gorm:"not null;index"`

	Customer *Customer
	Item     *Item
}

// Items is the distinct set of items the customer reviewed, in the order
// they first appear among the customer's reviews.
func (c *Customer) Items() []Item {
	seen := make(map[uint]struct{}, len(c.Reviews))
	items := make([]Item, 0, len(c.Reviews))
	for _, review := range c.Reviews {
		if review.Item == nil {
			continue
		}
		if _, ok := seen[review.Item.ID]; ok {
			continue
		}
		seen[review.Item.ID] = struct{}{}
		items = append(items, *review.Item)
	}
	return items
}
