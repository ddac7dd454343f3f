package models

// WishlistLine records that a shopper likes a product.
type WishlistLine struct {
	ID        int `json:"id"`
	UserID    int `json:"userId"`
	ProductID int `json:"productId"`
}

func (l WishlistLine) Key() int       { return l.ID }
func (l *WishlistLine) SetKey(id int) { l.ID = id }

type WishlistProduct struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// WishlistItem is a wishlist line joined with its product; Product is null when
// the product was deleted.
type WishlistItem struct {
	WishlistLine
	Product *WishlistProduct `json:"product"`
}
