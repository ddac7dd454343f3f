package models

// CartLine is one unpurchased (user, product, quantity) intent.
type CartLine struct {
	ID        int `json:"id"`
	UserID    int `json:"userId"`
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func (l CartLine) Key() int       { return l.ID }
func (l *CartLine) SetKey(id int) { l.ID = id }

// CartProduct is the live product snapshot joined into a cart view.
type CartProduct struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// CartItem is a cart line as returned to the shopper. Product and TotalPrice are
// absent when the referenced product no longer exists.
type CartItem struct {
	CartLine
	Product    *CartProduct `json:"product,omitempty"`
	TotalPrice *float64     `json:"totalPrice,omitempty"`
}
