package models

// Rating is the aggregated customer rating of a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product represents a product in the store. Quantity is the stock ledger entry.
type Product struct {
	ID          int     `json:"id"`
	SellerID    int     `json:"sellerId"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
	Quantity    int     `json:"quantity"`
}

func (p Product) Key() int       { return p.ID }
func (p *Product) SetKey(id int) { p.ID = id }

// NewProduct is the input for adding a product to a seller's catalog.
type NewProduct struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Category    string   `json:"category" validate:"required"`
	Image       string   `json:"image"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
}

// ProductPatch carries a partial product update. Nil fields are left unchanged.
type ProductPatch struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Category    *string  `json:"category" validate:"omitempty,min=1"`
	Image       *string  `json:"image"`
	Quantity    *int     `json:"quantity" validate:"omitempty,gte=0"`
}

// Apply merges the provided fields into p.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
}
