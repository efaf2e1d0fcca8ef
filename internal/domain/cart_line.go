package domain

// CartLine is one distinct product in a cart. Quantity is always positive.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
