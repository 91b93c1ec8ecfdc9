// internal/domain/cart/entity.go
package cart

// ProductRef is the catalog product a cart line points at. Stock and
// LivePrice reflect the catalog at fetch time; Line.Price stays the
// snapshot taken when the item was added.
type ProductRef struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image string  `json:"image,omitempty"`
	Stock int     `json:"stock"`
	Price float64 `json:"price"`
}

// Line is a single cart entry: a product reference, a positive quantity
// bounded by stock, and the unit price snapshot taken at add time.
type Line struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
}

// Snapshot is the authoritative, server-sourced cart representation.
// TotalItems and TotalAmount are computed upstream and mirrored here;
// the snapshot is always replaced wholesale, never recomputed locally.
type Snapshot struct {
	Items       []Line  `json:"items"`
	TotalItems  int     `json:"totalItems"`
	TotalAmount float64 `json:"totalAmount"`
}

// Empty returns a fresh empty snapshot
func Empty() Snapshot {
	return Snapshot{Items: []Line{}}
}

// Subtotal sums price × quantity over the lines. Display-only; the
// server's TotalAmount stays authoritative.
func (s Snapshot) Subtotal() float64 {
	var subtotal float64
	for _, line := range s.Items {
		subtotal += line.Price * float64(line.Quantity)
	}
	return subtotal
}

// IsEmpty reports whether the cart has no lines
func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// OpResult is the outcome of a cart mutation. Transport and parse
// failures are folded into Success=false rather than propagated, so
// callers must check Success before assuming the snapshot changed.
type OpResult struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Cart    *Snapshot `json:"cart,omitempty"`
}
