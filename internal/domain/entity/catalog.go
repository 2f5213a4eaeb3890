package entity

// Kind distingue el tipo de entidad del catálogo a la que resolvió un SKU.
type Kind string

const (
	KindProduct   Kind = "product"
	KindVariation Kind = "variation"
)

// ResolvedEntity es el resultado de resolver un SKU: un producto simple/padre
// o una variación de un producto variable. ParentID solo aplica a variaciones.
// Inmutable una vez producida.
type ResolvedEntity struct {
	Kind     Kind
	ID       int
	ParentID int
}

// CatalogProduct producto del catálogo remoto (simple o variable).
type CatalogProduct struct {
	ID   int    `json:"id"`
	SKU  string `json:"sku"`
	Type string `json:"type"`
}

// CatalogVariation variación de un producto variable.
type CatalogVariation struct {
	ID  int    `json:"id"`
	SKU string `json:"sku"`
}

// SKUIndexEntry mapea el SKU de una variación a (producto padre, variación).
type SKUIndexEntry struct {
	ParentID    int
	VariationID int
}

// UpdatePayload documento de actualización parcial para un producto o variación.
// Los punteros con omitempty permiten distinguir "no tocar" (nil, clave ausente)
// de "limpiar" (puntero a cadena vacía, clave presente con "").
type UpdatePayload struct {
	ID            int     `json:"id"`
	ManageStock   *bool   `json:"manage_stock,omitempty"`
	StockQuantity *int    `json:"stock_quantity,omitempty"`
	StockStatus   string  `json:"stock_status,omitempty"`
	RegularPrice  *string `json:"regular_price,omitempty"`
	SalePrice     *string `json:"sale_price,omitempty"`
}

// BatchItemResult resultado por ítem de una llamada batch: ErrMessage vacío = actualizado.
type BatchItemResult struct {
	ID         int
	ErrMessage string
}
