package entity

// Row representa un registro de entrada de la planilla: un SKU con cantidad
// y/o precios opcionales. Los campos opcionales van como punteros: nil = columna
// ausente o celda vacía (el update parcial no toca ese campo en el catálogo).
type Row struct {
	SKU          string  `json:"sku"`
	Quantity     *int    `json:"quantity,omitempty"`
	RegularPrice *string `json:"regular_price,omitempty"`
	SalePrice    *string `json:"sale_price,omitempty"`
}

// Options controla qué campos se calculan y si se escribe al catálogo.
type Options struct {
	DoStock  bool `json:"do_stock"`
	DoPrices bool `json:"do_prices"`
	DryRun   bool `json:"dry_run"`
}
