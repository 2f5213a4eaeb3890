package reconcile

import (
	"github.com/shopspring/decimal"
)

// invalidPrices reporta si la combinación de precios de una fila es inválida:
// ambos presentes y sale_price mayor que regular_price, o alguno de los dos
// no parsea como número. La comparación usa decimal para no depender de
// redondeos de punto flotante.
func invalidPrices(regularPrice, salePrice *string) bool {
	rp := cleanPrice(regularPrice)
	sp := cleanPrice(salePrice)
	if rp == nil || sp == nil {
		return false
	}
	rd, err := decimal.NewFromString(*rp)
	if err != nil {
		return true
	}
	sd, err := decimal.NewFromString(*sp)
	if err != nil {
		return true
	}
	return sd.GreaterThan(rd)
}
