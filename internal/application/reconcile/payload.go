package reconcile

import (
	"strings"

	"github.com/jhoicas/stock-uploader/internal/domain/entity"
)

// BuildProductUpdate arma el documento de actualización parcial para un
// producto simple. Reglas:
//   - qty presente: se recorta a ≥0, manage_stock=true y stock_status según
//     quede algo en bodega o no.
//   - precios: se recortan espacios; cadena vacía equivale a ausente.
//   - regular_price presente sin sale_price: se envía sale_price="" explícito
//     para limpiar cualquier oferta previa del lado del servidor (distinto de
//     no enviar la clave, que deja la oferta intacta).
func BuildProductUpdate(id int, qty *int, regularPrice, salePrice *string) entity.UpdatePayload {
	return buildUpdate(id, qty, regularPrice, salePrice)
}

// BuildVariationUpdate ídem para una variación; las reglas son las mismas,
// solo cambia el endpoint al que viaja el documento.
func BuildVariationUpdate(variationID int, qty *int, regularPrice, salePrice *string) entity.UpdatePayload {
	return buildUpdate(variationID, qty, regularPrice, salePrice)
}

func buildUpdate(id int, qty *int, regularPrice, salePrice *string) entity.UpdatePayload {
	item := entity.UpdatePayload{ID: id}

	if qty != nil {
		q := *qty
		if q < 0 {
			q = 0
		}
		manage := true
		status := "outofstock"
		if q > 0 {
			status = "instock"
		}
		item.ManageStock = &manage
		item.StockQuantity = &q
		item.StockStatus = status
	}

	rp := cleanPrice(regularPrice)
	sp := cleanPrice(salePrice)
	if rp != nil {
		item.RegularPrice = rp
	}
	if sp != nil {
		item.SalePrice = sp
	} else if rp != nil {
		empty := ""
		item.SalePrice = &empty
	}
	return item
}

// cleanPrice normaliza un precio: recorta espacios y trata vacío como ausente.
func cleanPrice(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}
