package reconcile_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-uploader/internal/application/reconcile"
)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestBuildProductUpdate_StockPositivo(t *testing.T) {
	item := reconcile.BuildProductUpdate(42, intPtr(5), nil, nil)

	require.NotNil(t, item.ManageStock, "con cantidad presente debe activarse manage_stock")
	assert.True(t, *item.ManageStock)
	require.NotNil(t, item.StockQuantity)
	assert.Equal(t, 5, *item.StockQuantity)
	assert.Equal(t, "instock", item.StockStatus, "cantidad > 0 debe quedar instock")
}

func TestBuildProductUpdate_StockCero(t *testing.T) {
	item := reconcile.BuildProductUpdate(42, intPtr(0), nil, nil)

	require.NotNil(t, item.StockQuantity)
	assert.Equal(t, 0, *item.StockQuantity)
	assert.Equal(t, "outofstock", item.StockStatus, "cantidad 0 debe quedar outofstock")
}

func TestBuildProductUpdate_StockNegativoSeRecorta(t *testing.T) {
	item := reconcile.BuildProductUpdate(42, intPtr(-3), nil, nil)

	require.NotNil(t, item.StockQuantity)
	assert.Equal(t, 0, *item.StockQuantity, "cantidad negativa debe recortarse a 0")
	assert.Equal(t, "outofstock", item.StockStatus)
}

func TestBuildProductUpdate_RegularSinSaleLimpiaOferta(t *testing.T) {
	item := reconcile.BuildProductUpdate(42, nil, strPtr("10"), nil)

	require.NotNil(t, item.RegularPrice)
	assert.Equal(t, "10", *item.RegularPrice)
	require.NotNil(t, item.SalePrice, "regular_price sin sale_price debe enviar sale_price explícito")
	assert.Equal(t, "", *item.SalePrice, "el sale_price explícito vacío limpia la oferta del lado del servidor")

	// La clave debe viajar en el JSON aunque su valor sea "".
	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sale_price":""`)
}

func TestBuildProductUpdate_SinPreciosNoEmiteClaves(t *testing.T) {
	item := reconcile.BuildProductUpdate(42, intPtr(3), nil, nil)

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "regular_price", "sin precios el update parcial no debe tocar los existentes")
	assert.NotContains(t, string(data), "sale_price")
}

func TestBuildProductUpdate_PreciosConEspacios(t *testing.T) {
	item := reconcile.BuildProductUpdate(42, nil, strPtr("  10.50 "), strPtr(" 8 "))

	require.NotNil(t, item.RegularPrice)
	assert.Equal(t, "10.50", *item.RegularPrice, "los precios deben recortarse")
	require.NotNil(t, item.SalePrice)
	assert.Equal(t, "8", *item.SalePrice)
}

func TestBuildProductUpdate_PrecioVacioEquivaleAusente(t *testing.T) {
	item := reconcile.BuildProductUpdate(42, nil, strPtr("   "), nil)

	assert.Nil(t, item.RegularPrice, "cadena en blanco equivale a precio ausente")
	assert.Nil(t, item.SalePrice)
}

// Las variaciones siguen exactamente las mismas reglas; solo cambia el endpoint.
func TestBuildVariationUpdate_MismasReglas(t *testing.T) {
	item := reconcile.BuildVariationUpdate(77, intPtr(-1), strPtr("20"), nil)

	assert.Equal(t, 77, item.ID)
	require.NotNil(t, item.StockQuantity)
	assert.Equal(t, 0, *item.StockQuantity)
	assert.Equal(t, "outofstock", item.StockStatus)
	require.NotNil(t, item.SalePrice)
	assert.Equal(t, "", *item.SalePrice)
}
