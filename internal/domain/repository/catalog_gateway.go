package repository

import (
	"context"

	"github.com/jhoicas/stock-uploader/internal/domain/entity"
)

// CatalogGateway define el puerto de salida hacia el catálogo remoto (DIP).
// La implementación concreta habla con la REST API de WooCommerce; para tests
// se inyecta un fake en memoria.
type CatalogGateway interface {
	// FindProductBySKU busca un producto simple o padre por coincidencia exacta
	// de SKU (filtro del lado del servidor, per_page=1). Devuelve nil si no hay.
	FindProductBySKU(ctx context.Context, sku string) (*entity.CatalogProduct, error)

	// ListVariableProducts pagina los productos variables del catálogo.
	// Página vacía = fin de la paginación.
	ListVariableProducts(ctx context.Context, page, perPage int) ([]entity.CatalogProduct, error)

	// ListVariations pagina las variaciones de un producto padre.
	ListVariations(ctx context.Context, parentID, page, perPage int) ([]entity.CatalogVariation, error)

	// BatchUpdateProducts envía un lote de updates al endpoint batch de productos
	// y devuelve el resultado por ítem según lo reportado por la API.
	BatchUpdateProducts(ctx context.Context, items []entity.UpdatePayload) ([]entity.BatchItemResult, error)

	// BatchUpdateVariations ídem para las variaciones de un padre concreto.
	BatchUpdateVariations(ctx context.Context, parentID int, items []entity.UpdatePayload) ([]entity.BatchItemResult, error)
}
