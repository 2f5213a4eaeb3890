package reconcile

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/stock-uploader/internal/domain"
	"github.com/jhoicas/stock-uploader/internal/domain/entity"
	"github.com/jhoicas/stock-uploader/internal/domain/repository"
	"github.com/jhoicas/stock-uploader/pkg/logger"
)

const (
	parentScanPageSize    = 50
	variationScanPageSize = 100
)

// Resolver resuelve un SKU a su entidad del catálogo: producto simple/padre o
// variación. El lookup de producto es barato (filtro exacto del lado del
// servidor); las variaciones no son filtrables por SKU, así que un miss fuerza
// un escaneo lineal de todos los productos variables que va poblando el índice
// compartido. El índice amortiza ese costo: después del primer escaneo los
// lookups son O(1) dentro de la corrida y entre corridas.
type Resolver struct {
	gateway   repository.CatalogGateway
	index     *SKUIndex
	pageDelay time.Duration
	log       *logger.Logger
}

// NewResolver construye el resolver. pageDelay es la pausa entre páginas del
// escaneo para no saturar la API remota (~50ms por defecto en configuración).
func NewResolver(gateway repository.CatalogGateway, index *SKUIndex, pageDelay time.Duration, log *logger.Logger) *Resolver {
	return &Resolver{gateway: gateway, index: index, pageDelay: pageDelay, log: log}
}

// Resolve devuelve la entidad a la que corresponde el SKU, o domain.ErrSKUNotFound
// si no existe ni como producto ni como variación tras el escaneo completo.
func (r *Resolver) Resolve(ctx context.Context, sku string) (entity.ResolvedEntity, error) {
	prod, err := r.gateway.FindProductBySKU(ctx, sku)
	if err != nil {
		return entity.ResolvedEntity{}, err
	}
	if prod != nil {
		return entity.ResolvedEntity{Kind: entity.KindProduct, ID: prod.ID}, nil
	}

	if e, ok := r.index.Lookup(sku); ok {
		return entity.ResolvedEntity{Kind: entity.KindVariation, ID: e.VariationID, ParentID: e.ParentID}, nil
	}

	found, err := r.scanVariations(ctx, sku)
	if err != nil {
		return entity.ResolvedEntity{}, err
	}
	if found {
		e, _ := r.index.Lookup(sku)
		return entity.ResolvedEntity{Kind: entity.KindVariation, ID: e.VariationID, ParentID: e.ParentID}, nil
	}
	return entity.ResolvedEntity{}, domain.ErrSKUNotFound
}

// scanVariations recorre todos los productos variables paginando sus
// variaciones e indexando cada SKU encontrado. Corta apenas el SKU buscado
// aparece en el índice; no agota el catálogo si no hace falta.
func (r *Resolver) scanVariations(ctx context.Context, sku string) (bool, error) {
	for page := 1; ; page++ {
		parents, err := r.gateway.ListVariableProducts(ctx, page, parentScanPageSize)
		if err != nil {
			return false, err
		}
		if len(parents) == 0 {
			return false, nil
		}
		for _, parent := range parents {
			for vpage := 1; ; vpage++ {
				variations, err := r.gateway.ListVariations(ctx, parent.ID, vpage, variationScanPageSize)
				if err != nil {
					return false, err
				}
				if len(variations) == 0 {
					break
				}
				for _, v := range variations {
					vsku := strings.TrimSpace(v.SKU)
					if vsku == "" {
						continue
					}
					r.index.Insert(vsku, entity.SKUIndexEntry{ParentID: parent.ID, VariationID: v.ID})
				}
				if _, ok := r.index.Lookup(sku); ok {
					r.log.Debug().
						Str("sku", sku).
						Int("indexed", r.index.Len()).
						Msg("SKU encontrado durante el escaneo de variaciones")
					return true, nil
				}
				if err := sleepCtx(ctx, r.pageDelay); err != nil {
					return false, err
				}
			}
		}
		if err := sleepCtx(ctx, r.pageDelay); err != nil {
			return false, err
		}
	}
}

// sleepCtx pausa respetando la cancelación del contexto.
func sleepCtx(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
