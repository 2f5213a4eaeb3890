package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jhoicas/stock-uploader/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los tests del paquete reconcile
// ──────────────────────────────────────────────────────────────────────────────

// fakeGateway implementa repository.CatalogGateway sobre un catálogo en memoria,
// con contadores de llamadas para verificar corto-circuitos y chunking.
type fakeGateway struct {
	// catálogo
	products   map[string]entity.CatalogProduct  // productos simples/padres por SKU
	parents    []entity.CatalogProduct           // productos variables, en orden
	variations map[int][]entity.CatalogVariation // variaciones por padre

	// fallas inyectadas
	findErrBySKU map[string]error // error al buscar un SKU puntual
	batchErr     error            // falla de la llamada batch completa
	itemErrs     map[int]string   // error embebido por ítem en la respuesta batch

	// registro de tráfico
	findCalls        int
	parentPageCalls  int
	variationCalls   int
	productBatches   [][]entity.UpdatePayload
	variationBatches map[int][][]entity.UpdatePayload
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		products:         make(map[string]entity.CatalogProduct),
		variations:       make(map[int][]entity.CatalogVariation),
		findErrBySKU:     make(map[string]error),
		itemErrs:         make(map[int]string),
		variationBatches: make(map[int][][]entity.UpdatePayload),
	}
}

func (g *fakeGateway) addProduct(sku string, id int) {
	g.products[sku] = entity.CatalogProduct{ID: id, SKU: sku, Type: "simple"}
}

func (g *fakeGateway) addVariation(parentID, variationID int, sku string) {
	found := false
	for _, p := range g.parents {
		if p.ID == parentID {
			found = true
			break
		}
	}
	if !found {
		g.parents = append(g.parents, entity.CatalogProduct{ID: parentID, Type: "variable"})
	}
	g.variations[parentID] = append(g.variations[parentID], entity.CatalogVariation{ID: variationID, SKU: sku})
}

func (g *fakeGateway) FindProductBySKU(_ context.Context, sku string) (*entity.CatalogProduct, error) {
	g.findCalls++
	if err, ok := g.findErrBySKU[sku]; ok {
		return nil, err
	}
	if p, ok := g.products[sku]; ok {
		return &p, nil
	}
	return nil, nil
}

func (g *fakeGateway) ListVariableProducts(_ context.Context, page, perPage int) ([]entity.CatalogProduct, error) {
	g.parentPageCalls++
	return paginate(g.parents, page, perPage), nil
}

func (g *fakeGateway) ListVariations(_ context.Context, parentID, page, perPage int) ([]entity.CatalogVariation, error) {
	g.variationCalls++
	return paginate(g.variations[parentID], page, perPage), nil
}

func (g *fakeGateway) BatchUpdateProducts(_ context.Context, items []entity.UpdatePayload) ([]entity.BatchItemResult, error) {
	if g.batchErr != nil {
		return nil, g.batchErr
	}
	g.productBatches = append(g.productBatches, items)
	return g.results(items), nil
}

func (g *fakeGateway) BatchUpdateVariations(_ context.Context, parentID int, items []entity.UpdatePayload) ([]entity.BatchItemResult, error) {
	if g.batchErr != nil {
		return nil, g.batchErr
	}
	g.variationBatches[parentID] = append(g.variationBatches[parentID], items)
	return g.results(items), nil
}

func (g *fakeGateway) results(items []entity.UpdatePayload) []entity.BatchItemResult {
	out := make([]entity.BatchItemResult, 0, len(items))
	for _, it := range items {
		out = append(out, entity.BatchItemResult{ID: it.ID, ErrMessage: g.itemErrs[it.ID]})
	}
	return out
}

func paginate[T any](list []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(list) {
		return nil
	}
	end := start + perPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// fakeAudit captura los registros escritos por la corrida.
type fakeAudit struct {
	records []entity.LogRecord
	writes  int
	err     error
}

func (a *fakeAudit) Write(records []entity.LogRecord) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.writes++
	a.records = records
	return fmt.Sprintf("log-test-%04d.csv", a.writes), nil
}

func (a *fakeAudit) Open(string) (io.ReadCloser, error) {
	return nil, errors.New("no implementado en el fake")
}

// countByAction cantidad de registros con una acción dada.
func (a *fakeAudit) countByAction(action entity.LogAction) int {
	n := 0
	for _, r := range a.records {
		if r.Action == action {
			n++
		}
	}
	return n
}
