package reconcile

import (
	"sync"

	"github.com/jhoicas/stock-uploader/internal/domain/entity"
)

// SKUIndex cache de SKU de variación → (padre, variación), de vida del proceso.
// Es estrictamente aditivo: nunca se evictan entradas ni se sobreescriben con
// valores distintos (el catálogo garantiza unicidad de SKU), así que lecturas
// concurrentes ven un índice que solo crece. El RWMutex cubre el caso de dos
// corridas simultáneas escaneando a la vez.
type SKUIndex struct {
	mu      sync.RWMutex
	entries map[string]entity.SKUIndexEntry
}

// NewSKUIndex construye un índice vacío. Se crea una sola vez en main y se
// comparte entre todas las corridas.
func NewSKUIndex() *SKUIndex {
	return &SKUIndex{entries: make(map[string]entity.SKUIndexEntry)}
}

// Lookup devuelve la entrada indexada para un SKU, si existe.
func (i *SKUIndex) Lookup(sku string) (entity.SKUIndexEntry, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	e, ok := i.entries[sku]
	return e, ok
}

// Insert registra un SKU de variación en el índice.
func (i *SKUIndex) Insert(sku string, e entity.SKUIndexEntry) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries[sku] = e
}

// Len cantidad de SKUs indexados.
func (i *SKUIndex) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}
