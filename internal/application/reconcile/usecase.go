package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/stock-uploader/internal/domain"
	"github.com/jhoicas/stock-uploader/internal/domain/entity"
	"github.com/jhoicas/stock-uploader/internal/domain/repository"
	"github.com/jhoicas/stock-uploader/pkg/logger"
)

const (
	// maxBatchSize límite por petición de los endpoints batch de WooCommerce.
	maxBatchSize = 100

	// summaryNotFoundCap / summaryErrorsCap recorte de las listas en la respuesta.
	summaryNotFoundCap = 50
	summaryErrorsCap   = 10
)

// pendingUpdate conserva el SKU junto al payload para poder atribuir el
// resultado por ítem del batch a la fila de origen.
type pendingUpdate struct {
	SKU     string
	Payload entity.UpdatePayload
}

// UseCase orquesta la reconciliación: resolución de SKUs, armado de payloads,
// agrupación por endpoint, despacho en lotes y log de auditoría. Las fallas
// por fila nunca abortan la corrida; las fallas de lote solo afectan la
// contabilidad de ese lote.
type UseCase struct {
	resolver   *Resolver
	gateway    repository.CatalogGateway
	audit      repository.AuditWriter
	chunkDelay time.Duration
	log        *logger.Logger
}

// NewUseCase construye el caso de uso. chunkDelay es la pausa entre lotes
// para no saturar la API remota (~100ms por defecto en configuración).
func NewUseCase(resolver *Resolver, gateway repository.CatalogGateway, audit repository.AuditWriter, chunkDelay time.Duration, log *logger.Logger) *UseCase {
	return &UseCase{
		resolver:   resolver,
		gateway:    gateway,
		audit:      audit,
		chunkDelay: chunkDelay,
		log:        log,
	}
}

// Reconcile procesa todas las filas y devuelve el resumen de la corrida.
// Siempre devuelve un Summary, incluso si todas las filas fallaron; el único
// error de retorno posible es la cancelación del contexto a mitad de corrida.
func (uc *UseCase) Reconcile(ctx context.Context, rows []entity.Row, opts entity.Options) (*entity.Summary, error) {
	var (
		updatedTotal int
		invalidCount int
		notFound     []string
		errs         []string
		logRows      []entity.LogRecord

		productBucket    []pendingUpdate
		variationBuckets = make(map[int][]pendingUpdate)
	)

	for _, row := range rows {
		sku := strings.TrimSpace(row.SKU)
		if sku == "" {
			continue
		}

		var qty *int
		if opts.DoStock {
			qty = row.Quantity
		}
		var rp, sp *string
		if opts.DoPrices {
			rp = row.RegularPrice
			sp = row.SalePrice
		}

		// Fila inválida (sale > regular o precio no numérico): se descarta
		// antes de resolver, solo se reporta el conteo.
		if opts.DoPrices && invalidPrices(rp, sp) {
			invalidCount++
			continue
		}

		resolved, err := uc.resolver.Resolve(ctx, sku)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, domain.ErrSKUNotFound) {
				notFound = append(notFound, sku)
				logRows = append(logRows, entity.LogRecord{
					SKU: sku, Action: entity.ActionNotFound, Message: "SKU no encontrado",
					Quantity: qty, RegularPrice: rp, SalePrice: sp,
				})
				continue
			}
			// Aislamiento por fila: cualquier otro error se registra y se sigue.
			errs = append(errs, fmt.Sprintf("%s: %v", sku, err))
			logRows = append(logRows, entity.LogRecord{
				SKU: sku, Action: entity.ActionError, Message: err.Error(),
				Quantity: qty, RegularPrice: rp, SalePrice: sp,
			})
			continue
		}

		var payload entity.UpdatePayload
		if resolved.Kind == entity.KindProduct {
			payload = BuildProductUpdate(resolved.ID, qty, rp, sp)
		} else {
			payload = BuildVariationUpdate(resolved.ID, qty, rp, sp)
		}

		if opts.DryRun {
			serialized, _ := json.Marshal(payload)
			logRows = append(logRows, entity.LogRecord{
				SKU: sku, Action: entity.ActionWouldUpdate, Message: string(serialized),
				Kind: resolved.Kind, ParentID: resolved.ParentID, ObjectID: resolved.ID,
				Quantity: qty, RegularPrice: rp, SalePrice: sp,
			})
			continue
		}

		pu := pendingUpdate{SKU: sku, Payload: payload}
		if resolved.Kind == entity.KindProduct {
			productBucket = append(productBucket, pu)
		} else {
			variationBuckets[resolved.ParentID] = append(variationBuckets[resolved.ParentID], pu)
		}
	}

	if !opts.DryRun {
		// Productos: lotes de ≤100 contra /products/batch.
		for i := 0; i < len(productBucket); i += maxBatchSize {
			chunk := productBucket[i:min(i+maxBatchSize, len(productBucket))]
			n := uc.flushChunk(ctx, chunk, entity.KindProduct, 0, &errs, &logRows)
			updatedTotal += n
			if err := sleepCtx(ctx, uc.chunkDelay); err != nil {
				return nil, err
			}
		}
		// Variaciones: lotes de ≤100 por padre contra su endpoint batch.
		// Iteración en orden de padre para que las corridas sean reproducibles.
		parents := make([]int, 0, len(variationBuckets))
		for parentID := range variationBuckets {
			parents = append(parents, parentID)
		}
		sort.Ints(parents)
		for _, parentID := range parents {
			bucket := variationBuckets[parentID]
			for i := 0; i < len(bucket); i += maxBatchSize {
				chunk := bucket[i:min(i+maxBatchSize, len(bucket))]
				n := uc.flushChunk(ctx, chunk, entity.KindVariation, parentID, &errs, &logRows)
				updatedTotal += n
				if err := sleepCtx(ctx, uc.chunkDelay); err != nil {
					return nil, err
				}
			}
		}
	}

	summary := &entity.Summary{
		UpdatedTotal:  updatedTotal,
		NotFound:      truncate(notFound, summaryNotFoundCap),
		NotFoundCount: len(notFound),
		Errors:        truncate(errs, summaryErrorsCap),
		ErrorsCount:   len(errs),
		InvalidCount:  invalidCount,
		DryRun:        opts.DryRun,
	}

	name, err := uc.audit.Write(logRows)
	if err != nil {
		uc.log.Error().Err(err).Msg("no se pudo escribir el log de auditoría")
	} else {
		summary.LogName = name
	}

	uc.log.Info().
		Int("rows", len(rows)).
		Int("updated", summary.UpdatedTotal).
		Int("not_found", summary.NotFoundCount).
		Int("errors", summary.ErrorsCount).
		Int("invalid", summary.InvalidCount).
		Bool("dry_run", opts.DryRun).
		Msg("reconciliación terminada")

	return summary, nil
}

// flushChunk despacha un lote y reconcilia el resultado por ítem contra lo
// enviado: un ítem con error embebido cuenta como falla, un ítem ausente de la
// respuesta también (la API lo rechazó sin reportarlo). Devuelve la cantidad
// efectivamente actualizada. Si la llamada completa falla, el lote entero
// cuenta cero actualizaciones y cada fila queda registrada con error.
func (uc *UseCase) flushChunk(ctx context.Context, chunk []pendingUpdate, kind entity.Kind, parentID int, errs *[]string, logRows *[]entity.LogRecord) int {
	items := make([]entity.UpdatePayload, len(chunk))
	for i, pu := range chunk {
		items[i] = pu.Payload
	}

	var results []entity.BatchItemResult
	var err error
	if kind == entity.KindProduct {
		results, err = uc.gateway.BatchUpdateProducts(ctx, items)
	} else {
		results, err = uc.gateway.BatchUpdateVariations(ctx, parentID, items)
	}
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("batch %s: %v", kind, err))
		for _, pu := range chunk {
			*logRows = append(*logRows, uc.recordFor(pu, kind, parentID, entity.ActionError, err.Error()))
		}
		return 0
	}

	byID := make(map[int]entity.BatchItemResult, len(results))
	for _, r := range results {
		byID[r.ID] = r
	}

	updated := 0
	for _, pu := range chunk {
		r, ok := byID[pu.Payload.ID]
		switch {
		case !ok:
			*errs = append(*errs, fmt.Sprintf("%s: sin resultado en la respuesta batch", pu.SKU))
			*logRows = append(*logRows, uc.recordFor(pu, kind, parentID, entity.ActionError, "sin resultado en la respuesta batch"))
		case r.ErrMessage != "":
			*errs = append(*errs, fmt.Sprintf("%s: %s", pu.SKU, r.ErrMessage))
			*logRows = append(*logRows, uc.recordFor(pu, kind, parentID, entity.ActionError, r.ErrMessage))
		default:
			updated++
			msg := "producto actualizado"
			if kind == entity.KindVariation {
				msg = "variación actualizada"
			}
			*logRows = append(*logRows, uc.recordFor(pu, kind, parentID, entity.ActionUpdated, msg))
		}
	}
	return updated
}

func (uc *UseCase) recordFor(pu pendingUpdate, kind entity.Kind, parentID int, action entity.LogAction, message string) entity.LogRecord {
	return entity.LogRecord{
		SKU:          pu.SKU,
		Action:       action,
		Message:      message,
		Kind:         kind,
		ParentID:     parentID,
		ObjectID:     pu.Payload.ID,
		Quantity:     pu.Payload.StockQuantity,
		RegularPrice: pu.Payload.RegularPrice,
		SalePrice:    pu.Payload.SalePrice,
	}
}

func truncate(list []string, limit int) []string {
	if len(list) > limit {
		return list[:limit]
	}
	return list
}
