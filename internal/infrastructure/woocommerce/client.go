package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jhoicas/stock-uploader/internal/domain/entity"
	"github.com/jhoicas/stock-uploader/pkg/config"
	"github.com/jhoicas/stock-uploader/pkg/logger"
)

// apiBase prefijo de la REST API v3 de WooCommerce sobre la raíz del sitio.
const apiBase = "/wp-json/wc/v3"

// Client implementa repository.CatalogGateway contra la REST API de WooCommerce.
// Autentica cada petición con consumer_key/consumer_secret en el query string.
// Los GET/PUT reintentan ante 429/5xx y fallos de transporte con backoff
// exponencial acotado (RetryMax de configuración).
type Client struct {
	httpClient *http.Client
	siteURL    string
	key        string
	secret     string
	retryMax   int
	log        *logger.Logger
}

// NewClient construye el cliente con el timeout de red de la configuración.
func NewClient(cfg config.WooConfig, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		siteURL:    cfg.SiteURL,
		key:        cfg.ConsumerKey,
		secret:     cfg.ConsumerSecret,
		retryMax:   cfg.RetryMax,
		log:        log,
	}
}

// endpoint arma la URL completa con credenciales y parámetros.
func (c *Client) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if c.key != "" && c.secret != "" {
		query.Set("consumer_key", c.key)
		query.Set("consumer_secret", c.secret)
	}
	return c.siteURL + apiBase + path + "?" + query.Encode()
}

// do ejecuta la petición con reintentos. Devuelve el cuerpo de la respuesta 2xx.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("serializar payload: %w", err)
		}
		body = b
	}

	endpoint := c.endpoint(path, query)
	for attempt := 0; ; attempt++ {
		data, err := c.once(ctx, method, endpoint, body)
		if err == nil {
			return data, nil
		}
		if attempt >= c.retryMax || !isRetryable(err) {
			return nil, err
		}
		delay := retryDelay(attempt)
		c.log.Warn().
			Str("method", method).
			Str("path", path).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Err(err).
			Msg("reintentando petición al catálogo")
		if serr := sleepWithContext(ctx, delay); serr != nil {
			return nil, serr
		}
	}
}

func (c *Client) once(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPStatusError(resp.StatusCode, resp.Status, data)
	}
	return data, nil
}

// ── CatalogGateway ─────────────────────────────────────────────────────────────

// FindProductBySKU busca un producto simple o padre por SKU exacto (per_page=1).
// Devuelve nil si el catálogo no tiene coincidencia.
func (c *Client) FindProductBySKU(ctx context.Context, sku string) (*entity.CatalogProduct, error) {
	q := url.Values{}
	q.Set("sku", sku)
	q.Set("per_page", "1")
	data, err := c.do(ctx, http.MethodGet, "/products", q, nil)
	if err != nil {
		return nil, err
	}
	var products []entity.CatalogProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decodificar productos: %w", err)
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

// ListVariableProducts pagina los productos variables. Página vacía = fin.
func (c *Client) ListVariableProducts(ctx context.Context, page, perPage int) ([]entity.CatalogProduct, error) {
	q := url.Values{}
	q.Set("type", "variable")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	data, err := c.do(ctx, http.MethodGet, "/products", q, nil)
	if err != nil {
		return nil, err
	}
	var products []entity.CatalogProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decodificar productos variables: %w", err)
	}
	return products, nil
}

// ListVariations pagina las variaciones de un producto padre.
func (c *Client) ListVariations(ctx context.Context, parentID, page, perPage int) ([]entity.CatalogVariation, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	path := fmt.Sprintf("/products/%d/variations", parentID)
	data, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, err
	}
	var variations []entity.CatalogVariation
	if err := json.Unmarshal(data, &variations); err != nil {
		return nil, fmt.Errorf("decodificar variaciones: %w", err)
	}
	return variations, nil
}

// batchRequest cuerpo del PUT a los endpoints batch.
type batchRequest struct {
	Update []entity.UpdatePayload `json:"update"`
}

// batchResponse respuesta de los endpoints batch. Cada ítem puede traer un
// objeto error embebido cuando la API rechazó ese update puntual.
type batchResponse struct {
	Update []batchResponseItem `json:"update"`
}

type batchResponseItem struct {
	ID    int             `json:"id"`
	Error *batchItemError `json:"error,omitempty"`
}

type batchItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchUpdateProducts envía un lote al endpoint batch de productos.
func (c *Client) BatchUpdateProducts(ctx context.Context, items []entity.UpdatePayload) ([]entity.BatchItemResult, error) {
	if len(items) == 0 {
		return nil, nil
	}
	return c.putBatch(ctx, "/products/batch", items)
}

// BatchUpdateVariations envía un lote al endpoint batch de variaciones del padre.
func (c *Client) BatchUpdateVariations(ctx context.Context, parentID int, items []entity.UpdatePayload) ([]entity.BatchItemResult, error) {
	if len(items) == 0 {
		return nil, nil
	}
	return c.putBatch(ctx, fmt.Sprintf("/products/%d/variations/batch", parentID), items)
}

func (c *Client) putBatch(ctx context.Context, path string, items []entity.UpdatePayload) ([]entity.BatchItemResult, error) {
	data, err := c.do(ctx, http.MethodPut, path, nil, batchRequest{Update: items})
	if err != nil {
		return nil, err
	}
	var resp batchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decodificar respuesta batch: %w", err)
	}
	results := make([]entity.BatchItemResult, 0, len(resp.Update))
	for _, item := range resp.Update {
		r := entity.BatchItemResult{ID: item.ID}
		if item.Error != nil {
			r.ErrMessage = item.Error.Message
			if r.ErrMessage == "" {
				r.ErrMessage = item.Error.Code
			}
		}
		results = append(results, r)
	}
	return results, nil
}
