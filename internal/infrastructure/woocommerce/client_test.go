package woocommerce_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-uploader/internal/domain/entity"
	"github.com/jhoicas/stock-uploader/internal/infrastructure/woocommerce"
	"github.com/jhoicas/stock-uploader/pkg/config"
	"github.com/jhoicas/stock-uploader/pkg/logger"
)

func newClient(serverURL string, retryMax int) *woocommerce.Client {
	return woocommerce.NewClient(config.WooConfig{
		SiteURL:        serverURL,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
		Timeout:        5 * time.Second,
		RetryMax:       retryMax,
	}, logger.Nop())
}

func TestFindProductBySKU_AdjuntaCredencialesYFiltro(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wc/v3/products", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "ck_test", q.Get("consumer_key"), "toda petición lleva las credenciales")
		assert.Equal(t, "cs_test", q.Get("consumer_secret"))
		assert.Equal(t, "A1", q.Get("sku"), "la búsqueda usa el filtro exacto del servidor")
		assert.Equal(t, "1", q.Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":42,"sku":"A1","type":"simple"}]`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, 0)
	prod, err := c.FindProductBySKU(context.Background(), "A1")

	require.NoError(t, err)
	require.NotNil(t, prod)
	assert.Equal(t, 42, prod.ID)
	assert.Equal(t, "A1", prod.SKU)
}

func TestFindProductBySKU_SinCoincidenciaDevuelveNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, 0)
	prod, err := c.FindProductBySKU(context.Background(), "NADA")

	require.NoError(t, err)
	assert.Nil(t, prod, "catálogo sin coincidencia: nil, no error")
}

func TestGet_NoDosXXDevuelveHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"woocommerce_rest_cannot_view"}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, 3)
	_, err := c.FindProductBySKU(context.Background(), "A1")

	require.Error(t, err)
	var httpErr *woocommerce.HTTPStatusError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "woocommerce_rest_cannot_view", "el cuerpo se conserva para diagnóstico")
}

func TestRetry_Un503SeReintentaYLuegoResponde(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"id":7,"sku":"R1"}]`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, 2)
	prod, err := c.FindProductBySKU(context.Background(), "R1")

	require.NoError(t, err, "un 503 transitorio debe reintentarse")
	require.NotNil(t, prod)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRetry_Un404NoSeReintenta(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newClient(srv.URL, 3)
	_, err := c.FindProductBySKU(context.Background(), "X")

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "un 4xx definitivo no debe reintentarse")
}

func TestBatchUpdateProducts_DecodificaResultadoPorItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/wp-json/wc/v3/products/batch", r.URL.Path)

		var body struct {
			Update []entity.UpdatePayload `json:"update"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Update, 2, "el lote completo viaja en una sola petición")

		w.Write([]byte(`{"update":[
			{"id":42},
			{"id":43,"error":{"code":"woocommerce_rest_invalid","message":"producto inválido"}}
		]}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, 0)
	results, err := c.BatchUpdateProducts(context.Background(), []entity.UpdatePayload{{ID: 42}, {ID: 43}})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Empty(t, results[0].ErrMessage)
	assert.Equal(t, "producto inválido", results[1].ErrMessage, "el error embebido por ítem debe aflorar")
}

func TestBatchUpdateVariations_UsaElEndpointDelPadre(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wc/v3/products/10/variations/batch", r.URL.Path)
		w.Write([]byte(`{"update":[{"id":101}]}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, 0)
	results, err := c.BatchUpdateVariations(context.Background(), 10, []entity.UpdatePayload{{ID: 101}})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 101, results[0].ID)
}

func TestBatchUpdateProducts_LoteVacioNoViaja(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no debería llegar ninguna petición con lote vacío")
	}))
	defer srv.Close()

	c := newClient(srv.URL, 0)
	results, err := c.BatchUpdateProducts(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestListVariations_Pagina(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wc/v3/products/10/variations", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "100", q.Get("per_page"))
		assert.Equal(t, "2", q.Get("page"))
		w.Write([]byte(`[{"id":101,"sku":"V-A"},{"id":102,"sku":"V-B"}]`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, 0)
	variations, err := c.ListVariations(context.Background(), 10, 2, 100)

	require.NoError(t, err)
	require.Len(t, variations, 2)
	assert.Equal(t, "V-A", variations[0].SKU)
}
