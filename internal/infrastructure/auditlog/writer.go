package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-uploader/internal/domain"
	"github.com/jhoicas/stock-uploader/internal/domain/entity"
)

// header columnas del CSV de auditoría, en el orden del artefacto descargable.
var header = []string{
	"sku", "action", "message", "kind",
	"parent_id", "object_id", "quantity", "regular_price", "sale_price",
}

// Writer implementa repository.AuditWriter sobre el filesystem local.
// Un archivo nuevo por corrida, nombrado con timestamp + sufijo aleatorio;
// los artefactos se retienen hasta que alguien los borre a mano.
type Writer struct {
	dir string
}

// NewWriter crea el directorio de logs si no existe.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de logs: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Write vuelca los registros de una corrida y devuelve el nombre del artefacto.
func (w *Writer) Write(records []entity.LogRecord) (string, error) {
	name := fmt.Sprintf("log-%s-%s.csv",
		time.Now().Format("20060102-150405"),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
	)

	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return "", fmt.Errorf("crear log de auditoría: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return "", err
	}
	for _, r := range records {
		row := []string{
			r.SKU,
			string(r.Action),
			r.Message,
			string(r.Kind),
			intField(r.ParentID),
			intField(r.ObjectID),
			intPtrField(r.Quantity),
			strPtrField(r.RegularPrice),
			strPtrField(r.SalePrice),
		}
		if err := cw.Write(row); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}
	return name, nil
}

// Open abre un artefacto para descarga. El nombre se valida contra traversal:
// debe ser un nombre plano con el prefijo/extensión que genera Write.
func (w *Writer) Open(name string) (io.ReadCloser, error) {
	if !validName(name) {
		return nil, domain.ErrNotFound
	}
	f, err := os.Open(filepath.Join(w.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func validName(name string) bool {
	if name == "" || name != filepath.Base(name) {
		return false
	}
	return strings.HasPrefix(name, "log-") && strings.HasSuffix(name, ".csv")
}

// intField cero significa "no aplica" y va vacío en el CSV.
func intField(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func intPtrField(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func strPtrField(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
