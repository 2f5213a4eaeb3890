package repository

import (
	"io"

	"github.com/jhoicas/stock-uploader/internal/domain/entity"
)

// AuditWriter define el puerto de persistencia del log de auditoría.
// Un archivo nuevo por corrida; nunca se reescribe ni se anexa entre corridas.
type AuditWriter interface {
	// Write vuelca los registros de una corrida y devuelve el nombre del artefacto.
	Write(records []entity.LogRecord) (string, error)

	// Open abre un artefacto previamente escrito para su descarga.
	// Devuelve domain.ErrNotFound si no existe.
	Open(name string) (io.ReadCloser, error)
}
