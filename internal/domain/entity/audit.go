package entity

// LogAction desenlace de un SKU dentro de una corrida.
type LogAction string

const (
	ActionWouldUpdate LogAction = "would_update"
	ActionUpdated     LogAction = "updated"
	ActionNotFound    LogAction = "not_found"
	ActionError       LogAction = "error"
)

// LogRecord una fila del log de auditoría: el desenlace de un SKU en una corrida.
// ParentID/ObjectID en cero significan "no aplica" y se escriben vacíos en el CSV.
type LogRecord struct {
	SKU          string
	Action       LogAction
	Message      string
	Kind         Kind // "" cuando el SKU no resolvió
	ParentID     int
	ObjectID     int
	Quantity     *int
	RegularPrice *string
	SalePrice    *string
}

// Summary resultado agregado de una corrida de reconciliación.
// NotFound y Errors van recortados para la respuesta; los conteos son completos.
type Summary struct {
	UpdatedTotal  int      `json:"updated_total"`
	NotFound      []string `json:"not_found"`
	NotFoundCount int      `json:"not_found_count"`
	Errors        []string `json:"errors"`
	ErrorsCount   int      `json:"errors_count"`
	InvalidCount  int      `json:"invalid_count"`
	LogName       string   `json:"log_name"`
	DryRun        bool     `json:"dry_run"`
}
