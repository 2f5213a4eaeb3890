package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stock-uploader/internal/domain"
	"github.com/jhoicas/stock-uploader/internal/domain/entity"
)

// Stats métricas de la planilla para la vista previa. Columns trae los nombres
// de columna ya normalizados, en el orden del encabezado.
type Stats struct {
	TotalRows        int      `json:"total_rows"`
	UniqueSKUs       int      `json:"unique_skus"`
	WithQuantity     int      `json:"with_qty"`
	WithRegularPrice int      `json:"with_rp"`
	WithSalePrice    int      `json:"with_sp"`
	Columns          []string `json:"columns"`
}

// HasColumn reporta si la planilla trae la columna (ya normalizada).
func (s *Stats) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Read parsea una planilla subida (XLSX/XLS por extensión, CSV en cualquier
// otro caso) a filas de reconciliación. Los nombres de columna se normalizan
// (trim + minúsculas); sku es obligatoria, quantity/regular_price/sale_price
// opcionales. Filas sin ninguna celda con contenido se ignoran.
func Read(filename string, content []byte) ([]entity.Row, *Stats, error) {
	var table [][]string
	var err error

	name := strings.ToLower(filename)
	if strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls") {
		table, err = readExcel(content)
	} else {
		table, err = readCSV(content)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(table) == 0 {
		return nil, nil, fmt.Errorf("%w: la planilla está vacía", domain.ErrInvalidInput)
	}

	cols, colNames := columnIndex(table[0])
	skuCol, ok := cols["sku"]
	if !ok {
		return nil, nil, fmt.Errorf("%w: falta la columna sku", domain.ErrInvalidInput)
	}
	qtyCol, hasQty := cols["quantity"]
	rpCol, hasRP := cols["regular_price"]
	spCol, hasSP := cols["sale_price"]

	rows := make([]entity.Row, 0, len(table)-1)
	stats := &Stats{Columns: colNames}
	seen := make(map[string]struct{})

	for _, record := range table[1:] {
		if emptyRecord(record) {
			continue
		}
		row := entity.Row{SKU: strings.TrimSpace(cell(record, skuCol))}
		if hasQty {
			row.Quantity = parseQuantity(cell(record, qtyCol))
		}
		if hasRP {
			row.RegularPrice = parsePrice(cell(record, rpCol))
		}
		if hasSP {
			row.SalePrice = parsePrice(cell(record, spCol))
		}

		rows = append(rows, row)
		stats.TotalRows++
		if row.SKU != "" {
			if _, dup := seen[row.SKU]; !dup {
				seen[row.SKU] = struct{}{}
				stats.UniqueSKUs++
			}
		}
		if row.Quantity != nil {
			stats.WithQuantity++
		}
		if row.RegularPrice != nil {
			stats.WithRegularPrice++
		}
		if row.SalePrice != nil {
			stats.WithSalePrice++
		}
	}
	return rows, stats, nil
}

func readCSV(content []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	table, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: CSV ilegible: %v", domain.ErrInvalidInput, err)
	}
	return table, nil
}

func readExcel(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: Excel ilegible: %v", domain.ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: el archivo no tiene hojas", domain.ErrInvalidInput)
	}
	// Primera hoja, igual que el flujo de carga original.
	table, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: leer hoja: %v", domain.ErrInvalidInput, err)
	}
	return table, nil
}

func columnIndex(headerRow []string) (map[string]int, []string) {
	cols := make(map[string]int, len(headerRow))
	names := make([]string, 0, len(headerRow))
	for i, h := range headerRow {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, dup := cols[key]; !dup {
			cols[key] = i
			names = append(names, key)
		}
	}
	return cols, names
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

func emptyRecord(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseQuantity convierte la celda a entero. Acepta texto numérico con
// decimales (se trunca); celda vacía o no numérica cuenta como ausente.
func parseQuantity(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}

// parsePrice recorta espacios; vacío equivale a ausente.
func parsePrice(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
