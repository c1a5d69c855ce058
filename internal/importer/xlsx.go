// Package importer loads products from a spreadsheet through the product service.
package importer

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ikkim/catalog-backend/internal/app/service"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Columns recognised in the header row. Unknown headers are ignored.
var Columns = []string{
	"name",
	"description",
	"short_description",
	"price",
	"compare_price",
	"stock_quantity",
	"low_stock_threshold",
	"category",
	"is_featured",
}

var ErrMissingHeader = errors.New("header row must include name, price and category")

// Row is one spreadsheet line keyed by header. Line is 1-based as shown in a spreadsheet.
type Row struct {
	Line   int
	Values map[string]string
}

// ReadRows reads the first sheet. Blank lines are skipped.
func ReadRows(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	lines, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(lines) == 0 {
		return nil, ErrMissingHeader
	}

	header := make([]string, len(lines[0]))
	seen := map[string]bool{}
	for i, cell := range lines[0] {
		key := strings.ToLower(strings.TrimSpace(cell))
		header[i] = key
		seen[key] = true
	}
	if !seen["name"] || !seen["price"] || !seen["category"] {
		return nil, ErrMissingHeader
	}

	var rows []Row
	for i, line := range lines[1:] {
		values := make(map[string]string)
		for j, cell := range line {
			if j >= len(header) || header[j] == "" {
				continue
			}
			if v := strings.TrimSpace(cell); v != "" {
				values[header[j]] = v
			}
		}
		if len(values) == 0 {
			continue
		}
		rows = append(rows, Row{Line: i + 2, Values: values})
	}
	return rows, nil
}

// CategoryResolver maps a category id or slug to its id.
type CategoryResolver func(token string) (string, error)

// Result is the outcome of one row.
type Result struct {
	Line    int
	Name    string
	SKU     string
	Errors  map[string][]string
	Failure error
}

func (r Result) OK() bool {
	return r.Failure == nil && len(r.Errors) == 0
}

// Report summarises an import run.
type Report struct {
	Results  []Result
	Created  int
	Rejected int
}

// Importer creates products row by row. A failing row does not stop the run.
type Importer struct {
	products service.ProductService
	category CategoryResolver
}

func New(products service.ProductService, categories service.CategoryService) *Importer {
	return &Importer{
		products: products,
		category: func(token string) (string, error) {
			c, err := categories.GetCategory(token, true)
			if err != nil {
				return "", err
			}
			return c.ID.String(), nil
		},
	}
}

func (im *Importer) Run(rows []Row) Report {
	var report Report
	for _, row := range rows {
		result := im.importRow(row)
		if result.OK() {
			report.Created++
		} else {
			report.Rejected++
		}
		report.Results = append(report.Results, result)
	}

	logger.Info("Product import finished", map[string]interface{}{
		"rows":     len(rows),
		"created":  report.Created,
		"rejected": report.Rejected,
	})
	return report
}

func (im *Importer) importRow(row Row) Result {
	result := Result{Line: row.Line, Name: row.Values["name"]}

	input, fields := toInput(row)
	if token := row.Values["category"]; token != "" {
		id, err := im.category(token)
		switch {
		case err == nil:
			input.CategoryID = &id
		case errors.Is(err, service.ErrCategoryNotFound):
			fields.Add("category", "Category not found.")
		default:
			result.Failure = err
			return result
		}
	}
	if fields.Err() != nil {
		result.Errors = fields.Fields
		return result
	}

	product, err := im.products.CreateProduct(input)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			result.Errors = verr.Fields
			return result
		}
		logger.Error("Failed to import product row", err, map[string]interface{}{
			"line": row.Line,
		})
		result.Failure = err
		return result
	}
	result.SKU = product.SKU
	return result
}

// toInput converts cell text into a product write, recording cells that do not parse.
func toInput(row Row) (service.ProductInput, *service.ValidationError) {
	fields := &service.ValidationError{}
	v := row.Values
	input := service.ProductInput{}

	text := func(key string) *string {
		if s, ok := v[key]; ok {
			return &s
		}
		return nil
	}
	money := func(key string) *decimal.Decimal {
		s, ok := v[key]
		if !ok {
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			fields.Add(key, "A valid number is required.")
			return nil
		}
		return &d
	}
	whole := func(key string) *int {
		s, ok := v[key]
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			fields.Add(key, "A valid integer is required.")
			return nil
		}
		return &n
	}

	input.Name = text("name")
	input.Description = text("description")
	input.ShortDescription = text("short_description")
	input.Price = money("price")
	input.ComparePrice = money("compare_price")
	input.StockQuantity = whole("stock_quantity")
	input.LowStockThreshold = whole("low_stock_threshold")

	if s, ok := v["is_featured"]; ok {
		var b bool
		switch strings.ToLower(s) {
		case "true", "1", "yes", "y":
			b = true
			input.IsFeatured = &b
		case "false", "0", "no", "n":
			input.IsFeatured = &b
		default:
			fields.Add("is_featured", "Must be true or false.")
		}
	}
	return input, fields
}

// Summary renders a report as text lines, one per row plus a total.
func (r Report) Summary() []string {
	var lines []string
	for _, res := range r.Results {
		switch {
		case res.OK():
			lines = append(lines, fmt.Sprintf("line %d: created %q (%s)", res.Line, res.Name, res.SKU))
		case res.Failure != nil:
			lines = append(lines, fmt.Sprintf("line %d: failed %q: %v", res.Line, res.Name, res.Failure))
		default:
			keys := make([]string, 0, len(res.Errors))
			for k := range res.Errors {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, k+": "+strings.Join(res.Errors[k], " "))
			}
			lines = append(lines, fmt.Sprintf("line %d: rejected %q: %s", res.Line, res.Name, strings.Join(parts, "; ")))
		}
	}
	lines = append(lines, fmt.Sprintf("%d created, %d rejected", r.Created, r.Rejected))
	return lines
}
