package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/internal/app/service"
	"github.com/shopspring/decimal"
)

// queryParser reads typed query parameters, recording one error per bad key.
type queryParser struct {
	c    *gin.Context
	verr *service.ValidationError
}

func newQueryParser(c *gin.Context) *queryParser {
	return &queryParser{c: c, verr: &service.ValidationError{}}
}

func (q *queryParser) raw(key string) (string, bool) {
	v, ok := q.c.GetQuery(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (q *queryParser) decimalParam(key string) *decimal.Decimal {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		q.verr.Add(key, "Enter a number.")
		return nil
	}
	return &d
}

func (q *queryParser) intParam(key string) *int {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.verr.Add(key, "Enter a whole number.")
		return nil
	}
	return &n
}

func (q *queryParser) boolParam(key string) *bool {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	var b bool
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		b = true
	case "false", "0", "no", "off":
		b = false
	default:
		q.verr.Add(key, "Select a valid choice. That choice is not one of the available choices.")
		return nil
	}
	return &b
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// timestampParam accepts RFC 3339 or a naive date/datetime, read as UTC.
func (q *queryParser) timestampParam(key string) *time.Time {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t
		}
	}
	q.verr.Add(key, "Enter a valid date/time.")
	return nil
}

func (q *queryParser) uuidParam(key string) *uuid.UUID {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		q.verr.Add(key, "Enter a valid UUID.")
		return nil
	}
	return &id
}

func (q *queryParser) stringParam(key string) *string {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	return &v
}

// parseProductFilter maps list query parameters onto a filter.
// Pagination is left to the caller.
func parseProductFilter(c *gin.Context) (repository.ProductFilter, error) {
	q := newQueryParser(c)

	filter := repository.ProductFilter{
		MinPrice: q.decimalParam("min_price"),
		MaxPrice: q.decimalParam("max_price"),
		Price:    q.decimalParam("price"),
		PriceGTE: q.decimalParam("price__gte"),
		PriceLTE: q.decimalParam("price__lte"),

		CategoryID:   q.uuidParam("category_id"),
		CategorySlug: q.stringParam("category_slug"),

		InStock:    q.boolParam("in_stock"),
		LowStock:   q.boolParam("low_stock"),
		OutOfStock: q.boolParam("out_of_stock"),
		IsFeatured: q.boolParam("is_featured"),
		IsActive:   q.boolParam("is_active"),
		OnSale:     q.boolParam("on_sale"),

		MinStock:      q.intParam("min_stock"),
		MaxStock:      q.intParam("max_stock"),
		StockQuantity: q.intParam("stock_quantity"),
		StockGTE:      q.intParam("stock_quantity__gte"),
		StockLTE:      q.intParam("stock_quantity__lte"),

		CreatedAfter:  q.timestampParam("created_after"),
		CreatedBefore: q.timestampParam("created_before"),
		UpdatedAfter:  q.timestampParam("updated_after"),
		UpdatedBefore: q.timestampParam("updated_before"),

		SKU:          q.stringParam("sku"),
		Name:         q.stringParam("name"),
		NameContains: q.stringParam("name__icontains"),

		Search:   c.Query("search"),
		Ordering: repository.ParseOrdering(c.Query("ordering")),
	}

	if token, ok := q.raw("category"); ok {
		lookup := repository.ParseLookup(token)
		filter.Category = &lookup
	}

	return filter, q.verr.Err()
}
