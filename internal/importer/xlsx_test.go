package importer

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/internal/app/service"
	"github.com/ikkim/catalog-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func header() []interface{} {
	out := make([]interface{}, len(Columns))
	for i, c := range Columns {
		out[i] = c
	}
	return out
}

func TestReadRows(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"Name", " Price ", "Category", "unused"},
		[]interface{}{"Desk Lamp", "19.99", "lighting", "x"},
		[]interface{}{"", "", "", ""},
		[]interface{}{"Floor Lamp", "49.00", "lighting"},
	)

	rows, err := ReadRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Desk Lamp", rows[0].Values["name"])
	assert.Equal(t, "19.99", rows[0].Values["price"])
	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "lighting", rows[1].Values["category"])
}

func TestReadRowsMissingHeader(t *testing.T) {
	buf := workbook(t, []interface{}{"name", "price"})

	_, err := ReadRows(buf)
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestImporterRun(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	category := &model.Category{Name: "Lighting", Slug: "lighting", IsActive: true}
	require.NoError(t, testDB.Create(category).Error)

	categoryRepo := repository.NewCategoryRepository(testDB)
	products := service.NewProductService(repository.NewProductRepository(testDB), categoryRepo)
	im := New(products, service.NewCategoryService(categoryRepo))

	buf := workbook(t,
		header(),
		[]interface{}{"Desk Lamp", "Adjustable arm desk lamp.", "", "19.99", "", "12", "", "lighting", "true"},
		[]interface{}{"Floor Lamp", "Tall lamp for reading corners.", "", "abc", "", "3", "", category.ID.String(), ""},
		[]interface{}{"Wall Lamp", "Mounted lamp with a warm glow.", "", "29.00", "", "4", "", "missing", ""},
		[]interface{}{"Ceiling Lamp", "Flush ceiling light fixture.", "", "59.00", "", "8", "", category.ID.String(), "no"},
	)
	rows, err := ReadRows(buf)
	require.NoError(t, err)

	report := im.Run(rows)

	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 2, report.Rejected)
	require.Len(t, report.Results, 4)

	assert.True(t, report.Results[0].OK())
	assert.NotEmpty(t, report.Results[0].SKU)
	assert.Contains(t, report.Results[1].Errors, "price")
	assert.Contains(t, report.Results[2].Errors, "category")
	assert.True(t, report.Results[3].OK())

	var stored []model.Product
	require.NoError(t, testDB.Order("name").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, "Ceiling Lamp", stored[0].Name)
	assert.False(t, stored[0].IsFeatured)
	assert.Equal(t, "Desk Lamp", stored[1].Name)
	assert.True(t, stored[1].IsFeatured)
	assert.Equal(t, "19.99", stored[1].Price.StringFixed(2))

	summary := report.Summary()
	assert.Len(t, summary, 5)
	assert.Equal(t, "2 created, 2 rejected", summary[4])
}
