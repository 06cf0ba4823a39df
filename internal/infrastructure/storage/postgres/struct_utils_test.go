package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"facturier/internal/core/entity"
)

type mockDocument struct {
	entity.BaseDocument
	Number       string          `db:"number" json:"number"`
	CustomerName string          `db:"customer_name" json:"customerName"`
	Total        decimal.Decimal `db:"total" json:"total"`
	Lines        []string        `db:"-" json:"lines"`
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[mockDocument]()

	expectedCols := []string{
		"id", "version", "created_at", "updated_at", "number", "customer_name", "total",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	doc := mockDocument{
		BaseDocument: entity.NewBaseDocument(),
		Number:       "FACT-42",
		CustomerName: "Atelier Bernard",
		Total:        decimal.NewFromInt(120),
		Lines:        []string{"ignored"},
	}
	doc.Version = 3

	m := StructToMap(doc)

	assert.Equal(t, doc.ID, m["id"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, "FACT-42", m["number"])
	assert.Equal(t, "Atelier Bernard", m["customer_name"])
	assert.Equal(t, doc.CreatedAt, m["created_at"])
	_, hasLines := m["lines"]
	assert.False(t, hasLines, "db:\"-\" fields must not be exported")
}

func TestStructToMap_NilSafe(t *testing.T) {
	assert.Nil(t, StructToMap(42))

	var ptr *mockDocument
	assert.Nil(t, StructToMap(ptr))
}
