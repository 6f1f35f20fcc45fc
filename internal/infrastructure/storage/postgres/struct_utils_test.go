package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"faturah/internal/core/entity"
	"faturah/internal/core/id"
	"faturah/internal/core/tenant"
)

type sampleCatalog struct {
	entity.Catalog
	Symbol string `db:"symbol" json:"symbol"`
	Hidden string `db:"-" json:"-"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[sampleCatalog]()

	for _, expected := range []string{
		"id", "version", "name", "company_user_id", "individual_user_id", "symbol",
	} {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "Hidden")
}

func TestStructToMap(t *testing.T) {
	scope := tenant.Scope{TenantID: id.New(), IsOrganization: true}
	cat := sampleCatalog{
		Catalog: entity.NewCatalog(scope, "Piece"),
		Symbol:  "pcs",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, "Piece", m["name"])
	assert.Equal(t, "pcs", m["symbol"])
	assert.Equal(t, cat.CompanyUserID, m["company_user_id"])
	assert.NotContains(t, m, "Hidden")

	// A pointer receiver works too.
	m2 := StructToMap(&cat)
	assert.Equal(t, m, m2)
}
