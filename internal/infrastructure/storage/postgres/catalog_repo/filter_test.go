package catalog_repo

import (
	"strings"
	"testing"

	"faturah/internal/core/id"
	"faturah/internal/core/tenant"
	"faturah/internal/domain/filter"
)

func testRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table", []string{"id", "name", "col1"}, []string{"name"}, func() any { return nil })
}

func TestApplyAdvancedFiltersOperators(t *testing.T) {
	repo := testRepo()
	scope := tenant.Scope{TenantID: id.New(), IsOrganization: true}

	tests := []struct {
		name     string
		item     filter.Item
		wantFrag string
		wantArg  any
	}{
		{
			name:     "Greater",
			item:     filter.Item{Field: "col1", Operator: filter.Greater, Value: 10},
			wantFrag: "col1 > $",
			wantArg:  10,
		},
		{
			name:     "Less",
			item:     filter.Item{Field: "col1", Operator: filter.Less, Value: 5},
			wantFrag: "col1 < $",
			wantArg:  5,
		},
		{
			name:     "Contains",
			item:     filter.Item{Field: "name", Operator: filter.Contains, Value: "acme"},
			wantFrag: "name ILIKE $",
			wantArg:  "%acme%",
		},
		{
			name:     "IsNull",
			item:     filter.Item{Field: "col1", Operator: filter.IsNull},
			wantFrag: "col1 IS NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := repo.applyAdvancedFilters(repo.baseSelect(scope), []filter.Item{tt.item})
			if err != nil {
				t.Fatalf("applyAdvancedFilters failed: %v", err)
			}

			sql, args, err := q.ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}

			if !strings.Contains(sql, tt.wantFrag) {
				t.Errorf("SQL missing fragment\nwant: %s\ngot:  %s", tt.wantFrag, sql)
			}
			if tt.wantArg != nil && args[len(args)-1] != tt.wantArg {
				t.Errorf("Args mismatch\nwant: %v\ngot:  %v", tt.wantArg, args[len(args)-1])
			}
		})
	}
}

func TestApplyAdvancedFiltersRejectsUnknownColumn(t *testing.T) {
	repo := testRepo()
	scope := tenant.Scope{TenantID: id.New(), IsOrganization: true}

	_, err := repo.applyAdvancedFilters(repo.baseSelect(scope), []filter.Item{
		{Field: "password_hash", Operator: filter.Equal, Value: "x"},
	})
	if err == nil {
		t.Fatal("expected error for non-whitelisted column")
	}
}

func TestBaseSelectCarriesScopePredicate(t *testing.T) {
	repo := testRepo()

	orgScope := tenant.Scope{TenantID: id.New(), IsOrganization: true}
	sql, args, err := repo.baseSelect(orgScope).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if !strings.Contains(sql, "company_user_id = $1") {
		t.Errorf("missing owner predicate: %s", sql)
	}
	if !strings.Contains(sql, "individual_user_id IS NULL") {
		t.Errorf("missing null predicate on other column: %s", sql)
	}
	if len(args) != 1 || args[0] != orgScope.TenantID {
		t.Errorf("unexpected args: %v", args)
	}

	indScope := tenant.Scope{TenantID: id.New()}
	sql, _, err = repo.baseSelect(indScope).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if !strings.Contains(sql, "individual_user_id = $1") || !strings.Contains(sql, "company_user_id IS NULL") {
		t.Errorf("individual scope predicate wrong: %s", sql)
	}
}

func TestParseOrderBy(t *testing.T) {
	repo := testRepo()

	got, err := repo.parseOrderBy("-name")
	if err != nil {
		t.Fatalf("parseOrderBy failed: %v", err)
	}
	if got != "name DESC" {
		t.Errorf("want 'name DESC', got %q", got)
	}

	if _, err := repo.parseOrderBy("evil; DROP TABLE"); err == nil {
		t.Fatal("expected error for non-whitelisted order column")
	}
}
