package document_repo

import "testing"

func TestParseOrderBy(t *testing.T) {
	repo := NewDocumentRepo(nil)

	got, err := repo.parseOrderBy("-date")
	if err != nil {
		t.Fatalf("parseOrderBy failed: %v", err)
	}
	if got != "date DESC" {
		t.Errorf("want 'date DESC', got %q", got)
	}

	got, err = repo.parseOrderBy("reference_id")
	if err != nil {
		t.Fatalf("parseOrderBy failed: %v", err)
	}
	if got != "reference_id ASC" {
		t.Errorf("want 'reference_id ASC', got %q", got)
	}
}

func TestParseOrderByRejectsNonColumns(t *testing.T) {
	repo := NewDocumentRepo(nil)

	for _, bad := range []string{
		"(SELECT CASE WHEN (SELECT true) THEN date END); --",
		"date; DROP TABLE documents",
		"date DESC",
		"password_hash",
	} {
		if _, err := repo.parseOrderBy(bad); err == nil {
			t.Errorf("expected error for order clause %q", bad)
		}
	}
}
