package entity

import (
	"context"
	"time"

	"faturah/internal/core/apperror"
	"faturah/internal/core/id"
	"faturah/internal/core/tenant"
)

// Status represents the document lifecycle state.
// Documents are created as draft and stay mutable until hard-deleted;
// there is no soft delete or versioned history.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusIssued Status = "issued"
)

// Valid reports whether s is one of the known document statuses.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusIssued
}

// Document is the base type for sales documents
// (Quotation, ProformaInvoice, Invoice).
type Document struct {
	BaseDocument

	// ReferenceID is the tenant-scoped human-readable reference
	// (e.g. QUO00007). Assigned once at creation, immutable thereafter.
	ReferenceID string `db:"reference_id" json:"referenceId"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Status is the lifecycle state
	Status Status `db:"status" json:"status"`

	// Ownership: exactly one of the two is set, never both, never neither.
	CompanyUserID    *id.ID `db:"company_user_id" json:"companyUserId,omitempty"`
	IndividualUserID *id.ID `db:"individual_user_id" json:"individualUserId,omitempty"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new draft Document owned by the given scope.
func NewDocument(scope tenant.Scope) Document {
	d := Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
		Status:       StatusDraft,
	}
	d.SetOwner(scope)
	return d
}

// SetOwner stamps the ownership columns from the resolved scope.
// The inactive column is cleared so a row can never carry both owners.
func (d *Document) SetOwner(scope tenant.Scope) {
	tid := scope.TenantID
	if scope.IsOrganization {
		d.CompanyUserID = &tid
		d.IndividualUserID = nil
	} else {
		d.IndividualUserID = &tid
		d.CompanyUserID = nil
	}
}

// Owner returns the scope that owns this document.
func (d *Document) Owner() (tenant.Scope, error) {
	switch {
	case d.CompanyUserID != nil && d.IndividualUserID != nil:
		return tenant.Scope{}, apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"document has both ownership columns set",
		).WithDetail("document_id", d.ID.String())
	case d.CompanyUserID != nil:
		return tenant.Scope{TenantID: *d.CompanyUserID, IsOrganization: true}, nil
	case d.IndividualUserID != nil:
		return tenant.Scope{TenantID: *d.IndividualUserID, IsOrganization: false}, nil
	default:
		return tenant.Scope{}, apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"document has no owner",
		).WithDetail("document_id", d.ID.String())
	}
}

// OwnedBy reports whether the document belongs to the given scope.
func (d *Document) OwnedBy(scope tenant.Scope) bool {
	owner, err := d.Owner()
	if err != nil {
		return false
	}
	return owner == scope
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if _, err := d.Owner(); err != nil {
		return err
	}

	if d.Date.IsZero() {
		return apperror.NewFieldValidation("date", "date is required")
	}

	return nil
}
