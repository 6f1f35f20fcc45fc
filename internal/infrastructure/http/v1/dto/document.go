package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"faturah/internal/core/apperror"
	"faturah/internal/core/entity"
	"faturah/internal/core/id"
	"faturah/internal/core/tenant"
	"faturah/internal/domain/documents"
)

// --- Lines ---

// LineRequest is one priced row of a create/update request.
// Derived amounts are never accepted from the client; the server
// recalculates them from the four inputs.
type LineRequest struct {
	ProductID       *string          `json:"productId"`
	Description     string           `json:"description"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unitPrice"`
	DiscountPercent decimal.Decimal  `json:"discountPercent"`
	VATPercent      *decimal.Decimal `json:"vatPercent"`
}

func (r LineRequest) toLine() (documents.LineItem, error) {
	line := documents.LineItem{
		Description:     r.Description,
		Quantity:        r.Quantity,
		UnitPrice:       r.UnitPrice,
		DiscountPercent: r.DiscountPercent,
		VATPercent:      documents.DefaultVATPercent,
	}
	if r.VATPercent != nil {
		line.VATPercent = *r.VATPercent
	}
	if r.ProductID != nil {
		productID, err := id.Parse(*r.ProductID)
		if err != nil {
			return documents.LineItem{}, err
		}
		line.ProductID = &productID
	}
	return line, nil
}

// LineResponse is one priced row of a document response.
type LineResponse struct {
	LineID          string          `json:"lineId"`
	LineNo          int             `json:"lineNo"`
	ProductID       *string         `json:"productId,omitempty"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	VATPercent      decimal.Decimal `json:"vatPercent"`
	VATValue        decimal.Decimal `json:"vatValue"`
	Amount          decimal.Decimal `json:"amount"`
}

func fromLine(l documents.LineItem) LineResponse {
	resp := LineResponse{
		LineID:          l.LineID.String(),
		LineNo:          l.LineNo,
		Description:     l.Description,
		Quantity:        l.Quantity,
		UnitPrice:       l.UnitPrice,
		DiscountPercent: l.DiscountPercent,
		VATPercent:      l.VATPercent,
		VATValue:        l.VATValue,
		Amount:          l.Amount,
	}
	if l.ProductID != nil {
		s := l.ProductID.String()
		resp.ProductID = &s
	}
	return resp
}

// --- Documents ---

// DocumentResponse contains document fields including derived totals.
type DocumentResponse struct {
	ID          string    `json:"id"`
	Version     int       `json:"version"`
	Kind        string    `json:"kind"`
	ReferenceID string    `json:"referenceId"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	CustomerID  *string   `json:"customerId,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
	VATPercent      *decimal.Decimal `json:"vatPercent,omitempty"`

	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	VATAmount   decimal.Decimal `json:"vatAmount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`

	Lines []LineResponse `json:"lines"`
}

// FromDocument creates DocumentResponse from the domain entity.
func FromDocument(d *documents.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:              d.ID.String(),
		Version:         d.Version,
		Kind:            string(d.Kind),
		ReferenceID:     d.ReferenceID,
		Date:            d.Date,
		Status:          string(d.Status),
		Comment:         d.Comment,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		DiscountPercent: d.DiscountPercent,
		VATPercent:      d.VATPercent,
		Subtotal:        d.Subtotal,
		Discount:        d.Discount,
		VATAmount:       d.VATAmount,
		TotalAmount:     d.TotalAmount,
		Lines:           make([]LineResponse, len(d.Lines)),
	}
	if d.CustomerID != nil {
		s := d.CustomerID.String()
		resp.CustomerID = &s
	}
	for i, line := range d.Lines {
		resp.Lines[i] = fromLine(line)
	}
	return resp
}

// CreateDocumentRequest for creating documents. The reference is
// assigned by the server and never accepted from the client.
type CreateDocumentRequest struct {
	Date            *time.Time       `json:"date"`
	CustomerID      *string          `json:"customerId"`
	Comment         string           `json:"comment"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	VATPercent      *decimal.Decimal `json:"vatPercent"`
	Lines           []LineRequest    `json:"lines" binding:"required,min=1"`
}

// ToEntity maps the request to a domain document of the given kind.
func (r CreateDocumentRequest) ToEntity(scope tenant.Scope, kind documents.Kind) (*documents.Document, error) {
	doc := documents.New(scope, kind)
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.Comment = r.Comment
	doc.DiscountPercent = r.DiscountPercent
	doc.VATPercent = r.VATPercent
	if r.CustomerID != nil {
		customerID, err := id.Parse(*r.CustomerID)
		if err != nil {
			return nil, err
		}
		doc.CustomerID = &customerID
	}
	for _, lr := range r.Lines {
		line, err := lr.toLine()
		if err != nil {
			return nil, err
		}
		doc.AddLine(line)
	}
	return doc, nil
}

// UpdateDocumentRequest for updating documents. Kind and reference are
// immutable; the line set is replaced wholesale.
type UpdateDocumentRequest struct {
	Date            *time.Time       `json:"date"`
	Status          *string          `json:"status" binding:"omitempty,oneof=draft issued"`
	CustomerID      *string          `json:"customerId"`
	Comment         *string          `json:"comment"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	VATPercent      *decimal.Decimal `json:"vatPercent"`
	Lines           []LineRequest    `json:"lines" binding:"required,min=1"`
	Version         int              `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update onto the existing document.
func (r UpdateDocumentRequest) ApplyTo(doc *documents.Document) error {
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Status != nil {
		status := entity.Status(*r.Status)
		if !status.Valid() {
			return apperror.NewFieldValidation("status", fmt.Sprintf("unknown status: %s", *r.Status))
		}
		doc.Status = status
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}
	doc.DiscountPercent = r.DiscountPercent
	doc.VATPercent = r.VATPercent
	if r.CustomerID != nil {
		customerID, err := id.Parse(*r.CustomerID)
		if err != nil {
			return err
		}
		doc.CustomerID = &customerID
	}

	doc.Lines = doc.Lines[:0]
	for _, lr := range r.Lines {
		line, err := lr.toLine()
		if err != nil {
			return err
		}
		doc.AddLine(line)
	}
	doc.Version = r.Version
	return nil
}

// SetNextReferenceRequest moves the sequence pointer for one kind.
type SetNextReferenceRequest struct {
	Next int64 `json:"next" binding:"required,min=1"`
}
