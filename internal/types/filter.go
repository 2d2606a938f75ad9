package types

import (
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/samber/lo"
)

const (
	FILTER_DEFAULT_LIMIT = 50

	OrderDesc = "desc"
	OrderAsc  = "asc"
)

// QueryFilter represents a generic query filter with optional fields
type QueryFilter struct {
	Limit  *int    `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int    `json:"offset,omitempty" form:"offset" validate:"omitempty,min=0"`
	Order  *string `json:"order,omitempty" form:"order" validate:"omitempty,oneof=asc desc"`
}

// NewDefaultQueryFilter defines default values for query filters
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(FILTER_DEFAULT_LIMIT),
		Offset: lo.ToPtr(0),
		Order:  lo.ToPtr(OrderDesc),
	}
}

// GetLimit returns the limit value or default if not set
func (f QueryFilter) GetLimit() int {
	if f.Limit == nil {
		return FILTER_DEFAULT_LIMIT
	}
	return *f.Limit
}

// GetOffset returns the offset value or default if not set
func (f QueryFilter) GetOffset() int {
	if f.Offset == nil {
		return 0
	}
	return *f.Offset
}

// GetOrder returns the order value or default if not set
func (f QueryFilter) GetOrder() string {
	if f.Order == nil {
		return OrderDesc
	}
	return *f.Order
}

func (f QueryFilter) Validate() error {
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > 1000) {
		return ierr.NewError("limit out of range").
			WithHint("Limit must be between 1 and 1000").
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("offset must not be negative").
			WithHint("Offset must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AuditFilter filters audit listings
type AuditFilter struct {
	*QueryFilter

	Status     *AuditStatus `json:"status,omitempty" form:"status"`
	IsTemplate *bool        `json:"is_template,omitempty" form:"is_template"`
	CreatedBy  *string      `json:"created_by,omitempty" form:"created_by"`
	AssignedTo *string      `json:"assigned_to,omitempty" form:"assigned_to"`
}

// NewAuditFilter creates a new audit filter with default options
func NewAuditFilter() *AuditFilter {
	return &AuditFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *AuditFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.Status != nil {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	return nil
}
