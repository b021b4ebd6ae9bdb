package dto

import "cineva.app/movieadmin/internal/model"

// OperationGroup is a catalog heading with its ordered leaf operations.
type OperationGroup struct {
	*model.Operation
	Operations []model.Operation `json:"operations"`
}

// UserOperations drives client menu visibility: the flat set of granted
// leaf slugs plus the heading slugs that still have at least one
// visible leaf.
type UserOperations struct {
	Operations []string `json:"operations"`
	Menu       []string `json:"menu"`
}
