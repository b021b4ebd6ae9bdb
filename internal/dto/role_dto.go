package dto

import "cineva.app/movieadmin/internal/model"

// RoleInput carries the full replacement set of operation ids; a role
// must grant at least one operation.
type RoleInput struct {
	Name       string   `json:"name" binding:"required,max=50"`
	Operations []string `json:"operations" binding:"required,min=1,dive,uuid"`
}

// RoleDetails is a role plus the ids of every operation it grants.
type RoleDetails struct {
	*model.Role
	Operations []string `json:"operations"`
}
