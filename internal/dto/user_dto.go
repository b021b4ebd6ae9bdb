package dto

import "cineva.app/movieadmin/internal/model"

type AddUserInput struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	RoleID    string `json:"role_id" binding:"required,uuid"`
}

type AdminUpdateUserInput struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	RoleID    string `json:"role_id" binding:"required,uuid"`
}

// UserListItem is a user row with their resolved role.
type UserListItem struct {
	ID        string      `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Role      *model.Role `json:"role"`
}
