// Package user binds the users screen to the generic CRUD handlers.
package user

import (
	"context"
	"net/url"
	"strconv"

	"github.com/aanand-mishra/tool-lending-admin/internal/api"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/crud"
	"github.com/aanand-mishra/tool-lending-admin/internal/types"
	"github.com/aanand-mishra/tool-lending-admin/internal/validation"
	"github.com/aanand-mishra/tool-lending-admin/internal/view"
)

// Binding describes the users screen. The password is required on
// create only.
func Binding(backend *api.Backend) crud.Binding[types.User, types.UserPayload] {
	return crud.Binding[types.User, types.UserPayload]{
		Resource: "users",
		Title:    "Users",
		Noun:     "User",
		Columns:  []string{"Name", "Document", "Email", "Phone", "Role"},
		Fields: []crud.FieldSpec{
			{Name: "first_name", Label: "First name", Type: "text", Required: true},
			{Name: "last_name", Label: "Last name", Type: "text", Required: true},
			{Name: "document_number", Label: "Document number", Type: "text", Required: true},
			{Name: "email", Label: "Email", Type: "email", Required: true},
			{Name: "phone", Label: "Phone", Type: "tel"},
			{Name: "role_id", Label: "Role", Type: "select", Required: true},
			{Name: "password", Label: "Password", Type: "password", Required: true},
		},
		Store: backend.Users,

		ID:     func(u types.User) int64 { return u.ID },
		Active: func(u types.User) bool { return u.IsActive },
		Label:  func(u types.User) string { return u.FullName() },
		Cells: func(u types.User) []string {
			return []string{u.FullName(), u.DocumentNumber, u.Email, u.Phone, u.RoleName}
		},
		Values: func(u types.User) url.Values {
			return url.Values{
				"first_name":      {u.FirstName},
				"last_name":       {u.LastName},
				"document_number": {u.DocumentNumber},
				"email":           {u.Email},
				"phone":           {u.Phone},
				"role_id":         {strconv.FormatInt(u.RoleID, 10)},
			}
		},
		Decode:      decode,
		CreateRules: requirePassword,
		Lookups: func(ctx context.Context) (map[string][]view.Option, error) {
			roles, err := backend.Roles.List(ctx, nil)
			if err != nil {
				return nil, err
			}
			return map[string][]view.Option{
				"role_id": crud.Options(roles,
					func(r types.Role) int64 { return r.ID },
					func(r types.Role) string { return r.Name },
					func(r types.Role) bool { return r.IsActive }),
			}, nil
		},
	}
}

func decode(v url.Values) (types.UserPayload, validation.FieldErrors) {
	errs := validation.FieldErrors{}
	p := types.UserPayload{
		RoleID:         crud.Int(v, "role_id", errs),
		FirstName:      v.Get("first_name"),
		LastName:       v.Get("last_name"),
		Email:          v.Get("email"),
		Phone:          v.Get("phone"),
		DocumentNumber: v.Get("document_number"),
		Password:       v.Get("password"),
	}
	return p, errs
}

// requirePassword applies on create only; an empty password on update
// keeps the stored one.
func requirePassword(p types.UserPayload) validation.FieldErrors {
	if p.Password == "" {
		return validation.FieldErrors{"password": "is required"}
	}
	return nil
}
