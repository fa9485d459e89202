// Package role binds the roles screen to the generic CRUD handlers.
package role

import (
	"net/url"

	"github.com/aanand-mishra/tool-lending-admin/internal/api"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/crud"
	"github.com/aanand-mishra/tool-lending-admin/internal/types"
	"github.com/aanand-mishra/tool-lending-admin/internal/validation"
)

// Binding describes the roles screen.
func Binding(backend *api.Backend) crud.Binding[types.Role, types.RolePayload] {
	return crud.Binding[types.Role, types.RolePayload]{
		Resource: "roles",
		Title:    "Roles",
		Noun:     "Role",
		Columns:  []string{"Name", "Description"},
		Fields: []crud.FieldSpec{
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "description", Label: "Description", Type: "textarea"},
		},
		Store: backend.Roles,

		ID:     func(r types.Role) int64 { return r.ID },
		Active: func(r types.Role) bool { return r.IsActive },
		Label:  func(r types.Role) string { return r.Name },
		Cells:  func(r types.Role) []string { return []string{r.Name, r.Description} },
		Values: func(r types.Role) url.Values {
			return url.Values{"name": {r.Name}, "description": {r.Description}}
		},
		Decode: func(v url.Values) (types.RolePayload, validation.FieldErrors) {
			return types.RolePayload{Name: v.Get("name"), Description: v.Get("description")}, nil
		},
	}
}
