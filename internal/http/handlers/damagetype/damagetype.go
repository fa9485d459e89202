// Package damagetype binds the damage types screen to the generic CRUD
// handlers. Damage types are referenced by fines configurations.
package damagetype

import (
	"net/url"

	"github.com/aanand-mishra/tool-lending-admin/internal/api"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/crud"
	"github.com/aanand-mishra/tool-lending-admin/internal/types"
	"github.com/aanand-mishra/tool-lending-admin/internal/validation"
)

// Binding describes the damage types screen.
func Binding(backend *api.Backend) crud.Binding[types.DamageType, types.DamageTypePayload] {
	return crud.Binding[types.DamageType, types.DamageTypePayload]{
		Resource: "damage-types",
		Title:    "Damage types",
		Noun:     "Damage type",
		Columns:  []string{"Name", "Description"},
		Fields: []crud.FieldSpec{
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "description", Label: "Description", Type: "textarea"},
		},
		Store: backend.DamageTypes,

		ID:     func(d types.DamageType) int64 { return d.ID },
		Active: func(d types.DamageType) bool { return d.IsActive },
		Label:  func(d types.DamageType) string { return d.Name },
		Cells:  func(d types.DamageType) []string { return []string{d.Name, d.Description} },
		Values: func(d types.DamageType) url.Values {
			return url.Values{"name": {d.Name}, "description": {d.Description}}
		},
		Decode: func(v url.Values) (types.DamageTypePayload, validation.FieldErrors) {
			return types.DamageTypePayload{Name: v.Get("name"), Description: v.Get("description")}, nil
		},
	}
}
