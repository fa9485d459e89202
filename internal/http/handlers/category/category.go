// Package category binds the categories screen to the generic CRUD handlers.
package category

import (
	"net/url"

	"github.com/aanand-mishra/tool-lending-admin/internal/api"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/crud"
	"github.com/aanand-mishra/tool-lending-admin/internal/types"
	"github.com/aanand-mishra/tool-lending-admin/internal/validation"
)

// Binding describes the categories screen.
func Binding(backend *api.Backend) crud.Binding[types.Category, types.CategoryPayload] {
	return crud.Binding[types.Category, types.CategoryPayload]{
		Resource: "categories",
		Title:    "Categories",
		Noun:     "Category",
		Columns:  []string{"Name", "Description"},
		Fields: []crud.FieldSpec{
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "description", Label: "Description", Type: "textarea"},
		},
		Store: backend.Categories,

		ID:     func(c types.Category) int64 { return c.ID },
		Active: func(c types.Category) bool { return c.IsActive },
		Label:  func(c types.Category) string { return c.Name },
		Cells:  func(c types.Category) []string { return []string{c.Name, c.Description} },
		Values: func(c types.Category) url.Values {
			return url.Values{"name": {c.Name}, "description": {c.Description}}
		},
		Decode: func(v url.Values) (types.CategoryPayload, validation.FieldErrors) {
			return types.CategoryPayload{
				Name:        v.Get("name"),
				Description: v.Get("description"),
			}, nil
		},
	}
}
