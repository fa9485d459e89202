// Package subcategory binds the subcategories screen to the generic CRUD
// handlers. The category select offers active categories, plus the
// current one on an edit form.
package subcategory

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

// Binding describes the subcategories screen.
func Binding(backend *api.Backend) crud.Binding[types.Subcategory, types.SubcategoryPayload] {
	return crud.Binding[types.Subcategory, types.SubcategoryPayload]{
		Resource: "subcategories",
		Title:    "Subcategories",
		Noun:     "Subcategory",
		Columns:  []string{"Category", "Name", "Description"},
		Fields: []crud.FieldSpec{
			{Name: "category_id", Label: "Category", Type: "select", Required: true},
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "description", Label: "Description", Type: "textarea"},
		},
		Store: backend.Subcategories,

		ID:     func(s types.Subcategory) int64 { return s.ID },
		Active: func(s types.Subcategory) bool { return s.IsActive },
		Label:  func(s types.Subcategory) string { return s.Name },
		Cells: func(s types.Subcategory) []string {
			return []string{s.CategoryName, s.Name, s.Description}
		},
		Values: func(s types.Subcategory) url.Values {
			return url.Values{
				"category_id": {strconv.FormatInt(s.CategoryID, 10)},
				"name":        {s.Name},
				"description": {s.Description},
			}
		},
		Decode: func(v url.Values) (types.SubcategoryPayload, validation.FieldErrors) {
			errs := validation.FieldErrors{}
			p := types.SubcategoryPayload{
				CategoryID:  crud.Int(v, "category_id", errs),
				Name:        v.Get("name"),
				Description: v.Get("description"),
			}
			return p, errs
		},
		Lookups: func(ctx context.Context) (map[string][]view.Option, error) {
			categories, err := backend.Categories.List(ctx, nil)
			if err != nil {
				return nil, err
			}
			return map[string][]view.Option{
				"category_id": crud.Options(categories,
					func(c types.Category) int64 { return c.ID },
					func(c types.Category) string { return c.Name },
					func(c types.Category) bool { return c.IsActive }),
			}, nil
		},
	}
}
