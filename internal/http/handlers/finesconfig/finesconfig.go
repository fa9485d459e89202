// Package finesconfig binds the fines configuration screen to the generic
// CRUD handlers. A configuration with a damage type prices that damage; one
// without prices a general infraction such as a late return.
package finesconfig

import (
	"context"
	"net/url"
	"strconv"

	"github.com/aanand-mishra/tool-lending-admin/internal/api"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/crud"
	"github.com/aanand-mishra/tool-lending-admin/internal/money"
	"github.com/aanand-mishra/tool-lending-admin/internal/types"
	"github.com/aanand-mishra/tool-lending-admin/internal/validation"
	"github.com/aanand-mishra/tool-lending-admin/internal/view"
)

// Binding describes the fines configuration screen. The damage type
// select is optional; leaving it empty makes a general rule.
func Binding(backend *api.Backend) crud.Binding[types.FinesConfig, types.FinesConfigPayload] {
	return crud.Binding[types.FinesConfig, types.FinesConfigPayload]{
		Resource: "fine-configs",
		Title:    "Fines configuration",
		Noun:     "Fines config",
		Columns:  []string{"Name", "Description", "Damage type", "Amount"},
		Fields: []crud.FieldSpec{
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "description", Label: "Description", Type: "textarea"},
			{Name: "amount", Label: "Amount", Type: "number", Step: "0.01", Required: true},
			{Name: "damage_type_id", Label: "Damage type", Type: "select"},
		},
		Store: backend.FinesConfigs,

		ID:     func(c types.FinesConfig) int64 { return c.ID },
		Active: func(c types.FinesConfig) bool { return c.IsActive },
		Label:  func(c types.FinesConfig) string { return c.Name },
		Cells: func(c types.FinesConfig) []string {
			damage := c.DamageTypeName
			if c.DamageTypeID == nil {
				damage = "General"
			}
			return []string{c.Name, c.Description, damage, money.Format(c.Amount)}
		},
		Values: func(c types.FinesConfig) url.Values {
			v := url.Values{
				"name":        {c.Name},
				"description": {c.Description},
				"amount":      {strconv.FormatFloat(c.Amount, 'f', 2, 64)},
			}
			if c.DamageTypeID != nil {
				v.Set("damage_type_id", strconv.FormatInt(*c.DamageTypeID, 10))
			}
			return v
		},
		Decode: func(v url.Values) (types.FinesConfigPayload, validation.FieldErrors) {
			errs := validation.FieldErrors{}
			p := types.FinesConfigPayload{
				Name:         v.Get("name"),
				Description:  v.Get("description"),
				Amount:       crud.Float(v, "amount", errs),
				DamageTypeID: crud.OptionalInt(v, "damage_type_id", errs),
			}
			return p, errs
		},
		Lookups: func(ctx context.Context) (map[string][]view.Option, error) {
			damageTypes, err := backend.DamageTypes.List(ctx, nil)
			if err != nil {
				return nil, err
			}
			return map[string][]view.Option{
				"damage_type_id": crud.Options(damageTypes,
					func(d types.DamageType) int64 { return d.ID },
					func(d types.DamageType) string { return d.Name },
					func(d types.DamageType) bool { return d.IsActive }),
			}, nil
		},
	}
}
