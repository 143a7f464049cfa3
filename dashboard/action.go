package dashboard

import (
	"fmt"

	"bitbucket.org/mmdatafocus/dashboard_backend/listing"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
)

// ActionRequest is the wire form of a screen action.
type ActionRequest struct {
	Type     string `json:"type" validate:"required,oneof=set_search select_category select_tab toggle transition clear_filters"`
	Term     string `json:"term"`
	Category string `json:"category"`
	TabId    string `json:"tab_id" validate:"required_if=Type select_tab"`
	Id       string `json:"id" validate:"required_if=Type toggle,required_if=Type transition"`
	Field    string `json:"field" validate:"required_if=Type toggle,required_if=Type transition"`
	Value    string `json:"value" validate:"required_if=Type transition"`
}

// Action validates the request and converts it to a reducer action.
func (r ActionRequest) Action() (listing.Action, error) {
	if err := utils.ValidateStruct(r); err != nil {
		return nil, err
	}
	switch r.Type {
	case "set_search":
		return listing.SetSearch{Term: r.Term}, nil
	case "select_category":
		return listing.SelectCategory{Category: r.Category}, nil
	case "select_tab":
		return listing.SelectTab{TabId: r.TabId}, nil
	case "toggle":
		return listing.Toggle{Id: r.Id, Field: r.Field}, nil
	case "transition":
		return listing.Transition{Id: r.Id, Field: r.Field, Value: r.Value}, nil
	case "clear_filters":
		return listing.ClearFilters{}, nil
	}
	return nil, fmt.Errorf("%w: %s", utils.ErrorUnknownAction, r.Type)
}
