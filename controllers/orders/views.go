package controllers

import (
	"marketplace-api/lifecycle"
	"marketplace-api/models"
)

// ItemView adds the actions the viewer may take next, so clients do not
// re-derive lifecycle gating.
type ItemView struct {
	models.OrderItem
	Actions []lifecycle.Action `json:"actions"`
}

type OrderView struct {
	models.Order
	Items []ItemView `json:"items"`
}

func buyerView(o models.Order) OrderView {
	return view(o, lifecycle.BuyerActions)
}

func sellerView(o models.Order) OrderView {
	return view(o, lifecycle.SellerActions)
}

func view(o models.Order, offered func(models.OrderItem) []lifecycle.Action) OrderView {
	items := make([]ItemView, 0, len(o.Items))
	for _, it := range o.Items {
		actions := offered(it)
		if actions == nil {
			actions = []lifecycle.Action{}
		}
		items = append(items, ItemView{OrderItem: it, Actions: actions})
	}
	return OrderView{Order: o, Items: items}
}
