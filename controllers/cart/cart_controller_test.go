package cartController

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-api/models"
)

func newLine() models.CartItem {
	return models.CartItem{
		ProductID: primitive.NewObjectID(),
		VarietyID: primitive.NewObjectID(),
		OptionID:  primitive.NewObjectID(),
	}
}

func TestCartLineEdits(t *testing.T) {
	a, b := newLine(), newLine()

	cart := addLine(nil, a)
	cart = addLine(cart, a)
	cart = addLine(cart, b)
	require.Len(t, cart, 2)
	assert.Equal(t, 2, quantityOf(cart, a))
	assert.Equal(t, 1, quantityOf(cart, b))

	// same product and variety, different option is a separate line
	c := a
	c.OptionID = primitive.NewObjectID()
	assert.Equal(t, 0, quantityOf(cart, c))

	cart = decrementLine(cart, a)
	assert.Equal(t, 1, quantityOf(cart, a))
	cart = decrementLine(cart, a)
	assert.Equal(t, 0, quantityOf(cart, a))
	assert.Len(t, cart, 1)

	cart = removeLine(cart, b)
	assert.Empty(t, cart)
}

func TestAddLineDoesNotMutateInput(t *testing.T) {
	a := newLine()
	a.Quantity = 1
	cart := []models.CartItem{a}

	_ = addLine(cart, a)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestResolveLinesAndTotals(t *testing.T) {
	product := models.Product{
		ID:        primitive.NewObjectID(),
		Name:      "Canvas Tote",
		StoreName: "Loom",
		Varieties: []models.Variety{{
			ID:      primitive.NewObjectID(),
			Name:    "Olive",
			Images:  []string{"https://cdn/tote.jpg"},
			Options: []models.Option{{ID: primitive.NewObjectID(), Size: "One", Price: 500, Stock: 1}},
		}},
	}
	v := product.Varieties[0]
	cart := []models.CartItem{
		{ProductID: product.ID, VarietyID: v.ID, OptionID: v.Options[0].ID, Quantity: 2},
		{ProductID: primitive.NewObjectID(), VarietyID: primitive.NewObjectID(), OptionID: primitive.NewObjectID(), Quantity: 1},
	}

	lines := resolveLines(cart, map[primitive.ObjectID]models.Product{product.ID: product})
	require.Len(t, lines, 2)
	assert.Equal(t, "Canvas Tote", lines[0].Name)
	assert.Equal(t, "https://cdn/tote.jpg", lines[0].Image)
	assert.False(t, lines[0].Available)
	assert.Empty(t, lines[1].Name)

	total, fee := totals(lines)
	assert.Equal(t, 1000.0, total)
	assert.InDelta(t, 2.0, fee, 1e-9)
}
