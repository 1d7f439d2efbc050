package cartController

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-api/middlewares"
	"marketplace-api/models"
	"marketplace-api/repository"
	"marketplace-api/responses"
)

// platformFeeRate is applied to the cart subtotal.
const platformFeeRate = 0.002

type CartController struct {
	users    *repository.UserRepository
	products *repository.ProductRepository
}

func NewCartController(users *repository.UserRepository, products *repository.ProductRepository) *CartController {
	return &CartController{users: users, products: products}
}

type cartLineRequest struct {
	ProductID string `json:"productId"`
	VarietyID string `json:"varietyId"`
	OptionID  string `json:"optionId"`
}

func (r cartLineRequest) line() (models.CartItem, bool) {
	p, err1 := primitive.ObjectIDFromHex(r.ProductID)
	v, err2 := primitive.ObjectIDFromHex(r.VarietyID)
	o, err3 := primitive.ObjectIDFromHex(r.OptionID)
	if err1 != nil || err2 != nil || err3 != nil {
		return models.CartItem{}, false
	}
	return models.CartItem{ProductID: p, VarietyID: v, OptionID: o}, true
}

// CartLine is a cart entry resolved against the catalog for display.
type CartLine struct {
	models.CartItem
	Name      string  `json:"name"`
	Variety   string  `json:"variety"`
	Size      string  `json:"size"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	StoreName string  `json:"storeName"`
	Available bool    `json:"available"`
}

func (h *CartController) AddToCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var request cartLineRequest
	if err := c.BodyParser(&request); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request")
	}
	line, ok := request.line()
	if !ok {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid product, variety or option Id")
	}

	product, err := h.products.FindByID(ctx, line.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching product details")
	}
	_, option, ok := product.Lookup(line.VarietyID, line.OptionID)
	if !ok {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid variety or option for this product")
	}

	user, err := h.users.FindByID(ctx, middlewares.UserID(c))
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "User not found")
	}

	cart := addLine(user.Cart, line)
	if quantityOf(cart, line) > option.Stock {
		return responses.Error(c, fiber.StatusBadRequest, "Not enough stock")
	}
	if err := h.users.SetCart(ctx, user.Id, cart); err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Failed to update cart")
	}

	return responses.Send(c, fiber.StatusOK, "Product added to cart", fiber.Map{"cartCount": len(cart)})
}

func (h *CartController) DecrementFromCart(c *fiber.Ctx) error {
	return h.shrink(c, decrementLine, "Successfully removed 1 item from cart")
}

func (h *CartController) RemoveFromCart(c *fiber.Ctx) error {
	return h.shrink(c, removeLine, "Product removed from cart")
}

func (h *CartController) shrink(c *fiber.Ctx, apply func([]models.CartItem, models.CartItem) []models.CartItem, message string) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var request cartLineRequest
	if err := c.BodyParser(&request); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request")
	}
	line, ok := request.line()
	if !ok {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid product, variety or option Id")
	}

	user, err := h.users.FindByID(ctx, middlewares.UserID(c))
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "User not found")
	}
	if quantityOf(user.Cart, line) == 0 {
		return responses.Error(c, fiber.StatusNotFound, "Product is not in the cart")
	}

	cart := apply(user.Cart, line)
	if err := h.users.SetCart(ctx, user.Id, cart); err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Failed to update cart")
	}

	return responses.Send(c, fiber.StatusOK, message, fiber.Map{"cartCount": len(cart)})
}

func (h *CartController) GetAllCarts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	page := repository.NewPage(int64(c.QueryInt("page", 1)), int64(c.QueryInt("limit", 10)))

	lines, err := h.resolve(ctx, middlewares.UserID(c))
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching cart")
	}

	total := int64(len(lines))
	start := (page.Page - 1) * page.Limit
	end := start + page.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return responses.Send(c, fiber.StatusOK, "Successfully fetched cart items", responses.Paged{
		Items:       lines[start:end],
		CurrentPage: page.Page,
		TotalPages:  page.TotalPages(total),
		TotalItems:  total,
	})
}

func (h *CartController) GetCartTotals(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	lines, err := h.resolve(ctx, middlewares.UserID(c))
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching cart")
	}

	totalPrice, platformFee := totals(lines)
	return responses.Send(c, fiber.StatusOK, "Successfully calculated cart totals", fiber.Map{
		"totalPrice":  totalPrice,
		"platformFee": platformFee,
		"grandTotal":  totalPrice + platformFee,
	})
}

func (h *CartController) resolve(ctx context.Context, userID primitive.ObjectID) ([]CartLine, error) {
	user, err := h.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Cart) == 0 {
		return []CartLine{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(user.Cart))
	for _, it := range user.Cart {
		ids = append(ids, it.ProductID)
	}
	products, err := h.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return resolveLines(user.Cart, products), nil
}

func resolveLines(cart []models.CartItem, products map[primitive.ObjectID]models.Product) []CartLine {
	lines := make([]CartLine, 0, len(cart))
	for _, it := range cart {
		line := CartLine{CartItem: it}
		if p, ok := products[it.ProductID]; ok {
			if v, o, ok := p.Lookup(it.VarietyID, it.OptionID); ok {
				line.Name = p.Name
				line.StoreName = p.StoreName
				line.Variety = v.Name
				line.Size = o.Size
				line.Price = o.Price
				line.Available = o.Stock >= it.Quantity
				if len(v.Images) > 0 {
					line.Image = v.Images[0]
				}
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// totals skips lines whose product or option no longer exists.
func totals(lines []CartLine) (totalPrice, platformFee float64) {
	for _, l := range lines {
		if l.Name == "" {
			continue
		}
		totalPrice += l.Price * float64(l.Quantity)
	}
	return totalPrice, totalPrice * platformFeeRate
}

func sameLine(a, b models.CartItem) bool {
	return a.ProductID == b.ProductID && a.VarietyID == b.VarietyID && a.OptionID == b.OptionID
}

func quantityOf(cart []models.CartItem, line models.CartItem) int {
	for _, it := range cart {
		if sameLine(it, line) {
			return it.Quantity
		}
	}
	return 0
}

func addLine(cart []models.CartItem, line models.CartItem) []models.CartItem {
	out := append([]models.CartItem(nil), cart...)
	for i := range out {
		if sameLine(out[i], line) {
			out[i].Quantity++
			return out
		}
	}
	line.Quantity = 1
	return append(out, line)
}

func decrementLine(cart []models.CartItem, line models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(cart))
	for _, it := range cart {
		if sameLine(it, line) {
			if it.Quantity <= 1 {
				continue
			}
			it.Quantity--
		}
		out = append(out, it)
	}
	return out
}

func removeLine(cart []models.CartItem, line models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(cart))
	for _, it := range cart {
		if !sameLine(it, line) {
			out = append(out, it)
		}
	}
	return out
}
