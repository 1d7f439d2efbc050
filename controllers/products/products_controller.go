package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-api/middlewares"
	"marketplace-api/models"
	"marketplace-api/repository"
	"marketplace-api/responses"
)

const suggestionLimit = 8

type ProductController struct {
	products *repository.ProductRepository
	stores   *repository.StoreRepository
}

func NewProductController(products *repository.ProductRepository, stores *repository.StoreRepository) *ProductController {
	return &ProductController{products: products, stores: stores}
}

// ProductView exposes the computed average rating.
type ProductView struct {
	models.Product
	AverageRating float64 `json:"averageRating"`
}

func views(products []models.Product) []ProductView {
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, ProductView{Product: p, AverageRating: p.AverageRating()})
	}
	return out
}

func pageFromQuery(c *fiber.Ctx) repository.Page {
	return repository.NewPage(int64(c.QueryInt("page", 1)), int64(c.QueryInt("limit", 10)))
}

func (h *ProductController) GetAllProducts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	page := pageFromQuery(c)
	products, total, err := h.products.List(ctx, page)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching products")
	}

	return responses.Send(c, fiber.StatusOK, "Fetched Products", responses.Paged{
		Items:       views(products),
		CurrentPage: page.Page,
		TotalPages:  page.TotalPages(total),
		TotalItems:  total,
	})
}

func (h *ProductController) SearchProducts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	page := pageFromQuery(c)
	products, total, err := h.products.Search(ctx, strings.TrimSpace(c.Query("name")), page)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error in fetching products")
	}
	if total == 0 {
		return responses.Error(c, fiber.StatusNotFound, "No products found")
	}

	return responses.Send(c, fiber.StatusOK, "Products found", responses.Paged{
		Items:       views(products),
		CurrentPage: page.Page,
		TotalPages:  page.TotalPages(total),
		TotalItems:  total,
	})
}

func (h *ProductController) GetSuggestions(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return responses.Send(c, fiber.StatusOK, "Suggestions fetched", fiber.Map{"suggestions": []string{}})
	}

	names, err := h.products.Suggest(ctx, q, suggestionLimit)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching suggestions")
	}
	return responses.Send(c, fiber.StatusOK, "Suggestions fetched", fiber.Map{"suggestions": names})
}

func (h *ProductController) ListSellerProducts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	page := pageFromQuery(c)
	products, total, err := h.products.ListBySeller(ctx, middlewares.UserID(c), page)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching products")
	}

	return responses.Send(c, fiber.StatusOK, "Fetched Products", responses.Paged{
		Items:       views(products),
		CurrentPage: page.Page,
		TotalPages:  page.TotalPages(total),
		TotalItems:  total,
	})
}

type productRequest struct {
	Name        string           `json:"name"`
	Brand       string           `json:"brand"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Varieties   []models.Variety `json:"varieties"`
}

func (r *productRequest) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "Product name is required"
	}
	if len(r.Varieties) == 0 {
		return "At least one variety is required"
	}
	for _, v := range r.Varieties {
		if len(v.Options) == 0 {
			return "Every variety needs at least one option"
		}
		for _, o := range v.Options {
			if o.Price <= 0 {
				return "Option price must be positive"
			}
			if o.Stock < 0 {
				return "Option stock cannot be negative"
			}
		}
	}
	return ""
}

func (r productRequest) product(id, sellerID primitive.ObjectID) models.Product {
	return models.Product{
		ID:          id,
		SellerID:    sellerID,
		Name:        r.Name,
		Brand:       strings.TrimSpace(r.Brand),
		Description: r.Description,
		Category:    strings.TrimSpace(r.Category),
		Varieties:   r.Varieties,
	}
}

func (h *ProductController) AddProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var reqBody productRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Error parsing product data")
	}
	if msg := reqBody.validate(); msg != "" {
		return responses.Error(c, fiber.StatusBadRequest, msg)
	}

	sellerID := middlewares.UserID(c)
	store, err := h.stores.Get(ctx, sellerID)
	if errors.Is(err, repository.ErrNotFound) {
		return responses.Error(c, fiber.StatusBadRequest, "Create your store profile before adding products")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching store")
	}

	product := reqBody.product(primitive.NilObjectID, sellerID)
	product.StoreName = store.Name
	if err := h.products.Insert(ctx, &product); err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error inserting product")
	}

	return responses.Send(c, fiber.StatusCreated, "Product added successfully", fiber.Map{"product": product})
}

func (h *ProductController) UpdateProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	productID, err := primitive.ObjectIDFromHex(c.Params("productId"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid product ID format")
	}

	var reqBody productRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Error parsing product data")
	}
	if msg := reqBody.validate(); msg != "" {
		return responses.Error(c, fiber.StatusBadRequest, msg)
	}

	product := reqBody.product(productID, middlewares.UserID(c))
	err = h.products.UpdateOwned(ctx, &product)
	if errors.Is(err, repository.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error updating product")
	}

	return responses.Send(c, fiber.StatusOK, "Product updated successfully", fiber.Map{"product": product})
}

func (h *ProductController) DeleteProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	productID, err := primitive.ObjectIDFromHex(c.Params("productId"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid product ID format")
	}

	err = h.products.DeleteOwned(ctx, productID, middlewares.UserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error deleting product")
	}

	return responses.Send(c, fiber.StatusOK, "Product deleted successfully", nil)
}
