package controller

import (
	"strconv"

	"b2b-catalog-be/internal/dto"
	"b2b-catalog-be/internal/pkg/serverutils"
	"b2b-catalog-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProductController interface {
	RegisterRoutes(r fiber.Router)
	Upsert(ctx *fiber.Ctx) error
	Ingest(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Options(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type productController struct {
	productService service.IProductService
}

func NewProductController(productService service.IProductService) IProductController {
	return &productController{
		productService: productService,
	}
}

func (c *productController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/product/v1")
	h.Get("options", c.Options)
	h.Post("ingest", c.Ingest)
	h.Post("", c.Upsert)
	h.Get(":code", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *productController) Upsert(ctx *fiber.Ctx) error {
	var req dto.UpsertProductRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.productService.Upsert(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upsert product", res))
}

func (c *productController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestCatalogRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.productService.IngestCatalog(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest catalog", res))
}

func (c *productController) Show(ctx *fiber.Ctx) error {
	code := ctx.Params("code")

	res, err := c.productService.ShowByCode(ctx.Context(), code)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show product", res))
}

func (c *productController) Options(ctx *fiber.Ctx) error {
	category := ctx.Query("category")

	var diameter *float64
	if raw := ctx.Query("diameter_mm"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid diameter_mm")
		}
		diameter = &v
	}

	res, err := c.productService.AvailableOptions(ctx.Context(), category, diameter)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list options", res))
}

func (c *productController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
	}

	if err := c.productService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete product", nil))
}
