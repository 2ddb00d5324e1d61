package server

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/marketpoint/marketpoint"
	"github.com/marketpoint/marketpoint/products"
)

// ProductController exposes the listing endpoints. Reads are public;
// mutations require a session and run through the service's ownership
// checks.
type ProductController struct {
	logger  marketpoint.Logger
	config  marketpoint.Config
	service *products.Service
}

func NewProductController(
	logger marketpoint.Logger,
	config marketpoint.Config,
	service *products.Service,
) *ProductController {
	return &ProductController{
		logger:  logger,
		config:  config,
		service: service,
	}
}

func (p *ProductController) List(c *fiber.Ctx) error {
	records, err := p.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"products": records})
}

func (p *ProductController) Show(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	record, err := p.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"product": record})
}

func (p *ProductController) Create(c *fiber.Ctx) error {
	sellerID, err := SessionUserID(c, p.config.GetContextKey())
	if err != nil {
		return err
	}

	input := products.CreateInput{}
	if err := c.BodyParser(&input); err != nil {
		return badBody(err)
	}

	record, err := p.service.Create(c.UserContext(), sellerID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created",
		"product": record,
	})
}

func (p *ProductController) Update(c *fiber.Ctx) error {
	sellerID, err := SessionUserID(c, p.config.GetContextKey())
	if err != nil {
		return err
	}

	id, err := productID(c)
	if err != nil {
		return err
	}

	input := products.UpdateInput{}
	if err := c.BodyParser(&input); err != nil {
		return badBody(err)
	}

	record, err := p.service.Update(c.UserContext(), sellerID, id, input)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Product updated",
		"product": record,
	})
}

func (p *ProductController) Delete(c *fiber.Ctx) error {
	sellerID, err := SessionUserID(c, p.config.GetContextKey())
	if err != nil {
		return err
	}

	id, err := productID(c)
	if err != nil {
		return err
	}

	if err := p.service.Delete(c.UserContext(), sellerID, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Product deleted",
	})
}

func productID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryNotFound, products.ErrProductNotFound.Message).
			WithCode(goerrors.CodeNotFound)
	}
	return id, nil
}
