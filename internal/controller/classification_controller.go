package controller

import (
	"dermoscan-be/internal/dto"
	"dermoscan-be/internal/pkg/serverutils"
	"dermoscan-be/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

type IClassificationController interface {
	RegisterRoutes(r fiber.Router)
}

type classificationController struct {
	navigator workflow.INavigator
}

func NewClassificationController(navigator workflow.INavigator) IClassificationController {
	return &classificationController{navigator: navigator}
}

func (c *classificationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/classification", serverutils.SessionMiddleware)
	h.Post("/select-image", c.SelectImage)
	h.Post("/submit", c.Submit)
	h.Post("/cancel", c.Cancel)
}

func (c *classificationController) SelectImage(ctx *fiber.Ctx) error {
	var req dto.SelectImageRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.navigator.SelectImage(serverutils.SessionID(ctx), *req.Index)
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

// Submit runs the classification. This is the one long call in the system:
// the client is expected to show a busy indicator until it returns.
func (c *classificationController) Submit(ctx *fiber.Ctx) error {
	res, err := c.navigator.Classify(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

func (c *classificationController) Cancel(ctx *fiber.Ctx) error {
	res, err := c.navigator.Cancel(serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}
