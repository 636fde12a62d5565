package controller

import (
	"dermoscan-be/internal/dto"
	"dermoscan-be/internal/pkg/serverutils"
	"dermoscan-be/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

type IPatientController interface {
	RegisterRoutes(r fiber.Router)
}

type patientController struct {
	navigator workflow.INavigator
}

func NewPatientController(navigator workflow.INavigator) IPatientController {
	return &patientController{navigator: navigator}
}

func (c *patientController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/patients", serverutils.SessionMiddleware)
	h.Post("/refresh", c.Refresh)
	h.Post("/search", c.Search)
	h.Post("/select", c.Select)

	r.Get("/views/current", serverutils.SessionMiddleware, c.CurrentView)
}

func (c *patientController) Refresh(ctx *fiber.Ctx) error {
	res, err := c.navigator.RefreshPatients(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

func (c *patientController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.navigator.SearchPatients(serverutils.SessionID(ctx), req.Column, req.Query)
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

func (c *patientController) Select(ctx *fiber.Ctx) error {
	var req dto.SelectPatientRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.navigator.SelectPatient(ctx.Context(), serverutils.SessionID(ctx), req.RefID, req.PatientID)
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

func (c *patientController) CurrentView(ctx *fiber.Ctx) error {
	res, err := c.navigator.CurrentView(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}
