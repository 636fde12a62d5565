package controller

import (
	"dermoscan-be/internal/dto"
	"dermoscan-be/internal/pkg/serverutils"
	"dermoscan-be/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
}

type authController struct {
	navigator workflow.INavigator
}

func NewAuthController(navigator workflow.INavigator) IAuthController {
	return &authController{navigator: navigator}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	// Opening a session is the only unauthenticated call.
	r.Post("/session", c.OpenSession)

	h := r.Group("/auth", serverutils.SessionMiddleware)
	h.Post("/login", c.Login)
	h.Post("/account/begin", c.BeginAccountCreation)
	h.Post("/account", c.CreateAccount)
	h.Post("/forgot-password/begin", c.BeginPasswordReset)
	h.Post("/forgot-password", c.RequestReset)
	h.Post("/forgot-password/verify", c.VerifyCode)
	h.Post("/forgot-password/reset", c.ResetPassword)
	h.Post("/cancel", c.Cancel)
	h.Post("/logout", c.Logout)
}

func (c *authController) OpenSession(ctx *fiber.Ctx) error {
	s := c.navigator.OpenSession()
	token, err := serverutils.MintSessionToken(s.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Session opened",
		"data":    dto.OpenSessionResponse{Token: token, View: s.View},
	})
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}
	// Empty fields go through to the navigator: the workflow guard owns the
	// "please enter a username/password" responses.

	res, err := c.navigator.Login(ctx.Context(), serverutils.SessionID(ctx), req.Username, req.Password)
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

func (c *authController) BeginAccountCreation(ctx *fiber.Ctx) error {
	res, err := c.navigator.BeginAccountCreation(serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

func (c *authController) CreateAccount(ctx *fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}

	res, err := c.navigator.CreateAccount(ctx.Context(), serverutils.SessionID(ctx),
		req.Username, req.Password, req.ConfirmPassword, req.Email, req.Name)
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

func (c *authController) BeginPasswordReset(ctx *fiber.Ctx) error {
	res, err := c.navigator.BeginPasswordReset(serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

func (c *authController) RequestReset(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}

	res, err := c.navigator.RequestReset(ctx.Context(), serverutils.SessionID(ctx), req.Email)
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

func (c *authController) VerifyCode(ctx *fiber.Ctx) error {
	var req dto.VerifyCodeRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.navigator.VerifyResetCode(serverutils.SessionID(ctx), req.Digits)
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

func (c *authController) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}

	res, err := c.navigator.CompleteReset(serverutils.SessionID(ctx), req.Password, req.ConfirmPassword)
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

func (c *authController) Cancel(ctx *fiber.Ctx) error {
	res, err := c.navigator.Cancel(serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	res, err := c.navigator.SignOut(serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return stepResponse(ctx, res)
}

// stepResponse renders a workflow result in the standard envelope. Soft
// failures stay HTTP 200: they are normal outcomes flagged as warnings, not
// errors. The view data is the navigator's snapshot, taken under the
// session lock, so writing it out here cannot race with the refresher.
func stepResponse(ctx *fiber.Ctx, res *workflow.Result) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"warning": res.Warning,
		"message": res.Message,
		"data":    res.View,
	})
}
