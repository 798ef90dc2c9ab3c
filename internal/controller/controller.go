package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dilekiremozbay/2homework/internal/models"
	"github.com/dilekiremozbay/2homework/internal/service"
	"github.com/dilekiremozbay/2homework/internal/util"
)

type Controller struct {
	zapLogger   *zap.SugaredLogger
	authService *service.AuthService
	sessionTTL  time.Duration
}

func NewController(logger *zap.SugaredLogger, authService *service.AuthService, sessionCfg *util.SessionConfig) *Controller {
	return &Controller{
		zapLogger:   logger,
		authService: authService,
		sessionTTL:  sessionCfg.TTL,
	}
}

// (POST /register).
func (c *Controller) Register(ctx echo.Context) error {
	var req models.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "BAD_REQUEST")
	}

	if err := c.authService.Register(ctx.Request().Context(), req); err != nil {
		return err
	}

	return ctx.Redirect(http.StatusFound, "/login")
}

// (POST /login).
func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "BAD_REQUEST")
	}

	fingerprint := ctx.Request().UserAgent()

	_, sessionID, err := c.authService.Login(ctx.Request().Context(), req, fingerprint)
	if err != nil {
		return err
	}

	ctx.SetCookie(&http.Cookie{
		Name:     models.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(c.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return ctx.Redirect(http.StatusFound, "/users")
}

// (POST /token).
func (c *Controller) Token(ctx echo.Context) error {
	var req models.TokenRequest
	if err := ctx.Bind(&req); err != nil || req.RefreshToken == "" {
		return util.NewResponseError(http.StatusBadRequest, "BAD_REQUEST")
	}

	accessToken, err := c.authService.Refresh(ctx.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, models.AccessTokenResponse{AccessToken: accessToken})
}

// (GET /me).
func (c *Controller) Me(ctx echo.Context) error {
	claims, ok := ctx.Get(models.MwClaimsKey).(*service.AccessClaims)
	if !ok {
		return service.ErrUnauthorized
	}

	projection, err := c.authService.Me(ctx.Request().Context(), claims)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, projection)
}

// (GET /users).
func (c *Controller) FindAllUsers(ctx echo.Context) error {
	projections, err := c.authService.Users(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, projections)
}

// (POST /logout).
func (c *Controller) Logout(ctx echo.Context) error {
	if cookie, err := ctx.Cookie(models.SessionCookieName); err == nil {
		if err := c.authService.Logout(ctx.Request().Context(), cookie.Value); err != nil {
			c.zapLogger.Errorw("failed to destroy session", "error", err)
		}
	}

	ctx.SetCookie(&http.Cookie{
		Name:     models.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	return ctx.Redirect(http.StatusFound, "/")
}

// (GET /ping).
func (c *Controller) CheckServer(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, "ok")
}
