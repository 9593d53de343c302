package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	goption "google.golang.org/api/option"

	"github.com/hearthsplit/household_manager_app/internal/dto"
	"github.com/hearthsplit/household_manager_app/internal/middleware"
	"github.com/hearthsplit/household_manager_app/internal/platform/config"
)

const oauthStateCookie = "oauth_state"

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthHandler handles the Google login flow. Identity is derived from the
// verified Google email: the lowercase local part becomes the username, and
// only usernames present in the configured roster may log in.
type AuthHandler struct {
	oauthConfig *oauth2.Config
	users       map[string]string
	jwtSecret   string
	jwtIssuer   string
	jwtDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		users:       cfg.Users,
		jwtSecret:   cfg.JWTSecret,
		jwtIssuer:   cfg.JWTIssuer,
		jwtDuration: cfg.JWTExpiryDuration,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config) {
	h := NewAuthHandler(cfg)

	// Define rate limit: 10 requests per minute
	rate, _ := limiter.NewRateFromFormatted("10-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/auth/google")
	{
		auth.GET("/login", limitMiddleware, h.Login)
		auth.GET("/callback", limitMiddleware, h.Callback)
	}
}

// Login godoc
// @Summary Start Google login
// @Description Redirects the browser to Google's consent screen with a CSRF state cookie.
// @Tags auth
// @Success 307
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start login"})
		return
	}
	state := hex.EncodeToString(stateBytes)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int((10 * time.Minute).Seconds()), "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauthConfig.AuthCodeURL(state))
}

// Callback godoc
// @Summary Complete Google login
// @Description Exchanges the authorization code, derives the username from the verified email, and issues a session token.
// @Tags auth
// @Produce json
// @Param state query string true "CSRF state"
// @Param code query string true "Authorization code"
// @Success 200 {object} dto.LoginSuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Email not in the household roster"
// @Failure 502 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || cookieState == "" || c.Query("state") != cookieState {
		logger.Warn("OAuth state mismatch")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	// One-shot state: clear the cookie regardless of outcome.
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code is required"})
		return
	}

	token, err := h.oauthConfig.Exchange(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to exchange authorization code with Google"})
		return
	}

	userinfo, err := h.fetchUserinfo(c, token)
	if err != nil {
		logger.Error("Failed to fetch Google userinfo", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch user info from Google"})
		return
	}
	if userinfo.Email == "" || (userinfo.VerifiedEmail != nil && !*userinfo.VerifiedEmail) {
		logger.Warn("Google account without a verified email")
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "A verified Google email is required"})
		return
	}

	// The stable identity is the lowercase local part of the email.
	username := strings.ToLower(strings.SplitN(userinfo.Email, "@", 2)[0])
	displayName, known := h.users[username]
	if !known {
		logger.Warn("Login refused, user not in roster", slog.String("username", username))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "This account is not part of the household"})
		return
	}

	expiresAt := time.Now().Add(h.jwtDuration)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    h.jwtIssuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		logger.Error("Failed to sign session token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to issue session token"})
		return
	}

	logger.Info("User logged in", slog.String("username", username))
	c.JSON(http.StatusOK, dto.LoginSuccessResponse{
		Token:       signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Username:    username,
		DisplayName: displayName,
	})
}

func (h *AuthHandler) fetchUserinfo(c *gin.Context, token *oauth2.Token) (*oauth2api.Userinfo, error) {
	ctx := c.Request.Context()
	service, err := oauth2api.NewService(ctx, goption.WithTokenSource(h.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}
	return service.Userinfo.Get().Context(ctx).Do()
}
