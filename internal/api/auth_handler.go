package api

import (
	"net/http"
	"time"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/jobs"
	"gymbros/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// AuthHandler holds the authentication dependencies.
type AuthHandler struct {
	authService  service.AuthService
	setupService service.SetupService
	cookieName   string
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, setupService service.SetupService, cookieName string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		setupService: setupService,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
	}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name         string `json:"name" binding:"max=100"`
	Username     string `json:"username" binding:"omitempty,min=3,max=30"`
	Email        string `json:"email" binding:"omitempty,email"`
	Password     string `json:"password" binding:"required,min=8"`
	RehabEnabled bool   `json:"rehabEnabled"`
	Program      string `json:"program" binding:"omitempty,oneof=strength foundation"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Username      string    `json:"username,omitempty"`
	Email         string    `json:"email,omitempty"`
	RehabEnabled  bool      `json:"rehabEnabled"`
	SetupComplete bool      `json:"setupComplete"`
	HasWallpaper  bool      `json:"hasWallpaper"`
	CreatedAt     time.Time `json:"createdAt"`
}

type RegisterResponse struct {
	User UserResponse `json:"user"`
	// SetupJob is absent when setup could not be queued; POST /setup retries.
	SetupJob *jobs.Job `json:"setupJob,omitempty"`
}

type LoginRequest struct {
	// Identifier is a username or an email address.
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password" binding:"required"`
}

func (r LoginRequest) identifier() string {
	switch {
	case r.Identifier != "":
		return r.Identifier
	case r.Username != "":
		return r.Username
	default:
		return r.Email
	}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:            user.ID,
		Name:          user.DisplayName(),
		Username:      user.Username,
		Email:         user.Email,
		RehabEnabled:  user.RehabEnabled,
		SetupComplete: user.SetupComplete,
		HasWallpaper:  user.WallpaperKey != "",
		CreatedAt:     user.CreatedAt,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, token, maxAge, "/", "", h.cookieSecure, true)
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Description Creates an account, logs it in and queues the demo data setup.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} RegisterResponse "User created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (username or email already exists)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.Username == "" && req.Email == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": map[string]string{"username": "username or email is required"},
		})
		return
	}

	ctx := c.Request.Context()
	user, err := h.authService.Register(ctx, service.RegisterInput{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		RehabEnabled: req.RehabEnabled,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	identifier := user.Username
	if identifier == "" {
		identifier = user.Email
	}
	token, _, err := h.authService.Login(ctx, identifier, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookie(c, token, int(h.authService.SessionTTL().Seconds()))

	resp := RegisterResponse{User: MapUserToResponse(user)}
	job, err := h.setupService.StartSetup(ctx, user.ID, req.Program)
	if err != nil {
		log.Warnf("start setup for new user %s: %s", user.ID, err)
	} else {
		resp.SetupJob = job
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates by username or email, sets the session cookie and returns the token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 429 {object} gin.H "Too many login attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.identifier(), req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.authService.SessionTTL().Seconds()))
	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie.
// @Tags Auth
// @Success 204 "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security SessionCookie
// @Success 200 {object} UserResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := getUserFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user from session")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}
