package controllers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sammao/checkhub/config"
	"github.com/sammao/checkhub/models"
	"github.com/sammao/checkhub/utils"
)

// AuthController manages operator accounts: the bot adapters that call the
// attendance API on behalf of platform users.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new controller instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

// Register creates a new operator account. Registration can be closed via
// configuration once all adapters are provisioned.
func (a *AuthController) Register(ctx *gin.Context) {
	if !config.Get().RegistrationOpen {
		utils.Error(ctx, http.StatusForbidden, 40310, "registration is closed")
		return
	}

	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=6,max=72"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if !usernamePattern.MatchString(req.Username) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username must be 3-64 characters of letters, digits, '-' or '_'")
		return
	}

	var existing models.Operator
	if err := a.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	op := models.Operator{Username: req.Username, PasswordHash: hash}
	if err := a.db.Create(&op).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create operator")
		return
	}

	token, err := utils.GenerateToken(op.ID, op.Username, 72*time.Hour)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":    token,
		"operator": gin.H{"id": op.ID, "username": op.Username},
	})
}

// Login exchanges operator credentials for a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	var op models.Operator
	if err := a.db.Where("username = ?", req.Username).First(&op).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}
	if !utils.CheckPassword(op.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(op.ID, op.Username, 72*time.Hour)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":    token,
		"operator": gin.H{"id": op.ID, "username": op.Username},
	})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(72 * time.Hour)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated operator.
func (a *AuthController) Me(ctx *gin.Context) {
	id, ok := getOperatorID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var op models.Operator
	if err := a.db.First(&op, id).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "operator not found")
		return
	}

	utils.Success(ctx, gin.H{"id": op.ID, "username": op.Username, "created_at": op.CreatedAt})
}
