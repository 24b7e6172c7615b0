package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sammao/checkhub/models"
	"github.com/sammao/checkhub/utils"
)

// Avatars are small platform profile pictures; anything bigger is a mistake.
const maxAvatarBytes = 1 << 20

// UserController manages the passthrough data the core never inspects:
// cached avatars and display profile fields.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a new controller instance.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// UpdateProfile sets nickname and/or group id for a tracked user, creating
// the user row when absent.
func (u *UserController) UpdateProfile(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	if userID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40030, "user_id is required")
		return
	}

	type request struct {
		Nickname *string `json:"nickname"`
		GroupID  *string `json:"group_id"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}

	user := models.User{ID: userID}
	if err := u.db.Where("id = ?", userID).FirstOrCreate(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load user")
		return
	}

	if req.Nickname != nil {
		user.Nickname = strings.TrimSpace(utils.Sanitize(*req.Nickname))
	}
	if req.GroupID != nil {
		user.GroupID = req.GroupID
	}

	if err := u.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to update user")
		return
	}

	utils.Success(ctx, gin.H{
		"id":       user.ID,
		"nickname": user.Nickname,
		"group_id": user.GroupID,
	})
}

// UploadAvatar caches the avatar bytes for a user. The body is the raw image;
// the server stores it opaquely and never decodes it.
func (u *UserController) UploadAvatar(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	if userID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40032, "user_id is required")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxAvatarBytes+1))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40033, "failed to read avatar body")
		return
	}
	if len(raw) == 0 || len(raw) > maxAvatarBytes {
		utils.Error(ctx, http.StatusBadRequest, 40034, "avatar must be between 1 byte and 1MB")
		return
	}

	user := models.User{ID: userID}
	if err := u.db.Where("id = ?", userID).FirstOrCreate(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load user")
		return
	}

	user.SetAvatar(raw)
	if err := u.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to store avatar")
		return
	}

	utils.Success(ctx, gin.H{"id": user.ID, "bytes": len(raw)})
}

// GetAvatar returns the cached avatar bytes, or 404 when none is stored.
func (u *UserController) GetAvatar(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	if userID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40035, "user_id is required")
		return
	}

	var user models.User
	if err := u.db.Where("id = ?", userID).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "user not found")
		return
	}

	raw := user.Avatar()
	if len(raw) == 0 {
		utils.Error(ctx, http.StatusNotFound, 40431, "no avatar cached")
		return
	}

	ctx.Data(http.StatusOK, "application/octet-stream", raw)
}
