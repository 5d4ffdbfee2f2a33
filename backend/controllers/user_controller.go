package controllers

import (
	"platform/backend/middleware"
	"platform/backend/store"
	"platform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Store store.RecordStore
}

func NewUserController(s store.RecordStore) *UserController {
	return &UserController{Store: s}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the authenticated user's profile data
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	user, err := uc.Store.FetchProfile(userID)
	if err != nil {
		return utils.NotFound(c, "User not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"full_name":  user.FullName,
		"avatar_url": user.AvatarURL,
		"bio":        user.Bio,
		"created_at": user.CreatedAt,
	})
}

// UpdateProfile merges the non-empty fields of the request into the stored
// profile; on failure nothing changes and the caller is told so.
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var input store.ProfileUpdate
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	user, err := uc.Store.UpdateProfile(userID, input)
	if err != nil {
		return utils.InternalServerError(c, "Could not update profile")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"full_name":  user.FullName,
		"avatar_url": user.AvatarURL,
		"bio":        user.Bio,
	})
}
