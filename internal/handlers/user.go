package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
	"go.uber.org/zap"
)

const imageField = "image"

type UserHandler struct {
	userService *services.UserService
	log         *zap.Logger
}

func NewUserHandler(userService *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log,
	}
}

// Register creates a user from a JSON body or a multipart form carrying an
// optional image file.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	image, err := readImage(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.ToInput(image))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Data added successfully!",
		"user":    user,
	})
}

// ListUsers returns one page of users. Archived users are included only
// with archived=true.
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	includeArchived := false
	if raw := c.Query("archived"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.InvalidFormat(c, "archived must be true or false")
			return
		}
		includeArchived = v
	}

	users, total, err := h.userService.List(c.Request.Context(), services.ListUsersInput{
		Pagination:      params,
		IncludeArchived: includeArchived,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Message:    "Users retrieved successfully",
		Users:      users,
		Pagination: params.Response(total),
	})
}

// UpdateUser applies a partial update to the user named by ?id=.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		apierrors.MissingField(c, "User ID is required.")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	image, err := readImage(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Update(c.Request.Context(), actorID(c), id, req.ToInput(image))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

// readImage returns the uploaded image file, or nil when the request is not
// multipart or carries no image.
func readImage(c *gin.Context) (*services.ImageUpload, error) {
	header, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid image upload: %w", err)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("invalid image upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("invalid image upload: %w", err)
	}

	return &services.ImageUpload{
		Filename: header.Filename,
		Data:     data,
	}, nil
}
