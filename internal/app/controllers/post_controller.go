package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/kaan/connectsphere/internal/app/models/dto"
	"github.com/kaan/connectsphere/internal/app/services"
	"github.com/kaan/connectsphere/internal/middleware"
)

// PostController handles post publication and listing operations
type PostController struct {
	postService *services.PostService
	logger      zerolog.Logger
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, logger zerolog.Logger) *PostController {
	return &PostController{
		postService: postService,
		logger:      logger,
	}
}

// GetPostTypes lists the post types the caller may create
// @Summary List available post types
// @Description Returns the post types the authenticated member's role may create
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PostTypesResponse} "Available post types"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /posts/types [get]
func (c *PostController) GetPostTypes(ctx *gin.Context) {
	role := middleware.CurrentUserRole(ctx)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: c.postService.GetAvailablePostTypes(role),
	})
}

// CreatePost handles post creation
// @Summary Create a post
// @Description Creates a new post authored by the caller. Attachments are uploaded and classified; announcement posts notify every other member.
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Post title"
// @Param content formData string true "Post content"
// @Param type formData string true "Post type"
// @Param visibility formData string false "Visibility (public, connections, private)"
// @Param mediaUrls formData []string false "Directly supplied media URLs"
// @Param targetSkills formData []string false "Target skills (community posts only)"
// @Param files formData file false "Media attachments"
// @Success 201 {object} dto.APIResponse{data=dto.PostResponse} "Post created"
// @Failure 400 {object} dto.ErrorResponse "Validation or media upload failure"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Persistence failure"
// @Router /posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}
	role := middleware.CurrentUserRole(ctx)

	var req dto.CreatePostRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid create post payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	var files []*multipart.FileHeader
	if form, err := ctx.MultipartForm(); err == nil && form != nil {
		files = form.File["files"]
	}

	post, err := c.postService.CreatePost(ctx.Request.Context(), userID, role, &req, files)
	if err != nil {
		c.logger.Warn().Err(err).Int64("authorID", userID).Msg("Failed to create post")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: post,
	})
}

// UpdatePost handles post editing
// @Summary Update a post
// @Description Updates the title, content and type of a post authored by the caller
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.UpdatePostRequest true "Updated fields"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse} "Post updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failure"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id} [put]
func (c *PostController) UpdatePost(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}
	role := middleware.CurrentUserRole(ctx)

	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid post ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid update post payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	post, err := c.postService.UpdatePost(ctx.Request.Context(), postID, userID, role, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("postID", postID).Msg("Failed to update post")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: post,
	})
}

// GetPost retrieves a single post
// @Summary Get a post
// @Description Returns one post, honoring the caller's visibility gates
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse} "Post"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id} [get]
func (c *PostController) GetPost(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}
	role := middleware.CurrentUserRole(ctx)

	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid post ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	post, err := c.postService.GetPost(ctx.Request.Context(), postID, userID, role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: post,
	})
}

// GetPosts retrieves a filtered, paginated post list
// @Summary List posts
// @Description Returns posts visible to the caller, optionally filtered by type and author
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param type query string false "Post type filter"
// @Param authorId query int false "Author filter"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PostListResponse} "Posts"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /posts [get]
func (c *PostController) GetPosts(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}
	role := middleware.CurrentUserRole(ctx)

	var filter dto.PostFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	posts, err := c.postService.GetPosts(ctx.Request.Context(), userID, role, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: posts,
	})
}
