package dto

import (
	"time"

	"github.com/kaan/connectsphere/internal/app/models"
)

// CreatePostRequest represents the submission form for a new post.
// Bound from multipart form data; attached files are read separately
// from the multipart payload by the controller.
type CreatePostRequest struct {
	Title        string   `form:"title" binding:"required"`
	Content      string   `form:"content" binding:"required"`
	Type         string   `form:"type" binding:"required"`
	Visibility   string   `form:"visibility"`
	MediaURLs    []string `form:"mediaUrls"`
	TargetSkills []string `form:"targetSkills"`
}

// UpdatePostRequest represents an edit of an existing post.
// Only title, content and type are mutable.
type UpdatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Type    string `json:"type" binding:"required"`
}

// PostResponse represents a post returned to clients
type PostResponse struct {
	ID           int64             `json:"id"`
	AuthorID     int64             `json:"authorId"`
	AuthorName   string            `json:"authorName,omitempty"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	Type         models.PostType   `json:"type"`
	MediaURLs    []string          `json:"mediaUrls,omitempty"`
	MediaType    models.MediaType  `json:"mediaType"`
	TargetSkills []string          `json:"targetSkills,omitempty"`
	Visibility   models.Visibility `json:"visibility"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`

	// NotifiedMembers reports how many members received an announcement
	// notification. Advisory only; fan-out is best effort and its failure
	// never fails the post creation.
	NotifiedMembers int `json:"notifiedMembers,omitempty"`
}

// PostListResponse represents a paginated list of posts
type PostListResponse struct {
	Posts          []PostResponse `json:"posts"`
	PaginationInfo PaginationInfo `json:"pagination"`
}

// PostFilterRequest represents post list filter parameters
type PostFilterRequest struct {
	Type     string `form:"type"`
	AuthorID int64  `form:"authorId"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=10"`
}

// PostTypeOption is one selectable post type for the caller's role
type PostTypeOption struct {
	Type        models.PostType `json:"type" example:"common"`
	Label       string          `json:"label" example:"General Post"`
	Description string          `json:"description" example:"Visible to the whole community"`
}

// PostTypesResponse lists selectable post types for the caller's role
type PostTypesResponse struct {
	Types []PostTypeOption `json:"types"`
}
