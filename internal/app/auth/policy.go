package auth

import (
	"github.com/kaan/connectsphere/internal/app/models"
	"github.com/kaan/connectsphere/internal/app/models/dto"
)

// Post type choices per role. The resolver is advisory to clients (it
// drives the type selector in the submission form); the post service
// re-validates against the same table at the write boundary, so a
// client submitting a type outside its role's set is always rejected
// server-side.

var (
	optionCommon = dto.PostTypeOption{
		Type:        models.PostTypeCommon,
		Label:       "General Post",
		Description: "Visible to the whole community",
	}
	optionCommunity = dto.PostTypeOption{
		Type:        models.PostTypeCommunity,
		Label:       "Community Post",
		Description: "Tagged with target skills for discovery",
	}
	optionStudentOnly = dto.PostTypeOption{
		Type:        models.PostTypeStudentOnly,
		Label:       "Students Only",
		Description: "Visible to students",
	}
	optionAlumniOnly = dto.PostTypeOption{
		Type:        models.PostTypeAlumniOnly,
		Label:       "Alumni Only",
		Description: "Visible to alumni",
	}
	optionAnnouncement = dto.PostTypeOption{
		Type:        models.PostTypeAnnouncement,
		Label:       "Announcement",
		Description: "Broadcast to every member",
	}
)

// AvailablePostTypes resolves the ordered set of post types a role may
// create. Pure and total: an unrecognized role yields only common,
// never an error.
func AvailablePostTypes(role models.RoleType) []dto.PostTypeOption {
	switch role {
	case models.RoleStudent:
		return []dto.PostTypeOption{optionCommon, optionCommunity, optionStudentOnly}
	case models.RoleAlumni:
		return []dto.PostTypeOption{optionCommon, optionCommunity, optionAlumniOnly}
	case models.RoleAdmin:
		return []dto.PostTypeOption{optionCommon, optionCommunity, optionStudentOnly, optionAlumniOnly, optionAnnouncement}
	default:
		return []dto.PostTypeOption{optionCommon}
	}
}

// CanCreatePostType reports whether the role's resolved set contains the
// given post type.
func CanCreatePostType(role models.RoleType, postType models.PostType) bool {
	for _, opt := range AvailablePostTypes(role) {
		if opt.Type == postType {
			return true
		}
	}
	return false
}

// CanViewPost reports whether a viewer may see a post in listings.
// Role gates apply on top of the post's own visibility flag; authors
// always see their own posts and admins see everything.
func CanViewPost(viewerID int64, role models.RoleType, post *models.Post) bool {
	if post.AuthorID == viewerID || role == models.RoleAdmin {
		return true
	}
	if post.Visibility == models.VisibilityPrivate {
		return false
	}
	switch post.Type {
	case models.PostTypeStudentOnly:
		return role == models.RoleStudent
	case models.PostTypeAlumniOnly:
		return role == models.RoleAlumni
	}
	return true
}
