package models

import "time"

// PostType enumerates the visibility class of a post, not its literal
// audience. Which types a role may choose is resolved by the post policy.
type PostType string

const (
	PostTypeCommon       PostType = "common"
	PostTypeStudentOnly  PostType = "student_only"
	PostTypeAlumniOnly   PostType = "alumni_only"
	PostTypeAnnouncement PostType = "announcement"
	PostTypeCommunity    PostType = "community"
)

// Valid reports whether the post type is a known variant.
func (t PostType) Valid() bool {
	switch t {
	case PostTypeCommon, PostTypeStudentOnly, PostTypeAlumniOnly, PostTypeAnnouncement, PostTypeCommunity:
		return true
	}
	return false
}

// MediaType classifies the aggregate media attached to a post. It is
// derived from the attachment set, never chosen independently of it.
type MediaType string

const (
	MediaTypeText  MediaType = "text"
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeMixed MediaType = "mixed"
)

// Visibility is a privacy axis orthogonal to PostType.
type Visibility string

const (
	VisibilityPublic      Visibility = "public"
	VisibilityConnections Visibility = "connections"
	VisibilityPrivate     Visibility = "private"
)

// Valid reports whether the visibility is a known variant.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityConnections, VisibilityPrivate:
		return true
	}
	return false
}

// Post defines the post model based on the 'posts' table.
// Invariants maintained by the post service:
//   - MediaType == MediaTypeText iff MediaURLs is empty
//   - TargetSkills is non-empty only when Type == PostTypeCommunity
//   - AuthorID, MediaURLs and CreatedAt never change after creation
type Post struct {
	ID           int64      `json:"id" db:"id" example:"1"`
	AuthorID     int64      `json:"authorId" db:"author_id" example:"7"`
	Title        string     `json:"title" db:"title" example:"Homecoming mixer"`
	Content      string     `json:"content" db:"content" example:"We are meeting on Friday"`
	Type         PostType   `json:"type" db:"post_type" example:"common"`
	MediaURLs    []string   `json:"mediaUrls,omitempty" db:"media_urls"`
	MediaType    MediaType  `json:"mediaType" db:"media_type" example:"text"`
	TargetSkills []string   `json:"targetSkills,omitempty" db:"target_skills"`
	Visibility   Visibility `json:"visibility" db:"visibility" example:"public"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`

	// Related entities
	Author *User `json:"author,omitempty"`
}
