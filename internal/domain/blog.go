package domain

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is looked up externally by slug, never by id. The approved flag is
// the draft/published switch: drafts are only visible to an admin caller.
type BlogPost struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Slug        string    `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Description *string   `json:"desc" gorm:"type:text"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	Likes       int       `json:"likes" gorm:"not null;default:0"`
	Comments    int       `json:"comments" gorm:"not null;default:0"`
	Views       int       `json:"views" gorm:"not null;default:0"`
	Approved    bool      `json:"approved" gorm:"not null;default:false"`
	AuthorID    uuid.UUID `json:"authorId" gorm:"type:uuid;not null"`
	Author      *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Tag titles are the lookup key used by the list filter.
type Tag struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title     string    `json:"title" gorm:"size:100;uniqueIndex;not null"`
	URL       *string   `json:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlogTag is the many-to-many edge between posts and tags. Rows are removed
// when either endpoint is deleted.
type BlogTag struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BlogID    uuid.UUID `json:"blogId" gorm:"type:uuid;not null;index"`
	Blog      *BlogPost `json:"-" gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE"`
	TagID     uuid.UUID `json:"tagId" gorm:"type:uuid;not null;index"`
	Tag       *Tag      `json:"-" gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
}
