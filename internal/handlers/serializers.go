package handlers

import (
	"time"

	"blogspace/internal/models"
)

// Output shapes are fixed per (resource, operation): the list shape omits
// the post body, the detail shape nests comments. Derived user counts appear
// only on account endpoints, where the user is the top-level subject.

// userDetail is the user shape returned by the account endpoints, with the
// derived post and comment counts attached.
type userDetail struct {
	models.User
	PostCount    int64 `json:"post_count"`
	CommentCount int64 `json:"comment_count"`
}

// postListItem is the post shape used in listings: no content, no nested
// comments.
type postListItem struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	Excerpt       string      `json:"excerpt"`
	Author        models.User `json:"author"`
	FeaturedImage string      `json:"featured_image"`
	CommentCount  int64       `json:"comment_count"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// postDetail is the full post shape with nested comments, oldest-first.
type postDetail struct {
	models.Post
	Comments []models.Comment `json:"comments"`
}

func newUserDetail(user *models.User, postCount, commentCount int64) userDetail {
	return userDetail{
		User:         *user,
		PostCount:    postCount,
		CommentCount: commentCount,
	}
}

func newPostListItems(posts []models.Post) []postListItem {
	items := make([]postListItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, postListItem{
			ID:            p.ID,
			Title:         p.Title,
			Slug:          p.Slug,
			Excerpt:       p.Excerpt,
			Author:        p.Author,
			FeaturedImage: p.FeaturedImage,
			CommentCount:  p.CommentCount,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		})
	}
	return items
}

func newPostDetail(post *models.Post, comments []models.Comment) postDetail {
	if comments == nil {
		comments = []models.Comment{}
	}
	return postDetail{
		Post:     *post,
		Comments: comments,
	}
}
