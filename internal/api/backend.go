package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"bloglytics/internal/core"
)

// Backend translates HTTP requests into engine calls and engine errors
// into status codes. It holds no domain logic of its own.
type Backend struct {
	Logger *slog.Logger

	Comments   core.CommentEngine
	Stats      core.Aggregator
	Moderation core.Moderation
}

func (b *Backend) Init(_ context.Context) error {
	b.Logger = b.Logger.With("component", "api.Backend")
	return nil
}

func (b *Backend) Mount(r chi.Router, gate *Gate) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/posts/{postID}/comments", b.listComments)

		r.Group(func(r chi.Router) {
			r.Use(gate.Authenticated)

			r.Post("/posts/{postID}/comments", b.createComment)
			r.Put("/comments/{id}", b.editComment)
			r.Delete("/comments/{id}", b.deleteComment)
			r.Post("/comments/{id}/like", b.toggleLike)
			r.Get("/my/comments", b.authoredFeed)

			r.Group(func(r chi.Router) {
				r.Use(gate.Admin)

				r.Get("/admin/users", b.userList)
				r.Get("/admin/users/{id}", b.userStats)
				r.Patch("/admin/users/{id}/block", b.blockUser)
				r.Get("/admin/stats", b.platformStats)
			})
		})
	})
}

type commentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentId"`
}

func (b *Backend) createComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := b.Comments.Create(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "postID"), req.Content, req.ParentID)
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentJSON(comment))
}

func (b *Backend) editComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := b.Comments.Edit(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentJSON(comment))
}

func (b *Backend) deleteComment(w http.ResponseWriter, r *http.Request) {
	err := b.Comments.Delete(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) toggleLike(w http.ResponseWriter, r *http.Request) {
	comment, err := b.Comments.ToggleLike(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentJSON(comment))
}

func (b *Backend) listComments(w http.ResponseWriter, r *http.Request) {
	tree, err := b.Comments.ListForPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(tree, func(node core.CommentNode, _ int) CommentNode {
		return CommentNode{
			Comment: commentJSON(node.Comment),
			Replies: lo.Map(node.Replies, func(c core.CommentModel, _ int) Comment {
				return commentJSON(c)
			}),
		}
	}))
}

func (b *Backend) authoredFeed(w http.ResponseWriter, r *http.Request) {
	comments := []Comment{}
	for result := range b.Comments.AuthoredFeed(r.Context(), actorFrom(r.Context())) {
		comment, err := result.Unpack()
		if err != nil {
			b.writeError(w, r, err)
			return
		}
		comments = append(comments, commentJSON(comment))
	}

	writeJSON(w, http.StatusOK, comments)
}

func (b *Backend) userList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// An absent limit means the default page size; an explicit limit,
	// zero included, is clamped downstream.
	pageSize := core.DefaultPageSize
	if q.Get("limit") != "" {
		pageSize = intParam(q.Get("limit"))
	}

	page, err := b.Stats.UserList(r.Context(), core.ListParams{
		Search:   q.Get("search"),
		Page:     intParam(q.Get("page")),
		PageSize: pageSize,
		SortBy:   core.SortField(q.Get("sortBy")),
		SortDir:  core.SortDirection(q.Get("sortOrder")),
	})
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UserPage{
		Page:  page.Page,
		Limit: page.PageSize,
		Total: page.Total,
		Pages: page.Pages(),
		Users: lo.Map(page.Users, func(u core.UserWithStats, _ int) UserWithStats {
			return userWithStatsJSON(u)
		}),
	})
}

func (b *Backend) userStats(w http.ResponseWriter, r *http.Request) {
	user, stats, err := b.Stats.UserStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UserStatsResponse{
		User: userJSON(user),
		Stats: UserStats{
			BlogCount:       stats.BlogCount,
			Published:       stats.PublishedCount,
			TotalLikes:      stats.TotalLikes,
			CommentsWritten: stats.CommentsWritten,
			CommentsOnBlogs: stats.CommentsOnBlogs,
		},
	})
}

type blockRequest struct {
	Value bool `json:"value"`
}

func (b *Backend) blockUser(w http.ResponseWriter, r *http.Request) {
	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := b.Moderation.SetBlocked(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"), req.Value)
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userJSON(user))
}

func (b *Backend) platformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := b.Stats.Platform(r.Context())
	if err != nil {
		b.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, PlatformStats{
		Users: UserCounts{
			TotalUsers:   stats.TotalUsers,
			BlockedUsers: stats.BlockedUsers,
			AdminUsers:   stats.AdminUsers,
		},
		Blogs: BlogCounts{
			TotalBlogs:       stats.TotalPosts,
			PublishedBlogs:   stats.PublishedPosts,
			UnpublishedBlogs: stats.UnpublishedPosts,
			TotalLikes:       stats.TotalPostLikes,
		},
		Comments: CommentCounts{
			TotalComments: stats.TotalComments,
		},
		TopAuthors: lo.Map(stats.TopAuthors, func(a core.TopAuthor, _ int) TopAuthor {
			return TopAuthor{
				UserID:    a.UserID,
				FirstName: a.FirstName,
				LastName:  a.LastName,
				Email:     a.Email,
				BlogCount: a.PostCount,
				LikeSum:   a.LikeSum,
			}
		}),
	})
}

// writeError maps the core error kinds to statuses; anything else is an
// internal failure, logged here and surfaced as an opaque 500.
func (b *Backend) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrForbidden):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, core.ErrConflict):
		writeMessage(w, http.StatusConflict, err.Error())
	default:
		b.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func intParam(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func commentJSON(c core.CommentModel) Comment {
	return Comment{
		ID:            c.ID,
		PostID:        c.PostID,
		UserID:        c.AuthorID,
		ParentID:      c.ParentID,
		Content:       c.Content,
		NumberOfLikes: c.LikesCount,
		EditedAt:      c.EditedAt,
		CreatedAt:     c.CreatedAt,
	}
}

func userJSON(u core.UserModel) User {
	return User{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		PhotoURL:   u.PhotoURL,
		Occupation: u.Occupation,
		IsAdmin:    u.Admin,
		IsBlocked:  u.Blocked,
		CreatedAt:  u.CreatedAt,
	}
}

func userWithStatsJSON(u core.UserWithStats) UserWithStats {
	return UserWithStats{
		User: User{
			ID:         u.ID,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Email:      u.Email,
			PhotoURL:   u.PhotoURL,
			Occupation: u.Occupation,
			IsAdmin:    u.Admin,
			IsBlocked:  u.Blocked,
			CreatedAt:  u.CreatedAt,
		},
		BlogCount:       u.BlogCount,
		TotalBlogLikes:  u.TotalBlogLikes,
		CommentsWritten: u.CommentsWritten,
		CommentsOnBlogs: u.CommentsOnBlogs,
	}
}
