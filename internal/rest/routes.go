package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/knowledge-base/internal/rest/middleware"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Posts    *PostHandler
	Comments *CommentHandler
	Votes    *VoteHandler
	Users    *UserHandler
	Tags     *TagHandler
	Commits  *CommitHandler
	WS       *WSHandler
}

// RegisterRoutes mounts the API on r.
func RegisterRoutes(r gin.IRouter, h Handlers, tokens middleware.TokenParser) {
	authMiddleware := middleware.Auth(tokens)
	optionalAuth := middleware.OptionalAuth(tokens)

	r.POST("/auth/register", h.Users.Register)
	r.POST("/auth/login", h.Users.Login)
	r.GET("/departments", h.Users.Departments)
	r.GET("/tags", h.Tags.Fetch)

	r.GET("/posts/feed", h.Posts.Feed)
	r.GET("/posts/:id", h.Posts.GetByID)
	r.GET("/comments/post/:postId", optionalAuth, h.Comments.FetchByPost)
	r.GET("/comments/:id", optionalAuth, h.Comments.GetByID)
	r.GET("/votes/comment/:id/counts", h.Votes.CommentCounts)
	r.GET("/votes/post/:id/counts", h.Votes.PostCounts)

	authorized := r.Group("/")
	authorized.Use(authMiddleware)
	{
		authorized.GET("/posts/mine", h.Posts.Mine)
		authorized.POST("/posts", h.Posts.Store)
		authorized.PUT("/posts/:id", h.Posts.Update)
		authorized.DELETE("/posts/:id", h.Posts.Delete)
		authorized.POST("/posts/:id/repost", h.Posts.Repost)

		authorized.POST("/comments", h.Comments.Store)
		authorized.PUT("/comments/:id", h.Comments.Update)
		authorized.DELETE("/comments/:id", h.Comments.Delete)

		authorized.POST("/votes", h.Votes.Cast)
		authorized.POST("/votes/comment/:id/upvote", h.Votes.UpvoteComment)
		authorized.POST("/votes/comment/:id/downvote", h.Votes.DownvoteComment)
		authorized.GET("/votes/comment/:id/user-vote", h.Votes.CommentUserVote)

		authorized.POST("/tags", h.Tags.Store)

		authorized.GET("/commits/post/:postId", h.Commits.ByPost)
		authorized.GET("/commits/mine", middleware.RequireManager(), h.Commits.Mine)

		authorized.GET("/users/me", h.Users.Me)
		authorized.PUT("/users/me", h.Users.UpdateMe)
		authorized.GET("/users/me/stats", h.Users.Stats)
		authorized.GET("/users/:id", h.Users.GetByID)

		authorized.GET("/ws", h.WS.Serve)
	}
}
