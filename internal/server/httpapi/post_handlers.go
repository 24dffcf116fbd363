package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/gin-gonic/gin"
)

type writePostRequest struct {
	Title string   `json:"title" binding:"required"`
	Body  string   `json:"body" binding:"required"`
	Tags  []string `json:"tags" binding:"required"`
}

type updatePostRequest struct {
	Title *string  `json:"title"`
	Body  *string  `json:"body"`
	Tags  []string `json:"tags"`
}

func (s *Server) writePost(c *gin.Context) {
	var req writePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, bindError(err))
		return
	}

	owner, err := auth.RequireAuthenticated(SessionFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	post, err := s.posts.Write(c.Request.Context(), owner, services.PostInput{
		Title: req.Title,
		Body:  req.Body,
		Tags:  req.Tags,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewPostView(post))
}

func (s *Server) listPosts(c *gin.Context) {
	page := 1
	if v := c.Query("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(c, bindError(err))
			return
		}
		page = p
	}

	filter := models.PostFilter{Tag: c.Query("tag"), UserName: c.Query("username")}
	result, err := s.posts.List(c.Request.Context(), page, filter)
	if err != nil {
		s.writeError(c, err)
		return
	}

	views := make([]models.PostView, 0, len(result.Posts))
	for _, p := range result.Posts {
		views = append(views, models.NewPostView(p))
	}
	c.Header(common.LastPageHeaderName, strconv.Itoa(result.LastPage))
	c.JSON(http.StatusOK, views)
}

func (s *Server) readPost(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewPostView(postFrom(c)))
}

func (s *Server) updatePost(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, bindError(err))
		return
	}

	post, err := s.posts.Update(c.Request.Context(), postFrom(c).ID, models.PostPatch{
		Title: req.Title,
		Body:  req.Body,
		Tags:  req.Tags,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewPostView(post))
}

func (s *Server) removePost(c *gin.Context) {
	if err := s.posts.Remove(c.Request.Context(), postFrom(c).ID); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
