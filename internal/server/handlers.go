package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todoctl/internal/service"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// validationIssue is one entry of a 422 detail list.
type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func unprocessable(c *gin.Context, issues ...validationIssue) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": issues})
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	detail(c, http.StatusInternalServerError, "Internal server error")
}

// taskRequest is the body of create and update. Absent fields are nil.
type taskRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *service.Status `json:"status"`
}

// validateFields checks lengths and the status enumeration of whatever is present.
func validateFields(title, description *string, status *service.Status) []validationIssue {
	var issues []validationIssue
	if title != nil && len([]rune(*title)) > maxTitleLen {
		issues = append(issues, validationIssue{Loc: []string{"body", "title"}, Msg: "String should have at most 200 characters", Type: "string_too_long"})
	}
	if description != nil && len([]rune(*description)) > maxDescriptionLen {
		issues = append(issues, validationIssue{Loc: []string{"body", "description"}, Msg: "String should have at most 1000 characters", Type: "string_too_long"})
	}
	if status != nil && !status.Valid() {
		issues = append(issues, validationIssue{Loc: []string{"body", "status"}, Msg: "Input should be 'To do', 'Doing', 'Done' or 'Cancelled'", Type: "enum"})
	}
	return issues
}

// taskID parses the :id path parameter, answering 422 when it is not an integer.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		unprocessable(c, validationIssue{Loc: []string{"path", "task_id"}, Msg: "Input should be a valid integer", Type: "int_parsing"})
		return 0, false
	}
	return id, true
}

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.tasks.List(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) getTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := s.tasks.Get(c.Request.Context(), id)
	if err != nil {
		s.taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) createTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, validationIssue{Loc: []string{"body"}, Msg: err.Error(), Type: "json_invalid"})
		return
	}
	if req.Title == nil {
		unprocessable(c, validationIssue{Loc: []string{"body", "title"}, Msg: "Field required", Type: "missing"})
		return
	}
	if issues := validateFields(req.Title, req.Description, req.Status); len(issues) > 0 {
		unprocessable(c, issues...)
		return
	}

	in := service.TaskInput{Title: *req.Title, Status: service.StatusTodo}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Status != nil {
		in.Status = *req.Status
	}

	task, err := s.tasks.Create(c.Request.Context(), in)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) updateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, validationIssue{Loc: []string{"body"}, Msg: err.Error(), Type: "json_invalid"})
		return
	}
	if issues := validateFields(req.Title, req.Description, req.Status); len(issues) > 0 {
		unprocessable(c, issues...)
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), id, TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		s.taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := s.tasks.Delete(c.Request.Context(), id); err != nil {
		s.taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Task deleted successfully"})
}

func (s *Server) taskError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		detail(c, http.StatusNotFound, "Task not found")
		return
	}
	internalError(c, err)
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, validationIssue{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"})
		return
	}
	ctx := c.Request.Context()

	if _, _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		detail(c, http.StatusBadRequest, "Username already exists")
		return
	} else if !errors.Is(err, ErrNotFound) {
		internalError(c, err)
		return
	}
	if _, _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		detail(c, http.StatusBadRequest, "Email already registered")
		return
	} else if !errors.Is(err, ErrNotFound) {
		internalError(c, err)
		return
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		internalError(c, err)
		return
	}
	user, err := s.users.Create(ctx, req.Username, req.Email, hash)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, validationIssue{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"})
		return
	}

	_, hash, err := s.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			detail(c, http.StatusNotFound, "Username not found")
			return
		}
		internalError(c, err)
		return
	}
	if !s.hasher.Verify(req.Password, hash) {
		detail(c, http.StatusUnauthorized, "Incorrect password")
		return
	}

	token, err := s.tokens.Issue(req.Username)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

func (s *Server) me(c *gin.Context) {
	user, _, err := s.users.FindByUsername(c.Request.Context(), c.GetString(usernameKey))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			unauthorized(c)
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) health(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
