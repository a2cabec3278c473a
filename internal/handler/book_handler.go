package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/bookreview/internal/database/service"
	"github.com/EgehanKilicarslan/bookreview/internal/validation"
)

// BookHandler handles HTTP requests for books
type BookHandler struct {
	service service.BookService
	logger  *slog.Logger
}

// NewBookHandler creates a new book handler
func NewBookHandler(service service.BookService, logger *slog.Logger) *BookHandler {
	return &BookHandler{
		service: service,
		logger:  logger,
	}
}

type AddBookRequest struct {
	Title  string `json:"title" binding:"required,notblank,max=255"`
	Genre  string `json:"genre" binding:"required,notblank,max=100"`
	Author string `json:"author" binding:"required,notblank,max=255"`
}

// PageQuery is shared by the listing endpoints. Out of range values fall
// back to defaults in the service.
type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type ListBooksQuery struct {
	PageQuery
	Author string `form:"author"`
	Genre  string `form:"genre"`
}

type SearchBooksQuery struct {
	PageQuery
	Title  string `form:"title"`
	Author string `form:"author"`
}

// AddBook handles POST /book/add-book
func (h *BookHandler) AddBook(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid add book request", "error", err)
		fail(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	book, err := h.service.AddBook(c.Request.Context(), identity.UserID, req.Title, req.Genre, req.Author)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "Book added successfully", book)
}

// ListBooks handles GET /book/get-books
func (h *BookHandler) ListBooks(c *gin.Context) {
	var query ListBooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		fail(c, http.StatusBadRequest, "page and limit must be integers")
		return
	}

	page, err := h.service.ListBooks(c.Request.Context(), query.Author, query.Genre, query.Page, query.Limit)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	respondPage(c, "Books fetched successfully", page.Books, page.Pagination)
}

// SearchBooks handles GET /book/search
func (h *BookHandler) SearchBooks(c *gin.Context) {
	var query SearchBooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		fail(c, http.StatusBadRequest, "page and limit must be integers")
		return
	}

	page, err := h.service.SearchBooks(c.Request.Context(), query.Title, query.Author, query.Page, query.Limit)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	respondPage(c, "Search results", page.Books, page.Pagination)
}

// GetBook handles GET /book/get-book/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid book ID")
		return
	}

	detail, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Book fetched successfully", detail)
}
