package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/errs"
	"github.com/ddmtrv/booklibrary-service/booklibrary/internal/model"
	md "github.com/ddmtrv/booklibrary-service/pkg/middleware"
	"github.com/ddmtrv/booklibrary-service/pkg/validate"
)

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks

type LibraryService interface {
	AddBooks(ctx context.Context, req model.AddBooksRequest) error
	GetBook(ctx context.Context, id uuid.UUID) (model.Book, error)
	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	BorrowBook(ctx context.Context, req model.BorrowBookRequest) (model.Book, error)
	ReturnBook(ctx context.Context, bookID uuid.UUID, req model.ReturnBookRequest) error
	RegisterAbonent(ctx context.Context, req model.RegisterAbonentRequest) (model.Abonent, error)
	GetBorrowedBooks(ctx context.Context, abonentID uuid.UUID) (model.Abonent, []model.Book, error)
	GetStats(ctx context.Context, page, size int) (model.ListStats, error)
	ListStatsEvents(ctx context.Context, limit int) ([]model.StatsEvent, error)
}

type Handler struct {
	svc LibraryService
	log *zap.Logger
}

func New(svc LibraryService, log *zap.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/books", h.AddBooks)
	api.GET("/books", h.ListBooks)
	api.GET("/books/:bookId", h.GetBook)
	api.POST("/books/:bookId/borrow", h.BorrowBook)
	api.POST("/books/borrow", h.BorrowAnyBook)
	api.POST("/books/:bookId/return", h.ReturnBook)

	api.POST("/abonents", h.RegisterAbonent)
	api.GET("/abonents/:abonentId/books", h.GetBorrowedBooks)

	api.GET("/stats", h.GetStats)
	api.GET("/stats/events", h.ListStatsEvents)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) AddBooks(c echo.Context) error {
	var req model.AddBooksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.svc.AddBooks(c.Request().Context(), req); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("bookId is invalid"))
	}
	book, err := h.svc.GetBook(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) ListBooks(c echo.Context) error {
	page, size, err := paging(c)
	if err != nil {
		return err
	}
	books, err := h.svc.ListBooks(c.Request().Context(), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) BorrowBook(c echo.Context) error {
	id, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("bookId is invalid"))
	}
	var req model.BorrowBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.BookID = id
	book, err := h.svc.BorrowBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// BorrowAnyBook borrows any available copy identified by isbn and
// publication date rather than a concrete book id.
func (h *Handler) BorrowAnyBook(c echo.Context) error {
	var req model.BorrowBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.BookID == uuid.Nil && req.Isbn == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("either bookId or isbn is required"))
	}
	book, err := h.svc.BorrowBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	id, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("bookId is invalid"))
	}
	var req model.ReturnBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.svc.ReturnBook(c.Request().Context(), id, req); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) RegisterAbonent(c echo.Context) error {
	var req model.RegisterAbonentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	abonent, err := h.svc.RegisterAbonent(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, abonent)
}

func (h *Handler) GetBorrowedBooks(c echo.Context) error {
	id, err := uuid.Parse(c.Param("abonentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("abonentId is invalid"))
	}
	abonent, books, err := h.svc.GetBorrowedBooks(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"abonent": abonent,
		"books":   books,
	})
}

func (h *Handler) GetStats(c echo.Context) error {
	page, size, err := paging(c)
	if err != nil {
		return err
	}
	stats, err := h.svc.GetStats(c.Request().Context(), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListStatsEvents(c echo.Context) error {
	limit := 100
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		var err error
		if limit, err = strconv.Atoi(limitParam); err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("limit is invalid"))
		}
	}
	events, err := h.svc.ListStatsEvents(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, events)
}

func paging(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, errors.New("page is invalid"))
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, errors.New("size is invalid"))
		}
	}
	return page, size, nil
}

// httpError maps coded business outcomes onto HTTP statuses. The code stays
// in the body: it is the stable part of the contract.
func httpError(err error) *echo.HTTPError {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrAbonentNotFound),
		errors.Is(err, errs.ErrBookNotFound),
		errors.Is(err, errs.ErrNoBookToBorrow):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrBookAlreadyBorrowed),
		errors.Is(err, errs.ErrTooManyBooksBorrowed),
		errors.Is(err, errs.ErrEmailAlreadyExists),
		errors.Is(err, errs.ErrBookNotBorrowedByAnyone),
		errors.Is(err, errs.ErrBookNotBorrowedByAbonent),
		errors.Is(err, errs.ErrInvalidReturnAbonentID):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrInvalidBookID),
		errors.Is(err, errs.ErrInvalidAbonentID),
		errors.Is(err, errs.ErrInvalidBookTitle),
		errors.Is(err, errs.ErrInvalidAbonentName),
		errors.Is(err, errs.ErrInvalidAbonentSurname),
		errors.Is(err, errs.ErrInvalidIsbn),
		errors.Is(err, errs.ErrInvalidEmail),
		errors.Is(err, errs.ErrInvalidBorrowerAbonentID),
		errors.Is(err, errs.ErrInvalidPublicationDate),
		errors.Is(err, errs.ErrInvalidAuthorName),
		errors.Is(err, errs.ErrInvalidAuthorSurname),
		errors.Is(err, errs.ErrBookMustHaveAuthors),
		errors.Is(err, errs.ErrInvalidBorrowedBooksCount),
		errors.Is(err, errs.ErrInvalidBorrowingPeriod):
		status = http.StatusBadRequest
	}
	return echo.NewHTTPError(status, echo.Map{
		"code":    errs.CodeOf(err),
		"message": err.Error(),
	})
}
