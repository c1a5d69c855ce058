package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	apperrors "github.com/ikkim/catalog-backend/internal/errors"
	"github.com/ikkim/catalog-backend/internal/storage"
)

const invalidPageMessage = "Invalid page."

// Paginator reads page/page_size and writes the list envelope.
type Paginator struct {
	defaultSize int
	maxSize     int
}

func NewPaginator(defaultSize, maxSize int) *Paginator {
	if defaultSize <= 0 {
		defaultSize = 20
	}
	if maxSize < defaultSize {
		maxSize = defaultSize
	}
	return &Paginator{defaultSize: defaultSize, maxSize: maxSize}
}

type pageRequest struct {
	number int
	size   int
}

func (p pageRequest) slice() repository.Page {
	return repository.Page{Limit: p.size, Offset: (p.number - 1) * p.size}
}

// PageEnvelope is the paginated list body.
type PageEnvelope struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// parse responds 404 and returns false for a page number that is not a positive integer.
// A bad page_size falls back to the default.
func (p *Paginator) parse(c *gin.Context) (pageRequest, bool) {
	req := pageRequest{number: 1, size: p.defaultSize}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apperrors.NotFound(c, apperrors.PageInvalid, invalidPageMessage)
			return req, false
		}
		req.number = n
	}

	if raw := c.Query("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			req.size = n
		}
	}
	if req.size > p.maxSize {
		req.size = p.maxSize
	}
	return req, true
}

// respond writes the envelope, or 404 when the page lies past the last one.
func (p *Paginator) respond(c *gin.Context, req pageRequest, count int64, results interface{}) {
	lastPage := int((count + int64(req.size) - 1) / int64(req.size))
	if lastPage < 1 {
		lastPage = 1
	}
	if req.number > lastPage {
		apperrors.NotFound(c, apperrors.PageInvalid, invalidPageMessage)
		return
	}

	envelope := PageEnvelope{Count: count, Results: results}
	if req.number < lastPage {
		envelope.Next = pageURL(c, req.number+1)
	}
	if req.number > 1 {
		envelope.Previous = pageURL(c, req.number-1)
	}
	c.JSON(http.StatusOK, envelope)
}

// pageURL rebuilds the request URL for page n. The first page drops the parameter.
func pageURL(c *gin.Context, n int) *string {
	query := c.Request.URL.Query()
	if n == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(n))
	}

	u := storage.RequestOrigin(c.Request) + c.Request.URL.Path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return &u
}
