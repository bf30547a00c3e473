package main

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

// page is the list envelope: {count, next, previous, results}.
type page struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// parsePageNumber accepts an empty value (first page) or a positive integer.
func parsePageNumber(raw string) (int, bool) {
	if raw == "" {
		return 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// pageCount is at least 1 so an empty list still has a first page.
func pageCount(count int64, size int) int {
	if count <= 0 {
		return 1
	}
	return int((count + int64(size) - 1) / int64(size))
}

func newPage(c *gin.Context, count int64, number, size int, results any) page {
	p := page{Count: count, Results: results}
	if number < pageCount(count, size) {
		next := pageURL(c, number+1)
		p.Next = &next
	}
	if number > 1 {
		prev := pageURL(c, number-1)
		p.Previous = &prev
	}
	return p
}

// pageURL is the absolute URL of the current request pointing at page n.
// Page 1 drops the parameter.
func pageURL(c *gin.Context, n int) string {
	u := url.URL{
		Scheme: "http",
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	q := c.Request.URL.Query()
	if n == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
