package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParsePageNumber(t *testing.T) {
	for raw, want := range map[string]int{"": 1, "1": 1, "7": 7} {
		n, ok := parsePageNumber(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, n, raw)
	}
	for _, raw := range []string{"0", "-1", "two", "1.5"} {
		_, ok := parsePageNumber(raw)
		assert.False(t, ok, raw)
	}
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, pageCount(0, 10))
	assert.Equal(t, 1, pageCount(10, 10))
	assert.Equal(t, 2, pageCount(11, 10))
	assert.Equal(t, 3, pageCount(21, 10))
}

func TestPageURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "http://api.example.com/api/budgets/?page=2&foo=bar", nil)

	assert.Equal(t, "http://api.example.com/api/budgets/?foo=bar&page=3", pageURL(c, 3))
	assert.Equal(t, "http://api.example.com/api/budgets/?foo=bar", pageURL(c, 1))

	c.Request.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://api.example.com/api/budgets/?foo=bar&page=3", pageURL(c, 3))
}

func TestNewPageLinks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/budgets/", nil)

	p := newPage(c, 0, 1, 10, []string{})
	assert.Nil(t, p.Next)
	assert.Nil(t, p.Previous)

	p = newPage(c, 25, 2, 10, []string{})
	if assert.NotNil(t, p.Next) && assert.NotNil(t, p.Previous) {
		assert.Equal(t, "http://example.com/api/budgets/?page=3", *p.Next)
		assert.Equal(t, "http://example.com/api/budgets/", *p.Previous)
	}
}
