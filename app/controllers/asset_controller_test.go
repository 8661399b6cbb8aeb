package controllers

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestAssetServe(t *testing.T) {
	assets := fstest.MapFS{
		"scripts/blog.js": {Data: []byte("console.log('hi');")},
		"styles/blog.css": {Data: []byte("body{}")},
		"styles/nested":   {Mode: fs.ModeDir},
	}
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("rendered 404"))
	})
	ac := NewAssetController(assets, notFound)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedType   string
		expectedBody   string
	}{
		{
			name:           "script",
			path:           "/scripts/blog.js",
			expectedStatus: http.StatusOK,
			expectedType:   "javascript",
			expectedBody:   "console.log('hi');",
		},
		{
			name:           "stylesheet",
			path:           "/styles/blog.css",
			expectedStatus: http.StatusOK,
			expectedType:   "text/css",
			expectedBody:   "body{}",
		},
		{
			name:           "missing asset",
			path:           "/scripts/missing.js",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "rendered 404",
		},
		{
			name:           "directory",
			path:           "/styles/nested",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "rendered 404",
		},
		{
			name:           "traversal",
			path:           "/scripts/../../etc/passwd",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "rendered 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.URL.Path = tt.path
			w := httptest.NewRecorder()

			ac.Serve(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, w.Body.String())
			if tt.expectedType != "" {
				assert.Contains(t, w.Header().Get("Content-Type"), tt.expectedType)
			}
		})
	}
}
