package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"mdblog/app/logger"
	"mdblog/app/views"
)

// PostPathPrefix is the route prefix under which posts are served.
const PostPathPrefix = "/markdown/"

// NotFoundHeading is the title heading used for the not-found page.
const NotFoundHeading = "Not Found"

// ErrPostNotFound is returned by PostPage when the post cannot be resolved.
var ErrPostNotFound = errors.New("post not found")

// ContentResolver finds the markdown source of posts and fixed documents.
type ContentResolver interface {
	Resolve(ctx context.Context, id string) (string, error)
	ResolveFile(ctx context.Context, name string) (string, error)
}

// MarkdownRenderer turns markdown into an HTML fragment.
type MarkdownRenderer interface {
	Render(source string) (string, error)
}

// Options are fixed at startup.
type Options struct {
	DefaultPost  string
	NotFoundFile string
	SiteTitle    string
}

// PostController handles HTTP requests for blog posts
type PostController struct {
	resolver ContentResolver
	renderer MarkdownRenderer
	opts     Options
	log      *logger.Logger
}

// NewPostController creates a new PostController
func NewPostController(resolver ContentResolver, renderer MarkdownRenderer, opts Options, log *logger.Logger) *PostController {
	if log == nil {
		log = logger.NewNop()
	}
	return &PostController{
		resolver: resolver,
		renderer: renderer,
		opts:     opts,
		log:      log.WithComponent("posts"),
	}
}

// Root redirects the site root to the default post.
func (pc *PostController) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, pc.DefaultPostPath(), http.StatusFound)
}

// DefaultPostPath is the redirect target of the site root.
func (pc *PostController) DefaultPostPath() string {
	return PostPathPrefix + pc.opts.DefaultPost
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := url.PathUnescape(mux.Vars(r)["post_id"])
	if err != nil {
		pc.NotFound(w, r)
		return
	}

	page, err := pc.PostPage(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			pc.NotFound(w, r)
			return
		}
		pc.sendError(w, "render post", err, "post_id", id)
		return
	}

	pc.sendHTML(w, http.StatusOK, page)
}

// NotFound renders the not-found document with a 404 status.
func (pc *PostController) NotFound(w http.ResponseWriter, r *http.Request) {
	page, err := pc.NotFoundPage(r.Context())
	if err != nil {
		pc.log.WithError(err).Errorw("not-found document unavailable",
			"file", pc.opts.NotFoundFile,
			"path", r.URL.Path,
		)
		http.NotFound(w, r)
		return
	}

	pc.sendHTML(w, http.StatusNotFound, page)
}

// PostPage renders the full page for the post with the given identifier.
// Any resolver failure is reported as ErrPostNotFound.
func (pc *PostController) PostPage(ctx context.Context, id string) (string, error) {
	source, err := pc.resolver.Resolve(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPostNotFound, err)
	}
	title := views.Title(views.HumanizeIdentifier(id), pc.opts.SiteTitle)
	return pc.renderPage(title, source)
}

// NotFoundPage renders the full not-found page.
func (pc *PostController) NotFoundPage(ctx context.Context) (string, error) {
	source, err := pc.resolver.ResolveFile(ctx, pc.opts.NotFoundFile)
	if err != nil {
		return "", err
	}
	return pc.renderPage(views.Title(NotFoundHeading, pc.opts.SiteTitle), source)
}

func (pc *PostController) renderPage(title, source string) (string, error) {
	fragment, err := pc.renderer.Render(source)
	if err != nil {
		return "", err
	}
	return views.RenderPage(title, fragment)
}

// Helper methods for consistent response handling

func (pc *PostController) sendHTML(w http.ResponseWriter, status int, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, page); err != nil {
		pc.log.WithError(err).Debugw("write response")
	}
}

func (pc *PostController) sendError(w http.ResponseWriter, msg string, err error, fields ...interface{}) {
	pc.log.WithError(err).Errorw(msg, fields...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
