// Package content resolves post identifiers to markdown files below a single
// content root. Identifiers are checked against an allow-list before any
// path is built, and all reads go through an fs.FS rooted at the content
// root, so nothing outside it can be reached.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Extension is appended to a post identifier to form its file name.
const Extension = ".md"

// MaxIdentifierLength bounds the length of a post identifier.
const MaxIdentifierLength = 128

// ErrNotFound is returned for invalid identifiers and missing or unreadable files.
var ErrNotFound = errors.New("content not found")

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("postid", func(fl validator.FieldLevel) bool {
		return identifierPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidIdentifier reports whether id may be used to build a file name.
func ValidIdentifier(id string) bool {
	return validate.Var(id, fmt.Sprintf("required,max=%d,postid", MaxIdentifierLength)) == nil
}

// IsNotFound reports whether err means the requested content does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Resolver reads markdown documents from a content root.
type Resolver struct {
	fsys fs.FS
}

// NewResolver creates a Resolver for the directory at root.
func NewResolver(root string) (*Resolver, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("content root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %s: not a directory", root)
	}
	return NewResolverFS(os.DirFS(root)), nil
}

// NewResolverFS creates a Resolver over an arbitrary filesystem.
func NewResolverFS(fsys fs.FS) *Resolver {
	return &Resolver{fsys: fsys}
}

// Resolve returns the markdown text of the post with the given identifier.
func (r *Resolver) Resolve(ctx context.Context, id string) (string, error) {
	if !ValidIdentifier(id) {
		return "", fmt.Errorf("post %q: %w", id, ErrNotFound)
	}
	return r.read(ctx, id+Extension)
}

// ResolveFile returns the text of a fixed file directly below the content root.
func (r *Resolver) ResolveFile(ctx context.Context, name string) (string, error) {
	if name == "" || name == "." || !fs.ValidPath(name) || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("file %q: %w", name, ErrNotFound)
	}
	return r.read(ctx, name)
}

func (r *Resolver) read(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w (%w)", name, ErrNotFound, err)
	}
	return string(data), nil
}
