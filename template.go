package maildispatch

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Emmastro/mail-dispatch/internal/core"
)

//go:embed templates/*.html
var builtinTemplates embed.FS

// DefaultTemplateDir is the fallback template directory, resolved against
// the current working directory when EMAIL_TEMPLATE_DIR is not configured.
const DefaultTemplateDir = "templates/emails"

// templateExt maps a template name to its on-disk file. Callers name
// templates without extension; the renderer owns the naming convention.
const templateExt = ".html"

// TemplateRenderer resolves template names to files under a single root,
// binds a data mapping, and returns HTML output with contextual
// auto-escaping applied to every interpolated value. Compiled templates
// are cached; the cache is safe for concurrent use and first-use
// compilation is idempotent.
type TemplateRenderer struct {
	fsys   fs.FS
	root   string // empty when serving the embedded bundle
	logger zerolog.Logger

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewTemplateRenderer creates a renderer rooted at dir. The directory is
// created (including parents) if missing.
func NewTemplateRenderer(dir string, logger zerolog.Logger) (*TemplateRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create template directory %s: %w", dir, err)
	}

	return &TemplateRenderer{
		fsys:   os.DirFS(dir),
		root:   dir,
		logger: logger,
		cache:  make(map[string]*template.Template),
	}, nil
}

// TemplateRendererFromConfig resolves the template root from the
// configuration. The search order is evaluated once, here:
//  1. EMAIL_TEMPLATE_DIR, created if missing;
//  2. the well-known default directory relative to the working directory,
//     used only if it already exists;
//  3. the library-bundled templates, with a diagnostic warning.
//
// The last fallback never fails, so a service can always be constructed.
func TemplateRendererFromConfig(cfg core.Config, logger zerolog.Logger) (*TemplateRenderer, error) {
	if dir := cfg.Get("EMAIL_TEMPLATE_DIR"); dir != "" {
		return NewTemplateRenderer(dir, logger)
	}

	if info, err := os.Stat(DefaultTemplateDir); err == nil && info.IsDir() {
		return NewTemplateRenderer(DefaultTemplateDir, logger)
	}

	logger.Warn().
		Str("dir", DefaultTemplateDir).
		Msg("template directory not found, falling back to bundled templates")

	sub, err := fs.Sub(builtinTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open bundled templates: %w", err)
	}

	return &TemplateRenderer{
		fsys:   sub,
		logger: logger,
		cache:  make(map[string]*template.Template),
	}, nil
}

// Root returns the on-disk template root, or the empty string when the
// renderer serves the embedded bundle.
func (t *TemplateRenderer) Root() string {
	return t.root
}

// Render renders the named template with the provided data. Interpolated
// values are HTML-escaped. Returns ErrTemplateNotFound when no file
// matches the name, and a TemplateError for resolution, parse, or
// execution failures.
func (t *TemplateRenderer) Render(name string, data map[string]any) (string, error) {
	tmpl, err := t.lookup(name)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", core.NewTemplateError(name, "render", "failed to execute template", err)
	}

	return buf.String(), nil
}

// lookup returns the compiled template for name, compiling and caching it
// on first use. Two concurrent first lookups may both compile; the write
// is double-checked so the cache stays consistent either way.
func (t *TemplateRenderer) lookup(name string) (*template.Template, error) {
	filename, err := t.resolve(name)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	tmpl, ok := t.cache[filename]
	t.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	content, err := fs.ReadFile(t.fsys, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrTemplateNotFound, name)
		}
		return nil, core.NewTemplateError(name, "read", "failed to read template file", err)
	}

	tmpl, err = template.New(filename).Parse(string(content))
	if err != nil {
		return nil, core.NewTemplateError(name, "parse", "failed to parse template", err)
	}

	t.mu.Lock()
	if cached, ok := t.cache[filename]; ok {
		tmpl = cached
	} else {
		t.cache[filename] = tmpl
	}
	t.mu.Unlock()

	return tmpl, nil
}

// resolve maps a template name to its file and enforces containment:
// every lookup stays under the configured root. Template names may come
// from caller-controlled strings, so traversal is rejected outright.
func (t *TemplateRenderer) resolve(name string) (string, error) {
	if name == "" {
		return "", core.NewTemplateError(name, "resolve", "template name is empty", nil)
	}
	if strings.Contains(name, "\\") || strings.HasPrefix(name, "/") {
		return "", core.NewTemplateError(name, "resolve", "template name escapes the template root", nil)
	}

	filename := path.Clean(name + templateExt)
	if !fs.ValidPath(filename) || filename == ".." || strings.HasPrefix(filename, "../") {
		return "", core.NewTemplateError(name, "resolve", "template name escapes the template root", nil)
	}

	return filename, nil
}
