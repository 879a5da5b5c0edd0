package responses

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/tenant"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/websession"
	"github.com/gorilla/csrf"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

// Data is the template binding of a page.
type Data map[string]any

type flashSource interface {
	Flashes(w http.ResponseWriter, r *http.Request) []websession.Flash
}

// ViewOptions configures the HTML renderer.
type ViewOptions struct {
	// Templates holds a "templates" directory with layout.tmpl at its root.
	Templates fs.FS
	Formatter *money.Formatter
	Flashes   flashSource
	// Reload re-parses templates on every render (development).
	Reload bool
}

// View renders server-side pages and fragments.
type View struct {
	page     *render.Render
	fragment *render.Render
	flashes  flashSource
}

// NewView builds the page renderer (wrapped in the layout) and the fragment
// renderer used for AJAX partials.
func NewView(opts ViewOptions) *View {
	formatter := opts.Formatter
	if formatter == nil {
		formatter = money.NewFormatter("$")
	}
	funcs := []template.FuncMap{{
		"money": func(amount decimal.Decimal) string { return formatter.Format(amount) },
		"cents": func(amount int64) string { return formatter.FormatCents(amount) },
		"add":   func(a, b int) int { return a + b },
		"sub":   func(a, b int) int { return a - b },
	}}
	base := render.Options{
		Directory:     "templates",
		Extensions:    []string{".tmpl"},
		Funcs:         funcs,
		IsDevelopment: opts.Reload,
	}
	if opts.Templates != nil {
		base.FileSystem = fsAdapter{opts.Templates}
	}
	pageOpts := base
	pageOpts.Layout = "layout"

	return &View{
		page:     render.New(pageOpts),
		fragment: render.New(base),
		flashes:  opts.Flashes,
	}
}

// Page renders name inside the layout. Flashes, the CSRF field, the tenant and the
// signed-in vendor are added to data.
func (v *View) Page(w http.ResponseWriter, r *http.Request, status int, name string, data Data) {
	if data == nil {
		data = Data{}
	}
	if v.flashes != nil {
		data["Flashes"] = v.flashes.Flashes(w, r)
	}
	data["CSRFField"] = csrf.TemplateField(r)
	data["Store"] = tenant.FromContext(r.Context())
	data["Principal"] = auth.PrincipalFromContext(r.Context())
	if _, ok := data["Title"]; !ok {
		data["Title"] = "Storefront"
	}
	_ = v.page.HTML(w, status, name, data)
}

// Fragment renders name without the layout.
func (v *View) Fragment(w http.ResponseWriter, r *http.Request, status int, name string, data Data) {
	if data == nil {
		data = Data{}
	}
	data["CSRFField"] = csrf.TemplateField(r)
	data["Store"] = tenant.FromContext(r.Context())
	_ = v.fragment.HTML(w, status, name, data)
}

// Error renders the error page matching err's code.
func (v *View) Error(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, r *http.Request, err error) {
	typed, status := classify(err)
	logError(ctx, logg, err, typed)

	name := "errors/500"
	switch typed.Code() {
	case pkgerrors.CodeNotFound:
		name = "errors/404"
	case pkgerrors.CodeForbidden, pkgerrors.CodeUnauthorized:
		name = "errors/403"
	case pkgerrors.CodeRateLimit, pkgerrors.CodeValidation, pkgerrors.CodeConflict, pkgerrors.CodeStateConflict:
		name = "errors/400"
	}
	v.Page(w, r, status, name, Data{
		"Title":   http.StatusText(status),
		"Message": PublicMessage(typed),
	})
}

// NotFound renders the 404 page.
func (v *View) NotFound(w http.ResponseWriter, r *http.Request) {
	v.Error(r.Context(), nil, w, r, pkgerrors.New(pkgerrors.CodeNotFound, "page not found"))
}
