package http

import (
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// Routes — маршруты клиентского приложения, для которых отдаётся index.html.
var Routes = []string{"/", "/shop", "/about", "/contact", "/cart", "/checkout", "/admin", "/auth"}

const SignInPath = "/auth"

var accessDenied = template.Must(template.New("denied").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Access denied</title></head>
<body>
<main>
<h1>Access denied</h1>
<p>{{if .Email}}{{.Email}} does not{{else}}You do not{{end}} have permission to view the admin panel.</p>
<p><a href="/">Back to the shop</a></p>
</main>
</body>
</html>
`))

type PagesHandler struct {
	staticDir string
	logger    logger.Logger
}

func NewPagesHandler(staticDir string, logger logger.Logger) *PagesHandler {
	return &PagesHandler{staticDir: staticDir, logger: logger}
}

func (p *PagesHandler) register(router chi.Router) {
	for _, route := range Routes {
		if route == "/admin" {
			router.Get(route, p.admin)
			continue
		}
		router.Get(route, p.index)
	}

	assets := http.StripPrefix("/assets/", http.FileServer(http.Dir(filepath.Join(p.staticDir, "assets"))))
	router.Get("/assets/*", assets.ServeHTTP)
}

func (p *PagesHandler) index(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(p.staticDir, "index.html"))
}

// admin пускает только администраторов. Аноним уходит на страницу входа,
// остальные получают страницу «доступ запрещён».
func (p *PagesHandler) admin(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())
	if identity == nil {
		http.Redirect(w, r, SignInPath+"?next=/admin", http.StatusFound)
		return
	}

	if !identity.IsAdmin {
		p.logger.Warnf("admin page denied. user: %s", identity.UserID)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		if err := accessDenied.Execute(w, identity); err != nil {
			p.logger.Errorf(err, "render access denied page")
		}
		return
	}

	p.index(w, r)
}
