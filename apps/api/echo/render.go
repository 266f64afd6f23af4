package echoapi

import (
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	appfs "github.com/kjboard/board/fs"
)

var viewsDir = "templates/views"

type (
	// flags are the one-shot outcome markers carried in the query string after a redirect.
	flags struct {
		Success bool
		Updated bool
		Deleted bool
		Error   bool
	}

	viewData struct {
		AppName  string
		Title    string
		IsAdmin  bool
		Username string
		Flags    flags
		Data     echo.Map
	}

	templateRenderer struct {
		pages map[string]*template.Template
	}
)

var viewFuncs = template.FuncMap{
	"timeago": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return humanize.Time(t)
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("2006-01-02 15:04")
	},
	"date": func(t null.Time) string {
		if !t.Valid {
			return "-"
		}
		return t.Time.Format("2006-01-02")
	},
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
}

// newTemplateRenderer parses every page under templates/views together with the layout.
func newTemplateRenderer() (*templateRenderer, error) {
	layout := path.Join(viewsDir, "_layout.gohtml")
	fps, err := fs.Glob(appfs.FS, path.Join(viewsDir, "*", "*.gohtml"))
	if err != nil {
		return nil, errors.Wrap(err, "globbing views")
	}
	rootFps, err := fs.Glob(appfs.FS, path.Join(viewsDir, "*.gohtml"))
	if err != nil {
		return nil, errors.Wrap(err, "globbing views")
	}
	fps = append(fps, rootFps...)

	pages := make(map[string]*template.Template, len(fps))
	for _, fp := range fps {
		if fp == layout {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(fp, viewsDir+"/"), ".gohtml") // e.g. "students/index"
		tmpl, err := template.New(path.Base(layout)).Funcs(viewFuncs).ParseFS(appfs.FS, layout, fp)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", fp)
		}
		pages[name] = tmpl
	}
	return &templateRenderer{pages: pages}, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("view %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}
