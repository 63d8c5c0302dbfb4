// Package ctrlbase is shared by the browse and admin controllers: template
// rendering, sessions, flashes and proxy aware paths
package ctrlbase

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/Masterminds/sprig"
	"github.com/dustin/go-humanize"
	"github.com/gorilla/sessions"
	"github.com/philippta/go-template/html/template"

	"go.senan.xyz/musicarchive"
	"go.senan.xyz/musicarchive/server/assets"
)

type CtxKey int

const (
	CtxSession CtxKey = iota
)

const sessionName = "musicarchive"

type Controller struct {
	ProxyPrefix string
	sessDB      sessions.Store
	templates   map[string]*template.Template
}

func New(proxyPrefix string, sessDB sessions.Store) (*Controller, error) {
	c := &Controller{
		ProxyPrefix: proxyPrefix,
		sessDB:      sessDB,
	}
	tmplBase := template.
		New("layout").
		Funcs(template.FuncMap(sprig.FuncMap())).
		Funcs(funcMap()).       // static
		Funcs(template.FuncMap{ // from base
			"path": c.Path,
		})
	var err error
	if tmplBase, err = extendFromFS(tmplBase, assets.Partials); err != nil {
		return nil, fmt.Errorf("extend partials: %w", err)
	}
	if tmplBase, err = extendFromFS(tmplBase, assets.Layouts); err != nil {
		return nil, fmt.Errorf("extend layouts: %w", err)
	}
	if c.templates, err = pagesFromFS(tmplBase, assets.Pages); err != nil {
		return nil, fmt.Errorf("build pages: %w", err)
	}
	return c, nil
}

// Path returns a URL path with the proxy prefix included
func (c *Controller) Path(rel string) string {
	if c.ProxyPrefix == "" {
		return rel
	}
	// path.Join drops a query string's meaning, so only join the path part
	p, query, _ := strings.Cut(rel, "?")
	joined := path.Join(c.ProxyPrefix, p)
	if strings.HasSuffix(p, "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	if query != "" {
		return joined + "?" + query
	}
	return joined
}

func (c *Controller) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := c.sessDB.Get(r, sessionName)
		if err != nil {
			// a cookie signed with an old key. the store still hands back a
			// fresh session, so carry on with that
			log.Printf("error getting session: %v", err)
		}
		withSession := context.WithValue(r.Context(), CtxSession, session)
		next.ServeHTTP(w, r.WithContext(withSession))
	})
}

// Session is the request's session, or nil if the route isn't wrapped with
// WithSession
func Session(r *http.Request) *sessions.Session {
	session, _ := r.Context().Value(CtxSession).(*sessions.Session)
	return session
}

// extendFromFS /extends/ the given template for every file in fsys
func extendFromFS(b *template.Template, fsys fs.FS) (*template.Template, error) {
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		tmplStr, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		if b, err = b.Parse(string(tmplStr)); err != nil {
			return fmt.Errorf("parse %q: %w", p, err)
		}
		return nil
	})
	return b, err
}

// pagesFromFS /clones/ the given template for every file in fsys, extends
// it, and inserts it into a new map keyed by file name
func pagesFromFS(b *template.Template, fsys fs.FS) (map[string]*template.Template, error) {
	ret := map[string]*template.Template{}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		tmplStr, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		clone, err := b.Clone()
		if err != nil {
			return err
		}
		if ret[path.Base(p)], err = clone.Parse(string(tmplStr)); err != nil {
			return fmt.Errorf("parse %q: %w", p, err)
		}
		return nil
	})
	return ret, err
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"noCache": func(in string) string {
			parsed, _ := url.Parse(in)
			params := parsed.Query()
			params.Set("v", musicarchive.Version)
			parsed.RawQuery = params.Encode()
			return parsed.String()
		},
		"comma": func(in int) string {
			return humanize.Comma(int64(in))
		},
	}
}

type TemplateData struct {
	// common
	Flashes []any
	Version string
	// Page is what the handler rendered, read as `.Page` in templates
	Page any
}

type Response struct {
	// code is 200
	Template string
	Data     any
	// code is 303
	Redirect string
	FlashN   []Flash // normal
	FlashW   []Flash // warning
	// code is >= 400
	Code int
	Err  string
	// the handler blocked, eg. on the content endpoint. the session is read
	// again before flashes are added so values other requests saved in the
	// meantime aren't overwritten. SessionValues are set on the fresh copy
	Reload        bool
	SessionValues map[string]any
}

type Handler func(r *http.Request) *Response

func (c *Controller) H(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := h(r)
		session := Session(r)
		if session != nil && resp.Reload {
			session = c.reloadSession(r, session)
		}
		if session != nil {
			for k, v := range resp.SessionValues {
				session.Values[k] = v
			}
			sessAddFlash(session, resp.FlashN, FlashNormal)
			sessAddFlash(session, resp.FlashW, FlashWarning)
			if err := session.Save(r, w); err != nil {
				http.Error(w, fmt.Sprintf("error saving session: %v", err), 500)
				return
			}
		}
		if resp.Redirect != "" {
			to := resp.Redirect
			if strings.HasPrefix(to, "/") {
				to = c.Path(to)
			}
			http.Redirect(w, r, to, http.StatusSeeOther)
			return
		}
		if resp.Err != "" {
			http.Error(w, resp.Err, resp.Code)
			return
		}
		if resp.Template == "" {
			http.Error(w, "useless handler return", 500)
			return
		}
		data := &TemplateData{
			Version: musicarchive.Version,
			Page:    resp.Data,
		}
		if session != nil {
			data.Flashes = session.Flashes()
			if err := session.Save(r, w); err != nil {
				http.Error(w, fmt.Sprintf("error saving session: %v", err), 500)
				return
			}
		}
		tmpl, ok := c.templates[resp.Template]
		if !ok {
			http.Error(w, fmt.Sprintf("finding template %q", resp.Template), 500)
			return
		}
		var buff bytes.Buffer
		if err := tmpl.Execute(&buff, data); err != nil {
			http.Error(w, fmt.Sprintf("executing template: %v", err), 500)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if resp.Code != 0 {
			w.WriteHeader(resp.Code)
		}
		if _, err := buff.WriteTo(w); err != nil {
			log.Printf("error writing to response buffer: %v\n", err)
		}
	})
}

// reloadSession reads the request's session from the store again, skipping
// the copy cached for this request
func (c *Controller) reloadSession(r *http.Request, stale *sessions.Session) *sessions.Session {
	fresh, err := c.sessDB.New(r, sessionName)
	if err != nil {
		log.Printf("error reloading session: %v", err)
	}
	if fresh == nil {
		return stale
	}
	return fresh
}

func (c *Controller) ServeNotFound(r *http.Request) *Response {
	return &Response{Template: "not_found.tmpl", Code: http.StatusNotFound}
}

type FlashType string

const (
	FlashNormal  = FlashType("normal")
	FlashWarning = FlashType("warning")
)

type Flash struct {
	Title   string
	Message string
	Type    FlashType
}

func init() {
	gob.Register(&Flash{})
}

func sessAddFlash(s *sessions.Session, flashes []Flash, flashT FlashType) {
	for i, flash := range flashes {
		if i > 6 {
			break
		}
		flash.Type = flashT
		s.AddFlash(flash)
	}
}
