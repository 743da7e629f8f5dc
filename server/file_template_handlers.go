package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const contentTypeHTML = "text/html; charset=utf-8"

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// pageSet holds each page parsed together with the shared layout
type pageSet struct {
	pages map[string]*template.Template
}

func parsePages() (*pageSet, error) {
	set := &pageSet{pages: make(map[string]*template.Template)}
	for _, name := range allPages {
		tmpl, err := template.ParseFS(TemplateFilesFS(), "layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		set.pages[name] = tmpl
	}
	return set, nil
}

func (p *pageSet) render(w http.ResponseWriter, name string, status int, data PageData) {
	tmpl, ok := p.pages[name]
	if !ok {
		http.Error(w, "404 - Page Not Found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Err(err).Str("page", name).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
