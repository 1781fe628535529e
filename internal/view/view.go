package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	baseDir string
	once    sync.Once

	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
)

func detectBase() {
	candidates := []string{"templates", "../templates", "../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// SetBaseDir overrides the template base directory (useful for tests).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	baseDir = filepath.Clean(path)
	once = sync.Once{}
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
}

// Funcs returns the shared template helpers.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"date":  func(t time.Time) string { return t.Format("2006-01-02") },
		"mul": func(a float64, b int) float64 {
			return a * float64(b)
		},
		"year": func() int { return time.Now().Year() },
	}
}

func lookup(name string) (*template.Template, error) {
	if baseDir == "" {
		once.Do(detectBase)
	}

	tplCache.RLock()
	t, ok := tplCache.m[name]
	tplCache.RUnlock()
	if ok {
		return t, nil
	}

	mainPath := filepath.Join(baseDir, name)
	layoutPath := filepath.Join(baseDir, "layout.html")

	var parsed *template.Template
	var err error
	content, _ := os.ReadFile(mainPath)
	if bytes.Contains(bytes.ToLower(content), []byte("<!doctype")) {
		// Full document provided; skip layout wrapping.
		parsed, err = template.New(name).Funcs(Funcs()).ParseFiles(mainPath)
	} else {
		parsed, err = template.New("layout.html").Funcs(Funcs()).ParseFiles(layoutPath, mainPath)
	}
	if err != nil {
		return nil, err
	}

	if os.Getenv("DEV") != "1" {
		tplCache.Lock()
		tplCache.m[name] = parsed
		tplCache.Unlock()
	}
	return parsed, nil
}

// Render executes a template file with the shared funcs and writes it to w.
// name is the filename under the templates directory (e.g. "products.html").
func Render(w http.ResponseWriter, name string, data map[string]any) error {
	t, err := lookup(name)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.Execute(w, data)
}

// RenderString executes a template file and returns the result as a string.
// Used to produce the HTML document handed to the PDF converter.
func RenderString(name string, data map[string]any) (string, error) {
	t, err := lookup(name)
	if err != nil {
		return "", err
	}
	if data == nil {
		data = map[string]any{}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
