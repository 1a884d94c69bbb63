package codebase

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/dhamidi/kotlyzer/kotlin/parser"
)

// Codebase holds the parsed state of every Kotlin file under a root
// directory. Files are re-parsed whole on every update.
type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*FileInfo
}

type FileInfo struct {
	Path     string
	Content  []byte
	File     *parser.KotlinFile
	Script   *parser.Script
	ParseErr error
}

func New(rootDir string) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) ScanAll() error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if isKotlinSource(path) {
			c.ScanFile(path)
		}
		return nil
	})
}

func isKotlinSource(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".kt" || ext == ".kts"
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

func (c *Codebase) UpdateFile(path string, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	info := &FileInfo{
		Path:    path,
		Content: content,
	}
	if filepath.Ext(path) == ".kts" {
		info.Script, info.ParseErr = parser.NewParser(string(content)).ParseScript()
	} else {
		info.File, info.ParseErr = parser.NewParser(string(content)).Parse()
	}
	c.files[path] = info
	return nil
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// FindDeclaration returns the first top-level declaration with the given
// name across all scanned files, or nil.
func (c *Codebase) FindDeclaration(name string) (*FileInfo, parser.Declaration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.files {
		if f.File == nil {
			continue
		}
		for _, decl := range f.File.Declarations {
			if declarationName(decl) == name {
				return f, decl
			}
		}
	}
	return nil, nil
}

func declarationName(decl parser.Declaration) string {
	switch d := decl.(type) {
	case *parser.ClassDeclaration:
		return d.Name
	case *parser.ObjectDeclaration:
		return d.Name
	case *parser.FunctionDeclaration:
		return d.Name
	case *parser.PropertyDeclaration:
		if variable, ok := d.Declaration.(*parser.VariableDeclaration); ok {
			return variable.Name
		}
	case *parser.TypeAlias:
		return d.Name
	}
	return ""
}
