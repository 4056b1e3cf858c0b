package plan

import (
	"fmt"
	"path"

	"gcmgen/internal/safety"
)

// Kind — какой из трёх вариантов несёт узел.
type Kind int

const (
	// KindTree — каталог с вложенным поддеревом.
	KindTree Kind = iota
	// KindFiles — каталог с плоским списком пустых файлов.
	KindFiles
	// KindFile — само имя является пустым файлом.
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindTree:
		return "tree"
	case KindFiles:
		return "files"
	case KindFile:
		return "file"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Entry — именованный дочерний элемент поддерева.
type Entry struct {
	Name string
	Node Node
}

// Tree — упорядоченное поддерево. Порядок вставки = порядок обхода.
type Tree []Entry

// Node — размеченный вариант: поддерево, список файлов или одиночный файл.
// Значимо только поле, соответствующее Kind.
type Node struct {
	Kind     Kind
	Children Tree     // для KindTree
	Files    []string // для KindFiles
}

// Sub строит узел-поддерево.
func Sub(entries ...Entry) Node { return Node{Kind: KindTree, Children: entries} }

// Files строит каталог со списком пустых файлов. Без аргументов — пустой каталог.
func Files(names ...string) Node { return Node{Kind: KindFiles, Files: names} }

// File — маркер «это имя само по себе файл».
func File() Node { return Node{Kind: KindFile} }

// E — короткая запись для Entry.
func E(name string, n Node) Entry { return Entry{Name: name, Node: n} }

// ContentEntry — путь относительно корня (через "/") и литеральное содержимое.
type ContentEntry struct {
	Path    string
	Content string
}

// Plan — дерево и список файлов, которые после него заполняются содержимым.
type Plan struct {
	Tree     Tree
	Contents []ContentEntry
}

// PathInfo — один путь, который даёт обход дерева.
type PathInfo struct {
	Path string // относительный, через "/"
	Dir  bool
}

// Paths перечисляет все пути в порядке обхода (в глубину, pre-order).
func (t Tree) Paths() []PathInfo {
	var out []PathInfo
	t.walk("", func(p string, dir bool) { out = append(out, PathInfo{Path: p, Dir: dir}) })
	return out
}

func (t Tree) walk(prefix string, fn func(p string, dir bool)) {
	for _, e := range t {
		p := path.Join(prefix, e.Name)
		switch e.Node.Kind {
		case KindTree:
			fn(p, true)
			e.Node.Children.walk(p, fn)
		case KindFiles:
			fn(p, true)
			for _, f := range e.Node.Files {
				fn(path.Join(p, f), false)
			}
		case KindFile:
			fn(p, false)
		}
	}
}

// Validate проверяет дерево: имена — один сегмент, пути уникальны, вид узла известен.
func (t Tree) Validate() error {
	return t.validate("")
}

func (t Tree) validate(prefix string) error {
	seen := make(map[string]struct{}, len(t))
	for _, e := range t {
		p := path.Join(prefix, e.Name)
		if err := safety.ValidateName(e.Name); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("повторяющийся путь: %s", p)
		}
		seen[e.Name] = struct{}{}

		switch e.Node.Kind {
		case KindTree:
			if err := e.Node.Children.validate(p); err != nil {
				return err
			}
		case KindFiles:
			files := make(map[string]struct{}, len(e.Node.Files))
			for _, f := range e.Node.Files {
				fp := path.Join(p, f)
				if err := safety.ValidateName(f); err != nil {
					return fmt.Errorf("%s: %w", fp, err)
				}
				if _, dup := files[f]; dup {
					return fmt.Errorf("повторяющийся путь: %s", fp)
				}
				files[f] = struct{}{}
			}
		case KindFile:
		default:
			return fmt.Errorf("%s: неизвестный вид узла %v", p, e.Node.Kind)
		}
	}
	return nil
}

// Validate проверяет дерево и то, что каждая цель ContentEntry создаётся деревом как файл.
// Заполнение содержимым никогда не создаёт новых путей.
func (p Plan) Validate() error {
	if err := p.Tree.Validate(); err != nil {
		return err
	}
	files := make(map[string]bool)
	for _, pi := range p.Tree.Paths() {
		files[pi.Path] = !pi.Dir
	}
	for _, c := range p.Contents {
		isFile, ok := files[path.Clean(c.Path)]
		switch {
		case !ok:
			return fmt.Errorf("содержимое для %s: путь не создаётся деревом", c.Path)
		case !isFile:
			return fmt.Errorf("содержимое для %s: путь является каталогом", c.Path)
		}
	}
	return nil
}
