package fsops

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	gerr "gcmgen/internal/errors"
	"gcmgen/internal/plan"
)

// Entity — что именно создаётся: каталог или файл.
type Entity int

const (
	Dir Entity = iota
	File
)

// Reporter получает по одному событию на каждую сущность ФС.
// Failed вызывается в точке сбоя, до того как ошибка уйдёт наверх.
type Reporter interface {
	Created(kind Entity, path string, existed, dry bool)
	Seeded(path string, bytes int, dry bool)
	Failed(kind Entity, path string, err error)
}

// BuildArgs — параметры создания структуры.
type BuildArgs struct {
	Root     string
	Tree     plan.Tree
	DryRun   bool
	DirPerm  os.FileMode
	FilePerm os.FileMode
	Reporter Reporter
	Log      *zap.Logger
}

// Build обходит дерево в глубину (pre-order) и создаёт каталоги и пустые файлы.
// Существующие каталоги и файлы — не ошибка, содержимое файлов не меняется.
// Первая же ошибка ОС прерывает обход; уже созданное остаётся на диске.
func Build(a BuildArgs) error {
	a = a.withDefaults()

	// Корень: обычно текущий каталог, но -out может указывать на новый.
	if a.DryRun {
		a.Log.Debug("dry-run root", zap.String("path", a.Root))
	} else if err := os.MkdirAll(a.Root, a.DirPerm); err != nil {
		err = gerr.FS("mkdir", a.Root, err)
		a.Reporter.Failed(Dir, a.Root, err)
		return err
	}

	return a.walk(a.Root, a.Tree)
}

func (a BuildArgs) walk(dir string, t plan.Tree) error {
	for _, e := range t {
		p := filepath.Join(dir, e.Name)

		switch e.Node.Kind {
		case plan.KindTree:
			if err := a.ensureDir(p); err != nil {
				return err
			}
			if err := a.walk(p, e.Node.Children); err != nil {
				return err
			}

		case plan.KindFiles:
			if err := a.ensureDir(p); err != nil {
				return err
			}
			for _, name := range e.Node.Files {
				if err := a.ensureFile(filepath.Join(p, name)); err != nil {
					return err
				}
			}

		case plan.KindFile:
			if err := a.ensureFile(p); err != nil {
				return err
			}

		default:
			err := gerr.New(gerr.ESpec, fmt.Sprintf("неизвестный вид узла %v: %s", e.Node.Kind, p))
			a.Reporter.Failed(File, p, err)
			return err
		}
	}
	return nil
}

func (a BuildArgs) ensureDir(path string) error {
	// Stat, а не Lstat: симлинк на каталог считается каталогом.
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		// Каталог уже есть — ок, права не трогаем
		a.Reporter.Created(Dir, path, true, a.DryRun)
		return nil

	case err == nil:
		err = gerr.FS("mkdir", path, fmt.Errorf("конфликт: по этому пути уже существует файл"))
		a.Reporter.Failed(Dir, path, err)
		return err

	case os.IsNotExist(err):
		if a.DryRun {
			a.Reporter.Created(Dir, path, false, true)
			return nil
		}
		// Родитель уже создан предыдущим шагом обхода, поэтому Mkdir, а не MkdirAll.
		if err := mkdir(path, a.DirPerm); err != nil {
			// Каталог мог появиться между Stat и Mkdir. Висячий симлинк остаётся ошибкой.
			if os.IsExist(err) {
				if info, serr := os.Stat(path); serr == nil && info.IsDir() {
					a.Reporter.Created(Dir, path, true, false)
					return nil
				}
			}
			err = gerr.FS("mkdir", path, err)
			a.Reporter.Failed(Dir, path, err)
			return err
		}
		if err := os.Chmod(path, a.DirPerm); err != nil {
			err = gerr.FS("chmod", path, err)
			a.Reporter.Failed(Dir, path, err)
			return err
		}
		a.Log.Debug("dir created", zap.String("path", path))
		a.Reporter.Created(Dir, path, false, false)
		return nil

	default:
		err = gerr.FS("stat", path, err)
		a.Reporter.Failed(Dir, path, err)
		return err
	}
}

func (a BuildArgs) ensureFile(path string) error {
	// Stat следует симлинкам: тип решает цель ссылки, как и при заполнении.
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		err = gerr.FS("touch", path, fmt.Errorf("конфликт: по этому пути уже есть каталог"))
		a.Reporter.Failed(File, path, err)
		return err

	case err == nil && !info.Mode().IsRegular():
		err = gerr.FS("touch", path, fmt.Errorf("конфликт: не обычный файл (%s)", info.Mode().Type()))
		a.Reporter.Failed(File, path, err)
		return err

	case err == nil:
		// Файл уже есть: не усекаем и не перезаписываем
		a.Reporter.Created(File, path, true, a.DryRun)
		return nil

	case os.IsNotExist(err):
		if a.DryRun {
			a.Reporter.Created(File, path, false, true)
			return nil
		}
		// Без O_TRUNC: даже если файл появился после Stat, содержимое не теряется.
		f, err := openFile(path, os.O_CREATE|os.O_WRONLY, a.FilePerm)
		if err != nil {
			err = gerr.FS("touch", path, err)
			a.Reporter.Failed(File, path, err)
			return err
		}
		if err := f.Close(); err != nil {
			err = gerr.FS("touch", path, err)
			a.Reporter.Failed(File, path, err)
			return err
		}
		if err := os.Chmod(path, a.FilePerm); err != nil {
			err = gerr.FS("chmod", path, err)
			a.Reporter.Failed(File, path, err)
			return err
		}
		a.Log.Debug("file created", zap.String("path", path))
		a.Reporter.Created(File, path, false, false)
		return nil

	default:
		err = gerr.FS("stat", path, err)
		a.Reporter.Failed(File, path, err)
		return err
	}
}

func (a BuildArgs) withDefaults() BuildArgs {
	if a.DirPerm == 0 {
		a.DirPerm = 0o755
	}
	if a.FilePerm == 0 {
		a.FilePerm = 0o644
	}
	if a.Reporter == nil {
		a.Reporter = nopReporter{}
	}
	if a.Log == nil {
		a.Log = zap.NewNop()
	}
	return a
}

// Точки подмены для тестов.
var (
	mkdir    = os.Mkdir
	openFile = os.OpenFile
)

type nopReporter struct{}

func (nopReporter) Created(Entity, string, bool, bool) {}
func (nopReporter) Seeded(string, int, bool)           {}
func (nopReporter) Failed(Entity, string, error)       {}
