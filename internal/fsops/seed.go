package fsops

import (
	"fmt"
	"os"
	"unicode/utf8"

	"go.uber.org/zap"

	gerr "gcmgen/internal/errors"
	"gcmgen/internal/plan"
	"gcmgen/internal/safety"
)

// SeedArgs — параметры заполнения файлов стартовым содержимым.
type SeedArgs struct {
	Root     string
	Entries  []plan.ContentEntry
	DryRun   bool
	Reporter Reporter
	Log      *zap.Logger
}

// Seed перезаписывает каждый файл из Entries его каноническим содержимым (UTF-8).
// Файл обязан уже существовать: Seed не создаёт ни файлов, ни каталогов.
// Повторный запуск возвращает файлы к исходному содержимому.
func Seed(a SeedArgs) error {
	if a.Reporter == nil {
		a.Reporter = nopReporter{}
	}
	if a.Log == nil {
		a.Log = zap.NewNop()
	}

	for _, e := range a.Entries {
		path, err := safety.JoinRel(a.Root, e.Path)
		if err != nil {
			err = gerr.Wrap(gerr.ESpec, "seed "+e.Path, err)
			a.Reporter.Failed(File, e.Path, err)
			return err
		}
		if !utf8.ValidString(e.Content) {
			err = gerr.New(gerr.ESpec, "seed "+e.Path+": содержимое не в UTF-8")
			a.Reporter.Failed(File, path, err)
			return err
		}
		if a.DryRun {
			a.Reporter.Seeded(path, len(e.Content), true)
			continue
		}
		if err := writeExisting(path, e.Content); err != nil {
			a.Reporter.Failed(File, path, err)
			return err
		}
		a.Log.Debug("file seeded", zap.String("path", path), zap.Int("bytes", len(e.Content)))
		a.Reporter.Seeded(path, len(e.Content), false)
	}
	return nil
}

// writeExisting усекает существующий обычный файл и пишет content.
// Дескриптор закрывается на любом пути выхода.
func writeExisting(path, content string) (err error) {
	// Stat следует симлинкам: пишем в цель ссылки.
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return gerr.FS("seed", path, fmt.Errorf("файл не создан структурой: %w", err))
	case err != nil:
		return gerr.FS("seed", path, err)
	case !info.Mode().IsRegular():
		return gerr.FS("seed", path, fmt.Errorf("не обычный файл (%s)", info.Mode().Type()))
	}

	// Без O_CREATE: заполнение никогда не создаёт новых путей.
	f, err := openFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return gerr.FS("seed", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = gerr.FS("seed", path, cerr)
		}
	}()

	if _, err := f.WriteString(content); err != nil {
		return gerr.FS("seed", path, err)
	}
	return nil
}
