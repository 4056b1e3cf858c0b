package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"

	gerr "gcmgen/internal/errors"
	"gcmgen/internal/fsops"
	"gcmgen/internal/layout"
	"gcmgen/internal/parser"
	"gcmgen/internal/plan"
	"gcmgen/internal/report"
)

// Phase — стадия запуска.
type Phase int

const (
	NotStarted Phase = iota
	BuildingTree
	SeedingContent
	Done
	Failed
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case BuildingTree:
		return "building_tree"
	case SeedingContent:
		return "seeding_content"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Options — все настройки запуска утилиты.
type Options struct {
	Root     string // каталог назначения; пусто — текущий
	SpecPath string // внешний файл структуры; пусто — встроенная
	DryRun   bool
	NoSeed   bool
	Quiet    bool
	DirPerm  os.FileMode
	FilePerm os.FileMode
	Out      io.Writer // вывод прогресса; nil — os.Stdout
	Log      *zap.Logger
}

// Result — чем закончился запуск.
type Result struct {
	RunID string
	Root  string
	Phase Phase
}

// Run — главная функция: строит дерево, затем заполняет файлы.
// Заполнение начинается только после полностью успешного построения.
func Run(o Options) (Result, error) {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	res := Result{RunID: uuid.NewString(), Phase: NotStarted}
	log := o.Log.With(zap.String("run_id", res.RunID))
	rep := report.New(o.Out, log, o.Quiet)

	fail := func(err error) (Result, error) {
		log.Error("run failed", zap.Stringer("phase", res.Phase), zap.Error(err))
		res.Phase = Failed
		rep.Fatal(err)
		return res, err
	}

	rep.Banner()

	// 1) Корень: явный или текущий каталог.
	root, err := resolveRoot(o.Root)
	if err != nil {
		return fail(err)
	}
	res.Root = root

	// 2) План: встроенный или из файла.
	p, err := loadPlan(o.SpecPath, o.NoSeed)
	if err != nil {
		return fail(err)
	}

	// 3) Структура.
	res.Phase = BuildingTree
	rep.Start(root, runtime.GOOS, o.DryRun)
	err = fsops.Build(fsops.BuildArgs{
		Root:     root,
		Tree:     p.Tree,
		DryRun:   o.DryRun,
		DirPerm:  o.DirPerm,
		FilePerm: o.FilePerm,
		Reporter: rep,
		Log:      log,
	})
	if err != nil {
		return fail(err)
	}

	// 4) Содержимое.
	if len(p.Contents) > 0 {
		res.Phase = SeedingContent
		rep.SeedStart()
		err = fsops.Seed(fsops.SeedArgs{
			Root:     root,
			Entries:  p.Contents,
			DryRun:   o.DryRun,
			Reporter: rep,
			Log:      log,
		})
		if err != nil {
			return fail(err)
		}
	}

	res.Phase = Done
	rep.Success(layout.NextSteps, layout.Endpoints)
	return res, nil
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", gerr.FS("getwd", ".", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", gerr.Wrap(gerr.EUsage, "некорректный каталог назначения "+root, err)
	}
	return abs, nil
}

// loadPlan собирает план. Для внешнего дерева канонические файлы заполняются,
// только если дерево создаёт их как файлы; иначе это ошибка структуры.
func loadPlan(specPath string, noSeed bool) (plan.Plan, error) {
	p := layout.Plan()
	if specPath != "" {
		t, err := parser.Load(specPath)
		if err != nil {
			return plan.Plan{}, gerr.Wrap(gerr.ESpec, "ошибка разбора структуры "+specPath, err)
		}
		p.Tree = t
	}
	if noSeed {
		p.Contents = nil
	}
	if err := p.Validate(); err != nil {
		return plan.Plan{}, gerr.Wrap(gerr.ESpec, "структура некорректна", err)
	}
	return p, nil
}
