package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gcmgen/internal/app"
	"gcmgen/internal/config"
	gerr "gcmgen/internal/errors"
	"gcmgen/internal/layout"
	"gcmgen/internal/logger"
	"gcmgen/internal/parser"
)

// Версию можно переопределить через -ldflags "-X main.version=1.0.0"
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		gerr.Print(os.Stderr, err)
		os.Exit(gerr.ExitCode(err))
	}
}

// run разбирает флаги, собирает настройки и запускает генерацию.
// Порядок приоритета: умолчания < YAML-конфигурация < окружение (.env, GCMGEN_*) < флаги.
func run(args []string, stdout, stderr io.Writer) error {
	name := filepath.Base(os.Args[0])
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	out := fs.String("out", "", "Каталог, в котором создаётся проект (по умолчанию текущий)")
	spec := fs.String("spec", "", "Файл со структурой: .yaml/.yml или tree-текст ('-' для stdin)")
	cfgPath := fs.String("config", "", "YAML-файл с настройками")
	dry := fs.Bool("dry", false, "Dry-run: только показать, что будет создано")
	noSeed := fs.Bool("no-seed", false, "Только структура, без стартового содержимого")
	verbose := fs.Bool("v", false, "Подробный лог (уровень debug)")
	quiet := fs.Bool("q", false, "Тихий режим (подавить строки прогресса)")
	dperm := fs.String("dperm", "", "Права для каталогов (восьмерично, например 0755)")
	fperm := fs.String("fperm", "", "Права для файлов (восьмерично, например 0644)")
	printSpec := fs.Bool("print-spec", false, "Напечатать встроенную структуру в YAML и выйти")
	showVersion := fs.Bool("version", false, "Показать версию и выйти")

	fs.Usage = func() {
		fmt.Fprintf(stdout, `
%s — создаёт структуру проекта GCM-Guaíra-SP и заполняет стартовые файлы.

Использование:
  %s [-out DIR] [-spec FILE] [-config FILE] [-dry] [-no-seed] [-v|-q] [-dperm 0755] [-fperm 0644]

Флаги:
`, name, name)
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		fs.SetOutput(stderr)
		fmt.Fprintf(stdout, `
Переменные окружения (читаются также из .env):
  GCMGEN_ROOT, GCMGEN_SPEC, GCMGEN_DIR_PERM, GCMGEN_FILE_PERM,
  GCMGEN_NO_SEED, GCMGEN_LOG_LEVEL, GCMGEN_LOG_DIR

Примеры:
  %[1]s
  %[1]s -out /tmp/proj -v
  %[1]s -print-spec > layout.yaml && %[1]s -spec layout.yaml -no-seed
`, name)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return gerr.Wrap(gerr.EUsage, "неверные аргументы", err)
	}
	if fs.NArg() > 0 {
		return gerr.New(gerr.EUsage, fmt.Sprintf("лишние аргументы: %v", fs.Args()))
	}

	if *showVersion {
		fmt.Fprintln(stdout, version)
		return nil
	}
	if *printSpec {
		return parser.EncodeYAML(stdout, layout.Tree())
	}

	// Настройки
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return gerr.Wrap(gerr.EConfig, "ошибка конфигурации", err)
	}
	config.LoadEnv()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return gerr.Wrap(gerr.EConfig, "ошибка конфигурации", err)
	}

	// Флаги, заданные явно, перекрывают всё остальное.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Root = *out
		case "spec":
			cfg.SpecPath = *spec
		case "no-seed":
			cfg.NoSeed = *noSeed
		case "dperm":
			cfg.DirPerm = *dperm
		case "fperm":
			cfg.FilePerm = *fperm
		case "v":
			if *verbose {
				cfg.Logging.Level = "debug"
			}
		}
	})
	dirPerm, filePerm, err := cfg.Perms()
	if err != nil {
		return gerr.Wrap(gerr.EUsage, "неверные права", err)
	}

	log, done, err := logger.New(cfg.Logging.Level, cfg.Logging.OutputPath, stderr)
	if err != nil {
		return gerr.Wrap(gerr.EConfig, "не удалось настроить лог", err)
	}
	defer done()

	_, err = app.Run(app.Options{
		Root:     cfg.Root,
		SpecPath: cfg.SpecPath,
		DryRun:   *dry,
		NoSeed:   cfg.NoSeed,
		Quiet:    *quiet,
		DirPerm:  dirPerm,
		FilePerm: filePerm,
		Out:      stdout,
		Log:      log,
	})
	return err
}
