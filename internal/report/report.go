// Package report печатает ход генерации для человека и дублирует события в zap.
package report

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	gerr "gcmgen/internal/errors"
	"gcmgen/internal/fsops"
)

// Console — реализация fsops.Reporter для терминала.
type Console struct {
	out   io.Writer
	log   *zap.Logger
	quiet bool
}

var _ fsops.Reporter = (*Console)(nil)

// New создаёт репортёр. quiet подавляет строки прогресса,
// но не фатальные ошибки и не итоговый баннер с инструкциями.
func New(out io.Writer, log *zap.Logger, quiet bool) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{out: out, log: log, quiet: quiet}
}

func (c *Console) printf(format string, args ...interface{}) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Banner — первая строка запуска.
func (c *Console) Banner() {
	c.printf("🚀 Iniciando criação do projeto GCM-Guaíra-SP")
}

// Start — куда пишем и на какой ОС.
func (c *Console) Start(root, goos string, dry bool) {
	c.printf("\n🛠️ Criando estrutura do projeto em: %s", root)
	c.printf("🔍 Sistema operacional detectado: %s", goos)
	if dry {
		c.printf("🧪 Modo simulação: nada será gravado no disco")
	}
	c.printf("")
	c.log.Info("build started", zap.String("root", root), zap.String("os", goos), zap.Bool("dry_run", dry))
}

// Created — одна строка на каталог или файл.
func (c *Console) Created(kind fsops.Entity, path string, existed, dry bool) {
	label, verb := "📄 Arquivo", "criado"
	if kind == fsops.Dir {
		label = "📁 Diretório"
	}
	switch {
	case existed:
		verb = "já existente"
	case dry:
		verb = "seria criado"
	}
	c.printf("%s %s: %s", label, verb, path)
	c.log.Debug("entity", zap.String("kind", kindName(kind)), zap.String("path", path),
		zap.Bool("existed", existed), zap.Bool("dry_run", dry))
}

// SeedStart — переход к заполнению файлов.
func (c *Console) SeedStart() {
	c.printf("\n📝 Adicionando conteúdo inicial aos arquivos...")
	c.log.Info("seeding started")
}

// Seeded — файл получил стартовое содержимое.
func (c *Console) Seeded(path string, n int, dry bool) {
	if dry {
		c.printf("✏️ Conteúdo seria gravado: %s (%d bytes)", path, n)
	} else {
		c.printf("✏️ Conteúdo gravado: %s (%d bytes)", path, n)
	}
	c.log.Debug("seeded", zap.String("path", path), zap.Int("bytes", n), zap.Bool("dry_run", dry))
}

// Failed — сообщение в точке сбоя.
func (c *Console) Failed(kind fsops.Entity, path string, err error) {
	what := "arquivo"
	if kind == fsops.Dir {
		what = "diretório"
	}
	if gerr.GetCode(err) == gerr.EPermission {
		fmt.Fprintf(c.out, "⛔ Permissão negada para criar %s: %s\n", what, path)
	} else {
		fmt.Fprintf(c.out, "⛔ Erro ao criar %s %s: %v\n", what, path, err)
	}
	c.log.Error("filesystem failure", zap.String("kind", kindName(kind)), zap.String("path", path), zap.Error(err))
}

// Fatal — итоговый блок при аварийном завершении.
func (c *Console) Fatal(err error) {
	fmt.Fprintf(c.out, "\n⛔ Erro crítico durante a criação do projeto: %v\n", err)
	if p := gerr.PathOf(err); p != "" {
		fmt.Fprintf(c.out, "   Caminho: %s\n", p)
	}
}

// Success — баннер и инструкции; шаги только печатаются.
func (c *Console) Success(steps, endpoints []string) {
	// Баннер и шаги печатаются и в тихом режиме: -q глушит только прогресс.
	line := func(s string) { fmt.Fprintln(c.out, s) }
	line("\n✅ Projeto criado com sucesso!")
	line("\n📌 Próximos passos:")
	for _, s := range steps {
		line(s)
	}
	if len(endpoints) > 0 {
		line("\n🌐 Acesse:")
		for _, e := range endpoints {
			line(e)
		}
	}
	line("\n⚠️ Lembre-se de configurar o arquivo .env antes de iniciar!")
	c.log.Info("build finished")
}

func kindName(k fsops.Entity) string {
	if k == fsops.Dir {
		return "dir"
	}
	return "file"
}
