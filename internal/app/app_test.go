package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	gerr "gcmgen/internal/errors"
	"gcmgen/internal/layout"
)

func run(t *testing.T, o Options) (Result, string, error) {
	t.Helper()
	var buf bytes.Buffer
	o.Out = &buf
	o.Log = zaptest.NewLogger(t)
	res, err := Run(o)
	return res, buf.String(), err
}

func payload(t *testing.T, rel string) string {
	t.Helper()
	for _, e := range layout.Contents() {
		if e.Path == rel {
			return e.Content
		}
	}
	t.Fatalf("no payload for %s", rel)
	return ""
}

func TestRun_FreshDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.Mkdir(root, 0o755))

	res, out, err := run(t, Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, Done, res.Phase)
	assert.Equal(t, root, res.Root)
	assert.NotEmpty(t, res.RunID)

	models, err := os.ReadFile(filepath.Join(root, "backend", "apps", "ocorrencias", "models.py"))
	require.NoError(t, err)
	assert.Equal(t, payload(t, "backend/apps/ocorrencias/models.py"), string(models))

	docker, err := os.ReadFile(filepath.Join(root, "api_fastapi", "Dockerfile"))
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(string(docker), "\n"))
	assert.True(t, strings.HasPrefix(string(docker), "FROM python:3.9\n"))

	assert.Contains(t, out, "🛠️ Criando estrutura do projeto em: "+root)
	assert.Contains(t, out, "📝 Adicionando conteúdo inicial aos arquivos...")
	assert.Contains(t, out, "✅ Projeto criado com sucesso!")
	assert.Contains(t, out, "python manage.py createsuperuser")
	assert.NotContains(t, out, "⛔")
}

func TestRun_SecondRunKeepsUserDataAndRestamps(t *testing.T) {
	root := t.TempDir()
	_, _, err := run(t, Options{Root: root})
	require.NoError(t, err)

	user := filepath.Join(root, "backend", "manage.py")
	seeded := filepath.Join(root, "README.md")
	require.NoError(t, os.WriteFile(user, []byte("print('ola')\n"), 0o644))
	require.NoError(t, os.WriteFile(seeded, []byte("# meu README\n"), 0o644))

	_, out, err := run(t, Options{Root: root})
	require.NoError(t, err)
	assert.NotContains(t, out, "⛔")

	got, err := os.ReadFile(user)
	require.NoError(t, err)
	assert.Equal(t, "print('ola')\n", string(got))

	got, err = os.ReadFile(seeded)
	require.NoError(t, err)
	assert.Equal(t, payload(t, "README.md"), string(got))
}

func TestRun_ConflictAbortsBeforeSeeding(t *testing.T) {
	root := t.TempDir()
	// "docs" занят файлом
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs"), nil, 0o644))

	res, out, err := run(t, Options{Root: root})
	require.Error(t, err)
	assert.Equal(t, Failed, res.Phase)
	assert.Equal(t, 1, gerr.ExitCode(err))
	assert.Contains(t, out, "⛔ Erro crítico durante a criação do projeto:")
	assert.Contains(t, out, filepath.Join(root, "docs"))
	assert.NotContains(t, out, "✅")

	// всё, что идёт после docs в обходе, не создано, а созданное ранее не заполнено
	assert.NoFileExists(t, filepath.Join(root, "docker-compose.yml"))
	assert.NoDirExists(t, filepath.Join(root, "scripts"))
	assert.DirExists(t, filepath.Join(root, "mobile", "api_client"))
	settings, err := os.ReadFile(filepath.Join(root, "backend", "core", "settings.py"))
	require.NoError(t, err)
	assert.Empty(t, settings)
}

func TestRun_CustomSpec(t *testing.T) {
	dir := t.TempDir()
	spec := filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(spec, []byte("app:\n  src: [main.go]\nREADME.md: ~\n"), 0o644))
	root := filepath.Join(dir, "out")

	// README.md создаётся, но остальных канонических файлов нет
	_, _, err := run(t, Options{Root: root, SpecPath: spec})
	require.Error(t, err)
	assert.Equal(t, gerr.ESpec, gerr.GetCode(err))
	assert.NoDirExists(t, root)

	res, _, err := run(t, Options{Root: root, SpecPath: spec, NoSeed: true})
	require.NoError(t, err)
	assert.Equal(t, Done, res.Phase)
	assert.FileExists(t, filepath.Join(root, "app", "src", "main.go"))
	assert.FileExists(t, filepath.Join(root, "README.md"))
}

func TestRun_DryRun(t *testing.T) {
	root := t.TempDir()
	res, out, err := run(t, Options{Root: root, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, Done, res.Phase)
	assert.Contains(t, out, "seria criado")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_DefaultsToWorkingDirectory(t *testing.T) {
	root := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	res, _, err := run(t, Options{Quiet: true})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(res.Root, "docker-compose.yml"))
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "building_tree", BuildingTree.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "Phase(42)", Phase(42).String())
}
