// Package layout описывает каноническую структуру проекта GCM-Guaíra-SP
// и стартовое содержимое, которым заполняется часть файлов.
package layout

import (
	"embed"
	"fmt"

	"gcmgen/internal/plan"
)

//go:embed payloads/*.txt
var payloads embed.FS

// Tree возвращает каноническое дерево. Порядок ключей фиксирован.
func Tree() plan.Tree {
	return plan.Tree{
		plan.E("backend", plan.Sub(
			plan.E("core", plan.Files("settings.py", "security.py", "celery.py")),
			plan.E("apps", plan.Sub(
				plan.E("ocorrencias", plan.Files("models.py", "api.py", "admin.py")),
				plan.E("pessoal", plan.Files("models.py", "admin.py")),
				plan.E("armamento", plan.Files("models.py", "admin.py")),
				plan.E("atendimento", plan.Files("models.py")),
				plan.E("inteligencia", plan.Files("models.py")),
			)),
			plan.E("services", plan.Files("sinesp_client.py")),
			plan.E("manage.py", plan.File()),
			plan.E("requirements.txt", plan.File()),
		)),
		plan.E("api_fastapi", plan.Sub(
			plan.E("emergencia", plan.Files("schemas.py", "endpoints.py")),
			plan.E("inteligencia", plan.Files("schemas.py", "endpoints.py")),
			plan.E("Dockerfile", plan.File()),
		)),
		plan.E("frontend", plan.Sub(
			plan.E("admin", plan.Files()),
			plan.E("portal_cidadao", plan.Files()),
		)),
		plan.E("mobile", plan.Sub(
			plan.E("lib", plan.Files()),
			plan.E("api_client", plan.Files()),
		)),
		plan.E("docs", plan.Sub(
			plan.E("ADRs", plan.Files("001-mvc-to-fastapi.md")),
			plan.E("guia_migracao.md", plan.File()),
		)),
		plan.E("docker-compose.yml", plan.File()),
		plan.E(".env", plan.File()),
		plan.E("README.md", plan.File()),
		plan.E("scripts", plan.Sub(
			plan.E("deploy", plan.Files()),
			plan.E("backup", plan.Files()),
		)),
	}
}

// seeded — целевой путь и имя встроенного файла, в порядке записи.
var seeded = []struct {
	target  string
	payload string
}{
	{"backend/core/settings.py", "settings.py.txt"},
	{"backend/requirements.txt", "requirements.txt.txt"},
	{"api_fastapi/Dockerfile", "Dockerfile.txt"},
	{"docker-compose.yml", "docker-compose.yml.txt"},
	{".env", "env.txt"},
	{"backend/apps/ocorrencias/models.py", "ocorrencias_models.py.txt"},
	{"backend/apps/ocorrencias/admin.py", "ocorrencias_admin.py.txt"},
	{"backend/apps/pessoal/models.py", "pessoal_models.py.txt"},
	{"api_fastapi/emergencia/endpoints.py", "emergencia_endpoints.py.txt"},
	{"README.md", "README.md.txt"},
	{"docs/ADRs/001-mvc-to-fastapi.md", "001-mvc-to-fastapi.md.txt"},
}

// Contents возвращает стартовое содержимое файлов в порядке записи.
func Contents() []plan.ContentEntry {
	out := make([]plan.ContentEntry, 0, len(seeded))
	for _, s := range seeded {
		b, err := payloads.ReadFile("payloads/" + s.payload)
		if err != nil {
			// embed гарантирует наличие файлов на этапе сборки
			panic(fmt.Sprintf("layout: нет встроенного файла %s: %v", s.payload, err))
		}
		out = append(out, plan.ContentEntry{Path: s.target, Content: string(b)})
	}
	return out
}

// Plan — каноническое дерево вместе со стартовым содержимым.
func Plan() plan.Plan {
	return plan.Plan{Tree: Tree(), Contents: Contents()}
}

// NextSteps — инструкции, которые печатаются после успешного запуска.
// Ничего из этого не выполняется.
var NextSteps = []string{
	"1. Configure o ambiente:",
	"   cd backend && pip install -r requirements.txt",
	"2. Inicie os containers Docker:",
	"   docker-compose up -d",
	"3. Execute as migrações do Django:",
	"   python manage.py migrate",
	"4. Crie um superusuário:",
	"   python manage.py createsuperuser",
}

// Endpoints — адреса, которые показываются пользователю после инструкций.
var Endpoints = []string{
	"- Admin Django: http://localhost:8001/admin",
	"- API FastAPI: http://localhost:8000/botao-panico",
}
