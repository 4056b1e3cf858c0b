// Package config — настройки запуска: значения по умолчанию, YAML-файл и переменные окружения.
// Флаги командной строки применяются поверх в cmd/gcmgen.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config — все настройки, которые можно задать вне флагов.
type Config struct {
	Root     string `yaml:"root"`      // каталог назначения; пусто — текущий
	SpecPath string `yaml:"spec"`      // внешний файл структуры; пусто — встроенная
	DirPerm  string `yaml:"dir_perm"`  // восьмерично, например "0755"
	FilePerm string `yaml:"file_perm"` // восьмерично, например "0644"
	NoSeed   bool   `yaml:"no_seed"`

	Logging struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		OutputPath string `yaml:"output_path"` // каталог для gcmgen.log/error.log; пусто — только консоль
	} `yaml:"logging"`
}

// Default возвращает настройки по умолчанию.
func Default() Config {
	c := Config{DirPerm: "0755", FilePerm: "0644"}
	c.Logging.Level = "warn"
	return c
}

// Load читает YAML поверх значений по умолчанию. Пустой path — только умолчания.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("не удалось прочитать конфигурацию %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("конфигурация %q: %w", path, err)
	}
	return c, c.Validate()
}

// LoadEnv подгружает .env (если есть) в окружение процесса,
// уже заданные переменные не перетираются.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// ApplyEnv переопределяет поля из переменных GCMGEN_*.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Root, "GCMGEN_ROOT")
	set(&c.SpecPath, "GCMGEN_SPEC")
	set(&c.DirPerm, "GCMGEN_DIR_PERM")
	set(&c.FilePerm, "GCMGEN_FILE_PERM")
	set(&c.Logging.Level, "GCMGEN_LOG_LEVEL")
	set(&c.Logging.OutputPath, "GCMGEN_LOG_DIR")

	if v := strings.TrimSpace(getenv("GCMGEN_NO_SEED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GCMGEN_NO_SEED: %w", err)
		}
		c.NoSeed = b
	}
	return c.Validate()
}

// Validate проверяет, что права разбираются.
func (c Config) Validate() error {
	if _, err := ParsePerm(c.DirPerm, 0o755); err != nil {
		return fmt.Errorf("неверные права dir_perm: %w", err)
	}
	if _, err := ParsePerm(c.FilePerm, 0o644); err != nil {
		return fmt.Errorf("неверные права file_perm: %w", err)
	}
	return nil
}

// Perms возвращает разобранные права каталогов и файлов.
func (c Config) Perms() (dir, file os.FileMode, err error) {
	if dir, err = ParsePerm(c.DirPerm, 0o755); err != nil {
		return 0, 0, err
	}
	if file, err = ParsePerm(c.FilePerm, 0o644); err != nil {
		return 0, 0, err
	}
	return dir, file, nil
}

// ParsePerm разбирает права вида 0755/755/0o755. Пустая строка — def.
func ParsePerm(s string, def os.FileMode) (os.FileMode, error) {
	ss := strings.TrimSpace(s)
	if ss == "" {
		return def, nil
	}
	// без префикса считаем восьмеричным, как chmod
	if !strings.HasPrefix(ss, "0") {
		ss = "0" + ss
	}
	u, err := strconv.ParseUint(ss, 0, 32)
	if err != nil {
		return 0, err
	}
	if u > 0o777 {
		return 0, fmt.Errorf("права вне диапазона: %s", s)
	}
	return os.FileMode(u), nil
}
