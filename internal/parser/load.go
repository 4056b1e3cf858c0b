package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gcmgen/internal/plan"
)

// Load открывает файл со структурой: .yaml/.yml разбирается как YAML,
// всё остальное — как tree-текст. "-" означает stdin (tree-текст).
func Load(path string) (plan.Tree, error) {
	if path == "-" {
		return ParseTree(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть файл структуры %q: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return ParseTree(f)
	}
}
