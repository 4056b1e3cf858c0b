package safety

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ValidateName проверяет, что имя узла — ровно один сегмент пути:
// непустое, не "." и не "..", без разделителей и не абсолютное.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("пустое имя")
	case name == "." || name == "..":
		return fmt.Errorf("недопустимое имя: %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("имя не должно содержать разделителей пути: %q", name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("имя содержит NUL: %q", name)
	case filepath.IsAbs(name):
		return fmt.Errorf("абсолютные пути запрещены: %q", name)
	}
	return nil
}

// JoinRel присоединяет к root относительный путь вида "a/b/c" (разделитель "/"),
// проверяя каждый сегмент. Результат не может выйти за пределы root.
func JoinRel(root, rel string) (string, error) {
	if rel == "" || path.IsAbs(rel) {
		return "", fmt.Errorf("ожидается относительный путь: %q", rel)
	}
	parts := strings.Split(path.Clean(rel), "/")
	for _, p := range parts {
		if err := ValidateName(p); err != nil {
			return "", fmt.Errorf("путь %q: %w", rel, err)
		}
	}
	return SafeJoin(root, parts...)
}

// SafeJoin объединяет root и parts и убеждается, что результат остаётся внутри root.
func SafeJoin(root string, parts ...string) (string, error) {
	cleanRoot := filepath.Clean(root)
	p := filepath.Join(append([]string{cleanRoot}, parts...)...)

	rel, err := filepath.Rel(cleanRoot, p)
	if err != nil {
		return "", err
	}
	relSl := filepath.ToSlash(rel)
	if relSl == ".." || strings.HasPrefix(relSl, "../") {
		return "", fmt.Errorf("попытка выхода за пределы корня: %s", p)
	}
	return p, nil
}
