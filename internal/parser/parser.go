package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gcmgen/internal/plan"
	"gcmgen/internal/safety"
)

// rawNode — строка tree-текста до сборки в plan.Tree.
type rawNode struct {
	name     string
	dir      bool
	depth    int
	children []*rawNode
}

// ParseTree читает tree-подобный текст и возвращает дерево.
// Поддерживает псевдографику (├──/└──) и ASCII (|--/` + "`--" + `).
// Первая непустая строка — корень ("." или "name/"), он соответствует каталогу назначения.
// Каталог определяется либо по суффиксу "/", либо по дочерним элементам.
// Каталог без детей становится пустым каталогом.
func ParseTree(r io.Reader) (plan.Tree, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024), 1024*1024)

	var (
		haveRoot bool
		nodes    []*rawNode
		lineNum  int
	)

	for sc.Scan() {
		lineNum++
		raw := strings.TrimRight(sc.Text(), "\r\n")
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		// Первая непустая строка — корень
		if !haveRoot {
			rootName := strings.TrimSuffix(line, "/")
			if rootName != "." {
				if err := safety.ValidateName(rootName); err != nil {
					return nil, fmt.Errorf("строка %d: некорректное имя корня: %w", lineNum, err)
				}
			}
			haveRoot = true
			continue
		}

		depth, name, ok := parseTreeLine(raw)
		if !ok {
			// Итоговая строка tree "N directories, M files"
			if isTreeSummary(line) {
				continue
			}
			return nil, fmt.Errorf("строка %d: не похоже на строку tree: %q", lineNum, raw)
		}

		isDir := strings.HasSuffix(name, "/")
		name = strings.TrimSuffix(name, "/")

		if err := safety.ValidateName(name); err != nil {
			return nil, fmt.Errorf("строка %d: %w", lineNum, err)
		}

		nodes = append(nodes, &rawNode{name: name, dir: isDir, depth: depth})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !haveRoot {
		return nil, fmt.Errorf("не найден корень проекта")
	}

	// Второй проход: если следующая строка глубже — это каталог.
	for i := range nodes {
		if !nodes[i].dir && i+1 < len(nodes) && nodes[i+1].depth > nodes[i].depth {
			nodes[i].dir = true
		}
	}

	// Собираем иерархию по стеку открытых каталогов.
	top := &rawNode{dir: true}
	stack := []*rawNode{top}
	for _, n := range nodes {
		if n.depth > len(stack)-1 {
			return nil, fmt.Errorf("некорректная вложенность: узел %q с depth=%d, текущее дерево=%d",
				n.name, n.depth, len(stack)-1)
		}
		stack = stack[:n.depth+1]
		parent := stack[len(stack)-1]
		parent.children = append(parent.children, n)
		if n.dir {
			stack = append(stack, n)
		}
	}

	t := toTree(top.children)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func toTree(nodes []*rawNode) plan.Tree {
	var t plan.Tree
	for _, n := range nodes {
		switch {
		case !n.dir:
			t = append(t, plan.E(n.name, plan.File()))
		case len(n.children) == 0:
			t = append(t, plan.E(n.name, plan.Files()))
		default:
			t = append(t, plan.E(n.name, plan.Sub(toTree(n.children)...)))
		}
	}
	return t
}

// parseTreeLine пытается разобрать строку формата tree.
// Возвращает depth (количество уровней), имя узла и признак успеха.
func parseTreeLine(line string) (int, string, bool) {
	idx, used := findMarker(line, []string{"├── ", "└── ", "|-- ", "`-- ", "+-- "})
	if idx == -1 {
		// Маркер без пробела после него
		idx, used = findMarker(line, []string{"├──", "└──", "|--", "`--", "+--"})
	}
	if idx == -1 {
		return 0, "", false
	}

	depth := countDepth(line[:idx])
	name := strings.TrimSpace(line[idx+len(used):])
	return depth, name, true
}

func findMarker(line string, markers []string) (int, string) {
	idx, used := -1, ""
	for _, m := range markers {
		if i := strings.Index(line, m); i != -1 && (idx == -1 || i < idx) {
			idx = i
			used = m
		}
	}
	return idx, used
}

// countDepth считает глубину по префиксу.
// Псевдографика и '|' заменяются пробелами, глубина — число групп по 4 символа.
func countDepth(prefix string) int {
	s := prefix
	for _, r := range []string{"│", "└", "├", "─", "|"} {
		s = strings.ReplaceAll(s, r, " ")
	}
	return strings.Count(s, " ") / 4
}

// isTreeSummary — строка-резюме tree вида "3 directories, 5 files".
func isTreeSummary(line string) bool {
	s := strings.ToLower(line)
	return strings.Contains(s, "director") && strings.Contains(s, "file") && strings.ContainsAny(s, "0123456789")
}
