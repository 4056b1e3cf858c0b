package parser

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"gcmgen/internal/plan"
)

// ParseYAML читает дерево из YAML. Порядок ключей сохраняется.
//
//	backend:
//	  core: [settings.py, security.py]   # каталог со списком файлов
//	  apps:                              # поддерево
//	    pessoal: [models.py]
//	  manage.py: ~                       # одиночный файл
//	frontend:
//	  admin: []                          # пустой каталог
func ParseYAML(r io.Reader) (plan.Tree, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("пустой YAML")
		}
		return nil, fmt.Errorf("yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("пустой YAML")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("строка %d: корень должен быть отображением", root.Line)
	}

	t, err := fromMapping(root)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func fromMapping(m *yaml.Node) (plan.Tree, error) {
	var t plan.Tree
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("строка %d: ключ должен быть строкой", k.Line)
		}
		n, err := fromValue(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k.Value, err)
		}
		t = append(t, plan.E(k.Value, n))
	}
	return t, nil
}

func fromValue(v *yaml.Node) (plan.Node, error) {
	switch v.Kind {
	case yaml.MappingNode:
		children, err := fromMapping(v)
		if err != nil {
			return plan.Node{}, err
		}
		return plan.Sub(children...), nil

	case yaml.SequenceNode:
		var names []string
		for _, it := range v.Content {
			if it.Kind != yaml.ScalarNode || it.ShortTag() == "!!null" {
				return plan.Node{}, fmt.Errorf("строка %d: элемент списка должен быть именем файла", it.Line)
			}
			names = append(names, it.Value)
		}
		return plan.Files(names...), nil

	case yaml.ScalarNode:
		if v.ShortTag() == "!!null" {
			return plan.File(), nil
		}
		return plan.Node{}, fmt.Errorf("строка %d: ожидается отображение, список или null, получено %q", v.Line, v.Value)
	}
	return plan.Node{}, fmt.Errorf("строка %d: неподдерживаемый узел YAML", v.Line)
}

// EncodeYAML печатает дерево в формате, который понимает ParseYAML.
func EncodeYAML(w io.Writer, t plan.Tree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toMapping(t)); err != nil {
		return err
	}
	return enc.Close()
}

func toMapping(t plan.Tree) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range t {
		m.Content = append(m.Content, str(e.Name), toValue(e.Node))
	}
	return m
}

func toValue(n plan.Node) *yaml.Node {
	switch n.Kind {
	case plan.KindTree:
		return toMapping(n.Children)
	case plan.KindFiles:
		s := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, f := range n.Files {
			s.Content = append(s.Content, str(f))
		}
		return s
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "~"}
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
