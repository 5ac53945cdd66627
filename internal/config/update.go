package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sysdash/sysdash/internal/errors"
)

// Write saves cfg as YAML to path, creating parent directories. An existing
// file is only replaced when force is set.
func Write(path string, cfg *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrConfig,
				"Config file already exists: "+path,
				"Use --force to overwrite it")
		}
	}

	data, err := encode(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't create config directory",
			"Check permissions on "+filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file",
			"Check permissions on "+path)
	}
	return nil
}

// SetValue sets a dotted key (e.g. "server.url") in the YAML file at path.
// It preserves the existing structure and comments, creating intermediate
// mappings as needed. The result must still load and validate.
func SetValue(configPath, key, value string) error {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Invalid key %q", key),
				"Use a dotted path like server.url or thresholds.cpu.warning")
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Run 'sysdash config init' to create one")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to parse config file",
			"Check the YAML syntax in "+configPath)
	}
	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return errors.New(errors.ErrConfig,
			"Expected a mapping at the top of "+configPath, "")
	}

	node := root.Content[0]
	for _, p := range parts[:len(parts)-1] {
		child := findMapValue(node, p)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, scalar(p), child)
		}
		if child.Kind != yaml.MappingNode {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Can't set %s: '%s' is not a section", key, p), "")
		}
		node = child
	}

	leaf := parts[len(parts)-1]
	if existing := findMapValue(node, leaf); existing != nil {
		if existing.Kind != yaml.ScalarNode {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Can't set %s: it is a section, not a value", key), "")
		}
		existing.Value = value
		existing.Tag = ""
		existing.Style = 0
	} else {
		v := scalar(value)
		v.Tag = ""
		node.Content = append(node.Content, scalar(leaf), v)
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	encoder.Close()

	tmp := configPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(buf.String()), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write config file", "")
	}
	cfg, err := Load(tmp)
	if err == nil {
		err = Validate(cfg)
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, configPath)
}

func encode(cfg *Config) ([]byte, error) {
	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
