package config

import (
	"fmt"
	"os"

	"github.com/trebuchet-org/tokendeploy/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// requestFile is the YAML layout of a deployment request file:
//
//	contract: ERC20FromScratch
//	label: ERC20
//	args:
//	  - MyToken
//	  - MTK
//	  - 1000000
type requestFile struct {
	Contract string `yaml:"contract"`
	Label    string `yaml:"label"`
}

// LoadRequestFile reads a deployment request from a YAML file. Scalar args are
// kept as text so they can be coerced against the constructor ABI later;
// large integers would otherwise lose precision.
func LoadRequestFile(path string) (*config.RequestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse request file %s: %w", path, err)
	}

	var raw requestFile
	if err := doc.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode request file %s: %w", path, err)
	}

	req := &config.RequestConfig{
		Contract: raw.Contract,
		Label:    raw.Label,
	}
	if argsNode := findKey(&doc, "args"); argsNode != nil {
		if argsNode.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("request file %s: args must be a list", path)
		}
		for _, item := range argsNode.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("request file %s: only scalar args are supported", path)
			}
			req.Args = append(req.Args, item.Value)
		}
	}

	return req, nil
}

// findKey returns the value node of a top level mapping key
func findKey(doc *yaml.Node, key string) *yaml.Node {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			return root.Content[i+1]
		}
	}
	return nil
}
