package intake

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"whitepaper-gen/internal/domain"
)

// chosenNodes receives one branch's chosen block. Decoding through yaml.v3
// resolves anchors and merge keys; fields stay nodes so the scalar text is
// kept as written.
type chosenNodes struct {
	BatchSize        yaml.Node `yaml:"batch_size"`
	Epochs           yaml.Node `yaml:"epochs"`
	EmbeddingDim     yaml.Node `yaml:"embedding_dim"`
	PAC              yaml.Node `yaml:"pac"`
	GeneratorDim     yaml.Node `yaml:"generator_dim"`
	DiscriminatorDim yaml.Node `yaml:"discriminator_dim"`
}

type branchNodes struct {
	Chosen *chosenNodes `yaml:"chosen"`
}

// LoadHyperparams reads branches.<name>.chosen from the hyperparameter YAML,
// keeping branches in document order. A config without a branches mapping
// yields no branches and no error.
func LoadHyperparams(fsys afero.Fs, path string) ([]domain.HyperparamBranch, error) {
	data, err := readFile(fsys, path)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}

	branches := mappingValue(doc.Content[0], "branches")
	if branches == nil || branches.Kind != yaml.MappingNode {
		return nil, nil
	}

	var out []domain.HyperparamBranch
	for i := 0; i+1 < len(branches.Content); i += 2 {
		b := domain.HyperparamBranch{Name: branches.Content[i].Value}
		var nodes branchNodes
		if err := branches.Content[i+1].Decode(&nodes); err == nil && nodes.Chosen != nil {
			c := nodes.Chosen
			b.BatchSize = scalarText(&c.BatchSize)
			b.Epochs = scalarText(&c.Epochs)
			b.EmbeddingDim = scalarText(&c.EmbeddingDim)
			b.PAC = scalarText(&c.PAC)
			b.GeneratorDim = intList(&c.GeneratorDim)
			b.DiscriminatorDim = intList(&c.DiscriminatorDim)
		}
		out = append(out, b)
	}
	return out, nil
}

// resolve follows alias nodes to their anchors.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// mappingValue returns the value node for key in a mapping node.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return resolve(n.Content[i+1])
		}
	}
	return nil
}

func scalarText(n *yaml.Node) string {
	n = resolve(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return n.Value
}

// intList decodes a sequence of integers. Floats are truncated; any other
// element makes the whole list unusable.
func intList(n *yaml.Node) []int {
	n = resolve(n)
	if n == nil || n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return nil
	}
	out := make([]int, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolve(item)
		if item.Kind != yaml.ScalarNode {
			return nil
		}
		text := strings.TrimSpace(item.Value)
		if v, err := strconv.Atoi(text); err == nil {
			out = append(out, v)
			continue
		}
		if item.Tag != "!!float" {
			return nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		out = append(out, int(f))
	}
	return out
}
