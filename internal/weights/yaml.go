package weights

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// yamlNode builds a mapping node so the export keeps table order.
func yamlNode(t *Table) *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range t.entries {
		value := &yaml.Node{Kind: yaml.MappingNode}
		value.Content = append(value.Content,
			scalar("time", ""), scalar(strconv.FormatInt(e.Record.Time.Milliseconds(), 10), ""),
			scalar("weight", ""), scalar(strconv.FormatFloat(e.Record.Weight, 'f', -1, 64), ""),
		)
		root.Content = append(root.Content, scalar(e.Key, "!!str"), value)
	}
	return root
}

func scalar(value, tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: tag}
}
