package discovery

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// scenarioPattern matches Gherkin scenario headers, e.g. "Scenario Outline: Login as <role>"
var scenarioPattern = regexp.MustCompile(`(?m)^[ \t]*Scenario(?: Outline| Template)?:[ \t]*(.*?)[ \t]*$`)

// Parser reads spec files
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// FindScenarios returns the scenario titles of a feature file in file order
func (p *Parser) FindScenarios(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}

	var scenarios []string
	for _, match := range scenarioPattern.FindAllStringSubmatch(strings.ReplaceAll(string(content), "\r\n", "\n"), -1) {
		title := match[1]
		if title == "" {
			title = "(untitled)"
		}
		scenarios = append(scenarios, title)
	}
	return scenarios, nil
}
