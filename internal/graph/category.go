package graph

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vk/blastradius/internal/model"
)

// defaultColor is used for resource types without a color rule.
const defaultColor = "#CCCCCC"

// Rule assigns resource types sharing a prefix to a category, optionally
// with a fill color for rendering.
type Rule struct {
	Prefix   string `toml:"prefix"`
	Category string `toml:"category"`
	Color    string `toml:"color"`
}

// CategoryMap classifies resource types into categories for grouping and
// coloring. Rules are checked in order; the first prefix match wins.
type CategoryMap struct {
	rules []Rule
}

// builtinRules groups the common provider types. First match wins, so
// the more specific prefixes come first.
var builtinRules = []Rule{
	{Prefix: "aws_vpc", Category: "networking", Color: "#FF6B6B"},
	{Prefix: "aws_subnet", Category: "networking", Color: "#4ECDC4"},
	{Prefix: "aws_internet_gateway", Category: "networking", Color: "#45B7D1"},
	{Prefix: "aws_nat_gateway", Category: "networking", Color: "#96CEB4"},
	{Prefix: "aws_route_table", Category: "networking", Color: "#FFEAA7"},
	{Prefix: "aws_security_group", Category: "security", Color: "#DDA0DD"},
	{Prefix: "aws_instance", Category: "compute", Color: "#98D8C8"},
	{Prefix: "aws_lb", Category: "compute", Color: "#F7DC6F"},
	{Prefix: "aws_autoscaling_group", Category: "compute", Color: "#85C1E9"},
	{Prefix: "aws_s3", Category: "storage", Color: "#F8C471"},
	{Prefix: "aws_rds", Category: "storage", Color: "#BB8FCE"},
	{Prefix: "aws_iam", Category: "security", Color: "#85C1E9"},
	{Prefix: "aws_lambda", Category: "serverless", Color: "#82E0AA"},
	{Prefix: "aws_eks", Category: "kubernetes", Color: "#F1948A"},
	{Prefix: "azurerm_virtual_network", Category: "networking", Color: "#FF6B6B"},
	{Prefix: "azurerm_subnet", Category: "networking", Color: "#4ECDC4"},
	{Prefix: "azurerm_virtual_machine", Category: "compute", Color: "#96CEB4"},
	{Prefix: "azurerm_storage", Category: "storage", Color: "#98D8C8"},
	{Prefix: "azurerm_kubernetes_cluster", Category: "kubernetes", Color: "#BB8FCE"},
	{Prefix: "google_compute_network", Category: "networking", Color: "#FF6B6B"},
	{Prefix: "google_compute_subnetwork", Category: "networking", Color: "#4ECDC4"},
	{Prefix: "google_compute_instance", Category: "compute", Color: "#96CEB4"},
	{Prefix: "google_storage", Category: "storage", Color: "#F8C471"},
	{Prefix: "google_container_cluster", Category: "kubernetes", Color: "#BB8FCE"},
}

// DefaultCategories returns the built-in classification.
func DefaultCategories() *CategoryMap {
	return &CategoryMap{rules: builtinRules}
}

// LoadCategories reads extra rules from a TOML file. File rules are
// checked before the built-ins, so they can override the defaults.
//
// The file format is a list of [[rule]] tables:
//
//	[[rule]]
//	prefix = "aws_dynamodb"
//	category = "storage"
//	color = "#F8C471"
func LoadCategories(path string) (*CategoryMap, error) {
	var file struct {
		Rule []Rule `toml:"rule"`
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to load category rules from %s: %w", path, err)
	}
	for i, r := range file.Rule {
		if r.Prefix == "" || r.Category == "" {
			return nil, fmt.Errorf("category rule %d in %s is missing prefix or category", i+1, path)
		}
	}
	return &CategoryMap{rules: append(file.Rule, builtinRules...)}, nil
}

// Lookup classifies a node. Variables, outputs, and modules have fixed
// categories; resources and data sources go through the prefix rules.
func (m *CategoryMap) Lookup(kind model.Kind, typeName string) (category, color string) {
	switch kind {
	case model.KindVariable:
		return "variables", "#FFD700"
	case model.KindOutput:
		return "outputs", "#32CD32"
	case model.KindModule:
		return "modules", "#9370DB"
	}
	for _, r := range m.rules {
		if strings.HasPrefix(typeName, r.Prefix) {
			if r.Color == "" {
				return r.Category, defaultColor
			}
			return r.Category, r.Color
		}
	}
	return "other", defaultColor
}
