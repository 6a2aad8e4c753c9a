package graph

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/blastradius/internal/diag"
	"github.com/vk/blastradius/internal/hcl"
	"github.com/vk/blastradius/internal/model"
	"github.com/vk/blastradius/internal/resolver"
)

// resolvedBlocks models a small stack after resolution: a variable feeding
// a database, an app server on the database, and an output reading the
// app's address.
func resolvedBlocks() []*model.Block {
	engine := &model.Block{Kind: model.KindVariable, LocalName: "engine"}

	db := &model.Block{
		Kind: model.KindResource, TypeName: "aws_db_instance", LocalName: "main",
		DeclRange: diag.SourceRange{Filename: "main.tf", Line: 5},
	}
	db.AddReference("var.engine", model.EdgeAttribute)

	app := &model.Block{Kind: model.KindResource, TypeName: "aws_instance", LocalName: "server"}
	app.AddReference("aws_db_instance.main", model.EdgeAttribute)

	addr := &model.Block{Kind: model.KindOutput, LocalName: "addr"}
	addr.AddReference("aws_instance.server", model.EdgeAttribute)

	return []*model.Block{engine, db, app, addr}
}

func TestBuild(t *testing.T) {
	g, diags := Build(context.Background(), resolvedBlocks(), DefaultOptions())
	assert.Empty(t, diags)

	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())

	db, ok := g.Node("aws_db_instance.main")
	require.True(t, ok)
	assert.Equal(t, "aws_db_instance.main", db.Name)
	// No built-in prefix rule covers aws_db_instance.
	assert.Equal(t, "other", db.Category)
	assert.Equal(t, "#CCCCCC", db.Color)
	assert.Equal(t, "main.tf", db.Metadata["file"])
	assert.Equal(t, "5", db.Metadata["line"])
	assert.Equal(t, "", db.Metadata["scope"])

	deps, err := g.Dependencies("aws_instance.server")
	require.NoError(t, err)
	assert.Equal(t, []string{"aws_db_instance.main"}, deps)

	dependents, err := g.Dependents("aws_db_instance.main")
	require.NoError(t, err)
	assert.Equal(t, []string{"aws_instance.server"}, dependents)
}

func TestBuildOptions(t *testing.T) {
	t.Run("variables and outputs can be elided", func(t *testing.T) {
		opts := Options{IncludeVariables: false, IncludeOutputs: false}
		g, _ := Build(context.Background(), resolvedBlocks(), opts)

		assert.Equal(t, 2, g.NodeCount())
		// Edges to elided endpoints vanish with them.
		assert.Equal(t, 1, g.EdgeCount())
		_, ok := g.Node("var.engine")
		assert.False(t, ok)
	})

	t.Run("locals and providers never materialize", func(t *testing.T) {
		blocks := []*model.Block{
			{Kind: model.KindLocal, LocalName: "env"},
			{Kind: model.KindProvider, LocalName: "aws"},
			{Kind: model.KindResource, TypeName: "aws_vpc", LocalName: "main"},
		}
		g, _ := Build(context.Background(), blocks, DefaultOptions())
		assert.Equal(t, 1, g.NodeCount())
	})
}

func TestBuildIsolatedNodes(t *testing.T) {
	blocks := []*model.Block{
		{Kind: model.KindResource, TypeName: "aws_vpc", LocalName: "main"},
		{Kind: model.KindResource, TypeName: "aws_s3_bucket", LocalName: "orphan"},
	}
	blocks = append(blocks, resolvedBlocks()...)

	g, diags := Build(context.Background(), blocks, DefaultOptions())
	assert.Equal(t, 6, g.NodeCount())

	isolated := diags.ByCode(diag.IsolatedNode)
	require.Len(t, isolated, 2)
	assert.Equal(t, diag.Warning, isolated[0].Severity)
}

// Rebuilding from the same unchanged configuration must yield the same
// node and edge sets, no matter how attribute maps iterate during
// translation and resolution.
func TestBuildDeterministic(t *testing.T) {
	dir := t.TempDir()
	content := `
variable "region" {}

variable "engine" {}

resource "aws_db_instance" "main" {
  engine            = var.engine
  availability_zone = var.region
  name_prefix       = var.region
}

resource "aws_subnet" "app" {
  cidr_block = var.region
}

resource "aws_instance" "server" {
  ami       = "ami-12345"
  az        = var.region
  db_host   = aws_db_instance.main.endpoint
  subnet_id = aws_subnet.app.id
}

output "endpoint" {
  value = aws_db_instance.main.endpoint
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.tf"), []byte(content), 0o644))

	buildOnce := func() GraphJSON {
		ctx := context.Background()
		blocks, diags, err := hcl.NewLoader(nil).Load(ctx, dir)
		require.NoError(t, err)
		diags = diags.Extend(resolver.Resolve(ctx, blocks))
		require.False(t, diags.HasErrors())

		g, _ := Build(ctx, blocks, DefaultOptions())
		return g.Export()
	}

	first := buildOnce()
	second := buildOnce()

	require.Len(t, second.Nodes, len(first.Nodes))
	require.Len(t, second.Edges, len(first.Edges))
	assert.ElementsMatch(t, first.Nodes, second.Nodes)
	assert.ElementsMatch(t, first.Edges, second.Edges)
}

func TestBuildScopedNodes(t *testing.T) {
	vpc := &model.Block{Kind: model.KindResource, TypeName: "aws_vpc", LocalName: "this", ScopePath: []string{"network"}}
	mod := &model.Block{Kind: model.KindModule, LocalName: "network"}
	mod.AddReference("module.network.aws_vpc.this", model.EdgeModuleInput)

	g, _ := Build(context.Background(), []*model.Block{vpc, mod}, DefaultOptions())

	n, ok := g.Node("module.network.aws_vpc.this")
	require.True(t, ok)
	assert.Equal(t, "network", n.Metadata["scope"])

	modNode, ok := g.Node("module.network")
	require.True(t, ok)
	assert.Equal(t, "modules", modNode.Category)
	assert.Equal(t, "#9370DB", modNode.Color)
}
