package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	testCases := []struct {
		name     string
		block    Block
		expected string
	}{
		{
			name:     "resource",
			block:    Block{Kind: KindResource, TypeName: "aws_instance", LocalName: "web"},
			expected: "aws_instance.web",
		},
		{
			name:     "data source",
			block:    Block{Kind: KindData, TypeName: "aws_ami", LocalName: "ubuntu"},
			expected: "data.aws_ami.ubuntu",
		},
		{
			name:     "variable",
			block:    Block{Kind: KindVariable, LocalName: "region"},
			expected: "var.region",
		},
		{
			name:     "output",
			block:    Block{Kind: KindOutput, LocalName: "endpoint"},
			expected: "output.endpoint",
		},
		{
			name:     "module",
			block:    Block{Kind: KindModule, LocalName: "vpc"},
			expected: "module.vpc",
		},
		{
			name:     "local",
			block:    Block{Kind: KindLocal, LocalName: "prefix"},
			expected: "local.prefix",
		},
		{
			name:     "provider",
			block:    Block{Kind: KindProvider, LocalName: "aws"},
			expected: "provider.aws",
		},
		{
			name:     "resource inside a module",
			block:    Block{Kind: KindResource, TypeName: "aws_subnet", LocalName: "private", ScopePath: []string{"vpc"}},
			expected: "module.vpc.aws_subnet.private",
		},
		{
			name:     "nested module scope",
			block:    Block{Kind: KindVariable, LocalName: "cidr", ScopePath: []string{"network", "subnets"}},
			expected: "module.network.module.subnets.var.cidr",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.block.Address())
		})
	}
}

func TestScopeKey(t *testing.T) {
	root := Block{Kind: KindResource, TypeName: "aws_vpc", LocalName: "main"}
	assert.Equal(t, "", root.ScopeKey())

	nested := Block{Kind: KindResource, TypeName: "aws_vpc", LocalName: "main", ScopePath: []string{"a", "b"}}
	assert.Equal(t, "a.b", nested.ScopeKey())
}

func TestValid(t *testing.T) {
	assert.True(t, (&Block{Kind: KindResource, TypeName: "aws_vpc", LocalName: "main"}).Valid())
	assert.True(t, (&Block{Kind: KindVariable, LocalName: "region"}).Valid())

	assert.False(t, (&Block{Kind: KindResource, LocalName: "main"}).Valid(), "resource without type")
	assert.False(t, (&Block{Kind: KindData, LocalName: "x"}).Valid(), "data without type")
	assert.False(t, (&Block{Kind: KindVariable}).Valid(), "missing local name")
}

func TestAddReference(t *testing.T) {
	t.Run("preserves first-seen order", func(t *testing.T) {
		b := &Block{Kind: KindResource, TypeName: "aws_instance", LocalName: "web"}
		b.AddReference("var.ami", EdgeAttribute)
		b.AddReference("aws_subnet.main", EdgeAttribute)

		require.Len(t, b.References, 2)
		assert.Equal(t, "var.ami", b.References[0].TargetID)
		assert.Equal(t, "aws_subnet.main", b.References[1].TargetID)
	})

	t.Run("discards self references", func(t *testing.T) {
		b := &Block{Kind: KindResource, TypeName: "aws_instance", LocalName: "web"}
		b.AddReference("aws_instance.web", EdgeAttribute)
		assert.Empty(t, b.References)
	})

	t.Run("keeps one entry per target with the most specific kind", func(t *testing.T) {
		b := &Block{Kind: KindResource, TypeName: "aws_instance", LocalName: "web"}
		b.AddReference("aws_subnet.main", EdgeAttribute)
		b.AddReference("aws_subnet.main", EdgeDependsOn)

		require.Len(t, b.References, 1)
		assert.Equal(t, EdgeDependsOn, b.References[0].Kind)

		// A weaker kind never downgrades an existing reference.
		b.AddReference("aws_subnet.main", EdgeAttribute)
		require.Len(t, b.References, 1)
		assert.Equal(t, EdgeDependsOn, b.References[0].Kind)
	})
}

func TestEdgeKindOutranks(t *testing.T) {
	assert.True(t, EdgeDependsOn.Outranks(EdgeAttribute))
	assert.True(t, EdgeDependsOn.Outranks(EdgeModuleInput))
	assert.True(t, EdgeModuleOutput.Outranks(EdgeAttribute))
	assert.False(t, EdgeAttribute.Outranks(EdgeModuleInput))
	assert.False(t, EdgeAttribute.Outranks(EdgeAttribute))
}
