package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/blastradius/internal/diag"
	"github.com/vk/blastradius/internal/model"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func mustLoad(t *testing.T, dir string) ([]*model.Block, diag.Diagnostics) {
	t.Helper()
	blocks, diags, err := NewLoader(nil).Load(context.Background(), dir)
	require.NoError(t, err)
	return blocks, diags
}

func blockByAddress(blocks []*model.Block, address string) *model.Block {
	for _, b := range blocks {
		if b.Address() == address {
			return b
		}
	}
	return nil
}

func TestLoadBasicBlocks(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "main.tf", `
variable "region" {
  default = "eu-west-1"
}

resource "aws_db_instance" "main" {
  engine         = "postgres"
  instance_class = "db.t3.micro"
}

resource "aws_instance" "server" {
  ami       = "ami-12345"
  subnet_id = aws_subnet.main.id
}

data "aws_ami" "ubuntu" {
  most_recent = true
}

output "db_endpoint" {
  value = aws_db_instance.main.endpoint
}

provider "aws" {
  region = var.region
}

locals {
  prefix = "prod"
}
`)

	blocks, diags := mustLoad(t, dir)
	assert.Empty(t, diags)
	require.Len(t, blocks, 7)

	db := blockByAddress(blocks, "aws_db_instance.main")
	require.NotNil(t, db)
	assert.Equal(t, model.KindResource, db.Kind)
	assert.Equal(t, "aws_db_instance", db.TypeName)
	assert.Equal(t, "main", db.LocalName)
	assert.Empty(t, db.ScopePath)
	assert.Equal(t, model.String, db.Attributes["engine"].Kind())
	assert.Equal(t, "postgres", db.Attributes["engine"].AsString())
	assert.Equal(t, filepath.Join(dir, "main.tf"), db.DeclRange.Filename)
	assert.Greater(t, db.DeclRange.Line, 0)

	server := blockByAddress(blocks, "aws_instance.server")
	require.NotNil(t, server)
	// A reference expression cannot be evaluated statically, so its raw
	// source text is kept for the resolver.
	assert.Equal(t, model.Expr, server.Attributes["subnet_id"].Kind())
	assert.Equal(t, "aws_subnet.main.id", server.Attributes["subnet_id"].AsString())

	ami := blockByAddress(blocks, "data.aws_ami.ubuntu")
	require.NotNil(t, ami)
	assert.Equal(t, model.Bool, ami.Attributes["most_recent"].Kind())

	assert.NotNil(t, blockByAddress(blocks, "var.region"))
	assert.NotNil(t, blockByAddress(blocks, "output.db_endpoint"))
	assert.NotNil(t, blockByAddress(blocks, "provider.aws"))

	prefix := blockByAddress(blocks, "local.prefix")
	require.NotNil(t, prefix)
	assert.Equal(t, "prod", prefix.Attributes["value"].AsString())
}

func TestLoadDependsOn(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "main.tf", `
resource "aws_s3_bucket" "logs" {}

resource "aws_instance" "app" {
  depends_on = [aws_s3_bucket.logs]

  ebs_block_device {
    depends_on = [aws_s3_bucket.logs]
    volume_size = 100
  }
}
`)

	blocks, diags := mustLoad(t, dir)
	assert.Empty(t, diags)

	app := blockByAddress(blocks, "aws_instance.app")
	require.NotNil(t, app)
	// Nested-block depends_on bubbles up to the enclosing resource.
	assert.Equal(t, []string{"aws_s3_bucket.logs", "aws_s3_bucket.logs"}, app.DependsOn)

	device := app.Attributes["ebs_block_device"]
	require.Equal(t, model.Map, device.Kind())
	assert.Equal(t, float64(100), device.AsMap()["volume_size"].AsNumber())
}

func TestLoadDuplicateDeclaration(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.tf", `
resource "aws_instance" "web" {
  ami = "ami-earlier"
}
`)
	writeConfig(t, dir, "b.tf", `
resource "aws_instance" "web" {
  ami = "ami-later"
}
`)

	blocks, diags := mustLoad(t, dir)

	dups := diags.ByCode(diag.DuplicateDeclaration)
	require.Len(t, dups, 1)
	assert.Equal(t, diag.Warning, dups[0].Severity)

	// Later declaration wins; files load in lexical order.
	web := blockByAddress(blocks, "aws_instance.web")
	require.NotNil(t, web)
	assert.Equal(t, "ami-later", web.Attributes["ami"].AsString())
	require.Len(t, blocks, 1)
}

func TestLoadResilience(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "broken.tf", `resource "aws_instance" {{{`)
	writeConfig(t, dir, "good.tf", `
resource "aws_vpc" "main" {}

resource "" "empty_type" {}
`)

	blocks, diags := mustLoad(t, dir)

	require.Len(t, blocks, 1)
	assert.Equal(t, "aws_vpc.main", blocks[0].Address())

	assert.Len(t, diags.ByCode(diag.ParseError), 1)
	assert.Len(t, diags.ByCode(diag.MalformedConfig), 1)
	assert.True(t, diags.HasErrors())
}

func TestLoadModuleRecursion(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "main.tf", `
module "vpc" {
  source = "./modules/vpc"
  cidr   = "10.0.0.0/16"
}

module "remote" {
  source = "terraform-aws-modules/vpc/aws"
}
`)
	writeConfig(t, dir, "modules/vpc/main.tf", `
variable "cidr" {}

resource "aws_vpc" "this" {
  cidr_block = var.cidr
}
`)

	blocks, diags := mustLoad(t, dir)
	assert.Empty(t, diags)

	require.NotNil(t, blockByAddress(blocks, "module.vpc"))
	require.NotNil(t, blockByAddress(blocks, "module.remote"))

	vpc := blockByAddress(blocks, "module.vpc.aws_vpc.this")
	require.NotNil(t, vpc)
	assert.Equal(t, []string{"vpc"}, vpc.ScopePath)

	cidr := blockByAddress(blocks, "module.vpc.var.cidr")
	require.NotNil(t, cidr)

	// The remote module is kept as a single block, nothing descended into.
	for _, b := range blocks {
		assert.NotContains(t, b.ScopeKey(), "remote")
	}
}

func TestLoadModuleCycle(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a/main.tf", `
module "b" {
  source = "../b"
}
`)
	writeConfig(t, dir, "b/main.tf", `
module "a" {
  source = "../a"
}
`)

	blocks, diags, err := NewLoader(nil).Load(context.Background(), filepath.Join(dir, "a"))
	require.NoError(t, err)

	cycles := diags.ByCode(diag.ModuleCycle)
	require.Len(t, cycles, 1)
	assert.Equal(t, diag.Warning, cycles[0].Severity)

	assert.NotNil(t, blockByAddress(blocks, "module.b"))
	assert.NotNil(t, blockByAddress(blocks, "module.b.module.a"))
}

func TestLoadHardErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, _, err := NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("no tf files", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "README.md", "# nothing here")
		_, _, err := NewLoader(nil).Load(context.Background(), dir)
		assert.ErrorContains(t, err, "no .tf files")
	})

	t.Run("configuration only in subdirectories", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "envs/prod/main.tf", `resource "aws_vpc" "main" {}`)
		_, _, err := NewLoader(nil).Load(context.Background(), dir)
		assert.ErrorContains(t, err, "found 1 in subdirectories")
	})
}
