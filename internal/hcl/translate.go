package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/blastradius/internal/diag"
	"github.com/vk/blastradius/internal/model"
)

// blockKinds maps HCL block types to model kinds and their label shape.
var blockKinds = map[string]struct {
	kind   model.Kind
	labels int // 2 = type + name, 1 = name only
}{
	"resource": {model.KindResource, 2},
	"data":     {model.KindData, 2},
	"module":   {model.KindModule, 1},
	"variable": {model.KindVariable, 1},
	"output":   {model.KindOutput, 1},
	"provider": {model.KindProvider, 1},
}

// translateBlock converts one HCL block into a model.Block. A block whose
// labels do not form a complete identity yields a malformed-config
// diagnostic instead.
func (l *Loader) translateBlock(raw *hclsyntax.Block, src []byte, scope []string) (*model.Block, *diag.Diagnostic) {
	spec := blockKinds[raw.Type]
	defRange := raw.DefRange()
	subject := &diag.SourceRange{Filename: defRange.Filename, Line: defRange.Start.Line}

	malformed := func(detail string) *diag.Diagnostic {
		return &diag.Diagnostic{
			Severity: diag.Error,
			Code:     diag.MalformedConfig,
			Summary:  fmt.Sprintf("malformed %s block: %s; block skipped", raw.Type, detail),
			Subject:  subject,
		}
	}

	if len(raw.Labels) < spec.labels {
		return nil, malformed(fmt.Sprintf("expected %d labels, got %d", spec.labels, len(raw.Labels)))
	}

	block := &model.Block{
		Kind:      spec.kind,
		LocalName: raw.Labels[spec.labels-1],
		ScopePath: append([]string{}, scope...),
		DeclRange: diag.SourceRange{Filename: defRange.Filename, Line: defRange.Start.Line},
	}
	if spec.labels == 2 {
		block.TypeName = raw.Labels[0]
	}
	if !block.Valid() {
		return nil, malformed("empty identity label")
	}

	block.Attributes, block.DependsOn = l.translateBody(raw.Body, src)
	return block, nil
}

// translateLocals expands a locals block into one Block per definition.
func (l *Loader) translateLocals(raw *hclsyntax.Block, src []byte, scope []string) []*model.Block {
	var out []*model.Block
	for name, attr := range raw.Body.Attributes {
		out = append(out, &model.Block{
			Kind:      model.KindLocal,
			LocalName: name,
			ScopePath: append([]string{}, scope...),
			Attributes: map[string]model.Value{
				"value": l.translateExpr(attr.Expr, src),
			},
			DeclRange: diag.SourceRange{Filename: attr.SrcRange.Filename, Line: attr.SrcRange.Start.Line},
		})
	}
	return out
}

// translateBody flattens a block body into attribute values, pulling the
// explicit depends_on list out separately. Nested blocks become map
// values under their block type; repeated nested blocks of one type
// become a list.
func (l *Loader) translateBody(body *hclsyntax.Body, src []byte) (map[string]model.Value, []string) {
	attrs := make(map[string]model.Value, len(body.Attributes))
	var dependsOn []string

	for name, attr := range body.Attributes {
		if name == "depends_on" {
			for _, traversal := range attr.Expr.Variables() {
				dependsOn = append(dependsOn, traversalString(traversal))
			}
			continue
		}
		attrs[name] = l.translateExpr(attr.Expr, src)
	}

	nested := map[string][]model.Value{}
	var order []string
	for _, raw := range body.Blocks {
		inner, innerDeps := l.translateBody(raw.Body, src)
		dependsOn = append(dependsOn, innerDeps...)
		if _, ok := nested[raw.Type]; !ok {
			order = append(order, raw.Type)
		}
		nested[raw.Type] = append(nested[raw.Type], model.MapVal(inner))
	}
	for _, typ := range order {
		vals := nested[typ]
		if len(vals) == 1 {
			attrs[typ] = vals[0]
		} else {
			attrs[typ] = model.ListVal(vals)
		}
	}

	return attrs, dependsOn
}

// translateExpr produces a literal Value when the expression evaluates
// statically, and otherwise carries the expression's raw source text so
// the resolver can scan it for references.
func (l *Loader) translateExpr(expr hclsyntax.Expression, src []byte) model.Value {
	val, diags := expr.Value(nil)
	if !diags.HasErrors() && val.IsWhollyKnown() {
		return ctyToValue(val)
	}
	return model.ExprVal(string(expr.Range().SliceBytes(src)))
}

// ctyToValue converts an evaluated cty value into the tagged-variant model
// value.
func ctyToValue(v cty.Value) model.Value {
	if v.IsNull() {
		return model.NullVal()
	}
	t := v.Type()
	switch {
	case t == cty.String:
		return model.StringVal(v.AsString())
	case t == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return model.NumberVal(f)
	case t == cty.Bool:
		return model.BoolVal(v.True())
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		var items []model.Value
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			items = append(items, ctyToValue(ev))
		}
		return model.ListVal(items)
	case t.IsObjectType() || t.IsMapType():
		items := map[string]model.Value{}
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			items[kv.AsString()] = ctyToValue(ev)
		}
		return model.MapVal(items)
	default:
		return model.NullVal()
	}
}

// traversalString renders a traversal as a dotted chain, skipping index
// steps: aws_instance.web[0].id becomes aws_instance.web.id.
func traversalString(traversal hcl.Traversal) string {
	var out string
	for _, step := range traversal {
		switch s := step.(type) {
		case hcl.TraverseRoot:
			out = s.Name
		case hcl.TraverseAttr:
			out += "." + s.Name
		}
	}
	return out
}
