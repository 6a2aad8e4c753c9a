package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	var ds Diagnostics
	assert.False(t, ds.HasErrors())
	assert.Equal(t, "no diagnostics", ds.Error())

	ds = ds.Append(&Diagnostic{
		Severity: Warning,
		Code:     UnresolvedReference,
		Summary:  "reference does not match any declaration",
		Subject:  &SourceRange{Filename: "main.tf", Line: 4},
	})
	assert.False(t, ds.HasErrors())

	ds = ds.Extend(Diagnostics{{
		Severity: Error,
		Code:     ParseError,
		Summary:  "failed to parse broken.tf",
	}})
	assert.True(t, ds.HasErrors())
	assert.Len(t, ds, 2)

	require.Len(t, ds.ByCode(ParseError), 1)
	assert.Empty(t, ds.ByCode(ModuleCycle))
}

func TestDiagnosticError(t *testing.T) {
	withSubject := &Diagnostic{
		Severity: Warning,
		Code:     IsolatedNode,
		Summary:  "aws_vpc.main has no dependency relationships",
		Subject:  &SourceRange{Filename: "main.tf", Line: 12},
	}
	assert.Equal(t, "warning: main.tf:12: aws_vpc.main has no dependency relationships", withSubject.Error())

	withoutSubject := &Diagnostic{Severity: Error, Summary: "boom"}
	assert.Equal(t, "error: boom", withoutSubject.Error())
}
