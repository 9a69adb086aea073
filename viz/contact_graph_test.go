package viz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContactGraph(t *testing.T) {
	out, err := NewGraphGenerator().GenerateContactGraph(context.Background(), analyticsState())
	require.NoError(t, err)

	dot := string(out)
	assert.Contains(t, dot, "Contact Network")
	assert.Contains(t, dot, "contact_c1")
	assert.Contains(t, dot, "company_Acme")
	assert.Contains(t, dot, "Unknown Contact")
}
