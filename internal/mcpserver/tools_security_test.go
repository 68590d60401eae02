package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasoverlay/auditor"
)

func TestHandleSecurityAudit(t *testing.T) {
	docCache.reset()
	defer docCache.reset()

	result, output, err := handleSecurityAudit(context.Background(), nil, securityAuditInput{
		Spec: documentInput{Content: portalSpecYAML},
	})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, 2, output.Counts.Operations)
	require.Len(t, output.Schemes, 1)
	assert.Equal(t, "customer_session", output.Schemes[0].Name)
	assert.Contains(t, output.Summary, "audited")
}

func TestHandleSecurityAuditSchemeFilter(t *testing.T) {
	docCache.reset()
	defer docCache.reset()

	_, output, err := handleSecurityAudit(context.Background(), nil, securityAuditInput{
		Spec:   documentInput{Content: portalSpecYAML},
		Scheme: "customer_session",
	})
	require.NoError(t, err)

	require.Len(t, output.Operations, 1)
	assert.Equal(t, "customer_portal:orders:list", output.Operations[0].OperationID)
	assert.Equal(t, auditor.SourceOperation, output.Operations[0].Source)
}

func TestHandleSecurityAuditPublicOnly(t *testing.T) {
	docCache.reset()
	defer docCache.reset()

	_, output, err := handleSecurityAudit(context.Background(), nil, securityAuditInput{
		Spec:       documentInput{Content: portalSpecYAML},
		PublicOnly: true,
	})
	require.NoError(t, err)

	// products:list has no security and no global fallback exists.
	require.Len(t, output.Operations, 1)
	assert.Equal(t, "products:list", output.Operations[0].OperationID)
}

func TestHandleSecurityAuditBadInput(t *testing.T) {
	result, _, err := handleSecurityAudit(context.Background(), nil, securityAuditInput{
		Spec: documentInput{File: "a.yaml", Content: "b"},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
