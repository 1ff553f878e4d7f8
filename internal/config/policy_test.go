package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsconsole/internal/domain/models/docstore"
)

func TestParseAccessPolicy(t *testing.T) {
	policy, err := ParseAccessPolicy([]byte(`
elevated_roles: [admin, office_manager]
hidden_roots: [archive, 9b2f0c4e-0000-0000-0000-000000000001]
`))
	require.NoError(t, err)

	assert.True(t, policy.IsElevated([]string{"viewer", "office_manager"}))
	assert.False(t, policy.IsElevated([]string{"viewer"}))
	assert.False(t, policy.IsElevated(nil))

	assert.True(t, policy.IsHiddenRoot(docstore.Folder{ID: "x", Path: "archive"}))
	assert.True(t, policy.IsHiddenRoot(docstore.Folder{ID: "9b2f0c4e-0000-0000-0000-000000000001", Path: "old"}))
	assert.False(t, policy.IsHiddenRoot(docstore.Folder{ID: "y", Path: "archive-2"}))

	// taxonomy falls back to the defaults
	assert.True(t, policy.HasCategory(docstore.CategoryMedia))
	assert.False(t, policy.HasCategory("recipes"))
}

func TestParseAccessPolicyDefaults(t *testing.T) {
	policy, err := ParseAccessPolicy([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, policy.ElevatedRoles)
	assert.Len(t, policy.Categories, len(docstore.Categories))

	_, err = ParseAccessPolicy([]byte("elevated_roles: {"))
	assert.Error(t, err)
}

func TestLoadAccessPolicyEmptyPath(t *testing.T) {
	policy, err := LoadAccessPolicy("")
	require.NoError(t, err)
	assert.True(t, policy.IsElevated([]string{"admin"}))
}
