package browser

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_MissingCredentials(t *testing.T) {
	_, err := Acquire(context.Background(), Options{})
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "credentials")
}

func TestArtifactPath(t *testing.T) {
	path := ArtifactPath("debug", "abc12345", "login_page")
	assert.Equal(t, filepath.Join("debug", "abc12345_login_page.png"), path)

	// Separators in labels must not escape the debug directory.
	path = ArtifactPath("debug", "abc12345", "weird/label")
	assert.Equal(t, filepath.Join("debug", "abc12345_weird_label.png"), path)
}

func TestErrorUnwrap(t *testing.T) {
	cause := assert.AnError
	navErr := &NavigationError{URL: "https://example.com", Message: "page did not load", Cause: cause}
	assert.ErrorIs(t, navErr, cause)
	assert.Contains(t, navErr.Error(), "https://example.com")

	chErr := &ChallengeError{SessionID: "abc12345"}
	assert.Contains(t, chErr.Error(), "abc12345")
}
