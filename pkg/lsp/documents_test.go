package lsp_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helgardferreira/cucumber-language-service/pkg/lsp"
	"github.com/helgardferreira/cucumber-language-service/pkg/lsp/protocol"
)

func TestDocumentManager_StoreAndGet(t *testing.T) {
	manager := lsp.NewDocumentManager(afero.NewMemMapFs())

	manager.Store("file:///work/test.feature", &lsp.Document{
		URI:     "file:///work/test.feature",
		Content: "Feature: x",
	})

	// scheme spelling must not matter
	for _, uri := range []protocol.DocumentURI{
		"file:///work/test.feature",
		"file:/work/test.feature",
	} {
		doc, ok := manager.Get(uri)
		require.True(t, ok, "uri %s", uri)
		assert.Equal(t, "Feature: x", doc.Content)
	}
}

func TestDocumentManager_ReadsUnopenedFromDisk(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/test.feature", []byte("Feature: y"), 0o644))

	manager := lsp.NewDocumentManager(fs)
	doc, ok := manager.Get("file:///work/test.feature")
	require.True(t, ok)
	assert.Equal(t, "Feature: y", doc.Content)
}

func TestDocumentManager_Delete(t *testing.T) {
	manager := lsp.NewDocumentManager(afero.NewMemMapFs())

	manager.Store("file:///work/test.feature", &lsp.Document{Content: "Feature: x"})
	manager.Delete("file:///work/test.feature")

	_, ok := manager.Get("file:///work/test.feature")
	assert.False(t, ok)
}
