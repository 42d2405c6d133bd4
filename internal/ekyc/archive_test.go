package ekyc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDocument(t *testing.T) {
	doc := []byte(`<OfflinePaperlessKyc name="x"/>`)

	t.Run("returns the xml entry", func(t *testing.T) {
		archive := encryptedArchive(t, "1234", map[string][]byte{"offline-ekyc.xml": doc})
		got, err := ExtractDocument(archive, "1234")
		require.NoError(t, err)
		assert.Equal(t, doc, got)
	})

	t.Run("wrong share code is an authentication error", func(t *testing.T) {
		archive := encryptedArchive(t, "1234", map[string][]byte{"offline-ekyc.xml": doc})
		_, err := ExtractDocument(archive, "9999")
		require.ErrorIs(t, err, ErrWrongSecretOrCorrupt)
		assert.Equal(t, KindAuthentication, KindOf(err))
	})

	t.Run("garbage bytes are an invalid archive", func(t *testing.T) {
		_, err := ExtractDocument([]byte("definitely not a zip"), "1234")
		require.ErrorIs(t, err, ErrInvalidArchive)
		assert.Equal(t, KindInputFormat, KindOf(err))
	})

	t.Run("archive without an xml entry", func(t *testing.T) {
		archive := encryptedArchive(t, "1234", map[string][]byte{"readme.txt": []byte("hello")})
		_, err := ExtractDocument(archive, "1234")
		require.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("entry extension match is case-insensitive", func(t *testing.T) {
		archive := encryptedArchive(t, "1234", map[string][]byte{"DOC.XML": doc})
		got, err := ExtractDocument(archive, "1234")
		require.NoError(t, err)
		assert.Equal(t, doc, got)
	})
}
