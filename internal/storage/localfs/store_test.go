package localfs_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimassist/internal/domain"
	"claimassist/internal/port"
	"claimassist/internal/storage/localfs"
)

func TestStore_RoundTrip(t *testing.T) {
	store, err := localfs.NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	out, err := store.Upload(ctx, port.UploadInput{
		Bucket: "claims", Key: "health/abc/bill.png",
		Body: bytes.NewReader([]byte("payload")), ContentType: "image/png", Size: 7,
	})
	require.NoError(t, err)
	assert.Contains(t, out.Location, "health/abc/bill.png")

	data, err := store.Download(ctx, "claims", "health/abc/bill.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	url, err := store.GetPresignedURL(ctx, "claims", "health/abc/bill.png", 60)
	require.NoError(t, err)
	assert.Contains(t, url, "file://")

	require.NoError(t, store.Delete(ctx, "claims", "health/abc/bill.png"))
	_, err = store.Download(ctx, "claims", "health/abc/bill.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_DeleteMissingIsNoop(t *testing.T) {
	store, err := localfs.NewStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "claims", "missing.png"))
}

func TestStore_KeysCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	store, err := localfs.NewStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Upload(ctx, port.UploadInput{Bucket: "claims", Key: "../../etc/passwd", Body: bytes.NewReader(nil)})
	require.NoError(t, err)
	url, err := store.GetPresignedURL(ctx, "claims", "../../etc/passwd", 0)
	require.NoError(t, err)
	assert.Contains(t, url, root)

	_, err = store.Download(ctx, "../x", "key")
	assert.ErrorIs(t, err, localfs.ErrInvalidKey)
	_, err = store.Download(ctx, "claims", "")
	assert.ErrorIs(t, err, localfs.ErrInvalidKey)
}

func TestNewStore_EmptyRoot(t *testing.T) {
	_, err := localfs.NewStore("")
	assert.Error(t, err)
}
