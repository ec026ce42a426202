package dustbin

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPhoto_ArchivesCurrentPhoto(t *testing.T) {
	d := &Dustbin{PhotoBase64: "photo-0"}

	d.PushPhoto("photo-1")

	assert.Equal(t, "photo-1", d.PhotoBase64)
	assert.Equal(t, []string{"photo-0"}, d.PhotoHistory)
}

func TestPushPhoto_EmptyCurrentPhotoNotArchived(t *testing.T) {
	d := &Dustbin{}

	d.PushPhoto("photo-1")

	assert.Equal(t, "photo-1", d.PhotoBase64)
	assert.Empty(t, d.PhotoHistory)
}

func TestPushPhoto_BoundedHistory(t *testing.T) {
	// 25 sequential approvals against the same bin must leave the 20
	// most recent prior photos, in order
	d := &Dustbin{PhotoBase64: "photo-0"}

	for i := 1; i <= 25; i++ {
		d.PushPhoto(fmt.Sprintf("photo-%d", i))
	}

	require.Len(t, d.PhotoHistory, MaxPhotoHistory)
	assert.Equal(t, "photo-25", d.PhotoBase64)

	// History holds photo-5 .. photo-24, oldest first
	assert.Equal(t, "photo-5", d.PhotoHistory[0])
	assert.Equal(t, "photo-24", d.PhotoHistory[len(d.PhotoHistory)-1])
	for i, p := range d.PhotoHistory {
		assert.Equal(t, fmt.Sprintf("photo-%d", i+5), p)
	}
}
