package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commonsbots/geograph-sync/internal/model"
)

func TestCanAddCreditLine(t *testing.T) {
	cl := model.CreditLine{Author: "Jane Smith", Title: "The Old Mill"}

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty page", "", true},
		{"unrelated text", "== Summary ==\n{{Information|...}}", true},
		{"credit template present", "{{Credit line |Author = Jane Smith |Other = x}}", false},
		{"credit template lowercase", "{{credit line |Author = Someone Else |Other = x}}", false},
		{"own rendering present", cl.Text(), false},
		{"freeform attribution", "Photo by Jane Smith, from geograph.org.uk", false},
		{"author only, not attributed", "Uploaded by Jane Smith", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAddCreditLine(tt.text, cl))
		})
	}
}

func TestFreshSinceUpload(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	firstRev := time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)

	// Row touched before the upload: fresh.
	assert.True(t, FreshSinceUpload(
		time.Date(2019, 5, 30, 9, 0, 0, 0, london), firstRev))

	// Row touched afterwards: stale.
	assert.False(t, FreshSinceUpload(
		time.Date(2019, 6, 2, 9, 0, 0, 0, london), firstRev))

	// Zone conversion matters: 12:30 BST is 11:30 UTC, still before the
	// first revision.
	assert.True(t, FreshSinceUpload(
		time.Date(2019, 6, 1, 12, 30, 0, 0, london), firstRev))

	// Equal instants are not strictly earlier.
	assert.False(t, FreshSinceUpload(firstRev, firstRev))
}
