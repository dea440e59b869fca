package schema

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDestinationCandidate_Filename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cand     DestinationCandidate
		expected string
	}{
		{"Success_BaseOnly", DestinationCandidate{BaseName: "IMG_0001", Extension: "jpg"}, "IMG_0001.jpg"},
		{"Success_WithPrefix", DestinationCandidate{Prefix: "240305", BaseName: "IMG_0001", Extension: "jpg"}, "240305_IMG_0001.jpg"},
		{"Success_WithIncrement", DestinationCandidate{BaseName: "IMG_0001", Increment: 1, Extension: "jpg"}, "IMG_0001_001.jpg"},
		{"Success_AllParts", DestinationCandidate{Prefix: "p", BaseName: "b", Increment: 12, Extension: "MP4"}, "p_b_012.MP4"},
		{"Success_CustomPadding", DestinationCandidate{BaseName: "b", Increment: 7, Padding: 5, Extension: "x"}, "b_00007.x"},
		{"Success_NoExtension", DestinationCandidate{BaseName: "README"}, "README"},
		{"Success_NoExtensionIncrement", DestinationCandidate{BaseName: "README", Increment: 2}, "README_002"},
		{"Success_OverflowPadding", DestinationCandidate{BaseName: "b", Increment: 1234, Extension: "x"}, "b_1234.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.cand.Filename())
		})
	}
}

func TestDestinationCandidate_FullPath(t *testing.T) {
	t.Parallel()

	c := DestinationCandidate{Root: "/dst", Folder: "2024/2024-03-05", BaseName: "IMG_0001", Extension: "jpg"}
	assert.Equal(t, filepath.Join("/dst", "2024", "2024-03-05", "IMG_0001.jpg"), c.FullPath())
	assert.Equal(t, filepath.Join("/dst", "2024", "2024-03-05"), c.Directory())

	c.Bump()
	assert.Equal(t, filepath.Join("/dst", "2024", "2024-03-05", "IMG_0001_001.jpg"), c.FullPath())

	c.Bump()
	assert.Equal(t, "IMG_0001_002.jpg", c.Filename())
}

func TestDestinationCandidate_FullPath_Flat(t *testing.T) {
	t.Parallel()

	c := DestinationCandidate{Root: "/dst", BaseName: "a", Extension: "raw"}
	assert.Equal(t, filepath.Join("/dst", "a.raw"), c.FullPath())
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "verification-failed", StateVerificationFailed.String())
	assert.Equal(t, "reported", StateReported.String())
	assert.Equal(t, "unknown", State(99).String())
}
