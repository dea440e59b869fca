package pathing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertwitch/offload/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMetadata struct {
	mock.Mock
}

func (m *mockMetadata) Metadata(ctx context.Context, path string) map[string]string {
	args := m.Called(ctx, path)

	return args.Get(0).(map[string]string) //nolint:forcetypeassert
}

//nolint:gochecknoglobals
var (
	fileDate    = time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local)
	offloadDate = time.Date(2025, 12, 31, 23, 59, 0, 0, time.Local)
)

func TestStructureFolder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		preset   Structure
		relDir   string
		expected string
	}{
		{StructureYearMonth, "", filepath.Join("2024", "03")},
		{StructureTakenDate, "", filepath.Join("2024", "2024-03-05")},
		{StructureFlat, "", ""},
		{StructureYear, "", "2024"},
		{StructureOffloadDate, "", filepath.Join("2025", "2025-12-31")},
		{StructureOriginal, filepath.Join("DCIM", "100CANON"), filepath.Join("DCIM", "100CANON")},
		{StructureOriginal, "", ""},
		{StructureOriginal, ".", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset)+"/"+tt.relDir, func(t *testing.T) {
			t.Parallel()

			folder, err := StructureFolder(tt.preset, fileDate, offloadDate, tt.relDir)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, folder)
		})
	}
}

func TestStructureFolder_Unknown_Error(t *testing.T) {
	t.Parallel()

	_, err := StructureFolder("by_camera", fileDate, offloadDate, "")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestPrefixFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		preset   string
		expected string
	}{
		{"", ""},
		{"none", ""},
		{"None", ""},
		{"empty", ""},
		{PrefixTakenDate, "240305"},
		{PrefixTakenDateTime, "240305_140709"},
		{PrefixOffloadDate, "251231"},
		{"Holiday", "Holiday"},
		{"my trip", "my trip"},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, PrefixFor(tt.preset, fileDate, offloadDate))
		})
	}
}

func TestMetadataKey(t *testing.T) {
	t.Parallel()

	key, err := MetadataKey(FilenameOriginal)
	require.NoError(t, err)
	assert.Empty(t, key)

	key, err = MetadataKey(FilenameCameraMake)
	require.NoError(t, err)
	assert.Equal(t, "Make", key)

	key, err = MetadataKey(FilenameCameraModel)
	require.NoError(t, err)
	assert.Equal(t, "Model", key)

	_, err = MetadataKey("lens")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"Söl Model", "Sol_Model"},
		{"canon eos r5", "canon_eos_r5"},
		{"ÅÄÖ åäö", "AAO_aao"},
		{"a/b\\c:d*e?f", "abcdef"},
		{"x-t4.v2", "x-t4.v2"},
		{"日本", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestParsePresets(t *testing.T) {
	t.Parallel()

	s, err := ParseStructure("year_month")
	require.NoError(t, err)
	assert.Equal(t, StructureYearMonth, s)

	_, err = ParseStructure("weekly")
	require.ErrorIs(t, err, ErrConfiguration)

	f, err := ParseFilename("None")
	require.NoError(t, err)
	assert.Equal(t, FilenameOriginal, f)

	var flag Filename
	require.NoError(t, flag.UnmarshalText([]byte("camera_model")))
	assert.Equal(t, FilenameCameraModel, flag)
	require.ErrorIs(t, flag.UnmarshalText([]byte("lens")), ErrConfiguration)
}

func newRecord(t *testing.T, rel string) (*schema.FileRecord, string) {
	t.Helper()

	root := t.TempDir()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	require.NoError(t, os.Chtimes(path, fileDate, fileDate))

	rec, err := schema.NewFileRecord(root, path)
	require.NoError(t, err)

	return rec, root
}

func TestNewResolver_Unknown_Error(t *testing.T) {
	t.Parallel()

	_, err := NewResolver(Config{Structure: "weekly"}, nil, offloadDate)
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewResolver(Config{Filename: "lens"}, nil, offloadDate)
	require.ErrorIs(t, err, ErrConfiguration)

	r, err := NewResolver(Config{Prefix: "anything goes"}, nil, offloadDate)
	require.NoError(t, err)
	assert.Equal(t, DefaultStructure, r.Config().Structure)
	assert.Equal(t, FilenameOriginal, r.Config().Filename)
	assert.Equal(t, schema.DefaultIncrementPadding, r.Config().Padding)
}

func TestResolver_Resolve_Original(t *testing.T) {
	t.Parallel()

	rec, _ := newRecord(t, filepath.Join("DCIM", "IMG_0001.JPG"))

	md := &mockMetadata{}
	r, err := NewResolver(Config{Structure: StructureTakenDate, Prefix: PrefixTakenDate}, md, offloadDate)
	require.NoError(t, err)

	cand, err := r.Resolve(t.Context(), rec, "/dst")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/dst", "2024", "2024-03-05", "240305_IMG_0001.JPG"), cand.FullPath())
	md.AssertNotCalled(t, "Metadata", mock.Anything, mock.Anything)
}

func TestResolver_Resolve_CameraModel(t *testing.T) {
	t.Parallel()

	rec, _ := newRecord(t, "DSC00001.ARW")

	md := &mockMetadata{}
	md.On("Metadata", mock.Anything, rec.SourcePath).Return(map[string]string{"Model": "Söl Model"})

	r, err := NewResolver(Config{Structure: StructureFlat, Prefix: "none", Filename: FilenameCameraModel}, md, offloadDate)
	require.NoError(t, err)

	cand, err := r.Resolve(t.Context(), rec, "/dst")
	require.NoError(t, err)

	assert.Equal(t, "sol_model.ARW", cand.Filename())
	md.AssertExpectations(t)
}

func TestResolver_Resolve_CameraMake_Unknown(t *testing.T) {
	t.Parallel()

	rec, _ := newRecord(t, "clip.mp4")

	md := &mockMetadata{}
	md.On("Metadata", mock.Anything, rec.SourcePath).Return(map[string]string{})

	r, err := NewResolver(Config{Structure: StructureYear, Prefix: PrefixOffloadDate, Filename: FilenameCameraMake}, md, offloadDate)
	require.NoError(t, err)

	cand, err := r.Resolve(t.Context(), rec, "/dst")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/dst", "2024", "251231_unknown.mp4"), cand.FullPath())
}

func TestResolver_Resolve_UnprintableMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  string
		prefix string
		want   string
	}{
		{"japanese model", "日本", "none", "unknown.jpg"},
		{"cyrillic model", "Зенит", PrefixTakenDate, "240305_unknown.jpg"},
		{"punctuation only", " ?* ", "none", "unknown.jpg"},
		{"mixed keeps latin", "日本 X100", "none", "_x100.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, _ := newRecord(t, "DSCF0001.jpg")

			md := &mockMetadata{}
			md.On("Metadata", mock.Anything, rec.SourcePath).Return(map[string]string{"Model": tt.value})

			r, err := NewResolver(Config{Structure: StructureFlat, Prefix: tt.prefix, Filename: FilenameCameraModel}, md, offloadDate)
			require.NoError(t, err)

			cand, err := r.Resolve(t.Context(), rec, "/dst")
			require.NoError(t, err)

			assert.Equal(t, tt.want, cand.Filename())
		})
	}
}

func TestResolver_Placeholder_NoMetadata(t *testing.T) {
	t.Parallel()

	rec, _ := newRecord(t, "IMG_0002.JPG")

	md := &mockMetadata{}
	r, err := NewResolver(Config{Structure: StructureYearMonth, Prefix: "none", Filename: FilenameCameraModel}, md, offloadDate)
	require.NoError(t, err)

	cand := r.Placeholder(rec, "/dst")
	assert.Equal(t, filepath.Join("/dst", "2024", "03", "IMG_0002.JPG"), cand.FullPath())
	md.AssertNotCalled(t, "Metadata", mock.Anything, mock.Anything)
}
