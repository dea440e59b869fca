package configuration

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertwitch/offload/internal/pathing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEnvProvider struct {
	mock.Mock
}

func (m *mockEnvProvider) Read(filenames ...string) (map[string]string, error) {
	args := m.Called(filenames)

	envMap, _ := args.Get(0).(map[string]string)

	return envMap, args.Error(1)
}

func (m *mockEnvProvider) Write(envMap map[string]string, filename string) error {
	args := m.Called(envMap, filename)

	return args.Error(0)
}

func TestStore_SaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.env")
	store := NewStore(path, nil)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Settings{}, settings)

	want := Settings{
		Structure:          "year_month",
		Prefix:             "my trip",
		DefaultDestination: "/mnt/photos",
	}
	require.NoError(t, store.Save(want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `FILENAME="None"`)

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.SetLatestDestination("/mnt/usb"))

	got, err = store.Load()
	require.NoError(t, err)
	want.LatestDestination = "/mnt/usb"
	assert.Equal(t, want, got)
}

func TestStore_Load_NoneIsUnset(t *testing.T) {
	t.Parallel()

	env := &mockEnvProvider{}
	env.On("Read", []string{"/x/settings.env"}).Return(map[string]string{
		KeyStructure:         "None",
		KeyPrefix:            " offload_date ",
		KeyLatestDestination: "/dst",
	}, nil)

	got, err := NewStore("/x/settings.env", env).Load()
	require.NoError(t, err)

	assert.Equal(t, Settings{Prefix: "offload_date", LatestDestination: "/dst"}, got)
	env.AssertExpectations(t)
}

// TestStore_ExplicitNonePrefix verifies that a saved "no prefix" choice
// survives the round trip instead of turning into the default prefix.
func TestStore_ExplicitNonePrefix(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.env")
	store := NewStore(path, nil)

	require.NoError(t, store.Save(Settings{Prefix: "None"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `PREFIX="none"`)
	assert.Contains(t, string(data), `FILENAME="None"`)

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "none", got.Prefix)
	assert.Empty(t, got.Filename)

	cfg := Presets(PresetFlags{}, got)
	assert.Equal(t, pathing.PrefixNone, cfg.Prefix)
	assert.Equal(t, pathing.FilenameOriginal, cfg.Filename)
}

func TestStore_Errors(t *testing.T) {
	t.Parallel()

	env := &mockEnvProvider{}
	env.On("Read", mock.Anything).Return(nil, errors.New("garbled"))
	env.On("Write", mock.Anything, "/x/settings.env").Return(errors.New("read-only"))

	store := NewStore("/x/settings.env", env)

	_, err := store.Load()
	require.ErrorIs(t, err, ErrSettings)

	err = store.Save(Settings{})
	require.ErrorIs(t, err, ErrSettings)

	err = store.SetLatestDestination("/dst")
	require.ErrorIs(t, err, ErrSettings)
}

func TestPresets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flags    PresetFlags
		settings Settings
		want     pathing.Config
	}{
		{
			name: "defaults",
			want: pathing.Config{
				Structure: pathing.StructureTakenDate,
				Prefix:    pathing.PrefixTakenDate,
				Filename:  pathing.FilenameOriginal,
			},
		},
		{
			name:     "settings over defaults",
			settings: Settings{Structure: "flat", Prefix: "none", Filename: "camera_model"},
			want: pathing.Config{
				Structure: pathing.StructureFlat,
				Prefix:    pathing.PrefixNone,
				Filename:  pathing.FilenameCameraModel,
			},
		},
		{
			name:     "flags over settings",
			flags:    PresetFlags{Structure: "year", Prefix: "trip"},
			settings: Settings{Structure: "flat", Prefix: "none", Filename: "camera_make"},
			want: pathing.Config{
				Structure: pathing.StructureYear,
				Prefix:    "trip",
				Filename:  pathing.FilenameCameraMake,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Presets(tt.flags, tt.settings))
		})
	}
}

func TestDestination(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	latest := filepath.Join(root, "latest")
	def := filepath.Join(root, "default")
	home := filepath.Join(root, "home")
	missing := filepath.Join(root, "missing")
	file := filepath.Join(root, "file")

	for _, dir := range []string{latest, def, home} {
		require.NoError(t, os.Mkdir(dir, 0o755))
	}
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name     string
		explicit string
		settings Settings
		home     string
		want     string
		wantErr  bool
	}{
		{"explicit wins", "/anywhere", Settings{LatestDestination: latest}, home, "/anywhere", false},
		{"latest", "", Settings{LatestDestination: latest, DefaultDestination: def}, home, latest, false},
		{"latest missing", "", Settings{LatestDestination: missing, DefaultDestination: def}, home, def, false},
		{"latest is a file", "", Settings{LatestDestination: file}, home, home, false},
		{"home", "", Settings{}, home, home, false},
		{"nothing usable", "", Settings{DefaultDestination: missing}, missing, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Destination(tt.explicit, tt.settings, tt.home)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoDestination)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppPaths(t *testing.T) {
	t.Parallel()

	home := filepath.Join(t.TempDir(), "offload")
	p := NewAppPaths(home)

	assert.Equal(t, filepath.Join(home, "settings.env"), p.Settings)
	assert.Equal(t, filepath.Join(home, "logs", "2403051007_offload.log"),
		p.LogFile(time.Date(2024, 3, 5, 10, 7, 0, 0, time.UTC)))

	require.NoError(t, p.Ensure())

	for _, dir := range []string{p.Home, p.Logs, p.Reports} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestDefaultAppPaths_Env(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	p, err := DefaultAppPaths()
	require.NoError(t, err)
	assert.Equal(t, home, p.Home)
	assert.Equal(t, filepath.Join(home, "reports"), p.Reports)
}
