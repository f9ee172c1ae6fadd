package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/rolodex/internal/platform"
	"github.com/aretw0/rolodex/pkg/core"
	"github.com/aretw0/rolodex/pkg/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() core.Clock {
	return core.ClockFunc(func() time.Time { return fixedNow })
}

func TestNew_FSReopen(t *testing.T) {
	for _, format := range []string{".json", ".yaml"} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			ctx := context.Background()
			opts := []platform.Option{
				platform.WithAutoInit(true),
				platform.WithVersioning(false),
				platform.WithFormat(format),
				platform.WithClock(fixedClock()),
			}

			svc, err := platform.New(dir, opts...)
			require.NoError(t, err)
			id, err := svc.AddContact(ctx, "Ada", "engine")
			require.NoError(t, err)
			mid, err := svc.AddFutureMeeting(ctx, []int{id}, fixedNow.Add(24*time.Hour))
			require.NoError(t, err)
			require.NoError(t, svc.Close(ctx))

			assert.FileExists(t, filepath.Join(dir, "rolodex"+format))
			assert.DirExists(t, filepath.Join(dir, ".rolodex"))

			reopened, err := platform.New(dir, opts...)
			require.NoError(t, err)
			m, err := reopened.GetFutureMeeting(mid)
			require.NoError(t, err)
			assert.Equal(t, []int{id}, m.Participants)

			next, err := reopened.AddContact(ctx, "Grace", "cobol")
			require.NoError(t, err)
			assert.Equal(t, id+1, next)
		})
	}
}

func TestNew_Memory(t *testing.T) {
	svc, err := platform.New("", platform.WithAdapter("memory"))
	require.NoError(t, err)

	_, err = svc.AddContact(context.Background(), "Ada", "n")
	require.NoError(t, err)
	assert.Equal(t, "memory", svc.State().(core.ServiceState).RepositoryType)
}

func TestNew_BadgerInMemory(t *testing.T) {
	svc, err := platform.New(platform.InMemoryURI, platform.WithAdapter("badger"))
	require.NoError(t, err)
	defer svc.Close(context.Background())

	_, err = svc.AddContact(context.Background(), "Ada", "n")
	require.NoError(t, err)
	assert.Equal(t, "badger", svc.State().(core.ServiceState).RepositoryType)
}

func TestNew_BadgerOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	svc, err := platform.New(dir, platform.WithAdapter("badger"))
	require.NoError(t, err)
	_, err = svc.AddContact(ctx, "Ada", "n")
	require.NoError(t, err)
	require.NoError(t, svc.Close(ctx))

	reopened, err := platform.New(dir, platform.WithAdapter("badger"))
	require.NoError(t, err)
	defer reopened.Close(ctx)
	contacts, err := reopened.GetContacts(1)
	require.NoError(t, err)
	assert.Equal(t, "Ada", contacts[0].Name)
}

func TestNew_UnknownAdapter(t *testing.T) {
	_, err := platform.New(t.TempDir(), platform.WithAdapter("s3"))
	assert.ErrorContains(t, err, "unknown adapter")
}

func TestNew_InjectedRepository(t *testing.T) {
	repo := &memoryRepository{}
	svc, err := platform.New("ignored", platform.WithRepository(repo))
	require.NoError(t, err)

	_, err = svc.AddContact(context.Background(), "Ada", "n")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.saves)
	assert.Len(t, repo.snap.Contacts, 1)
}

func TestNew_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	svc, err := platform.New(dir, platform.WithReadOnly(true), platform.WithVersioning(false))
	require.NoError(t, err)

	_, err = svc.AddContact(context.Background(), "Ada", "n")
	assert.ErrorIs(t, err, core.ErrReadOnly)
	_, statErr := os.Stat(filepath.Join(dir, ".rolodex"))
	assert.True(t, os.IsNotExist(statErr), "read-only mode must not create the system dir")
}

func TestNew_DetectsVersioning(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	client := git.NewClient(dir, "", nil)
	require.NoError(t, client.Init())
	_, err := client.Run("config", "user.email", "test@example.com")
	require.NoError(t, err)
	_, err = client.Run("config", "user.name", "Test")
	require.NoError(t, err)

	svc, err := platform.New(dir)
	require.NoError(t, err)
	_, err = svc.AddContact(context.Background(), "Ada", "n")
	require.NoError(t, err)

	subjects, err := client.Subjects(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"feat(contacts): add contact"}, subjects)
}

type memoryRepository struct {
	snap  core.Snapshot
	saves int
}

func (m *memoryRepository) Initialize(ctx context.Context) error { return nil }

func (m *memoryRepository) Load(ctx context.Context) (core.Snapshot, error) { return m.snap, nil }

func (m *memoryRepository) Save(ctx context.Context, s core.Snapshot) error {
	m.snap = s
	m.saves++
	return nil
}
