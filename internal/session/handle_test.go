package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawahib/portal/internal/model"
)

type failingStore struct {
	*MemoryStore
	saveErr   error
	deleteErr error
}

func (f *failingStore) Save(ctx context.Context, id string, sess model.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryStore.Save(ctx, id, sess)
}

func (f *failingStore) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryStore.Delete(ctx, id)
}

func testUser() *model.User {
	return &model.User{ID: "u1", Name: "Amal", Email: "amal@example.com", Role: model.RoleScholarshipStudent}
}

func TestHandle_LoginSetsTokenAndUserTogether(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	h, err := Open(ctx, store, "sid")
	require.NoError(t, err)
	assert.False(t, h.IsAuthenticated())
	assert.Nil(t, h.User())
	assert.Empty(t, h.Token())

	require.NoError(t, h.Login(ctx, "tok", testUser()))

	assert.True(t, h.IsAuthenticated())
	assert.Equal(t, "tok", h.Token())
	assert.Equal(t, "u1", h.User().ID)
	assert.Equal(t, model.RoleScholarshipStudent, h.Role())
}

func TestHandle_LoginRejectsHalfSessions(t *testing.T) {
	ctx := context.Background()
	h, err := Open(ctx, NewMemoryStore(), "sid")
	require.NoError(t, err)

	assert.ErrorIs(t, h.Login(ctx, "", testUser()), ErrIncompleteSession)
	assert.ErrorIs(t, h.Login(ctx, "tok", nil), ErrIncompleteSession)
	assert.False(t, h.IsAuthenticated())
	assert.Empty(t, h.Token())
}

func TestHandle_StoreFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: NewMemoryStore()}
	h, err := Open(ctx, store, "sid")
	require.NoError(t, err)
	require.NoError(t, h.Login(ctx, "tok", testUser()))

	store.saveErr = errors.New("redis down")
	other := &model.User{ID: "u2", Role: model.RoleAdmin}
	require.Error(t, h.Login(ctx, "tok2", other))
	assert.Equal(t, "tok", h.Token())
	assert.Equal(t, "u1", h.User().ID)

	store.deleteErr = errors.New("redis down")
	require.Error(t, h.Logout(ctx))
	assert.True(t, h.IsAuthenticated())
}

func TestHandle_LogoutClearsBoth(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	h, err := Open(ctx, store, "sid")
	require.NoError(t, err)
	require.NoError(t, h.Login(ctx, "tok", testUser()))

	require.NoError(t, h.Logout(ctx))

	assert.False(t, h.IsAuthenticated())
	assert.Empty(t, h.Token())
	assert.Nil(t, h.User())
	assert.Equal(t, 0, store.Len())
}

func TestOpen_RehydratesPersistedSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	first, err := Open(ctx, store, "sid")
	require.NoError(t, err)
	require.NoError(t, first.Login(ctx, "tok", testUser()))

	reloaded, err := Open(ctx, store, "sid")
	require.NoError(t, err)

	assert.Equal(t, "tok", reloaded.Token())
	assert.Equal(t, "amal@example.com", reloaded.User().Email)
}

func TestHandle_UserReturnsCopy(t *testing.T) {
	ctx := context.Background()
	h, err := Open(ctx, NewMemoryStore(), "sid")
	require.NoError(t, err)
	require.NoError(t, h.Login(ctx, "tok", testUser()))

	u := h.User()
	u.Name = "changed"

	assert.Equal(t, "Amal", h.User().Name)
}

func TestContext_RoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	h := &Handle{id: "sid"}
	got, ok := FromContext(WithHandle(context.Background(), h))
	require.True(t, ok)
	assert.Same(t, h, got)
}

func TestNewID_Unique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}
