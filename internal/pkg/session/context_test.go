package session_test

import (
	"context"
	"errors"
	"testing"

	"jiudi-console/internal/domain/auth"
	xerrors "jiudi-console/internal/pkg/errors"
	"jiudi-console/internal/pkg/session"
	"jiudi-console/internal/pkg/session/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var lan = &auth.Identity{ID: "u1", Name: "Lan", Phone: "0900", Role: auth.RoleAgent}

func loggedIn(t *testing.T, store session.Store, m *session.Manager) string {
	t.Helper()
	sess := m.Load(context.Background(), "")
	sess.Establish(context.Background())
	require.NoError(t, sess.RecordLogin(context.Background(), &auth.LoginResponse{Token: "tok", Identity: *lan}, "127.0.0.1", "test"))
	return sess.ID()
}

func TestEstablishWithoutTokenSkipsNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	authn := mocks.NewMockAuthenticator(ctrl)
	// no Me expectation: a call would fail the test

	m := session.NewManager(session.NewMemoryStore(), authn)
	sess := m.Load(context.Background(), "")
	assert.True(t, sess.Loading())

	sess.Establish(context.Background())
	assert.False(t, sess.Loading())
	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.Nil(t, sess.Identity())
}

func TestEstablishVerifiesStoredToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	authn := mocks.NewMockAuthenticator(ctrl)
	store := session.NewMemoryStore()
	m := session.NewManager(store, authn)

	id := loggedIn(t, store, m)

	authn.EXPECT().Me(gomock.Any(), "tok").Return(lan, nil).Times(1)

	sess := m.Load(context.Background(), id)
	sess.Establish(context.Background())
	sess.Establish(context.Background()) // runs once

	assert.Equal(t, session.StateAuthenticated, sess.State())
	require.NotNil(t, sess.Identity())
	assert.Equal(t, "Lan", sess.Identity().Name)
	assert.Equal(t, "tok", sess.Token())
	assert.Equal(t, id, sess.ID())
}

func TestEstablishDiscardsRejectedToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	authn := mocks.NewMockAuthenticator(ctrl)
	store := session.NewMemoryStore()
	m := session.NewManager(store, authn)

	id := loggedIn(t, store, m)
	authn.EXPECT().Me(gomock.Any(), "tok").Return(nil, errors.New("401"))

	sess := m.Load(context.Background(), id)
	sess.Establish(context.Background())

	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.Nil(t, sess.Identity())
	assert.Empty(t, sess.Token())
	assert.NotEqual(t, id, sess.ID())

	_, err := store.Get(context.Background(), id)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRecordLoginRotatesID(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := session.NewMemoryStore()
	m := session.NewManager(store, mocks.NewMockAuthenticator(ctrl))

	sess := m.Load(context.Background(), "")
	sess.Establish(context.Background())
	require.NoError(t, sess.AddFlash(context.Background(), session.Failure("Lỗi", "x")))
	before := sess.ID()

	require.NoError(t, sess.RecordLogin(context.Background(), &auth.LoginResponse{Token: "tok", Identity: *lan}, "", ""))

	assert.NotEqual(t, before, sess.ID())
	assert.Equal(t, session.StateAuthenticated, sess.State())
	assert.Equal(t, "u1", sess.Identity().ID)

	_, err := store.Get(context.Background(), before)
	assert.ErrorIs(t, err, session.ErrNotFound)

	rec, err := store.Get(context.Background(), sess.ID())
	require.NoError(t, err)
	assert.Equal(t, "tok", rec.Token)
	assert.Len(t, rec.Flashes, 1)
}

func TestRecordLoginKeepsTokenWhenNoneIssued(t *testing.T) {
	ctrl := gomock.NewController(t)
	authn := mocks.NewMockAuthenticator(ctrl)
	store := session.NewMemoryStore()
	m := session.NewManager(store, authn)

	id := loggedIn(t, store, m)
	authn.EXPECT().Me(gomock.Any(), "tok").Return(lan, nil)

	sess := m.Load(context.Background(), id)
	sess.Establish(context.Background())

	updated := *lan
	updated.Name = "Lan Anh"
	require.NoError(t, sess.RecordLogin(context.Background(), &auth.LoginResponse{Identity: updated}, "", ""))

	assert.Equal(t, "tok", sess.Token())
	assert.Equal(t, "Lan Anh", sess.Identity().Name)
}

func TestRecordLoginWithoutAnyToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := session.NewMemoryStore()
	m := session.NewManager(store, mocks.NewMockAuthenticator(ctrl))

	sess := m.Load(context.Background(), "")
	sess.Establish(context.Background())
	id := sess.ID()

	err := sess.RecordLogin(context.Background(), &auth.LoginResponse{Identity: *lan}, "", "")
	assert.ErrorIs(t, err, xerrors.ErrNoCredential)
	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.Nil(t, sess.Identity())
	assert.Equal(t, id, sess.ID())
	assert.Equal(t, 0, store.Len())
}

func TestEndSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	authn := mocks.NewMockAuthenticator(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	store := session.NewMemoryStore()
	m := session.NewManager(store, authn, session.WithNotifier(notifier))

	id := loggedIn(t, store, m)
	authn.EXPECT().Me(gomock.Any(), "tok").Return(lan, nil)
	authn.EXPECT().Logout(gomock.Any(), "tok").Return(errors.New("network down"))
	notifier.EXPECT().ForceLogout(id, "logout").Times(1)

	sess := m.Load(context.Background(), id)
	sess.Establish(context.Background())

	// the failed API logout does not block cleanup
	assert.Equal(t, auth.LoginPath, sess.EndSession(context.Background()))
	assert.Equal(t, session.StateEnded, sess.State())
	assert.Nil(t, sess.Identity())
	assert.Empty(t, sess.Token())

	_, err := store.Get(context.Background(), id)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// idempotent
	assert.Equal(t, auth.LoginPath, sess.EndSession(context.Background()))

	err = sess.RecordLogin(context.Background(), &auth.LoginResponse{Token: "x", Identity: *lan}, "", "")
	assert.ErrorIs(t, err, xerrors.ErrSessionEnded)
	assert.ErrorIs(t, sess.AddFlash(context.Background(), session.Success("a", "b")), xerrors.ErrSessionEnded)
}

func TestRefreshPicksUpIdentityChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	authn := mocks.NewMockAuthenticator(ctrl)
	store := session.NewMemoryStore()
	m := session.NewManager(store, authn)

	first := *lan
	first.IsFirstLogin = true
	sess := m.Load(context.Background(), "")
	sess.Establish(context.Background())
	require.NoError(t, sess.RecordLogin(context.Background(), &auth.LoginResponse{Token: "tok", Identity: first}, "", ""))
	assert.True(t, sess.Identity().IsFirstLogin)

	authn.EXPECT().Me(gomock.Any(), "tok").Return(lan, nil)
	sess.Refresh(context.Background())
	assert.False(t, sess.Identity().IsFirstLogin)

	rec, err := store.Get(context.Background(), sess.ID())
	require.NoError(t, err)
	assert.False(t, rec.Identity.IsFirstLogin)
}

func TestFlashes(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := session.NewMemoryStore()
	m := session.NewManager(store, mocks.NewMockAuthenticator(ctrl))

	sess := m.Load(context.Background(), "")
	sess.Establish(context.Background())
	require.NoError(t, sess.AddFlash(context.Background(), session.Success("Thành công", "ok")))

	// next request sees it exactly once
	next := m.Load(context.Background(), sess.ID())
	next.Establish(context.Background())
	flashes := next.PopFlashes(context.Background())
	require.Len(t, flashes, 1)
	assert.Equal(t, session.FlashSuccess, flashes[0].Kind)

	again := m.Load(context.Background(), sess.ID())
	assert.Empty(t, again.PopFlashes(context.Background()))
}

func TestLoadStoreErrorStartsFresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "abc").Return(nil, errors.New("redis down"))

	m := session.NewManager(store, mocks.NewMockAuthenticator(ctrl))
	sess := m.Load(context.Background(), "abc")

	assert.NotEqual(t, "abc", sess.ID())
	assert.True(t, sess.Loading())
}

func TestRecordLoginSaveFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	m := session.NewManager(store, mocks.NewMockAuthenticator(ctrl))
	sess := m.Load(context.Background(), "")
	sess.Establish(context.Background())

	err := sess.RecordLogin(context.Background(), &auth.LoginResponse{Token: "tok", Identity: *lan}, "", "")
	assert.Error(t, err)
	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.Nil(t, sess.Identity())
}
