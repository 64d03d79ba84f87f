package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arashkm/vidhub/internal/model"
	repository "github.com/arashkm/vidhub/internal/repository/repoerr"
)

// memStore is an in-memory UserStore with the same per-record
// compare-and-swap semantics as the MySQL repository.
type memStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*model.User{}}
}

func (s *memStore) add(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := u
	s.users[u.ID] = &cp
}

func (s *memStore) FindByLogin(_ context.Context, username, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memStore) SaveRefreshToken(_ context.Context, id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func (s *memStore) RotateRefreshToken(_ context.Context, id, old, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.RefreshToken != old {
		return repository.ErrNotFound
	}
	u.RefreshToken = next
	return nil
}

func (s *memStore) ClearRefreshToken(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.RefreshToken = ""
	}
	return nil
}

func newTestSession(t *testing.T) (*SessionManager, *memStore) {
	t.Helper()
	store := newMemStore()
	hash, err := HashPassword("pw12345678", bcrypt.MinCost)
	require.NoError(t, err)
	store.add(model.User{
		ID:           "u-1",
		Username:     "alice",
		Email:        "alice@x.com",
		FullName:     "Alice Doe",
		PasswordHash: hash,
	})
	return NewSessionManager(store, testIssuer()), store
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	m, store := newTestSession(t)
	pair, profile, err := m.Login(context.Background(), "alice", "", "pw12345678")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	require.Equal(t, "alice", profile.Username)

	// Refresh token persisted on the record.
	u, err := store.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, pair.Refresh, u.RefreshToken)
}

func TestLogin_ByEmail(t *testing.T) {
	t.Parallel()

	m, _ := newTestSession(t)
	_, profile, err := m.Login(context.Background(), "", "Alice@X.com", "pw12345678")
	require.NoError(t, err)
	require.Equal(t, "u-1", profile.ID)
}

func TestLogin_Failures(t *testing.T) {
	t.Parallel()

	m, _ := newTestSession(t)

	_, _, err := m.Login(context.Background(), "", "", "pw12345678")
	require.ErrorIs(t, err, ErrValidation)

	_, _, err = m.Login(context.Background(), "alice", "", "")
	require.ErrorIs(t, err, ErrValidation)

	_, _, err = m.Login(context.Background(), "nobody", "", "pw12345678")
	require.ErrorIs(t, err, ErrNotFound)

	_, _, err = m.Login(context.Background(), "alice", "", "wrongpw")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestLogin_OverwritesPriorSession(t *testing.T) {
	t.Parallel()

	m, _ := newTestSession(t)
	first, _, err := m.Login(context.Background(), "alice", "", "pw12345678")
	require.NoError(t, err)

	_, _, err = m.Login(context.Background(), "alice", "", "pw12345678")
	require.NoError(t, err)

	// The first session's refresh token has been superseded.
	_, _, err = m.Refresh(context.Background(), first.Refresh)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefresh_RotatesToken(t *testing.T) {
	t.Parallel()

	m, store := newTestSession(t)
	pair, _, err := m.Login(context.Background(), "alice", "", "pw12345678")
	require.NoError(t, err)

	next, _, err := m.Refresh(context.Background(), pair.Refresh)
	require.NoError(t, err)
	require.NotEqual(t, pair.Refresh, next.Refresh)
	require.NotEmpty(t, next.Access)

	u, err := store.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, next.Refresh, u.RefreshToken)

	// The used token is spent even though it has not expired.
	_, _, err = m.Refresh(context.Background(), pair.Refresh)
	require.ErrorIs(t, err, ErrUnauthorized)

	// The rotated-in token still works.
	_, _, err = m.Refresh(context.Background(), next.Refresh)
	require.NoError(t, err)
}

func TestRefresh_Failures(t *testing.T) {
	t.Parallel()

	m, _ := newTestSession(t)

	_, _, err := m.Refresh(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = m.Refresh(context.Background(), "garbage")
	require.ErrorIs(t, err, ErrUnauthorized)

	// Validly signed token for an account with no active session.
	tok, err := m.Issuer.IssueRefresh("u-1")
	require.NoError(t, err)
	_, _, err = m.Refresh(context.Background(), tok)
	require.ErrorIs(t, err, ErrUnauthorized)

	// Token signed with a different refresh secret.
	forged := testIssuer()
	forged.RefreshSecret = []byte("other-secret")
	tok, err = forged.IssueRefresh("u-1")
	require.NoError(t, err)
	_, _, err = m.Refresh(context.Background(), tok)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefresh_UnknownSubject(t *testing.T) {
	t.Parallel()

	m, _ := newTestSession(t)
	tok, err := m.Issuer.IssueRefresh("deleted-user")
	require.NoError(t, err)

	_, _, err = m.Refresh(context.Background(), tok)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout_RevokesRefresh(t *testing.T) {
	t.Parallel()

	m, store := newTestSession(t)
	pair, _, err := m.Login(context.Background(), "alice", "", "pw12345678")
	require.NoError(t, err)

	require.NoError(t, m.Logout(context.Background(), "u-1"))

	u, err := store.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	require.Empty(t, u.RefreshToken)

	_, _, err = m.Refresh(context.Background(), pair.Refresh)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefresh_ConcurrentRotationSingleWinner(t *testing.T) {
	t.Parallel()

	m, _ := newTestSession(t)
	pair, _, err := m.Login(context.Background(), "alice", "", "pw12345678")
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = m.Refresh(context.Background(), pair.Refresh)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, ErrUnauthorized)
		}
	}
	require.Equal(t, 1, wins)
}
