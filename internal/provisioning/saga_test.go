package provisioning

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"finance-dashboard-go/internal/apperrors"
	"finance-dashboard-go/internal/database"
	"finance-dashboard-go/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeIdentity struct {
	users        map[string]string // email -> user id
	names        map[string]string // user id -> name
	createCalls  int
	sessionCalls int
	deleted      []string
	deleteErr    error
	getUserErr   error
	nextId       int
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{users: map[string]string{}, names: map[string]string{}}
}

func (f *fakeIdentity) CreateUser(_ context.Context, email, _, name string) (*models.Identity, error) {
	f.createCalls++
	if _, ok := f.users[email]; ok {
		return nil, apperrors.FromStatus("identity", "create user", http.StatusConflict, "user_already_exists", errors.New("exists"))
	}
	f.nextId++
	id := fmt.Sprintf("user-%d", f.nextId)
	f.users[email] = id
	f.names[id] = name
	return &models.Identity{Id: id, Email: email, Name: name}, nil
}

func (f *fakeIdentity) CreateSession(_ context.Context, email, _ string) (*models.Session, error) {
	f.sessionCalls++
	id, ok := f.users[email]
	if !ok {
		return nil, apperrors.FromStatus("identity", "create session", http.StatusUnauthorized, "", errors.New("bad credentials"))
	}
	return &models.Session{Id: "sess-" + id, UserId: id, Secret: "s"}, nil
}

func (f *fakeIdentity) GetUser(_ context.Context, userId string) (*models.Identity, error) {
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	for email, id := range f.users {
		if id == userId {
			return &models.Identity{Id: id, Email: email, Name: f.names[id]}, nil
		}
	}
	return nil, apperrors.FromStatus("identity", "get user", http.StatusNotFound, "", errors.New("missing"))
}

func (f *fakeIdentity) DeleteUser(ctx context.Context, userId string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	f.deleted = append(f.deleted, userId)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for email, id := range f.users {
		if id == userId {
			delete(f.users, email)
		}
	}
	return nil
}

type fakePayments struct {
	failures int
	calls    int
	url      string
}

func (f *fakePayments) CreateCustomer(_ context.Context, customer models.NewCustomer) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", apperrors.FromStatus("payment network", "create customer", http.StatusServiceUnavailable, "", errors.New("unavailable"))
	}
	if f.url != "" {
		return f.url, nil
	}
	return "https://api-sandbox.dwolla.com/customers/cust-" + customer.FirstName, nil
}

func setupProfiles(t *testing.T) *database.Service {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	svc := database.NewServiceFromDB(db)
	require.NoError(t, svc.InitSchema())
	return svc
}

func validParams() SignUpParams {
	return SignUpParams{
		Email:       "ada@example.com",
		Password:    "password123",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Address1:    "1 Main St",
		City:        "New York",
		State:       "NY",
		PostalCode:  "10001",
		DateOfBirth: "1990-01-01",
		Ssn:         "1234",
	}
}

func TestSignUp_Success(t *testing.T) {
	identity := newFakeIdentity()
	payments := &fakePayments{}
	saga := NewSaga(identity, payments, setupProfiles(t), WithClock(func() time.Time { return fixedNow }))

	result, err := saga.SignUp(context.Background(), validParams())
	require.NoError(t, err)

	assert.Equal(t, "user-1", result.Profile.UserId)
	assert.Equal(t, "cust-Ada", result.Profile.DwollaCustomerId)
	assert.Equal(t, "https://api-sandbox.dwolla.com/customers/cust-Ada", result.Profile.DwollaCustomerUrl)
	assert.Equal(t, "user-1", result.Session.UserId)
	assert.Empty(t, identity.deleted)
}

func TestSignUp_InvalidDateOfBirthMakesNoExternalCalls(t *testing.T) {
	tests := []struct {
		name string
		dob  string
	}{
		{"underage", "2010-01-01"},
		{"turns 18 tomorrow", "2006-06-16"},
		{"wrong format", "01/01/1990"},
		{"not a date", "1990-02-30"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := newFakeIdentity()
			payments := &fakePayments{}
			saga := NewSaga(identity, payments, setupProfiles(t), WithClock(func() time.Time { return fixedNow }))

			params := validParams()
			params.DateOfBirth = tt.dob
			_, err := saga.SignUp(context.Background(), params)

			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Zero(t, identity.createCalls)
			assert.Zero(t, identity.sessionCalls)
			assert.Zero(t, payments.calls)
		})
	}
}

func TestSignUp_ExactlyEighteenProceeds(t *testing.T) {
	identity := newFakeIdentity()
	saga := NewSaga(identity, &fakePayments{}, setupProfiles(t), WithClock(func() time.Time { return fixedNow }))

	params := validParams()
	params.DateOfBirth = "2006-06-15"
	_, err := saga.SignUp(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 1, identity.createCalls)
}

func TestSignUp_CustomerFailureRollsBackOnceThenRetrySucceeds(t *testing.T) {
	identity := newFakeIdentity()
	payments := &fakePayments{failures: 1}
	saga := NewSaga(identity, payments, setupProfiles(t), WithClock(func() time.Time { return fixedNow }))

	_, err := saga.SignUp(context.Background(), validParams())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))
	assert.Equal(t, []string{"user-1"}, identity.deleted)

	result, err := saga.SignUp(context.Background(), validParams())
	require.NoError(t, err)
	assert.Equal(t, "user-2", result.Profile.UserId)
	assert.Len(t, identity.deleted, 1)
}

func TestSignUp_RollbackFailureKeepsOriginalError(t *testing.T) {
	identity := newFakeIdentity()
	identity.deleteErr = errors.New("delete failed")
	saga := NewSaga(identity, &fakePayments{failures: 1}, setupProfiles(t), WithClock(func() time.Time { return fixedNow }))

	_, err := saga.SignUp(context.Background(), validParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create payment customer")
	assert.NotContains(t, err.Error(), "delete failed")
	assert.Len(t, identity.deleted, 1)
}

func TestSignUp_RollbackRunsAfterCancellation(t *testing.T) {
	identity := newFakeIdentity()
	ctx, cancel := context.WithCancel(context.Background())
	payments := &cancellingPayments{cancel: cancel}
	saga := NewSaga(identity, payments, setupProfiles(t), WithClock(func() time.Time { return fixedNow }))

	_, err := saga.SignUp(ctx, validParams())
	require.Error(t, err)
	assert.Equal(t, []string{"user-1"}, identity.deleted)
}

type cancellingPayments struct {
	cancel context.CancelFunc
}

func (c *cancellingPayments) CreateCustomer(ctx context.Context, _ models.NewCustomer) (string, error) {
	c.cancel()
	return "", apperrors.FromTransport("payment network", "create customer", ctx.Err())
}

func TestSignUp_ProfileFailureRollsBack(t *testing.T) {
	identity := newFakeIdentity()
	profiles := setupProfiles(t)
	saga := NewSaga(identity, &fakePayments{}, profiles, WithClock(func() time.Time { return fixedNow }))

	profiles.Close()

	_, err := saga.SignUp(context.Background(), validParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist profile")
	assert.Equal(t, []string{"user-1"}, identity.deleted)
}

func TestSignUp_BadCustomerUrlRollsBack(t *testing.T) {
	identity := newFakeIdentity()
	saga := NewSaga(identity, &fakePayments{url: "https://api-sandbox.dwolla.com/"}, setupProfiles(t), WithClock(func() time.Time { return fixedNow }))

	_, err := saga.SignUp(context.Background(), validParams())
	require.Error(t, err)
	assert.Len(t, identity.deleted, 1)
}

func TestSignUp_DuplicateEmailFailsWithoutRollback(t *testing.T) {
	identity := newFakeIdentity()
	saga := NewSaga(identity, &fakePayments{}, setupProfiles(t), WithClock(func() time.Time { return fixedNow }))

	_, err := saga.SignUp(context.Background(), validParams())
	require.NoError(t, err)

	_, err = saga.SignUp(context.Background(), validParams())
	require.Error(t, err)
	assert.True(t, apperrors.IsPermanent(err))
	assert.Empty(t, identity.deleted)
}

func TestSignInAndGetProfile(t *testing.T) {
	identity := newFakeIdentity()
	saga := NewSaga(identity, &fakePayments{}, setupProfiles(t), WithClock(func() time.Time { return fixedNow }))

	_, err := saga.SignUp(context.Background(), validParams())
	require.NoError(t, err)

	result, err := saga.SignIn(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", result.Profile.FullName())
	require.NotNil(t, result.User)
	assert.Equal(t, result.Session.UserId, result.User.Id)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.Equal(t, "Ada Lovelace", result.User.Name)

	_, err = saga.GetProfile(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSignUp_ReturnsCreatedIdentity(t *testing.T) {
	identity := newFakeIdentity()
	saga := NewSaga(identity, &fakePayments{}, setupProfiles(t), WithClock(func() time.Time { return fixedNow }))

	params := validParams()
	params.LastName = ""
	result, err := saga.SignUp(context.Background(), params)
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.Equal(t, result.Profile.UserId, result.User.Id)
	assert.Equal(t, "Ada", result.User.Name)
	assert.Equal(t, result.Profile.FullName(), result.User.Name)
}

func TestSignIn_IdentityLookupFailure(t *testing.T) {
	identity := newFakeIdentity()
	saga := NewSaga(identity, &fakePayments{}, setupProfiles(t), WithClock(func() time.Time { return fixedNow }))

	_, err := saga.SignUp(context.Background(), validParams())
	require.NoError(t, err)

	identity.getUserErr = apperrors.FromStatus("identity", "get user", http.StatusServiceUnavailable, "", errors.New("down"))
	_, err = saga.SignIn(context.Background(), "ada@example.com", "password123")
	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))
	assert.Contains(t, err.Error(), "load identity")
}

func TestCustomerIdFromUrl(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://api-sandbox.dwolla.com/customers/abc-123", "abc-123", false},
		{"https://api-sandbox.dwolla.com/customers/abc-123/", "abc-123", false},
		{"https://api-sandbox.dwolla.com/", "", true},
	}
	for _, tt := range tests {
		got, err := CustomerIdFromUrl(tt.url)
		if tt.wantErr {
			assert.Error(t, err, tt.url)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestValidateDateOfBirth_Normalizes(t *testing.T) {
	got, err := ValidateDateOfBirth("1990-01-01", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "1990-01-01", got)
}
