package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"go-hrops/internal/access"
	usererrors "go-hrops/internal/user/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// memRepo keeps users keyed by subject so upsert/delete semantics can be
// observed end to end.
type memRepo struct {
	users     map[string]User
	employees map[string]UserEmployee
	upserts   int
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]User{}, employees: map[string]UserEmployee{}}
}

func (m *memRepo) WithTx(tx *sql.Tx) Repository { return m }

func (m *memRepo) Upsert(ctx context.Context, u *User) error {
	m.upserts++
	if existing, ok := m.users[u.Subject]; ok {
		existing.Email = u.Email
		existing.FirstName = u.FirstName
		existing.LastName = u.LastName
		existing.ImageURL = u.ImageURL
		m.users[u.Subject] = existing
		return nil
	}
	m.users[u.Subject] = *u
	return nil
}

func (m *memRepo) DeleteBySubject(ctx context.Context, subject string) (int64, error) {
	if _, ok := m.users[subject]; !ok {
		return 0, nil
	}
	delete(m.users, subject)
	return 1, nil
}

func (m *memRepo) FindBySubject(ctx context.Context, subject string) (*User, error) {
	u, ok := m.users[subject]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (m *memRepo) FindByID(ctx context.Context, id string) (*User, error) {
	for _, u := range m.users {
		if u.ID.String() == id {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepo) FindAll(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memRepo) UpdateRole(ctx context.Context, id, role string) error {
	for k, u := range m.users {
		if u.ID.String() == id {
			u.Role = role
			m.users[k] = u
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memRepo) FindEmployeeByUserID(ctx context.Context, userID string) (*UserEmployee, error) {
	e, ok := m.employees[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func webhookEvent(t *testing.T, eventType string, data map[string]any) IdentityWebhookEvent {
	t.Helper()
	raw, err := json.Marshal(data)
	assert.NoError(t, err)
	return IdentityWebhookEvent{Type: eventType, Data: raw}
}

func TestService_HandleIdentityEvent_CreateUpdateDelete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newMemRepo()
	svc := NewService(db, repo)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	err := svc.HandleIdentityEvent(ctx, webhookEvent(t, EventUserCreated, map[string]any{
		"id":              "user_2abc",
		"email_addresses": []map[string]string{{"email_address": "ada@example.com"}},
		"first_name":      "Ada",
		"last_name":       "Lovelace",
	}))
	assert.NoError(t, err)

	created := repo.users["user_2abc"]
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, access.RoleEmployee, created.Role)

	// promote, then make sure a profile update keeps the role
	created.Role = access.RoleAdmin
	repo.users["user_2abc"] = created

	mock.ExpectBegin()
	mock.ExpectCommit()
	err = svc.HandleIdentityEvent(ctx, webhookEvent(t, EventUserUpdated, map[string]any{
		"id":              "user_2abc",
		"email_addresses": []map[string]string{{"email_address": "ada@lovelace.dev"}},
		"first_name":      "Ada",
		"last_name":       nil,
	}))
	assert.NoError(t, err)
	assert.Equal(t, "ada@lovelace.dev", repo.users["user_2abc"].Email)
	assert.Equal(t, "", repo.users["user_2abc"].LastName)
	assert.Equal(t, access.RoleAdmin, repo.users["user_2abc"].Role)
	assert.Len(t, repo.users, 1)

	mock.ExpectBegin()
	mock.ExpectCommit()
	err = svc.HandleIdentityEvent(ctx, webhookEvent(t, EventUserDeleted, map[string]any{"id": "user_2abc"}))
	assert.NoError(t, err)
	assert.Empty(t, repo.users)

	// deleting an unknown subject is not an error
	mock.ExpectBegin()
	mock.ExpectCommit()
	err = svc.HandleIdentityEvent(ctx, webhookEvent(t, EventUserDeleted, map[string]any{"id": "user_missing"}))
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_HandleIdentityEvent_IgnoresUnknownType(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newMemRepo()
	svc := NewService(db, repo)

	err := svc.HandleIdentityEvent(context.Background(), webhookEvent(t, "session.created", map[string]any{"id": "sess_1"}))
	assert.NoError(t, err)
	assert.Equal(t, 0, repo.upserts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetMe(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newMemRepo()
	userID := uuid.New()
	repo.users["user_2abc"] = User{ID: userID, Subject: "user_2abc", Role: access.RoleEmployee}
	repo.employees[userID.String()] = UserEmployee{ID: uuid.New(), UserID: userID, Department: "Ops"}
	svc := NewService(db, repo)
	ctx := context.Background()

	me, err := svc.GetMe(ctx, "")
	assert.NoError(t, err)
	assert.Nil(t, me)

	me, err = svc.GetMe(ctx, "user_unknown")
	assert.NoError(t, err)
	assert.Nil(t, me)

	me, err = svc.GetMe(ctx, "user_2abc")
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), me.ID)

	withEmp, err := svc.GetMeWithEmployee(ctx, "user_2abc")
	assert.NoError(t, err)
	assert.NotNil(t, withEmp.Employee)
	assert.Equal(t, "Ops", withEmp.Employee.Department)
}

func TestService_EnsureMe_KeepsStoredFields(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newMemRepo()
	repo.users["user_2abc"] = User{ID: uuid.New(), Subject: "user_2abc", Email: "old@example.com", FirstName: "Grace", Role: access.RoleEmployee}
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.EnsureMe(context.Background(), "user_2abc", SyncMeRequest{LastName: "Hopper"})
	assert.NoError(t, err)
	assert.Equal(t, "old@example.com", resp.Email)
	assert.Equal(t, "Grace", resp.FirstName)
	assert.Equal(t, "Hopper", resp.LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SetRole(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newMemRepo()
	userID := uuid.New()
	repo.users["user_2abc"] = User{ID: userID, Subject: "user_2abc", Role: access.RoleEmployee}
	svc := NewService(db, repo)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.SetRole(ctx, userID.String(), SetRoleRequest{Role: access.RoleAdmin})
	assert.NoError(t, err)
	assert.Equal(t, access.RoleAdmin, resp.Role)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.SetRole(ctx, uuid.NewString(), SetRoleRequest{Role: access.RoleAdmin})
	assert.True(t, errors.Is(err, usererrors.ErrUserNotFound))

	_, err = svc.SetRole(ctx, "not-a-uuid", SetRoleRequest{Role: access.RoleAdmin})
	assert.True(t, errors.Is(err, usererrors.ErrInvalidUserID))

	assert.NoError(t, mock.ExpectationsWereMet())
}
