package account_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/account"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

func newDirectory() *account.Directory {
	n := 0
	return account.NewDirectory(nil,
		func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
		func() string { n++; return fmt.Sprintf("user-%d", n) })
}

func input(email string, role entity.Role) account.UserInput {
	return account.UserInput{Name: "Ana", Email: email, PasswordHash: "hash", Role: role}
}

func TestDirectory_AddEmailUnico(t *testing.T) {
	d := newDirectory()
	u, err := d.Add(input("ana@example.com", entity.RoleUser))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, u.Status, "estado por defecto activo")

	_, err = d.Add(input("ANA@example.com", entity.RoleViewer))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = d.Add(input("no-es-email", entity.RoleViewer))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = d.Add(input("b@example.com", "root"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	in := input("c@example.com", entity.RoleUser)
	in.PasswordHash = ""
	_, err = d.Add(in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDirectory_UpdateConservaHash(t *testing.T) {
	d := newDirectory()
	u, _ := d.Add(input("ana@example.com", entity.RoleUser))

	in := input("ana@example.com", entity.RoleManager)
	in.PasswordHash = ""
	updated, err := d.Update(u.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "hash", updated.PasswordHash)
	assert.Equal(t, entity.RoleManager, updated.Role)
	assert.NotNil(t, d.FindByEmail(" Ana@Example.com "))
}

func TestDirectory_DeleteTodoONada(t *testing.T) {
	d := newDirectory()
	a, _ := d.Add(input("a@example.com", entity.RoleUser))
	b, _ := d.Add(input("b@example.com", entity.RoleUser))

	assert.ErrorIs(t, d.Delete(a.ID, "nope"), domain.ErrNotFound)
	assert.Equal(t, 2, d.Len())

	require.NoError(t, d.Delete(a.ID, b.ID))
	assert.Zero(t, d.Len())
}

func TestDirectory_SetStatus(t *testing.T) {
	d := newDirectory()
	a, _ := d.Add(input("a@example.com", entity.RoleUser))
	require.NoError(t, d.SetStatus(a.ID, entity.StatusSuspended))
	assert.False(t, d.Lookup(a.ID).IsActive())
	assert.ErrorIs(t, d.SetStatus(a.ID, "banned"), domain.ErrValidation)
}
