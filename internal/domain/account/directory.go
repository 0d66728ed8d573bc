// Package account mantiene la colección de usuarios de la consola.
package account

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// UserInput datos de alta o edición. PasswordHash vacío en edición conserva el actual.
type UserInput struct {
	Name         string
	Email        string
	PasswordHash string
	Role         entity.Role
	Status       entity.UserStatus
}

// Directory usuarios indexados por id con email único.
type Directory struct {
	byID  map[string]*entity.User
	order []string
	now   func() time.Time
	newID func() string
}

// NewDirectory indexa los usuarios persistidos.
func NewDirectory(users []entity.User, now func() time.Time, newID func() string) *Directory {
	d := &Directory{
		byID:  make(map[string]*entity.User, len(users)),
		order: make([]string, 0, len(users)),
		now:   now,
		newID: newID,
	}
	for i := range users {
		u := users[i]
		d.byID[u.ID] = &u
		d.order = append(d.order, u.ID)
	}
	return d
}

// Len número de usuarios.
func (d *Directory) Len() int { return len(d.byID) }

// Get devuelve una copia del usuario.
func (d *Directory) Get(id string) (entity.User, error) {
	u, ok := d.byID[id]
	if !ok {
		return entity.User{}, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	return *u, nil
}

// Lookup devuelve el usuario o nil si no existe.
func (d *Directory) Lookup(id string) *entity.User {
	u, ok := d.byID[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

// FindByEmail busca sin distinguir mayúsculas.
func (d *Directory) FindByEmail(email string) *entity.User {
	folded := foldEmail(email)
	for _, id := range d.order {
		if u := d.byID[id]; foldEmail(u.Email) == folded {
			cp := *u
			return &cp
		}
	}
	return nil
}

// List usuarios en orden de alta.
func (d *Directory) List() []entity.User {
	out := make([]entity.User, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, *d.byID[id])
	}
	return out
}

// Add crea un usuario.
func (d *Directory) Add(in UserInput) (entity.User, error) {
	if in.Status == "" {
		in.Status = entity.StatusActive
	}
	if err := d.validate(in, ""); err != nil {
		return entity.User{}, err
	}
	if in.PasswordHash == "" {
		return entity.User{}, fmt.Errorf("%w: la contraseña es requerida", domain.ErrValidation)
	}
	now := d.now()
	u := &entity.User{
		ID:           d.newID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		Status:       in.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	d.byID[u.ID] = u
	d.order = append(d.order, u.ID)
	return *u, nil
}

// Update reemplaza los datos del usuario.
func (d *Directory) Update(id string, in UserInput) (entity.User, error) {
	u, ok := d.byID[id]
	if !ok {
		return entity.User{}, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	if in.Status == "" {
		in.Status = u.Status
	}
	if err := d.validate(in, id); err != nil {
		return entity.User{}, err
	}
	u.Name = strings.TrimSpace(in.Name)
	u.Email = strings.TrimSpace(in.Email)
	u.Role = in.Role
	u.Status = in.Status
	if in.PasswordHash != "" {
		u.PasswordHash = in.PasswordHash
	}
	u.UpdatedAt = d.now()
	return *u, nil
}

// SetStatus cambia el estado de la cuenta.
func (d *Directory) SetStatus(id string, status entity.UserStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: estado %q", domain.ErrValidation, status)
	}
	u, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	u.Status = status
	u.UpdatedAt = d.now()
	return nil
}

// Delete elimina usuarios; si alguno no existe no elimina ninguno.
func (d *Directory) Delete(ids ...string) error {
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := d.byID[id]; !ok {
			return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
		}
		gone[id] = true
	}
	kept := make([]string, 0, len(d.order))
	for _, id := range d.order {
		if gone[id] {
			delete(d.byID, id)
			continue
		}
		kept = append(kept, id)
	}
	d.order = kept
	return nil
}

func (d *Directory) validate(in UserInput, selfID string) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: el nombre es requerido", domain.ErrValidation)
	}
	email := strings.TrimSpace(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return fmt.Errorf("%w: email %q inválido", domain.ErrValidation, in.Email)
	}
	if !in.Role.Valid() {
		return fmt.Errorf("%w: rol %q", domain.ErrValidation, in.Role)
	}
	if !in.Status.Valid() {
		return fmt.Errorf("%w: estado %q", domain.ErrValidation, in.Status)
	}
	if other := d.FindByEmail(email); other != nil && other.ID != selfID {
		return fmt.Errorf("%w: el email %s ya está registrado", domain.ErrConflict, email)
	}
	return nil
}

// Validate comprueba datos cargados: ids y emails únicos, roles y estados válidos.
func (d *Directory) Validate() error {
	if len(d.byID) != len(d.order) {
		return fmt.Errorf("%w: ids de usuario duplicados", domain.ErrConflict)
	}
	seen := make(map[string]bool, len(d.order))
	for _, id := range d.order {
		u := d.byID[id]
		if !u.Role.Valid() || !u.Status.Valid() {
			return fmt.Errorf("%w: usuario %s con rol o estado inválido", domain.ErrValidation, id)
		}
		e := foldEmail(u.Email)
		if seen[e] {
			return fmt.Errorf("%w: email duplicado %s", domain.ErrConflict, u.Email)
		}
		seen[e] = true
	}
	return nil
}

func foldEmail(s string) string { return cases.Fold().String(strings.TrimSpace(s)) }
