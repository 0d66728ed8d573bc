package repository

import "context"

// Claves de los documentos persistidos por la consola.
const (
	DocProducts       = "products"
	DocCategories     = "categories"
	DocCategoryFields = "categoryFields"
	DocUsers          = "users"
	DocSettings       = "settings"
	DocPermissions    = "permissions"
	DocActivityLog    = "activityLog"
)

// Documents lista de documentos en orden estable.
var Documents = []string{
	DocProducts, DocCategories, DocCategoryFields, DocUsers, DocSettings, DocPermissions, DocActivityLog,
}

// KVStore define el puerto de persistencia clave-valor (DIP).
// Cada documento se serializa de forma independiente.
type KVStore interface {
	// Get devuelve el documento y si existe.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// PutBatch escribe todas las claves de forma atómica (todas o ninguna).
	PutBatch(ctx context.Context, docs map[string][]byte) error
	// Keys lista las claves presentes.
	Keys(ctx context.Context) ([]string, error)
}

// Locker exclusión mutua entre procesos que comparten el mismo KVStore.
type Locker interface {
	Lock(ctx context.Context) (unlock func(context.Context) error, err error)
}
