package category_test

import (
	"fmt"
	"time"

	"github.com/jhoicas/inventario-console/internal/domain/category"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// seqIDs genera ids deterministas con prefijo.
func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTree() *category.Tree {
	return category.NewTree(nil, clock, seqIDs("cat"))
}
