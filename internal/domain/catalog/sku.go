package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GenerateSKU sugiere un SKU CAT-NOM-NNNN con las tres primeras letras de la categoría y del
// producto. n se reduce al rango 1000..9999. Devuelve "" si falta alguno de los nombres.
func GenerateSKU(productName, categoryName string, n int) string {
	productName = strings.TrimSpace(productName)
	categoryName = strings.TrimSpace(categoryName)
	if productName == "" || categoryName == "" {
		return ""
	}
	return fmt.Sprintf("%s-%s-%d", prefix3(categoryName), prefix3(productName), 1000+(n%9000+9000)%9000)
}

func prefix3(s string) string {
	r := []rune(s)
	if len(r) > 3 {
		r = r[:3]
	}
	return cases.Upper(language.Und).String(string(r))
}
