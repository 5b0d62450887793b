package algorithms

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/serafin-rian/tienda-virtual/internal/models"
)

// Key es la clave de ordenación de un producto. Puede ser numérica
// (precio, cantidad) o de texto (nombre en minúsculas).
type Key struct {
	Str   string
	Num   float64
	IsStr bool
}

// Less compara dos claves del mismo tipo
func (k Key) Less(o Key) bool {
	if k.IsStr {
		return k.Str < o.Str
	}
	return k.Num < o.Num
}

// Equal indica si dos claves son iguales
func (k Key) Equal(o Key) bool {
	if k.IsStr {
		return k.Str == o.Str
	}
	return k.Num == o.Num
}

// MarshalJSON serializa la clave como su valor crudo
func (k Key) MarshalJSON() ([]byte, error) {
	if k.IsStr {
		return json.Marshal(k.Str)
	}
	return json.Marshal(k.Num)
}

// KeyFunc extrae la clave de ordenación de un producto
type KeyFunc func(models.Product) Key

// KeySelector devuelve la función de clave para un campo dado
func KeySelector(by string) (KeyFunc, error) {
	switch by {
	case "price":
		return func(p models.Product) Key { return Key{Num: p.Price} }, nil
	case "name":
		return func(p models.Product) Key { return Key{Str: strings.ToLower(p.Name), IsStr: true} }, nil
	case "quantity":
		return func(p models.Product) Key { return Key{Num: float64(p.Quantity)} }, nil
	default:
		return nil, fmt.Errorf("campo de ordenación inválido: %s", by)
	}
}

func keysSnapshot(items []models.Product, key KeyFunc) []Key {
	snapshot := make([]Key, len(items))
	for i, p := range items {
		snapshot[i] = key(p)
	}
	return snapshot
}

//
// --- QuickSort (con pasos) ---
//

// QuicksortWithSteps ordena los productos con quicksort y registra
// snapshots de las claves para visualización
func QuicksortWithSteps(items []models.Product, key KeyFunc) ([]models.Product, [][]Key) {
	steps := [][]Key{}
	sorted := quicksort(items, key, &steps)
	return sorted, steps
}

// Quicksort ordena sin registrar pasos
func Quicksort(items []models.Product, key KeyFunc) []models.Product {
	steps := [][]Key{}
	return quicksort(items, key, &steps)
}

func quicksort(arr []models.Product, key KeyFunc, steps *[][]Key) []models.Product {
	if len(arr) <= 1 {
		return arr
	}

	// Pivote central y partición en tres bandas
	pivot := key(arr[len(arr)/2])
	var left, middle, right []models.Product
	for _, p := range arr {
		k := key(p)
		switch {
		case k.Less(pivot):
			left = append(left, p)
		case k.Equal(pivot):
			middle = append(middle, p)
		default:
			right = append(right, p)
		}
	}

	// Registrar el estado actual para visualización
	partitioned := make([]models.Product, 0, len(arr))
	partitioned = append(partitioned, left...)
	partitioned = append(partitioned, middle...)
	partitioned = append(partitioned, right...)
	*steps = append(*steps, keysSnapshot(partitioned, key))

	sortedLeft := quicksort(left, key, steps)
	sortedRight := quicksort(right, key, steps)

	merged := make([]models.Product, 0, len(arr))
	merged = append(merged, sortedLeft...)
	merged = append(merged, middle...)
	merged = append(merged, sortedRight...)
	*steps = append(*steps, keysSnapshot(merged, key))

	return merged
}

//
// --- MergeSort (con pasos) ---
//

// MergesortWithSteps ordena los productos con mergesort y registra un
// snapshot de las claves tras cada mezcla
func MergesortWithSteps(items []models.Product, key KeyFunc) ([]models.Product, [][]Key) {
	steps := [][]Key{}
	sorted := mergesort(items, key, &steps)
	return sorted, steps
}

// Mergesort ordena sin registrar pasos
func Mergesort(items []models.Product, key KeyFunc) []models.Product {
	steps := [][]Key{}
	return mergesort(items, key, &steps)
}

func mergesort(arr []models.Product, key KeyFunc, steps *[][]Key) []models.Product {
	if len(arr) <= 1 {
		return arr
	}

	mid := len(arr) / 2
	left := mergesort(arr[:mid], key, steps)
	right := mergesort(arr[mid:], key, steps)
	return merge(left, right, key, steps)
}

func merge(left, right []models.Product, key KeyFunc, steps *[][]Key) []models.Product {
	merged := make([]models.Product, 0, len(left)+len(right))
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		// <= mantiene la estabilidad
		if !key(right[j]).Less(key(left[i])) {
			merged = append(merged, left[i])
			i++
		} else {
			merged = append(merged, right[j])
			j++
		}
	}
	merged = append(merged, left[i:]...)
	merged = append(merged, right[j:]...)

	*steps = append(*steps, keysSnapshot(merged, key))
	return merged
}
