package memoria

import (
	"fmt"
	"sync"

	"api_notaria/src/utils"
)

// coleccion es un mapa protegido por mutex con las operaciones básicas de un repositorio.
type coleccion[K comparable, V any] struct {
	nombre string
	mu     sync.Mutex
	datos  map[K]V
}

func nuevaColeccion[K comparable, V any](nombre string) *coleccion[K, V] {
	return &coleccion[K, V]{nombre: nombre, datos: make(map[K]V)}
}

func (c *coleccion[K, V]) crear(k K, v V) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.datos[k]; ok {
		return fmt.Errorf("%s %v: %w", c.nombre, k, utils.ErrDuplicado)
	}
	c.datos[k] = v
	return nil
}

func (c *coleccion[K, V]) obtener(k K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.datos[k]
	if !ok {
		return v, fmt.Errorf("%s %v: %w", c.nombre, k, utils.ErrNoEncontrado)
	}
	return v, nil
}

func (c *coleccion[K, V]) reemplazar(k K, v V) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.datos[k]; !ok {
		return fmt.Errorf("%s %v: %w", c.nombre, k, utils.ErrNoEncontrado)
	}
	c.datos[k] = v
	return nil
}

// guardar inserta o reemplaza; devuelve true si la llave era nueva.
func (c *coleccion[K, V]) guardar(k K, v V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, existia := c.datos[k]
	c.datos[k] = v
	return !existia
}

func (c *coleccion[K, V]) eliminar(k K) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.datos[k]; !ok {
		return fmt.Errorf("%s %v: %w", c.nombre, k, utils.ErrNoEncontrado)
	}
	delete(c.datos, k)
	return nil
}

func (c *coleccion[K, V]) filtrar(incluir func(V) bool) []V {
	c.mu.Lock()
	defer c.mu.Unlock()
	lista := []V{}
	for _, v := range c.datos {
		if incluir == nil || incluir(v) {
			lista = append(lista, v)
		}
	}
	return lista
}
