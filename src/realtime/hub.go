// Package realtime transmite los eventos de la cola de atención a los navegadores por websocket.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/net/websocket"

	"api_notaria/src/models"
)

const bufferPorCliente = 32

type suscriptor struct {
	conn  *websocket.Conn
	envio chan []byte
}

// Hub reparte cada evento a todas las conexiones abiertas. Un cliente que no lee a
// tiempo se desconecta en lugar de frenar a los demás.
type Hub struct {
	mu           sync.Mutex
	suscriptores map[*suscriptor]struct{}
	origenes     map[string]bool
}

// NewHub acepta conexiones solo desde origenes, con las mismas reglas que CORS: "*"
// permite cualquiera. Las conexiones sin cabecera Origin no vienen de un navegador y se
// aceptan.
func NewHub(origenes []string) *Hub {
	h := &Hub{suscriptores: make(map[*suscriptor]struct{}), origenes: make(map[string]bool)}
	for _, o := range origenes {
		h.origenes[strings.TrimSuffix(strings.TrimSpace(o), "/")] = true
	}
	return h
}

func (h *Hub) origenPermitido(origen string) bool {
	if origen == "" || h.origenes["*"] {
		return true
	}
	return h.origenes[strings.TrimSuffix(origen, "/")]
}

func (h *Hub) agregar(s *suscriptor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.suscriptores[s] = struct{}{}
}

func (h *Hub) quitar(s *suscriptor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.suscriptores[s]; ok {
		delete(h.suscriptores, s)
		close(s.envio)
	}
}

// Conectados devuelve el número de conexiones abiertas.
func (h *Hub) Conectados() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.suscriptores)
}

func (h *Hub) Notificar(_ context.Context, evento models.Evento) {
	data, err := json.Marshal(evento)
	if err != nil {
		log.Printf("Error serializando evento para websocket: %v", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.suscriptores {
		select {
		case s.envio <- data:
		default:
			log.Printf("websocket: cliente lento desconectado (%s)", s.conn.Request().RemoteAddr)
			delete(h.suscriptores, s)
			close(s.envio)
		}
	}
}

// Handler atiende /api/ws. Los mensajes del cliente se ignoran; el socket solo recibe eventos.
func (h *Hub) Handler() http.Handler {
	return websocket.Server{
		Handshake: func(_ *websocket.Config, req *http.Request) error {
			if origen := req.Header.Get("Origin"); !h.origenPermitido(origen) {
				return fmt.Errorf("origen no permitido: %s", origen)
			}
			return nil
		},
		Handler: func(conn *websocket.Conn) {
			defer func() {
				_ = conn.Close()
			}()
			s := &suscriptor{conn: conn, envio: make(chan []byte, bufferPorCliente)}
			h.agregar(s)
			defer h.quitar(s)

			go func() {
				for data := range s.envio {
					if err := websocket.Message.Send(conn, string(data)); err != nil {
						_ = conn.Close()
						return
					}
				}
				_ = conn.Close()
			}()

			var descartar string
			for {
				if err := websocket.Message.Receive(conn, &descartar); err != nil {
					return
				}
			}
		},
	}
}

// Cerrar desconecta a todos los clientes.
func (h *Hub) Cerrar() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.suscriptores {
		delete(h.suscriptores, s)
		close(s.envio)
	}
}
