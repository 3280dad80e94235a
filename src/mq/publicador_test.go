package mq

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api_notaria/src/models"
)

type publicado struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

// canalFalso guarda lo publicado y, con autoAck, confirma cada mensaje con su tag.
type canalFalso struct {
	mu        sync.Mutex
	mensajes  []publicado
	acks      chan amqp.Confirmation
	autoAck   bool
	bloqueo   chan struct{}
	cerradoCh bool
}

func nuevoCanalFalso(autoAck bool) *canalFalso {
	return &canalFalso{acks: make(chan amqp.Confirmation, 2*pendientes), autoAck: autoAck}
}

func (c *canalFalso) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.bloqueo != nil {
		<-c.bloqueo
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mensajes = append(c.mensajes, publicado{exchange: exchange, key: key, msg: msg})
	if c.autoAck {
		c.acks <- amqp.Confirmation{DeliveryTag: uint64(len(c.mensajes)), Ack: true}
	}
	return nil
}

func (c *canalFalso) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cerradoCh = true
	return nil
}

func TestPublicaEventoComoJSON(t *testing.T) {
	ch := nuevoCanalFalso(true)
	p := nuevoPublicador(ch, ch.acks, time.Second)

	fecha := time.Date(2026, 3, 5, 9, 30, 0, 0, time.UTC)
	abogado := 3
	p.Notificar(context.Background(), models.Evento{
		Tipo:    models.EventoClienteAsignado,
		Fecha:   fecha,
		Cliente: &models.Cliente{ID: 7, Nombre: "Ana", AbogadoAsignado: &abogado},
	})
	p.Cerrar()

	require.Len(t, ch.mensajes, 1)
	m := ch.mensajes[0]
	assert.Equal(t, Exchange, m.exchange)
	assert.Equal(t, models.EventoClienteAsignado, m.key)
	assert.Equal(t, "application/json", m.msg.ContentType)
	assert.Equal(t, amqp.Persistent, m.msg.DeliveryMode)
	assert.Equal(t, models.EventoClienteAsignado, m.msg.Type)
	assert.True(t, fecha.Equal(m.msg.Timestamp))

	var recibido models.Evento
	require.NoError(t, json.Unmarshal(m.msg.Body, &recibido))
	assert.Equal(t, models.EventoClienteAsignado, recibido.Tipo)
	require.NotNil(t, recibido.Cliente)
	assert.Equal(t, 7, recibido.Cliente.ID)
	assert.True(t, ch.cerradoCh)
}

func TestConfirmacionTardiaNoSeTomaPorLaSiguiente(t *testing.T) {
	ch := nuevoCanalFalso(false)
	p := &Publicador{ch: ch, acks: ch.acks, timeout: 20 * time.Millisecond}

	err := p.publicar(models.Evento{Tipo: models.EventoClienteEnEspera})
	require.ErrorContains(t, err, "sin confirmación")

	// llega tarde el ack del primero y el broker rechaza el segundo
	ch.acks <- amqp.Confirmation{DeliveryTag: 1, Ack: true}
	ch.acks <- amqp.Confirmation{DeliveryTag: 2, Ack: false}
	err = p.publicar(models.Evento{Tipo: models.EventoClienteAsignado})
	require.ErrorContains(t, err, "rechazó")

	ch.acks <- amqp.Confirmation{DeliveryTag: 3, Ack: true}
	assert.NoError(t, p.publicar(models.Evento{Tipo: models.EventoAbogadoLiberado}))
}

func TestNotificarNoBloqueaConBrokerLento(t *testing.T) {
	ch := nuevoCanalFalso(true)
	ch.bloqueo = make(chan struct{})
	p := nuevoPublicador(ch, ch.acks, time.Second)

	listo := make(chan struct{})
	go func() {
		defer close(listo)
		for range pendientes + 10 {
			p.Notificar(context.Background(), models.Evento{Tipo: models.EventoClienteEnEspera})
		}
	}()
	select {
	case <-listo:
	case <-time.After(2 * time.Second):
		t.Fatal("Notificar se bloqueó esperando al broker")
	}

	close(ch.bloqueo)
	p.Cerrar()
	assert.LessOrEqual(t, len(ch.mensajes), pendientes+1, "los eventos sobrantes se descartan")
	assert.NotEmpty(t, ch.mensajes)

	// después de cerrar no hace nada
	p.Notificar(context.Background(), models.Evento{Tipo: models.EventoClienteEnEspera})
}
