// Package mq publica los eventos de la cola de atención en RabbitMQ.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"api_notaria/src/models"
)

// Exchange es el exchange fanout donde se publican los eventos.
const Exchange = "notaria.eventos"

// pendientes es cuántos eventos esperan turno antes de empezar a descartarlos.
const pendientes = 256

// canal es la parte de *amqp.Channel que usa el publicador.
type canal interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publicador envía cada Evento como JSON desde una goroutine propia y verifica la
// confirmación del broker por delivery tag. Quien notifica nunca espera al broker.
type Publicador struct {
	conn    *amqp.Connection
	ch      canal
	acks    <-chan amqp.Confirmation
	timeout time.Duration

	// tag es el delivery tag del último mensaje publicado en el canal.
	tag uint64

	mu      sync.Mutex
	cerrado bool
	cola    chan models.Evento
	fin     chan struct{}
}

func Conectar(url string) (*Publicador, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("conectando a RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("abriendo canal: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declarando exchange %s: %w", Exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("activando confirmaciones: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, pendientes))

	log.Printf("✅ Conectado a RabbitMQ, exchange %s", Exchange)
	p := nuevoPublicador(ch, acks, 5*time.Second)
	p.conn = conn
	return p, nil
}

func nuevoPublicador(ch canal, acks <-chan amqp.Confirmation, timeout time.Duration) *Publicador {
	p := &Publicador{
		ch:      ch,
		acks:    acks,
		timeout: timeout,
		cola:    make(chan models.Evento, pendientes),
		fin:     make(chan struct{}),
	}
	go p.trabajar()
	return p
}

func (p *Publicador) trabajar() {
	defer close(p.fin)
	for evento := range p.cola {
		if err := p.publicar(evento); err != nil {
			log.Printf("Error publicando evento en RabbitMQ: %v", err)
		}
	}
}

// publicar envía el mensaje con el tipo de evento como routing key y espera la
// confirmación con su delivery tag. Las confirmaciones de mensajes anteriores que
// llegaron tarde se descartan.
func (p *Publicador) publicar(evento models.Evento) error {
	body, err := json.Marshal(evento)
	if err != nil {
		return fmt.Errorf("serializando evento: %w", err)
	}

	err = p.ch.Publish(Exchange, evento.Tipo, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    evento.Fecha,
		Type:         evento.Tipo,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publicando %s: %w", evento.Tipo, err)
	}
	p.tag++

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	for {
		select {
		case conf, ok := <-p.acks:
			if !ok {
				return fmt.Errorf("canal de confirmaciones cerrado antes de confirmar %s", evento.Tipo)
			}
			if conf.DeliveryTag < p.tag {
				continue
			}
			if !conf.Ack {
				return fmt.Errorf("el broker rechazó %s", evento.Tipo)
			}
			return nil
		case <-timer.C:
			return fmt.Errorf("sin confirmación del broker para %s (tag %d)", evento.Tipo, p.tag)
		}
	}
}

// Notificar encola el evento sin bloquear; si la cola está llena el evento se descarta.
func (p *Publicador) Notificar(_ context.Context, evento models.Evento) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cerrado {
		return
	}
	select {
	case p.cola <- evento:
	default:
		log.Printf("Cola de RabbitMQ llena, se descarta el evento %s", evento.Tipo)
	}
}

// Cerrar publica lo pendiente y cierra el canal y la conexión.
func (p *Publicador) Cerrar() {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.cerrado {
		p.mu.Unlock()
		return
	}
	p.cerrado = true
	close(p.cola)
	p.mu.Unlock()

	<-p.fin
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
