package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/dryfruits/inventory-api/internal/application/inventory"
	"github.com/dryfruits/inventory-api/pkg/logger"
)

var _ inventory.EventPublisher = (*Publisher)(nil)

// Publisher publica eventos de stock en NATS. Cada evento sale en el subject
// "<prefijo>.<tipo>" (ej. "inventory.stock.reserved") con cuerpo JSON; los
// consumidores externos (cachés, alertas de reposición) se suscriben a
// "<prefijo>.stock.>".
type Publisher struct {
	conn   *nats.Conn
	prefix string
	log    *logger.Logger
}

// Connect abre la conexión y construye el publicador.
func Connect(url, prefix string, log *logger.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url, nats.Name("inventory-api"))
	if err != nil {
		return nil, fmt.Errorf("conectar NATS: %w", err)
	}
	return &Publisher{conn: conn, prefix: prefix, log: log}, nil
}

// Publish serializa y publica el evento.
func (p *Publisher) Publish(_ context.Context, event inventory.StockEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	subject := p.prefix + "." + event.Type
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publicar en %s: %w", subject, err)
	}
	return nil
}

// Close drena y cierra la conexión.
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.log.Error().Err(err).Msg("drenar conexión NATS")
	}
}
