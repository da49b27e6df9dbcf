// Package mailer envía el email de confirmación de orden por SMTP.
package mailer

import (
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/jmcasares/tienda-api/internal/domain/entity"
	"github.com/jmcasares/tienda-api/pkg/config"
	"github.com/jmcasares/tienda-api/pkg/logger"
)

// Mailer implementa checkout.Mailer. Si SMTP no está configurado queda
// deshabilitado y los envíos son no-op silenciosos.
type Mailer struct {
	dialer        *gomail.Dialer
	from          string
	publicBaseURL string
	enabled       bool
	log           *logger.Logger
}

func New(cfg config.SMTPConfig, urls config.URLConfig, log *logger.Logger) *Mailer {
	m := &Mailer{
		from:          cfg.From,
		publicBaseURL: strings.TrimRight(urls.PublicBaseURL, "/"),
		enabled:       cfg.Enabled(),
		log:           log,
	}
	if m.enabled {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return m
}

// SendOrderConfirmation envía el resumen de la orden con el link de
// seguimiento. El token de acceso va en el link: es la única credencial que
// el cliente tiene para consultar su orden.
func (m *Mailer) SendOrderConfirmation(order *entity.Order) error {
	if !m.enabled {
		m.log.Debug().Str("order_number", order.OrderNumber).Msg("SMTP deshabilitado, se omite el email de confirmación")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", order.Customer.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Confirmación de orden %s", order.OrderNumber))
	msg.SetBody("text/html", m.body(order))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar confirmación de orden %s: %w", order.OrderNumber, err)
	}
	return nil
}

func (m *Mailer) body(order *entity.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>¡Gracias por tu compra, %s!</h2>", order.Customer.Name)
	fmt.Fprintf(&b, "<p>Tu orden <strong>%s</strong> fue registrada.</p>", order.OrderNumber)

	b.WriteString("<table border=\"0\" cellpadding=\"4\"><tr><th align=\"left\">Producto</th><th align=\"right\">Cant.</th><th align=\"right\">Precio</th></tr>")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td align=\"right\">%d</td><td align=\"right\">$%s</td></tr>",
			item.Name, item.Quantity, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "<tr><td colspan=\"2\"><strong>Total</strong></td><td align=\"right\"><strong>$%s</strong></td></tr></table>",
		order.DisplayTotal().StringFixed(2))

	if order.PaymentMethod == entity.PaymentMethodCash && order.Payment.ExpirationDate != nil {
		fmt.Fprintf(&b, "<p>Pagás en efectivo al retirar. Tu orden se reserva hasta el %s.</p>",
			order.Payment.ExpirationDate.Format("02/01/2006"))
	}

	fmt.Fprintf(&b, "<p>Seguí el estado de tu orden acá: <a href=\"%s/orden/%s\">%s/orden/%s</a></p>",
		m.publicBaseURL, order.AccessToken, m.publicBaseURL, order.AccessToken)
	return b.String()
}
