package email

import (
	"fmt"
	"html"
	"strings"
)

const appName = "Telecare"

// DecisionEmailData feeds the evaluation decision email.
type DecisionEmailData struct {
	Email        string
	FullName     string
	Approved     bool
	DenialReason string
}

// ReceiptEmailData feeds the checkout receipt email. Amounts are in cents.
type ReceiptEmailData struct {
	Email       string
	FullName    string
	ProductName string
	Subtotal    int64
	Discount    int64
	Total       int64
	Currency    string
	CouponCode  string
	OrderID     string
}

// FormatCents renders an amount in cents as "BRL 123,45".
func FormatCents(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s %d,%02d", sign, currency, cents/100, cents%100)
}

func greetingName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return "paciente"
	}
	return name
}

const htmlShell = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #0f766e;">Olá, %s</h2>
%s
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Equipe %s</p>
</body>
</html>`

// BuildDecisionEmail tells the patient the outcome of the clinical review.
func BuildDecisionEmail(data DecisionEmailData) Message {
	name := greetingName(data.FullName)

	var subject, text, body string
	if data.Approved {
		subject = fmt.Sprintf("%s: sua avaliação foi aprovada", appName)
		text = "Sua avaliação médica foi aprovada. Você já pode concluir o pedido na área de checkout."
		body = `    <p>Sua avaliação médica foi <strong>aprovada</strong>.</p>
    <p>Você já pode concluir o pedido na área de checkout.</p>`
	} else {
		subject = fmt.Sprintf("%s: resultado da sua avaliação", appName)
		text = "Após a revisão médica, não foi possível aprovar sua solicitação."
		body = `    <p>Após a revisão médica, não foi possível aprovar sua solicitação.</p>`
		if r := strings.TrimSpace(data.DenialReason); r != "" {
			text += "\n\nMotivo: " + r
			body += fmt.Sprintf("\n    <p style=\"background-color: #fef2f2; padding: 10px 15px; border-radius: 4px;\">Motivo: %s</p>", html.EscapeString(r))
		}
	}

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: fmt.Sprintf("Olá, %s\n\n%s\n\nEquipe %s", name, text, appName),
		HTMLBody: fmt.Sprintf(htmlShell, html.EscapeString(name), body, appName),
	}
}

// BuildReceiptEmail confirms a completed checkout.
func BuildReceiptEmail(data ReceiptEmailData) Message {
	name := greetingName(data.FullName)

	lines := []string{
		fmt.Sprintf("Pedido: %s", data.OrderID),
		fmt.Sprintf("Produto: %s", data.ProductName),
		fmt.Sprintf("Subtotal: %s", FormatCents(data.Subtotal, data.Currency)),
	}
	if data.Discount > 0 {
		lines = append(lines, fmt.Sprintf("Desconto (%s): -%s", data.CouponCode, FormatCents(data.Discount, data.Currency)))
	}
	lines = append(lines, fmt.Sprintf("Total: %s", FormatCents(data.Total, data.Currency)))

	var rows strings.Builder
	for _, l := range lines {
		rows.WriteString("    <p>" + html.EscapeString(l) + "</p>\n")
	}

	return Message{
		To:       []string{data.Email},
		Subject:  fmt.Sprintf("%s: pagamento confirmado", appName),
		TextBody: fmt.Sprintf("Olá, %s\n\nRecebemos seu pagamento.\n\n%s\n\nEquipe %s", name, strings.Join(lines, "\n"), appName),
		HTMLBody: fmt.Sprintf(htmlShell, html.EscapeString(name),
			"    <p>Recebemos seu pagamento.</p>\n"+strings.TrimRight(rows.String(), "\n"), appName),
	}
}
