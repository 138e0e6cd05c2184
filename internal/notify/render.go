package notify

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf16"

	"order-desk/internal/model"
)

// TimeLayout is the timestamp format used in notifications.
const TimeLayout = "2006-01-02 15:04:05"

// MaxMessageLength is the Bot API limit on message text, measured in UTF-16
// code units after HTML entities are parsed.
const MaxMessageLength = 4096

// RenderOrder formats order as a Telegram HTML message.
// Every customer-supplied value is escaped, so markup in an order never changes
// the structure of the message. Item lines that would push the message over
// MaxMessageLength are replaced by a single line counting the omitted items;
// the total always covers the whole cart.
func RenderOrder(order *model.Order) string {
	var head strings.Builder
	fmt.Fprintf(&head, "<b>New order #%s</b>\n", shortID(order))
	fmt.Fprintf(&head, "Name: %s\n", html.EscapeString(order.Name))
	fmt.Fprintf(&head, "Phone: %s\n", html.EscapeString(order.Phone))
	fmt.Fprintf(&head, "Address: %s\n", html.EscapeString(order.Address))
	if order.Comment != "" {
		fmt.Fprintf(&head, "Comment: %s\n", html.EscapeString(order.Comment))
	}
	head.WriteString("\n<b>Items:</b>\n")

	foot := fmt.Sprintf("\n<b>Total:</b> %d\nTime: %s", order.Total(), order.CreatedAt.Format(TimeLayout))

	lines := make([]string, len(order.Cart))
	for i, item := range order.Cart {
		lines[i] = fmt.Sprintf("• %s x%d = %d\n", html.EscapeString(item.Title), item.Amount, item.LineTotal())
	}

	budget := MaxMessageLength - visibleLength(head.String()) - visibleLength(foot)
	used, shown := 0, 0
	for shown < len(lines) {
		cost := visibleLength(lines[shown])
		reserve := 0
		if rest := len(lines) - shown - 1; rest > 0 {
			reserve = visibleLength(omittedLine(rest))
		}
		if used+cost+reserve > budget {
			break
		}
		used += cost
		shown++
	}

	var b strings.Builder
	b.WriteString(head.String())
	for _, line := range lines[:shown] {
		b.WriteString(line)
	}
	if shown < len(lines) {
		b.WriteString(omittedLine(len(lines) - shown))
	}
	b.WriteString(foot)

	return b.String()
}

func omittedLine(count int) string {
	return fmt.Sprintf("• ... and %d more item(s)\n", count)
}

// visibleLength measures s the way the Bot API does: tags removed, entities
// decoded, counted in UTF-16 code units.
func visibleLength(s string) int {
	var text strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			text.WriteRune(r)
		}
	}

	n := 0
	for _, r := range html.UnescapeString(text.String()) {
		n += utf16.RuneLen(r)
	}
	return n
}

func shortID(order *model.Order) string {
	id := order.ID.String()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
