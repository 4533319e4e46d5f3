package validate

import (
	"fmt"
	"strings"
)

// draftJSONFields — поля валидного черновика без внешних скобок (для склейки в тестах).
func draftJSONFields(name, paymentID string) string {
	return fmt.Sprintf(`"name":%q,"category":"Grocery","items":[{"name":"Rice","quantity":1,"unit":"kg"}],`+
		`"address":"12 MG Road","paymentMethod":{"paymentType":"UPI","paymentId":%q},"contact":"+91-1"`, name, paymentID)
}

func draftJSON(name, paymentID string) string {
	return "{\n  " + draftJSONFields(name, paymentID) + "\n}"
}

func oneLineJSON(s string) string { return strings.ReplaceAll(s, "\n", "") }
