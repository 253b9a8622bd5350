package assistant

import "strings"

const fallbackReply = "Sorry, I didn't understand that."

type rule struct {
	keyword string
	reply   string
}

// Reglas en orden de prioridad creciente: si matchean varias, gana la última.
var rules = []rule{
	{"hello", "Hi! How can I help you?"},
	{"medicine", "Please check your medication schedule in the dashboard."},
	{"doctor", "You can contact your doctor through the support section."},
}

// Reply devuelve la respuesta enlatada para un mensaje del usuario.
func Reply(message string) string {
	msg := strings.ToLower(message)
	reply := fallbackReply
	for _, r := range rules {
		if strings.Contains(msg, r.keyword) {
			reply = r.reply
		}
	}
	return reply
}
