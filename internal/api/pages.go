package api

import (
	"net/http"
	"time"
)

// FormField describes one input of a form document.
type FormField struct {
	Name      string `json:"name" doc:"Field name as submitted in the JSON body"`
	Type      string `json:"type" doc:"Input type hint: text, email, password, url, textarea, multiselect"`
	Required  bool   `json:"required" doc:"Whether the field must be non-empty"`
	MaxLength int    `json:"max_length,omitempty" doc:"Maximum length in characters"`
}

// FormResponse is the page document for a form.
type FormResponse struct {
	Action string      `json:"action" doc:"Path the form submits to"`
	Method string      `json:"method" doc:"HTTP method the form submits with"`
	Fields []FormField `json:"fields" doc:"Form inputs"`
}

// FormOutput wraps a form document for Huma.
type FormOutput struct {
	Body FormResponse
}

func newForm(action string, fields ...FormField) *FormOutput {
	return &FormOutput{Body: FormResponse{
		Action: action,
		Method: http.MethodPost,
		Fields: fields,
	}}
}

// MessageResponse carries a human-readable message.
type MessageResponse struct {
	Message string `json:"message" doc:"Status message"`
}

// RedirectOutput answers a form submission with 303 See Other.
type RedirectOutput struct {
	Status   int
	Location string `header:"Location"`
	Body     MessageResponse
}

func redirect(location, message string) *RedirectOutput {
	return &RedirectOutput{
		Status:   http.StatusSeeOther,
		Location: location,
		Body:     MessageResponse{Message: message},
	}
}

// sessionCookie builds the cookie browsers send back in place of a Bearer header.
func (s *Server) sessionCookie(token string, lifetime time.Duration) http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   s.config.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Server) expiredSessionCookie() http.Cookie {
	c := s.sessionCookie("", 0)
	c.MaxAge = -1
	return c
}
