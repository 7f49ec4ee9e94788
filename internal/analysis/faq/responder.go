package faq

import (
	"time"

	"github.com/hammall/hamra/backend/internal/model/shop"
	"github.com/hammall/hamra/backend/internal/model/tenant"
)

// Responder turns a tenant message into the assistant's reply. It holds no
// conversation state; the clock and location only affect due-date wording.
type Responder struct {
	now func() time.Time
	loc *time.Location
}

// Option configures a Responder.
type Option func(*Responder)

// WithClock overrides the source of "now".
func WithClock(now func() time.Time) Option {
	return func(r *Responder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLocation sets the location used to resolve due dates and today.
func WithLocation(loc *time.Location) Option {
	return func(r *Responder) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// NewResponder creates a Responder using the wall clock in time.Local unless
// overridden.
func NewResponder(opts ...Option) *Responder {
	r := &Responder{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond classifies message and renders the matching reply. user may be nil.
func (r *Responder) Respond(message string, shops []shop.Snapshot, user *tenant.Profile) string {
	reply, _ := r.Answer(message, shops, user)
	return reply
}

// Answer is Respond that also reports which intent produced the reply.
func (r *Responder) Answer(message string, shops []shop.Snapshot, user *tenant.Profile) (string, Intent) {
	rule, ok := firstMatch(normalize(message))
	if !ok {
		return FallbackReply, Fallback
	}
	req := request{
		shops: shops,
		user:  user,
		now:   r.now().In(r.loc),
		loc:   r.loc,
	}
	return rule.reply(req), rule.Intent
}

var defaultResponder = NewResponder()

// Respond answers with the default wall-clock Responder.
func Respond(message string, shops []shop.Snapshot, user *tenant.Profile) string {
	return defaultResponder.Respond(message, shops, user)
}

// Welcome is the first bot message of a fresh log.
func Welcome(user *tenant.Profile) string {
	greeting := "Hello!"
	if name := user.FirstName(); name != "" {
		greeting = "Hello " + name + "!"
	}
	return greeting + " I'm your HAM Mall Rent Assistant, you can call me HAMRA😊. How can I help you today?"
}
