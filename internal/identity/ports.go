package identity

import (
	"context"

	"hostnamed"
	"hostnamed/internal/shellconf"
)

// Authorizer decides whether sender may perform action. It returns nil
// when granted, an error wrapping ErrNotAuthorized when denied, and any
// other error when the decision could not be made.
type Authorizer interface {
	CheckAuthorization(ctx context.Context, sender, action string, interactive bool) error
}

// ConfigStore is a durable shell-style key/value file.
type ConfigStore interface {
	Source(expr string) (string, error)
	SetAndSave(assignments ...shellconf.Assignment) error
}

// Host is the running kernel's view of the hostname.
type Host interface {
	Hostname() (string, error)
	SetHostname(name string) error
}

// IconGuesser derives a default icon name from hardware data.
type IconGuesser interface {
	GuessIcon() string
}

// Publisher broadcasts committed changes. Publish is called with the
// attribute's group lock held and must not block.
type Publisher interface {
	Publish(change hostnamed.Change)
}

// Publishers fans a change out to each publisher in order.
type Publishers []Publisher

func (p Publishers) Publish(change hostnamed.Change) {
	for _, pub := range p {
		if pub != nil {
			pub.Publish(change)
		}
	}
}
