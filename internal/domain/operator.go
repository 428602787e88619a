package domain

import "time"

// Operator is a service caller authorized to drive the engine over
// HTTP. Soul Engine has no end-user accounts — every caller is an
// operator provisioned out of band and authenticated with a shared
// secret that is bcrypt-hashed at rest.
type Operator struct {
	ID         string
	Name       string
	SecretHash string
	CreatedAt  time.Time
}
