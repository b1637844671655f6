package newsletter

import "time"

// Subscriber is an email address signed up for the newsletter.
type Subscriber struct {
	ID        uint64
	Email     string
	Source    string
	CreatedAt time.Time
}

// Result describes the outcome of a subscribe call.
type Result struct {
	Subscriber        Subscriber
	AlreadySubscribed bool
}
