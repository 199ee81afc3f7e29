package domain

// User is the identity an event is attributed to.
type User struct {
	ID        string
	FirstName string
	LastName  string
}
