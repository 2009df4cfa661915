package domain

// User is the record stored behind the DB2 gateway. Email identifies it.
type User struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Domain    string `json:"domain"`
}
