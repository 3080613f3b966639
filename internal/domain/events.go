package domain

type UserCreated struct {
	Number string `json:"number"`
	Status string `json:"status"`
}
type UserUpdated struct {
	Number string `json:"number"`
	Status string `json:"status"`
}
type UserDeleted struct {
	Number  string `json:"number"`
	Removed int    `json:"removed"`
}
