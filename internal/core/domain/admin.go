package domain

// Admin is a record in the admin set. Its presence alone grants admin rights.
type Admin struct {
	UID     string `json:"uid"`
	IsAdmin bool   `json:"is_admin"`
}
