package model

// UserProfile holds one profile per identity. Exists distinguishes
// "never set" from "set with empty fields".
type UserProfile struct {
	Exists      bool   `json:"exists"`
	Age         uint64 `json:"age"`
	Location    string `json:"location"`
	Nationality string `json:"nationality"`
}
