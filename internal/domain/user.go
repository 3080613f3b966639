package domain

// User is a stored record keyed by its phone number.
type User struct {
	Number string `json:"number"`
	Status string `json:"status"`
}

// Users is the ordered sequence persisted as one document.
type Users []User

// IndexOf returns the position of the first user with number, or -1.
func (us Users) IndexOf(number string) int {
	for i := range us {
		if us[i].Number == number {
			return i
		}
	}
	return -1
}

// Without returns a copy with every user matching number removed.
func (us Users) Without(number string) Users {
	out := make(Users, 0, len(us))
	for _, u := range us {
		if u.Number != number {
			out = append(out, u)
		}
	}
	return out
}

// Clone returns an independent copy. A nil receiver yields an empty, non-nil slice.
func (us Users) Clone() Users {
	out := make(Users, len(us))
	copy(out, us)
	return out
}
