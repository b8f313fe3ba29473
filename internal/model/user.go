package model

// Profile holds the parts of a user's account this core touches: the saved
// shipping address used to prefill the checkout form. Identity itself is
// managed by the upstream auth layer.
type Profile struct {
	UserID  string `json:"userId" db:"user_id"`
	Name    string `json:"name" db:"name"`
	Phone   string `json:"phone" db:"phone"`
	Region  string `json:"region" db:"region"`
	City    string `json:"city" db:"city"`
	Street  string `json:"street" db:"street"`
	Details string `json:"details,omitempty" db:"details"`
}

// Address converts the saved profile fields into a shipping address.
func (p *Profile) Address() Address {
	return Address{
		Name:    p.Name,
		Phone:   p.Phone,
		Region:  p.Region,
		City:    p.City,
		Street:  p.Street,
		Details: p.Details,
	}
}
