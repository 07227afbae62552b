package bookings

// PaymentStatus tracks the lifecycle of the payment backing a booking
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSucceeded, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}

// ContactPreference selects which notification channels a guest opted into
type ContactPreference string

const (
	ContactEmail ContactPreference = "email"
	ContactSMS   ContactPreference = "sms"
	ContactBoth  ContactPreference = "both"
)

// IsValid checks if the contact preference is valid
func (p ContactPreference) IsValid() bool {
	switch p {
	case ContactEmail, ContactSMS, ContactBoth:
		return true
	}
	return false
}

// WantsEmail reports whether email delivery was requested
func (p ContactPreference) WantsEmail() bool {
	return p == ContactEmail || p == ContactBoth
}

// WantsSMS reports whether SMS delivery was requested
func (p ContactPreference) WantsSMS() bool {
	return p == ContactSMS || p == ContactBoth
}
