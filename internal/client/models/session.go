package models

import "fmt"

// Channel says how the OTP reaches the user.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelEmail, ChannelPhone:
		return Channel(s), nil
	}
	return "", fmt.Errorf("unknown channel %q", s)
}

// BodyKey is the request field that carries the identifier for this channel.
func (c Channel) BodyKey() string {
	if c == ChannelPhone {
		return "phone_number"
	}
	return "email"
}

// Identity is the login that is waiting for OTP verification.
type Identity struct {
	Identifier string
	Channel    Channel
}

// AuthSession is what a successful OTP check yields.
type AuthSession struct {
	Token  string
	UserID ID
}
