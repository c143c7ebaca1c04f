package types

// Capability is the closed set of caller classes a route may admit. Guard
// policies are declared as Capability values instead of ad hoc strings so
// that adding a class is a compile-time visible change at every use site.
type Capability uint8

const (
	CapAll    Capability = iota // anonymous callers admitted
	CapUser                     // any authenticated user
	CapOwner                    // owner of the referenced project
	CapBidder                   // bidder on the referenced bid (or the project's selected bid)
)

func (c Capability) String() string {
	switch c {
	case CapAll:
		return "all"
	case CapUser:
		return "user"
	case CapOwner:
		return "owner"
	case CapBidder:
		return "bidder"
	}
	return "unknown"
}

// Role is the caller's resolved relation to the loaded resource. It is fixed
// by the access guard before any handler runs and selects which side of the
// engagement status machine may fire.
type Role uint8

const (
	RoleUnspecified Role = iota
	RoleOwner
	RoleBidder
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleBidder:
		return "bidder"
	}
	return "unspecified"
}
