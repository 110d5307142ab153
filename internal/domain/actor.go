package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// Actor is the authenticated caller as supplied by the auth collaborator.
type Actor struct {
	UserID int64
	Role   Role
	// Departures lists the departures a staff member may settle.
	Departures []int64
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanAccess reports whether the actor may read or cancel a reservation owned by userID.
func (a Actor) CanAccess(userID int64) bool {
	return a.IsAdmin() || (a.UserID != 0 && a.UserID == userID)
}

// CanSettle reports whether the actor may present credentials for the departure.
func (a Actor) CanSettle(departureID int64) bool {
	if a.IsAdmin() {
		return true
	}
	if a.Role != RoleStaff {
		return false
	}
	for _, id := range a.Departures {
		if id == departureID {
			return true
		}
	}
	return false
}
