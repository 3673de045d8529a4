package domain

import "strconv"

// Identifiers are assigned by storage. The zero value means "not persisted yet".
type (
	FlightID  int64
	UserID    int64
	BookingID int64
	RewardID  int64
)

// ClientID is the UserID of a user holding the client role.
type ClientID = UserID

func (id FlightID) String() string  { return strconv.FormatInt(int64(id), 10) }
func (id UserID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id BookingID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id RewardID) String() string  { return strconv.FormatInt(int64(id), 10) }

func (id FlightID) Valid() bool  { return id > 0 }
func (id UserID) Valid() bool    { return id > 0 }
func (id BookingID) Valid() bool { return id > 0 }
func (id RewardID) Valid() bool  { return id > 0 }
