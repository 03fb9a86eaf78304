package request

// CreateBookingRequest references its venue through exactly one of the three id fields.
type CreateBookingRequest struct {
	PoolID            string `json:"poolId"`
	TennisCourtID     string `json:"tennisCourtId"`
	PickleballCourtID string `json:"pickleballCourtId"`

	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string `json:"time" validate:"required,max=20"`
	Duration      int    `json:"duration" validate:"omitempty,min=1,max=24"`
	CustomerName  string `json:"customerName" validate:"required,max=100"`
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	CustomerPhone string `json:"customerPhone" validate:"required,max=30"`
	Guests        int    `json:"guests" validate:"omitempty,min=1,max=500"`
	Notes         string `json:"notes" validate:"max=1000"`

	CreatedBy    string `json:"createdBy" validate:"omitempty,oneof=admin"`
	ShareToken   string `json:"shareToken"`
	BookingToken string `json:"bookingToken"`
}

type ListBookingsRequest struct {
	PaginatedRequest
	OwnerEmail        string `json:"ownerEmail" validate:"omitempty,email"`
	PoolID            string `json:"poolId" validate:"omitempty,uuid"`
	TennisCourtID     string `json:"tennisCourtId" validate:"omitempty,uuid"`
	PickleballCourtID string `json:"pickleballCourtId" validate:"omitempty,uuid"`
	Status            string `json:"status" validate:"omitempty,oneof=Confirmed Cancelled"`
}
