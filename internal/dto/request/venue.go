package request

type OwnerRequest struct {
	Name  string `json:"name" validate:"max=100"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=30"`
}

// VenueRequest is the full body of POST and PUT.
type VenueRequest struct {
	Name        string        `json:"name" validate:"required,min=2,max=120"`
	Description string        `json:"description" validate:"max=2000"`
	Location    string        `json:"location" validate:"required,max=200"`
	Price       float64       `json:"price" validate:"gte=0"`
	Capacity    int           `json:"capacity" validate:"gte=0"`
	Status      string        `json:"status" validate:"omitempty,oneof=Active Inactive Maintenance"`
	Owner       *OwnerRequest `json:"owner"`
	Amenities   []string      `json:"amenities"`
	Images      []string      `json:"images"`
	Rating      float64       `json:"rating" validate:"gte=0,lte=5"`
}

// PatchVenueRequest only changes the fields that are present.
type PatchVenueRequest struct {
	Name        *string       `json:"name" validate:"omitempty,min=2,max=120"`
	Description *string       `json:"description" validate:"omitempty,max=2000"`
	Location    *string       `json:"location" validate:"omitempty,min=1,max=200"`
	Price       *float64      `json:"price" validate:"omitempty,gte=0"`
	Capacity    *int          `json:"capacity" validate:"omitempty,gte=0"`
	Status      *string       `json:"status" validate:"omitempty,oneof=Active Inactive Maintenance"`
	Owner       *OwnerRequest `json:"owner"`
	Amenities   []string      `json:"amenities"`
	Images      []string      `json:"images"`
	Rating      *float64      `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

type ListVenuesRequest struct {
	OwnerEmail string `json:"ownerEmail" validate:"omitempty,email"`
	Status     string `json:"status" validate:"omitempty,oneof=Active Inactive Maintenance"`
}
