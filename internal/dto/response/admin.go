package response

import (
	"time"
)

type VenueCounts struct {
	Pools            int `json:"pools"`
	TennisCourts     int `json:"tennisCourts"`
	PickleballCourts int `json:"pickleballCourts"`
}

type AdminSummaryResponse struct {
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	LastLogin     *time.Time  `json:"lastLogin,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	Venues        VenueCounts `json:"venues"`
	TotalBookings int64       `json:"totalBookings"`
	TotalRevenue  float64     `json:"totalRevenue"`
}

type AdminStatsResponse struct {
	Email            string          `json:"email"`
	User             *UserResponse   `json:"user,omitempty"`
	Pools            []VenueResponse `json:"pools"`
	TennisCourts     []VenueResponse `json:"tennisCourts"`
	PickleballCourts []VenueResponse `json:"pickleballCourts"`
	TotalBookings    int64           `json:"totalBookings"`
	TotalRevenue     float64         `json:"totalRevenue"`
}

// DeleteAdminResponse counts what the cascade actually removed.
type DeleteAdminResponse struct {
	Bookings         int64 `json:"bookings"`
	Pools            int64 `json:"pools"`
	TennisCourts     int64 `json:"tennisCourts"`
	PickleballCourts int64 `json:"pickleballCourts"`
	Users            int64 `json:"users"`
	ImagesRemoved    int   `json:"imagesRemoved"`
}
