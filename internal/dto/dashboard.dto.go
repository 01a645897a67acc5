package dto

// DashboardCountsDTO backs the admin dashboard tiles.
type DashboardCountsDTO struct {
	Doctors      int64 `json:"doctors"`
	Users        int64 `json:"users"`
	Appointments int64 `json:"appointments"`
}
