package book

// ToggleAvailabilityReq flips a listing's availability
// swagger:model ToggleAvailabilityReq
type ToggleAvailabilityReq struct {
	Available *bool `json:"available" validate:"required"`
}
