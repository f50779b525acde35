package places

import "teleka/models"

// DistanceMatrixResponse is the subset of the distance matrix body we read.
type DistanceMatrixResponse struct {
	Status       string              `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Rows         []DistanceMatrixRow `json:"rows"`
}

// DistanceMatrixRow holds the elements for one origin.
type DistanceMatrixRow struct {
	Elements []DistanceMatrixElement `json:"elements"`
}

// DistanceMatrixElement is one origin/destination pair.
type DistanceMatrixElement struct {
	Status            string            `json:"status"`
	Distance          models.TextValue  `json:"distance"`
	Duration          models.TextValue  `json:"duration"`
	DurationInTraffic *models.TextValue `json:"duration_in_traffic,omitempty"`
}

// FirstElement returns the single element of a one-to-one request.
func (r *DistanceMatrixResponse) FirstElement() (DistanceMatrixElement, bool) {
	if r == nil || len(r.Rows) == 0 || len(r.Rows[0].Elements) == 0 {
		return DistanceMatrixElement{}, false
	}
	return r.Rows[0].Elements[0], true
}
