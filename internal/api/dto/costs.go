package dto

type PutCostsRequest struct {
	Costs []CostRequest `json:"costs" validate:"required,min=1,max=600,dive"`
}

type PutCostsResponse struct {
	Stored int `json:"stored"`
}
