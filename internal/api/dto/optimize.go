package dto

type LocationRequest struct {
	ID   string  `json:"id" validate:"required,max=128"`
	Name string  `json:"name" validate:"max=256"`
	Lon  float64 `json:"lon" validate:"gte=-180,lte=180"`
	Lat  float64 `json:"lat" validate:"gte=-90,lte=90"`
}

type CostRequest struct {
	From            string `json:"from" validate:"required"`
	To              string `json:"to" validate:"required,nefield=From"`
	DurationSeconds int    `json:"duration_seconds" validate:"gte=0"`
	DistanceMeters  int    `json:"distance_meters" validate:"gte=0"`
}

type OptimizeRequest struct {
	Origin      *LocationRequest  `json:"origin" validate:"required"`
	Destination *LocationRequest  `json:"destination" validate:"required"`
	Mandatory   []LocationRequest `json:"mandatory" validate:"max=23,dive"`
	Optional    []LocationRequest `json:"optional" validate:"max=23,dive"`
	Costs       []CostRequest     `json:"costs" validate:"omitempty,dive"`
	Threshold   *int              `json:"threshold" validate:"omitempty,gte=0,lte=23"`
	Workers     *int              `json:"workers" validate:"omitempty,gte=1,lte=64"`
}

type RankedRouteResponse struct {
	Rank                 int      `json:"rank"`
	Name                 string   `json:"name"`
	OptionalStops        []string `json:"optional_stops"`
	Order                []string `json:"order"`
	TotalDurationSeconds int      `json:"total_duration_seconds"`
	TotalDistanceMeters  int      `json:"total_distance_meters"`
	ExtraDurationSeconds int      `json:"extra_duration_seconds"`
	ExtraDistanceMeters  int      `json:"extra_distance_meters"`
}

type NoticeResponse struct {
	Mode          string `json:"mode"`
	OptionalStops int    `json:"optional_stops"`
	Threshold     int    `json:"threshold"`
	Message       string `json:"message"`
}

type FailureResponse struct {
	OptionalStops []string `json:"optional_stops"`
	Error         string   `json:"error"`
	MissingFrom   string   `json:"missing_from,omitempty"`
	MissingTo     string   `json:"missing_to,omitempty"`
}

type RouteMetricsResponse struct {
	DurationSeconds int `json:"duration_seconds"`
	DistanceMeters  int `json:"distance_meters"`
}

type SummaryResponse struct {
	Combinations            int                  `json:"combinations"`
	Evaluated               int                  `json:"evaluated"`
	Fastest                 RouteMetricsResponse `json:"fastest"`
	Slowest                 RouteMetricsResponse `json:"slowest"`
	Baseline                RouteMetricsResponse `json:"baseline"`
	AverageDurationSeconds  float64              `json:"average_duration_seconds"`
	AverageDistanceMeters   float64              `json:"average_distance_meters"`
	ShortestDistanceMeters  int                  `json:"shortest_distance_meters"`
	LongestDistanceMeters   int                  `json:"longest_distance_meters"`
	MaxExtraDurationSeconds int                  `json:"max_extra_duration_seconds"`
	MaxExtraDistanceMeters  int                  `json:"max_extra_distance_meters"`
}

type OptimizeResponse struct {
	RequestID string                `json:"request_id"`
	Mode      string                `json:"mode"`
	Threshold int                   `json:"threshold"`
	Notice    *NoticeResponse       `json:"notice"`
	Partial   bool                  `json:"partial"`
	Baseline  RankedRouteResponse   `json:"baseline"`
	Rankings  []RankedRouteResponse `json:"rankings"`
	Failures  []FailureResponse     `json:"failures,omitempty"`
	Summary   SummaryResponse       `json:"summary"`
}
