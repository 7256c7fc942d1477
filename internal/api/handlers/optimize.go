package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/zacharydestefano89/travel-route-planner/internal/api/dto"
	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
	"github.com/zacharydestefano89/travel-route-planner/internal/platform/obs"
	"github.com/zacharydestefano89/travel-route-planner/internal/ports"
	"github.com/zacharydestefano89/travel-route-planner/internal/services"
)

type OptimizeHandler struct {
	Provider ports.CostMatrixProvider
	Defaults services.Options
}

// Optimize ranks every admissible optional-stop combination for one trip.
// Costs in the body take precedence over the configured matrix provider.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRequest
	if msg, ok := decodeBody(w, r, &req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	opts := h.Defaults
	if req.Threshold != nil {
		opts.Threshold = *req.Threshold
	}
	if req.Workers != nil {
		opts.Workers = *req.Workers
	}

	svcReq := services.PlanTripRequest{
		Trip:    toTripInput(req),
		Options: opts,
	}

	if len(req.Costs) > 0 {
		m := domain.NewCostMatrix()
		for _, c := range req.Costs {
			if err := m.Set(c.From, c.To, domain.Cost{DurationSeconds: c.DurationSeconds, DistanceMeters: c.DistanceMeters}); err != nil {
				writeError(w, r, http.StatusBadRequest, err.Error())
				return
			}
		}
		svcReq.Matrix = m
	} else if h.Provider == nil {
		writeError(w, r, http.StatusBadRequest, "costs are required: no matrix provider is configured")
		return
	}

	opt, err := services.PlanTrip(r.Context(), svcReq, h.Provider)
	if err != nil && opt == nil {
		var me *domain.MissingEdgeCostError
		switch {
		case errors.Is(err, domain.ErrValidation):
			writeError(w, r, http.StatusBadRequest, err.Error())
		case errors.As(err, &me):
			writeJSON(w, r, http.StatusUnprocessableEntity, map[string]string{
				"error":        err.Error(),
				"missing_from": me.From,
				"missing_to":   me.To,
			})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, r, http.StatusServiceUnavailable, "optimization canceled")
		default:
			log.Printf("optimize failed: req_id=%s err=%v", obs.RequestID(r.Context()), err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	if err != nil {
		// Partial results stay usable; failures are listed in the body.
		log.Printf("optimize partial: req_id=%s err=%v", obs.RequestID(r.Context()), err)
	}

	writeJSON(w, r, http.StatusOK, toOptimizeResponse(obs.RequestID(r.Context()), opt))
}

func toLocation(l dto.LocationRequest) domain.Location {
	return domain.Location{
		ID:          l.ID,
		Name:        l.Name,
		Coordinates: domain.Coordinates{Lon: l.Lon, Lat: l.Lat},
	}
}

func toTripInput(req dto.OptimizeRequest) services.TripInput {
	in := services.TripInput{
		Mandatory: make([]domain.Location, 0, len(req.Mandatory)),
		Optional:  make([]domain.Location, 0, len(req.Optional)),
	}
	if req.Origin != nil {
		o := toLocation(*req.Origin)
		in.Origin = &o
	}
	if req.Destination != nil {
		d := toLocation(*req.Destination)
		in.Destination = &d
	}
	for _, l := range req.Mandatory {
		in.Mandatory = append(in.Mandatory, toLocation(l))
	}
	for _, l := range req.Optional {
		in.Optional = append(in.Optional, toLocation(l))
	}
	return in
}

func toRankedResponse(r domain.RankedResult) dto.RankedRouteResponse {
	opt := r.StopSet.IDs
	if opt == nil {
		opt = []string{}
	}
	order := r.Order
	if order == nil {
		order = []string{}
	}
	return dto.RankedRouteResponse{
		Rank:                 r.Rank,
		Name:                 r.Name,
		OptionalStops:        opt,
		Order:                order,
		TotalDurationSeconds: r.DurationSeconds,
		TotalDistanceMeters:  r.DistanceMeters,
		ExtraDurationSeconds: r.ExtraDurationSeconds,
		ExtraDistanceMeters:  r.ExtraDistanceMeters,
	}
}

func toMetrics(m services.RouteMetrics) dto.RouteMetricsResponse {
	return dto.RouteMetricsResponse{DurationSeconds: m.DurationSeconds, DistanceMeters: m.DistanceMeters}
}

func toOptimizeResponse(reqID string, opt *services.Optimization) dto.OptimizeResponse {
	res := dto.OptimizeResponse{
		RequestID: reqID,
		Mode:      string(opt.Mode),
		Threshold: opt.Threshold,
		Partial:   opt.Partial,
		Baseline:  toRankedResponse(opt.Baseline),
		Rankings:  make([]dto.RankedRouteResponse, 0, len(opt.Rankings)),
		Summary: dto.SummaryResponse{
			Combinations:            opt.Summary.Combinations,
			Evaluated:               opt.Summary.Evaluated,
			Fastest:                 toMetrics(opt.Summary.Fastest),
			Slowest:                 toMetrics(opt.Summary.Slowest),
			Baseline:                toMetrics(opt.Summary.Baseline),
			AverageDurationSeconds:  opt.Summary.AverageDurationSeconds,
			AverageDistanceMeters:   opt.Summary.AverageDistanceMeters,
			ShortestDistanceMeters:  opt.Summary.ShortestDistanceMeters,
			LongestDistanceMeters:   opt.Summary.LongestDistanceMeters,
			MaxExtraDurationSeconds: opt.Summary.MaxExtraDurationSeconds,
			MaxExtraDistanceMeters:  opt.Summary.MaxExtraDistanceMeters,
		},
	}

	if opt.Notice != nil {
		res.Notice = &dto.NoticeResponse{
			Mode:          string(opt.Notice.Mode),
			OptionalStops: opt.Notice.OptionalStops,
			Threshold:     opt.Notice.Threshold,
			Message:       opt.Notice.Message(),
		}
	}

	for _, r := range opt.Rankings {
		res.Rankings = append(res.Rankings, toRankedResponse(r))
	}

	for _, f := range opt.Failures {
		fr := dto.FailureResponse{OptionalStops: f.StopSet.IDs, Error: f.Err.Error()}
		var me *domain.MissingEdgeCostError
		if errors.As(f.Err, &me) {
			fr.MissingFrom, fr.MissingTo = me.From, me.To
		}
		res.Failures = append(res.Failures, fr)
	}

	return res
}
