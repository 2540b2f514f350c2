package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/phillipc0/cubing-competition-api/internal/usecase"
)

type listCompetitionsQuery struct {
	Query string `validate:"max=100"`
	Page  int    `validate:"gte=0,lte=10000"`
}

type scheduleQuery struct {
	TZ string `validate:"omitempty,timezone"`
}

type listGroupsQuery struct {
	RegistrantID int64  `validate:"gt=0"`
	Order        string `validate:"omitempty,oneof=schedule chronological"`
	Roles        string `validate:"omitempty,oneof=any competitor"`
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	query := listCompetitionsQuery{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: page must be a number", usecase.ErrInvalidInput))
			return
		}
		query.Page = page
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.competitionService.List(ctx, usecase.ListCompetitionsInput{Query: query.Query, Page: query.Page})
	if err != nil {
		h.logFailure(ctx, "list competitions failed", err, "query", query.Query, "page", query.Page)
		writeError(ctx, w, err)
		return
	}

	out := make([]competitionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, competitionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetition")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	details, err := h.scheduleService.GetCompetition(ctx, competitionID)
	if err != nil {
		h.logFailure(ctx, "get competition failed", err, "competition_id", competitionID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionDetailsToDTO(details))
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSchedule")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	query := scheduleQuery{TZ: strings.TrimSpace(r.URL.Query().Get("tz"))}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	days, err := h.scheduleService.GetSchedule(ctx, competitionID, query.TZ)
	if err != nil {
		h.logFailure(ctx, "get schedule failed", err, "competition_id", competitionID, "tz", query.TZ)
		writeError(ctx, w, err)
		return
	}

	out := make([]scheduleDayDTO, 0, len(days))
	for _, day := range days {
		out = append(out, dayToDTO(day))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListCompetitors(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitors")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	persons, err := h.scheduleService.ListCompetitors(ctx, competitionID)
	if err != nil {
		h.logFailure(ctx, "list competitors failed", err, "competition_id", competitionID)
		writeError(ctx, w, err)
		return
	}

	out := make([]competitorDTO, 0, len(persons))
	for _, person := range persons {
		out = append(out, competitorToDTO(person))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGroups")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	registrantID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("registrantID")), 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: registrant id must be a number", usecase.ErrInvalidInput))
		return
	}

	query := listGroupsQuery{
		RegistrantID: registrantID,
		Order:        strings.ToLower(strings.TrimSpace(r.URL.Query().Get("order"))),
		Roles:        strings.ToLower(strings.TrimSpace(r.URL.Query().Get("roles"))),
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	groups, err := h.scheduleService.ListGroups(ctx, usecase.ListGroupsInput{
		CompetitionID: competitionID,
		RegistrantID:  query.RegistrantID,
		Order:         query.Order,
		Roles:         query.Roles,
	})
	if err != nil {
		h.logFailure(ctx, "list groups failed", err, "competition_id", competitionID, "registrant_id", registrantID)
		writeError(ctx, w, err)
		return
	}

	out := make([]userGroupDTO, 0, len(groups))
	for _, group := range groups {
		out = append(out, userGroupToDTO(group))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
