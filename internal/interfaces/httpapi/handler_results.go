package httpapi

import "net/http"

func (h *Handler) GetPersonResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPersonResults")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	personID := r.PathValue("personID")
	view, err := h.resultsService.GetPersonResults(ctx, competitionID, personID)
	if err != nil {
		h.logFailure(ctx, "get person results failed", err, "competition_id", competitionID, "person_id", personID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, personResultsToDTO(view))
}
