package handlers

import (
	"net/http"
	"strconv"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
	"github.com/esportdb/esport-manager/services"
)

type MatchHandler struct {
	matches *services.MatchService
	search  *services.SearchService
}

func NewMatchHandler(matches *services.MatchService, search *services.SearchService) *MatchHandler {
	return &MatchHandler{matches: matches, search: search}
}

func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var match models.Match
	if err := readJSON(w, r, &match); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	created, err := h.matches.Create(r.Context(), &match)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": created}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetMatchByID(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matches.GetByID(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatches фильтрует по турниру, команде и формату; expand=full
// подставляет турнир и команды каждому матчу.
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	filter := repositories.MatchFilter{}
	if tournamentIDStr := r.URL.Query().Get("tournament_id"); tournamentIDStr != "" {
		tournamentID, err := strconv.Atoi(tournamentIDStr)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.TournamentID = &tournamentID
	}
	if teamIDStr := r.URL.Query().Get("team_id"); teamIDStr != "" {
		teamID, err := strconv.Atoi(teamIDStr)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.TeamID = &teamID
	}
	if bestOf := r.URL.Query().Get("best_of"); bestOf != "" {
		b := models.BestOf(bestOf)
		filter.BestOf = &b
	}

	var (
		matches []*models.Match
		err     error
	)
	if r.URL.Query().Get("expand") == "full" {
		matches, err = h.search.MatchesDetailed(r.Context(), filter)
	} else {
		matches, err = h.matches.List(r.Context(), filter)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var patch services.MatchPatch
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matches.Update(r.Context(), matchID, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matches.Delete(r.Context(), matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type reportScoreInput struct {
	ScoreTeam1   int  `json:"score_team1"`
	ScoreTeam2   int  `json:"score_team2"`
	WinnerTeamID *int `json:"winner_team_id"`
}

// ReportScore выставляет счёт и, опционально, победителя матча.
func (h *MatchHandler) ReportScore(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input reportScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matches.ReportScore(r.Context(), matchID, input.ScoreTeam1, input.ScoreTeam2, input.WinnerTeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
