package handlers

import (
	"net/http"
	"strconv"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
	"github.com/esportdb/esport-manager/services"
)

type PlayerHandler struct {
	players *services.PlayerService
	search  *services.SearchService
}

func NewPlayerHandler(players *services.PlayerService, search *services.SearchService) *PlayerHandler {
	return &PlayerHandler{players: players, search: search}
}

func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var player models.Player
	if err := readJSON(w, r, &player); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	created, err := h.players.Create(r.Context(), &player)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": created}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) GetPlayerByID(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.players.GetByID(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListPlayers фильтрует по подстроке, команде, роли и активности;
// expand=team подставляет команду каждому игроку.
func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	filter := repositories.PlayerFilter{}
	if q := r.URL.Query().Get("q"); q != "" {
		filter.Query = &q
	}
	if teamIDStr := r.URL.Query().Get("team_id"); teamIDStr != "" {
		teamID, err := strconv.Atoi(teamIDStr)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.TeamID = &teamID
	}
	if role := r.URL.Query().Get("role"); role != "" {
		playerRole := models.PlayerRole(role)
		filter.Role = &playerRole
	}
	if active := r.URL.Query().Get("active"); active != "" {
		onlyActive, err := strconv.ParseBool(active)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.OnlyActive = onlyActive
	}

	var (
		players []*models.Player
		err     error
	)
	if r.URL.Query().Get("expand") == "team" {
		players, err = h.search.PlayersWithTeam(r.Context(), filter)
	} else {
		players, err = h.players.List(r.Context(), filter)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var patch services.PlayerPatch
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.players.Update(r.Context(), playerID, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.players.Delete(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
