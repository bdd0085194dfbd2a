package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/esportdb/esport-manager/handlers"
)

func SetupRoutes(
	router *chi.Mux,
	userHandler *handlers.UserHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	exchangeHandler *handlers.ExchangeHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.CreateUser)
		r.Get("/", userHandler.ListUsers)
		r.Get("/{userID}", userHandler.GetUserByID)
		r.Patch("/{userID}", userHandler.UpdateUser)
		r.Delete("/{userID}", userHandler.DeleteUser)
		r.Post("/{userID}/login", userHandler.RecordLogin)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Post("/", teamHandler.CreateTeam)
		r.Get("/", teamHandler.ListTeams)
		r.Get("/{teamID}", teamHandler.GetTeamByID)
		r.Patch("/{teamID}", teamHandler.UpdateTeam)
		r.Delete("/{teamID}", teamHandler.DeleteTeam)
		r.Get("/{teamID}/stats", teamHandler.GetTeamStats)
	})

	router.Route("/players", func(r chi.Router) {
		r.Post("/", playerHandler.CreatePlayer)
		r.Get("/", playerHandler.ListPlayers)
		r.Get("/{playerID}", playerHandler.GetPlayerByID)
		r.Patch("/{playerID}", playerHandler.UpdatePlayer)
		r.Delete("/{playerID}", playerHandler.DeletePlayer)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Post("/", tournamentHandler.CreateTournament)
		r.Get("/", tournamentHandler.ListTournaments)
		r.Get("/{tournamentID}", tournamentHandler.GetTournamentByID)
		r.Patch("/{tournamentID}", tournamentHandler.UpdateTournament)
		r.Delete("/{tournamentID}", tournamentHandler.DeleteTournament)
		r.Get("/{tournamentID}/standings", tournamentHandler.GetStandings)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Post("/", matchHandler.CreateMatch)
		r.Get("/", matchHandler.ListMatches)
		r.Get("/{matchID}", matchHandler.GetMatchByID)
		r.Patch("/{matchID}", matchHandler.UpdateMatch)
		r.Delete("/{matchID}", matchHandler.DeleteMatch)
		r.Post("/{matchID}/score", matchHandler.ReportScore)
	})

	router.Route("/export", func(r chi.Router) {
		r.Get("/json", exchangeHandler.ExportJSON)
		r.Post("/", exchangeHandler.ExportToFiles)
	})

	router.Route("/import", func(r chi.Router) {
		r.Post("/", exchangeHandler.ImportJSON)
		r.Post("/csv", exchangeHandler.ImportCSV)
	})
}
