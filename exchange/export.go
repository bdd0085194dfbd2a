package exchange

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/esportdb/esport-manager/repositories"
	"github.com/esportdb/esport-manager/services"
)

// Exporter снимает полный срез хранилища через сервисы (без прямых
// запросов к репозиториям) и кодирует его в JSON или CSV.
type Exporter struct {
	users       *services.UserService
	teams       *services.TeamService
	players     *services.PlayerService
	tournaments *services.TournamentService
	matches     *services.MatchService
}

func NewExporter(
	users *services.UserService,
	teams *services.TeamService,
	players *services.PlayerService,
	tournaments *services.TournamentService,
	matches *services.MatchService,
) *Exporter {
	return &Exporter{
		users:       users,
		teams:       teams,
		players:     players,
		tournaments: tournaments,
		matches:     matches,
	}
}

// Snapshot собирает пять коллекций параллельно: выборки только читают,
// поэтому их можно запускать одновременно.
func (e *Exporter) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := e.users.List(gctx, repositories.UserFilter{})
		if err != nil {
			return err
		}
		snap.Users = make([]UserRecord, 0, len(users))
		for _, u := range users {
			snap.Users = append(snap.Users, newUserRecord(u))
		}
		return nil
	})
	g.Go(func() error {
		teams, err := e.teams.List(gctx, repositories.TeamFilter{})
		if err != nil {
			return err
		}
		snap.Teams = make([]TeamRecord, 0, len(teams))
		for _, t := range teams {
			snap.Teams = append(snap.Teams, newTeamRecord(t))
		}
		return nil
	})
	g.Go(func() error {
		players, err := e.players.List(gctx, repositories.PlayerFilter{})
		if err != nil {
			return err
		}
		snap.Players = make([]PlayerRecord, 0, len(players))
		for _, p := range players {
			snap.Players = append(snap.Players, newPlayerRecord(p))
		}
		return nil
	})
	g.Go(func() error {
		tournaments, err := e.tournaments.List(gctx, repositories.TournamentFilter{})
		if err != nil {
			return err
		}
		snap.Tournaments = make([]TournamentRecord, 0, len(tournaments))
		for _, t := range tournaments {
			snap.Tournaments = append(snap.Tournaments, newTournamentRecord(t))
		}
		return nil
	})
	g.Go(func() error {
		matches, err := e.matches.List(gctx, repositories.MatchFilter{})
		if err != nil {
			return err
		}
		snap.Matches = make([]MatchRecord, 0, len(matches))
		for _, m := range matches {
			snap.Matches = append(snap.Matches, newMatchRecord(m))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// WriteJSON выгружает снапшот в произвольный writer.
func (e *Exporter) WriteJSON(ctx context.Context, w io.Writer) error {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return err
	}
	return EncodeJSON(w, snap)
}

// WriteJSONFile выгружает снапшот в файл, создавая каталог при нужде.
func (e *Exporter) WriteJSONFile(ctx context.Context, path string) error {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := EncodeJSON(file, snap); err != nil {
		return err
	}
	return file.Close()
}

// WriteCSV выгружает снапшот в каталог из пяти CSV-файлов.
func (e *Exporter) WriteCSV(ctx context.Context, dir string) error {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return err
	}
	return WriteCSVDir(dir, snap)
}
