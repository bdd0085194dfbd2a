package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/esportdb/esport-manager/repositories"
	"github.com/esportdb/esport-manager/services"
)

// RecordError — одна отклонённая запись импорта.
type RecordError struct {
	Entity  string `json:"entity"`
	Index   int    `json:"index"`
	Key     string `json:"key"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Report — итог импорта: сколько записей создано по каждому типу и какие
// записи отклонены. В частичном режиме отклонённая запись не мешает
// остальным; в атомарном режиме импорт прерывается на первой ошибке.
type Report struct {
	Created map[string]int `json:"created"`
	Failed  []RecordError  `json:"failed"`
}

func newReport() *Report {
	return &Report{Created: map[string]int{}}
}

func (r *Report) created(entity string) {
	r.Created[entity]++
}

func (r *Report) fail(entity string, index int, key string, err error) {
	r.Failed = append(r.Failed, RecordError{
		Entity:  entity,
		Index:   index,
		Key:     key,
		Message: err.Error(),
		Err:     err,
	})
}

// Importer проводит каждую запись через обычный путь создания в сервисах,
// так что импорт не обходит ни валидацию, ни проверки уникальности.
type Importer struct {
	tx          repositories.TxRunner
	users       *services.UserService
	teams       *services.TeamService
	players     *services.PlayerService
	tournaments *services.TournamentService
	matches     *services.MatchService
}

func NewImporter(
	tx repositories.TxRunner,
	users *services.UserService,
	teams *services.TeamService,
	players *services.PlayerService,
	tournaments *services.TournamentService,
	matches *services.MatchService,
) *Importer {
	return &Importer{
		tx:          tx,
		users:       users,
		teams:       teams,
		players:     players,
		tournaments: tournaments,
		matches:     matches,
	}
}

// ImportJSON читает JSON-снапшот и загружает его.
func (i *Importer) ImportJSON(ctx context.Context, r io.Reader, atomic bool) (*Report, error) {
	snap, err := DecodeJSON(r)
	if err != nil {
		return nil, err
	}
	return i.ImportSnapshot(ctx, snap, atomic)
}

// ImportCSVDir читает каталог CSV-файлов и загружает его.
func (i *Importer) ImportCSVDir(ctx context.Context, dir string, atomic bool) (*Report, error) {
	snap, err := ReadCSVDir(dir)
	if err != nil {
		return nil, err
	}
	return i.ImportSnapshot(ctx, snap, atomic)
}

// ImportSnapshot загружает снапшот. При atomic=true весь импорт идёт в
// одной транзакции и откатывается целиком на первой ошибке; иначе каждая
// запись применяется независимо, отклонённые попадают в отчёт.
func (i *Importer) ImportSnapshot(ctx context.Context, snap *Snapshot, atomic bool) (*Report, error) {
	report := newReport()
	if atomic {
		err := i.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
			return i.run(ctx, exec, snap, report, true)
		})
		if err != nil {
			return report, err
		}
		return report, nil
	}
	if err := i.run(ctx, nil, snap, report, false); err != nil {
		return report, err
	}
	return report, nil
}

func (i *Importer) run(ctx context.Context, exec repositories.SQLExecutor, snap *Snapshot, report *Report, atomic bool) error {
	for idx, rec := range snap.Users {
		err := i.importUser(ctx, exec, rec)
		if err != nil {
			if atomic {
				return fmt.Errorf("users[%d] %q: %w", idx, rec.Username, err)
			}
			report.fail("users", idx, rec.Username, err)
			continue
		}
		report.created("users")
	}

	// Хранилище выдаёт свои id, поэтому ссылки переносятся через
	// таблицы соответствия старый id -> новый id.
	teamIDs := map[int]int{}
	for idx, rec := range snap.Teams {
		err := i.importTeam(ctx, exec, rec, teamIDs, atomic)
		if err != nil {
			if atomic {
				return fmt.Errorf("teams[%d] %q: %w", idx, rec.Name, err)
			}
			report.fail("teams", idx, rec.Name, err)
			continue
		}
		report.created("teams")
	}

	tournamentIDs := map[int]int{}
	for idx, rec := range snap.Tournaments {
		err := i.importTournament(ctx, exec, rec, tournamentIDs)
		if err != nil {
			if atomic {
				return fmt.Errorf("tournaments[%d] %q: %w", idx, rec.Name, err)
			}
			report.fail("tournaments", idx, rec.Name, err)
			continue
		}
		report.created("tournaments")
	}

	// Если снапшот не содержит родительской коллекции, id считаются
	// уже принадлежащими хранилищу и переносятся как есть.
	strictTeams := len(snap.Teams) > 0
	strictTournaments := len(snap.Tournaments) > 0

	for idx, rec := range snap.Players {
		err := i.importPlayer(ctx, exec, rec, teamIDs, strictTeams)
		if err != nil {
			if atomic {
				return fmt.Errorf("players[%d] %q: %w", idx, rec.Nickname, err)
			}
			report.fail("players", idx, rec.Nickname, err)
			continue
		}
		report.created("players")
	}

	for idx, rec := range snap.Matches {
		err := i.importMatch(ctx, exec, rec, teamIDs, tournamentIDs, strictTeams, strictTournaments)
		if err != nil {
			if atomic {
				return fmt.Errorf("matches[%d] id=%d: %w", idx, rec.ID, err)
			}
			report.fail("matches", idx, strconv.Itoa(rec.ID), err)
			continue
		}
		report.created("matches")
	}

	return nil
}

func (i *Importer) importUser(ctx context.Context, exec repositories.SQLExecutor, rec UserRecord) error {
	user, err := rec.toModel()
	if err != nil {
		return err
	}
	// Хэш пароля переносится как есть, пустой plaintext-пароль не нужен.
	_, err = i.users.CreateTx(ctx, exec, user, "")
	return err
}

func (i *Importer) importTeam(ctx context.Context, exec repositories.SQLExecutor, rec TeamRecord, teamIDs map[int]int, atomic bool) error {
	team, err := rec.toModel()
	if err != nil {
		return err
	}
	created, err := i.teams.CreateTx(ctx, exec, team)
	if err == nil {
		teamIDs[rec.ID] = created.ID
		return nil
	}

	// Частичный режим: если команда с таким именем уже есть, ссылки
	// зависимых записей перепривязываются к ней.
	var conflict *services.ConflictError
	if !atomic && errors.As(err, &conflict) {
		if existing, getErr := i.teams.GetByName(ctx, exec, rec.Name); getErr == nil {
			teamIDs[rec.ID] = existing.ID
		}
	}
	return err
}

func (i *Importer) importTournament(ctx context.Context, exec repositories.SQLExecutor, rec TournamentRecord, tournamentIDs map[int]int) error {
	tournament, err := rec.toModel()
	if err != nil {
		return err
	}
	created, err := i.tournaments.CreateTx(ctx, exec, tournament)
	if err != nil {
		return err
	}
	tournamentIDs[rec.ID] = created.ID
	return nil
}

func (i *Importer) importPlayer(ctx context.Context, exec repositories.SQLExecutor, rec PlayerRecord, teamIDs map[int]int, strict bool) error {
	player, err := rec.toModel()
	if err != nil {
		return err
	}
	if player.TeamID != nil {
		mapped, err := remap(teamIDs, strict, "team", *player.TeamID)
		if err != nil {
			return err
		}
		player.TeamID = &mapped
	}
	_, err = i.players.CreateTx(ctx, exec, player)
	return err
}

func (i *Importer) importMatch(ctx context.Context, exec repositories.SQLExecutor, rec MatchRecord, teamIDs, tournamentIDs map[int]int, strictTeams, strictTournaments bool) error {
	match, err := rec.toModel()
	if err != nil {
		return err
	}
	if match.TournamentID, err = remap(tournamentIDs, strictTournaments, "tournament", match.TournamentID); err != nil {
		return err
	}
	if match.Team1ID, err = remap(teamIDs, strictTeams, "team", match.Team1ID); err != nil {
		return err
	}
	if match.Team2ID, err = remap(teamIDs, strictTeams, "team", match.Team2ID); err != nil {
		return err
	}
	if match.WinnerTeamID != nil {
		mapped, err := remap(teamIDs, strictTeams, "team", *match.WinnerTeamID)
		if err != nil {
			return err
		}
		match.WinnerTeamID = &mapped
	}
	_, err = i.matches.CreateTx(ctx, exec, match)
	return err
}

func remap(ids map[int]int, strict bool, entity string, id int) (int, error) {
	if mapped, ok := ids[id]; ok {
		return mapped, nil
	}
	if !strict {
		return id, nil
	}
	return 0, fmt.Errorf("references %s %d which was not imported", entity, id)
}
