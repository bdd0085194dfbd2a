package exchange

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// Имена CSV-файлов внутри каталога выгрузки.
const (
	usersCSV       = "users.csv"
	teamsCSV       = "teams.csv"
	playersCSV     = "players.csv"
	tournamentsCSV = "tournaments.csv"
	matchesCSV     = "matches.csv"
)

var (
	userHeader       = []string{"id", "username", "password_hash", "role", "email", "created_at", "last_login"}
	teamHeader       = []string{"id", "name", "abbreviation", "country", "coach", "founded_date", "is_active", "created_at"}
	playerHeader     = []string{"id", "nickname", "first_name", "last_name", "nationality", "role", "team_id", "birth_date", "is_active", "created_at"}
	tournamentHeader = []string{"id", "name", "location", "start_date", "end_date", "prize_pool", "tier", "status", "created_at"}
	matchHeader      = []string{"id", "tournament_id", "team1_id", "team2_id", "score_team1", "score_team2", "match_date", "best_of", "stage", "winner_team_id", "created_at"}
)

// WriteCSVDir раскладывает снапшот по пяти CSV-файлам в каталоге dir.
// Пустые строки кодируют NULL-поля.
func WriteCSVDir(dir string, snap *Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{usersCSV, userHeader, userRows(snap.Users)},
		{teamsCSV, teamHeader, teamRows(snap.Teams)},
		{playersCSV, playerHeader, playerRows(snap.Players)},
		{tournamentsCSV, tournamentHeader, tournamentRows(snap.Tournaments)},
		{matchesCSV, matchHeader, matchRows(snap.Matches)},
	}
	for _, f := range files {
		if err := writeCSVFile(filepath.Join(dir, f.name), f.header, f.rows); err != nil {
			return err
		}
	}
	return nil
}

// ReadCSVDir собирает снапшот из каталога с CSV-файлами. Отсутствующий
// файл трактуется как пустая коллекция.
func ReadCSVDir(dir string) (*Snapshot, error) {
	snap := &Snapshot{}

	if err := readCSVFile(filepath.Join(dir, usersCSV), userHeader, func(row []string) error {
		rec, err := userFromRow(row)
		if err != nil {
			return err
		}
		snap.Users = append(snap.Users, rec)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := readCSVFile(filepath.Join(dir, teamsCSV), teamHeader, func(row []string) error {
		rec, err := teamFromRow(row)
		if err != nil {
			return err
		}
		snap.Teams = append(snap.Teams, rec)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := readCSVFile(filepath.Join(dir, playersCSV), playerHeader, func(row []string) error {
		rec, err := playerFromRow(row)
		if err != nil {
			return err
		}
		snap.Players = append(snap.Players, rec)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := readCSVFile(filepath.Join(dir, tournamentsCSV), tournamentHeader, func(row []string) error {
		rec, err := tournamentFromRow(row)
		if err != nil {
			return err
		}
		snap.Tournaments = append(snap.Tournaments, rec)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := readCSVFile(filepath.Join(dir, matchesCSV), matchHeader, func(row []string) error {
		rec, err := matchFromRow(row)
		if err != nil {
			return err
		}
		snap.Matches = append(snap.Matches, rec)
		return nil
	}); err != nil {
		return nil, err
	}

	return snap, nil
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", filepath.Base(path), err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write %s row: %w", filepath.Base(path), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", filepath.Base(path), err)
	}
	return file.Close()
}

func readCSVFile(path string, header []string, each func(row []string) error) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(header)
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil
	}
	for i, row := range rows[1:] {
		if err := each(row); err != nil {
			return fmt.Errorf("%s row %d: %w", filepath.Base(path), i+2, err)
		}
	}
	return nil
}

func userRows(records []UserRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID), r.Username, r.PasswordHash, r.Role, r.Email,
			r.CreatedAt, optString(r.LastLogin),
		})
	}
	return rows
}

func teamRows(records []TeamRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID), r.Name, optString(r.Abbreviation), r.Country, r.Coach,
			optString(r.FoundedDate), strconv.FormatBool(r.IsActive), r.CreatedAt,
		})
	}
	return rows
}

func playerRows(records []PlayerRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID), r.Nickname, r.FirstName, r.LastName, r.Nationality,
			r.Role, optInt(r.TeamID), optString(r.BirthDate),
			strconv.FormatBool(r.IsActive), r.CreatedAt,
		})
	}
	return rows
}

func tournamentRows(records []TournamentRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID), r.Name, optString(r.Location), r.StartDate, r.EndDate,
			strconv.FormatFloat(r.PrizePool, 'f', -1, 64), r.Tier, r.Status, r.CreatedAt,
		})
	}
	return rows
}

func matchRows(records []MatchRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID), strconv.Itoa(r.TournamentID), strconv.Itoa(r.Team1ID),
			strconv.Itoa(r.Team2ID), strconv.Itoa(r.ScoreTeam1), strconv.Itoa(r.ScoreTeam2),
			r.MatchDate, r.BestOf, optString(r.Stage), optInt(r.WinnerTeamID), r.CreatedAt,
		})
	}
	return rows
}

func userFromRow(row []string) (UserRecord, error) {
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return UserRecord{}, fmt.Errorf("id: %w", err)
	}
	return UserRecord{
		ID:           id,
		Username:     row[1],
		PasswordHash: row[2],
		Role:         row[3],
		Email:        row[4],
		CreatedAt:    row[5],
		LastLogin:    optStringPtr(row[6]),
	}, nil
}

func teamFromRow(row []string) (TeamRecord, error) {
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return TeamRecord{}, fmt.Errorf("id: %w", err)
	}
	isActive, err := strconv.ParseBool(row[6])
	if err != nil {
		return TeamRecord{}, fmt.Errorf("is_active: %w", err)
	}
	return TeamRecord{
		ID:           id,
		Name:         row[1],
		Abbreviation: optStringPtr(row[2]),
		Country:      row[3],
		Coach:        row[4],
		FoundedDate:  optStringPtr(row[5]),
		IsActive:     isActive,
		CreatedAt:    row[7],
	}, nil
}

func playerFromRow(row []string) (PlayerRecord, error) {
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return PlayerRecord{}, fmt.Errorf("id: %w", err)
	}
	teamID, err := optIntPtr(row[6])
	if err != nil {
		return PlayerRecord{}, fmt.Errorf("team_id: %w", err)
	}
	isActive, err := strconv.ParseBool(row[8])
	if err != nil {
		return PlayerRecord{}, fmt.Errorf("is_active: %w", err)
	}
	return PlayerRecord{
		ID:          id,
		Nickname:    row[1],
		FirstName:   row[2],
		LastName:    row[3],
		Nationality: row[4],
		Role:        row[5],
		TeamID:      teamID,
		BirthDate:   optStringPtr(row[7]),
		IsActive:    isActive,
		CreatedAt:   row[9],
	}, nil
}

func tournamentFromRow(row []string) (TournamentRecord, error) {
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return TournamentRecord{}, fmt.Errorf("id: %w", err)
	}
	prizePool, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return TournamentRecord{}, fmt.Errorf("prize_pool: %w", err)
	}
	return TournamentRecord{
		ID:        id,
		Name:      row[1],
		Location:  optStringPtr(row[2]),
		StartDate: row[3],
		EndDate:   row[4],
		PrizePool: prizePool,
		Tier:      row[6],
		Status:    row[7],
		CreatedAt: row[8],
	}, nil
}

func matchFromRow(row []string) (MatchRecord, error) {
	ints := make([]int, 6)
	names := []string{"id", "tournament_id", "team1_id", "team2_id", "score_team1", "score_team2"}
	for i := range ints {
		v, err := strconv.Atoi(row[i])
		if err != nil {
			return MatchRecord{}, fmt.Errorf("%s: %w", names[i], err)
		}
		ints[i] = v
	}
	winnerID, err := optIntPtr(row[9])
	if err != nil {
		return MatchRecord{}, fmt.Errorf("winner_team_id: %w", err)
	}
	return MatchRecord{
		ID:           ints[0],
		TournamentID: ints[1],
		Team1ID:      ints[2],
		Team2ID:      ints[3],
		ScoreTeam1:   ints[4],
		ScoreTeam2:   ints[5],
		MatchDate:    row[6],
		BestOf:       row[7],
		Stage:        optStringPtr(row[8]),
		WinnerTeamID: winnerID,
		CreatedAt:    row[10],
	}, nil
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optStringPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optIntPtr(v string) (*int, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
