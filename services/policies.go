package services

// DeletePolicy определяет судьбу зависимых записей при удалении родителя.
type DeletePolicy string

const (
	// Restrict запрещает удаление, пока существуют зависимые записи.
	Restrict DeletePolicy = "RESTRICT"
	// Cascade удаляет зависимые записи вместе с родителем.
	Cascade DeletePolicy = "CASCADE"
	// SetNull обнуляет внешний ключ зависимой записи.
	SetNull DeletePolicy = "SET NULL"
)

// Relationship — одна связь родитель-потомок с политикой удаления.
type Relationship struct {
	Child  string
	Field  string
	Policy DeletePolicy
}

// Политики удаления, одна таблица на родительскую сущность. Удаление
// сверяется с этим списком, а не размазано по коду: RESTRICT проверяется
// раньше любых мутаций, чтобы отказ не оставлял частичных эффектов.
var (
	TeamDeleteRules = []Relationship{
		{Child: "match", Field: "team1_id", Policy: Restrict},
		{Child: "match", Field: "team2_id", Policy: Restrict},
		{Child: "player", Field: "team_id", Policy: SetNull},
		{Child: "match", Field: "winner_team_id", Policy: SetNull},
	}

	TournamentDeleteRules = []Relationship{
		{Child: "match", Field: "tournament_id", Policy: Cascade},
	}
)
