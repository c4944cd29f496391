package backgammon

import (
	"sync"

	"gammon_sgf/internal/domain/sgf"
)

// Game is the GM number of backgammon.
const Game = 6

func decls() []sgf.Decl {
	return []sgf.Decl{
		{ID: "B", Type: sgf.TypeMove},
		{ID: "W", Type: sgf.TypeMove},
		{ID: "AB", Type: sgf.ListOf(sgf.TypeStone)},
		{ID: "AW", Type: sgf.ListOf(sgf.TypeStone)},
		{ID: "AE", Type: sgf.ListOf(sgf.TypePoint)},
		{ID: "PL", Type: sgf.TypeColor},
		{ID: "DI", Type: sgf.TypeNumber},
		{ID: "CV", Type: sgf.TypeNumber},
		{ID: "CO", Type: sgf.TypeSimpleText},
		{ID: "CP", Type: sgf.TypeSimpleText},
		{ID: "RE", Type: ResultType},
		{ID: "MI", Type: sgf.EListOf(MatchInfoItemType)},
		{ID: "RU", Type: sgf.TypeSimpleText},
		{ID: "DA", Type: sgf.TypeSimpleText},
		{ID: "A", Type: sgf.ListOf(sgf.TypeSimpleText)},
		{ID: "LU", Type: sgf.TypeReal},
		{ID: "BC", Type: sgf.TypeDouble},
		{ID: "DC", Type: sgf.TypeNone},
	}
}

var (
	flavorOnce sync.Once
	flavor     *sgf.Flavor
	registry   *sgf.Registry
)

func build() {
	flavor = sgf.Generic().Extend("backgammon", Game, codec{}, decls(), [][]string{{"BC", "DC"}})
	registry = sgf.NewRegistry(sgf.Generic(), flavor)
}

// Flavor returns the backgammon flavor. It extends the generic SGF-4
// flavor.
func Flavor() *sgf.Flavor {
	flavorOnce.Do(build)
	return flavor
}

// Registry returns the registry of the built-in flavors: generic and
// backgammon.
func Registry() *sgf.Registry {
	flavorOnce.Do(build)
	return registry
}
