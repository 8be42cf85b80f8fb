package board

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/radieske/bet-simulator/internal/odds-service/dto"
	"github.com/radieske/bet-simulator/internal/shared/oddsmath"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrGameNotFound indica id de jogo inexistente no quadro
var ErrGameNotFound = errors.New("game not found")

// AllLeagues seleciona todos os jogos
const AllLeagues = "all"

// Catalog é o quadro de jogos simulado, carregado de YAML
type Catalog struct {
	games []dto.Game
	byID  map[string]dto.Game
}

type catalogFile struct {
	Games []dto.Game `yaml:"games"`
}

// Default carrega o catálogo embutido no binário
func Default() (*Catalog, error) { return Load(defaultCatalog) }

// Load interpreta e valida um catálogo: ids únicos e cotações americanas válidas
func Load(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]dto.Game, len(f.Games))}
	for _, g := range f.Games {
		if g.ID == "" || g.HomeTeam == "" || g.AwayTeam == "" {
			return nil, fmt.Errorf("catalog: incomplete game %+v", g)
		}
		if _, dup := c.byID[g.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate game id %q", g.ID)
		}
		for _, american := range []int{
			g.Moneyline.Home, g.Moneyline.Away,
			g.Spread.HomeOdds, g.Spread.AwayOdds,
			g.Total.OverOdds, g.Total.UnderOdds,
		} {
			if _, err := oddsmath.AmericanToDecimal(american); err != nil {
				return nil, fmt.Errorf("catalog: game %s odds %d: %w", g.ID, american, err)
			}
		}
		c.byID[g.ID] = g
		c.games = append(c.games, g)
	}
	sort.SliceStable(c.games, func(i, j int) bool { return c.games[i].ID < c.games[j].ID })
	return c, nil
}

// Games retorna os jogos da liga ("all" ou vazio = todos), ordenados por id
func (c *Catalog) Games(league string) []dto.Game {
	out := make([]dto.Game, 0, len(c.games))
	for _, g := range c.games {
		if league == "" || strings.EqualFold(league, AllLeagues) || strings.EqualFold(league, g.League) {
			out = append(out, g)
		}
	}
	return out
}

// Game busca um jogo pelo id
func (c *Catalog) Game(id string) (dto.Game, error) {
	g, ok := c.byID[id]
	if !ok {
		return dto.Game{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}

// Leagues lista as ligas com a contagem de jogos, em ordem alfabética
func (c *Catalog) Leagues() []dto.League {
	counts := map[string]int{}
	for _, g := range c.games {
		counts[g.League]++
	}
	out := make([]dto.League, 0, len(counts))
	for l, n := range counts {
		out = append(out, dto.League{League: l, Games: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].League < out[j].League })
	return out
}
