package main

import (
	"context"

	"github.com/fantasyforge/forge/internal/adapters/signals"
	"github.com/fantasyforge/forge/internal/app"
	"github.com/fantasyforge/forge/internal/domain/model"
)

// Fixture data stands in for the roster, signal, and context
// collaborators during local runs. Scores are on the 0-100 scale.

var fixturePlayers = []model.Player{
	{PlayerID: "qb-allen", Name: "J. Allen", TeamID: "BUF", Position: model.PositionQB},
	{PlayerID: "rb-cook", Name: "J. Cook", TeamID: "BUF", Position: model.PositionRB},
	{PlayerID: "wr-shakir", Name: "K. Shakir", TeamID: "BUF", Position: model.PositionWR},
	{PlayerID: "te-kincaid", Name: "D. Kincaid", TeamID: "BUF", Position: model.PositionTE},
	{PlayerID: "qb-tua", Name: "T. Tagovailoa", TeamID: "MIA", Position: model.PositionQB},
	{PlayerID: "rb-achane", Name: "D. Achane", TeamID: "MIA", Position: model.PositionRB},
	{PlayerID: "wr-hill", Name: "T. Hill", TeamID: "MIA", Position: model.PositionWR},
	{PlayerID: "wr-waddle", Name: "J. Waddle", TeamID: "MIA", Position: model.PositionWR},
	{PlayerID: "te-smith", Name: "J. Smith", TeamID: "MIA", Position: model.PositionTE},
}

func fixtureRoster(ctx context.Context) ([]model.Player, error) {
	_ = ctx
	return fixturePlayers, nil
}

// fixtureSignals builds a static loader with plausible component scores
// for the active week.
func fixtureSignals(season, week int) *signals.StaticLoader {
	loader := signals.NewStaticLoader()

	seed := map[string]map[model.Component]float64{
		"qb-allen":   {model.ComponentUsage: 88, model.ComponentTalent: 95, model.ComponentEnvironment: 72, model.ComponentAvailability: 100, model.ComponentMarket: 90},
		"rb-cook":    {model.ComponentUsage: 70, model.ComponentTalent: 78, model.ComponentEnvironment: 72, model.ComponentAvailability: 100, model.ComponentMarket: 74},
		"wr-shakir":  {model.ComponentUsage: 64, model.ComponentTalent: 71, model.ComponentEnvironment: 72, model.ComponentAvailability: 95, model.ComponentMarket: 66},
		"te-kincaid": {model.ComponentUsage: 58, model.ComponentTalent: 69, model.ComponentEnvironment: 72, model.ComponentAvailability: 90, model.ComponentMarket: 60},
		"qb-tua":     {model.ComponentUsage: 81, model.ComponentTalent: 80, model.ComponentEnvironment: 65, model.ComponentAvailability: 85, model.ComponentMarket: 75},
		"rb-achane":  {model.ComponentUsage: 75, model.ComponentTalent: 86, model.ComponentEnvironment: 65, model.ComponentAvailability: 100, model.ComponentMarket: 82},
		"wr-hill":    {model.ComponentUsage: 86, model.ComponentTalent: 93, model.ComponentEnvironment: 65, model.ComponentAvailability: 100, model.ComponentMarket: 92},
		"wr-waddle":  {model.ComponentUsage: 72, model.ComponentTalent: 83, model.ComponentEnvironment: 65, model.ComponentAvailability: 95, model.ComponentMarket: 78},
		// No signals for te-smith: exercised as "insufficient data".
	}

	for playerID, components := range seed {
		for comp, score := range components {
			loader.Set(playerID, season, week, comp, score)
		}
	}
	return loader
}

// seedContext installs fixture environment, matchup, and schedule data.
func seedContext(ctx context.Context, svc *app.Service, season, week int) {
	contexts := svc.ContextStore()

	contexts.SetEnvironment(ctx, "BUF", 74)
	contexts.SetEnvironment(ctx, "MIA", 61)

	contexts.SetOpponent(ctx, season, week, "BUF", "MIA")
	contexts.SetOpponent(ctx, season, week, "MIA", "BUF")

	for _, pos := range model.Positions() {
		contexts.SetMatchup(ctx, "BUF", "MIA", pos, 63)
		contexts.SetMatchup(ctx, "MIA", "BUF", pos, 44)
	}
}
