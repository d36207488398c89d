package generator

import "capturekit/internal/core"

// templateBanks holds five slotted templates per strategy. Slots are
// {insight}, {nuance}, {reason}, {follow_up}, and {topic}.
var templateBanks = map[core.Strategy][]string{
	core.StrategyAgree: {
		"This is exactly right. {insight}",
		"Spot on. {insight} {follow_up}",
		"100%. {insight}",
		"Agreed, and {insight}",
		"This. {insight} {follow_up}",
	},
	core.StrategyInsight: {
		"{insight} That's what most people miss here.",
		"Worth adding: {insight}",
		"The key detail: {insight}",
		"{insight} {follow_up}",
		"Underrated point about {topic}: {insight}",
	},
	core.StrategyQuestion: {
		"Interesting. How does this hold up when {nuance}?",
		"What's your read on {topic} given this?",
		"Does this change if {nuance}?",
		"Curious whether you see the same in {topic}?",
		"Good breakdown. What invalidates this setup?",
	},
	core.StrategyNuance: {
		"Mostly agree, but {nuance}",
		"True in general, though {nuance}",
		"One caveat: {nuance}",
		"Fair, but worth remembering {nuance}",
		"The exception here: {nuance}",
	},
	core.StrategyAnswer: {
		"Short answer: {insight}",
		"{insight} That's the main driver.",
		"It comes down to {topic}. {insight}",
		"{insight} {reason}",
		"Usually {insight}, because {reason}",
	},
}

// insightBanks holds topic-specific insight fragments. The market bank
// doubles as the generic fallback.
var insightBanks = map[string][]string{
	"gamma": {
		"dealer positioning flips the hedging flow once spot crosses the gamma strike",
		"negative gamma means dealers sell weakness and buy strength, amplifying moves",
		"the gamma profile resets after opex, so pinning pressure fades fast",
	},
	"options": {
		"premium sellers dominate when IV is rich relative to realized",
		"open interest at round strikes acts like a magnet into expiry",
		"skew tells you where the fear is priced, not where the move goes",
	},
	"flow": {
		"size and urgency matter more than direction in the tape",
		"repeated sweeps at the ask usually precede the headline, not follow it",
		"dark pool prints at key levels often mark accumulation, not distribution",
	},
	"technicals": {
		"levels only matter when positioning is crowded around them",
		"a failed breakout carries more information than a clean one",
		"volume confirms the level, price alone just tests it",
	},
	"volatility": {
		"vol tends to cluster, so one outsized day rarely stands alone",
		"IV crush after the event is the trade more often than the event itself",
	},
	"market": {
		"breadth divergence tends to resolve in the direction of the laggards",
		"positioning unwinds move faster than positioning builds",
		"the first move after a catalyst is often the wrong one",
	},
}

func insightsFor(topics []string) []string {
	out := []string{}
	for _, t := range topics {
		out = append(out, insightBanks[t]...)
	}
	if len(out) == 0 {
		out = insightBanks["market"]
	}
	return out
}

var nuanceBank = []string{
	"liquidity is thin at these levels",
	"the options market is pricing this differently",
	"positioning was already stretched going in",
	"the timeframe changes the conclusion",
	"correlation breaks down exactly when you need it",
}

var reasonBank = []string{
	"hedging flow dominates in this regime",
	"positioning drives price more than fundamentals short term",
	"the marginal buyer has stepped away",
	"vol sellers get forced out at the worst time",
}

var followUpBank = []string{
	"Watch how it trades into the close.",
	"The next few sessions will confirm it.",
	"Worth tracking the follow-through.",
	"",
}

// Expansion material for length calibration.
var transitionBank = []string{
	"What makes this interesting is that",
	"The context here is that",
	"Worth noting that",
}

var topicAdditions = map[string][]string{
	"gamma": {
		"dealer hedging tends to accelerate the move once the key strike breaks.",
		"the positioning picture shifts completely after expiry.",
	},
	"options": {
		"the premium structure tells you where the crowd is leaning.",
	},
	"flow": {
		"the tape has been showing the same bias for days.",
	},
	"technicals": {
		"the level lines up with where the volume built last week.",
	},
	"volatility": {
		"realized has been running well below implied all month.",
	},
	"market": {
		"breadth has been telling the same story underneath.",
	},
}

var amplifierBank = []string{
	" - and the flow backs it up.",
	" - the positioning data agrees.",
	" - worth watching closely here.",
}

var closerBank = []string{
	"Key level to watch.",
	"Flow will tell.",
	"Positioning is everything here.",
}
