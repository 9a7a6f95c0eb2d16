package demo

import (
	"time"

	"github.com/google/uuid"
	"github.com/soundprediction/predicato/pkg/types"
)

// The demo narrative tracks a fictional LLM vendor landscape so the temporal
// behaviour of the graph is easy to see: later phases contradict earlier
// facts and the library marks the older ones as superseded.

// episode builds a demo episode with the given reference time. Reference is
// when the described facts were true in the narrative; CreatedAt is the
// ingestion wall clock.
func episode(name, content, source string, reference time.Time, groupID string) types.Episode {
	return types.Episode{
		ID:        uuid.NewString(),
		Name:      name,
		Content:   content,
		Source:    source,
		Reference: reference,
		CreatedAt: time.Now().UTC(),
		GroupID:   groupID,
	}
}

// QuickstartEpisodes returns the fixed set of episodes the quickstart
// ingests: free text plus one JSON payload, matching what the library
// accepts for both episode kinds.
func QuickstartEpisodes(groupID string) []types.Episode {
	now := time.Now().UTC()
	return []types.Episode{
		episode(
			"NovaMind company profile",
			"NovaMind Labs is an AI research company headquartered in Rotterdam. "+
				"Its flagship large language model is Orion 1, released in January 2025. "+
				"Orion 1 supports a context window of 128K tokens.",
			"quickstart",
			now.AddDate(0, -2, 0),
			groupID,
		),
		episode(
			"Helios rivalry",
			"Helios AI is NovaMind Labs' main competitor. Helios AI builds the Titan "+
				"model family. Titan 2 is widely considered the best open-weights model "+
				"for coding tasks.",
			"quickstart",
			now.AddDate(0, -2, 0),
			groupID,
		),
		episode(
			"Orion adoption",
			"The municipal library of Rotterdam uses Orion 1 to answer catalogue "+
				"questions. The deployment runs entirely on local hardware through "+
				"LM Studio.",
			"quickstart",
			now.AddDate(0, -1, 0),
			groupID,
		),
		episode(
			"Orion 1 model card",
			`{"model": "Orion 1", "vendor": "NovaMind Labs", "parameters": "70B", `+
				`"context_window": 131072, "modalities": ["text"], "license": "research"}`,
			"quickstart/model-card.json",
			now.AddDate(0, -2, 0),
			groupID,
		),
	}
}

// QuickstartQueries are the canned searches the quickstart runs after
// ingestion.
var QuickstartQueries = []string{
	"What is NovaMind Labs' flagship model?",
	"Which model is best for coding?",
	"Who uses Orion 1?",
}

// Phase is one step of the evolution narrative.
type Phase struct {
	Name     string
	Intro    string
	Episodes []types.Episode
}

// EvolutionProbes are rerun after every phase so superseded facts become
// visible as the narrative advances.
var EvolutionProbes = []string{
	"What is NovaMind Labs' flagship model?",
	"What context window does the flagship Orion model support?",
	"Which model is best for coding?",
}

// EvolutionPhases returns the three-phase narrative. Each phase carries an
// earlier-to-later reference time so the graph can order the facts.
func EvolutionPhases(groupID string) []Phase {
	now := time.Now().UTC()
	p1 := now.AddDate(0, -6, 0)
	p2 := now.AddDate(0, -2, 0)
	p3 := now

	return []Phase{
		{
			Name: "Phase 1: The initial landscape",
			Intro: "Orion 1 is NovaMind's flagship and Titan 2 leads the coding " +
				"benchmarks. These facts enter the graph as currently valid.",
			Episodes: []types.Episode{
				episode(
					"State of the models, winter",
					"NovaMind Labs' flagship model is Orion 1. Orion 1 supports a "+
						"context window of 128K tokens. Helios AI's Titan 2 is the best "+
						"model for coding.",
					"evolution/phase-1",
					p1,
					groupID,
				),
			},
		},
		{
			Name: "Phase 2: Orion 2 ships",
			Intro: "NovaMind releases Orion 2, which replaces Orion 1 as the " +
				"flagship and doubles the context window. The graph should now mark " +
				"the Orion 1 facts as superseded.",
			Episodes: []types.Episode{
				episode(
					"Orion 2 launch",
					"NovaMind Labs released Orion 2, which replaces Orion 1 as the "+
						"company's flagship model. Orion 2 supports a context window of "+
						"256K tokens.",
					"evolution/phase-2",
					p2,
					groupID,
				),
			},
		},
		{
			Name: "Phase 3: The coding crown moves",
			Intro: "A fine-tuned Orion 2 Coder overtakes Titan 2 on the coding " +
				"benchmarks, superseding the last of the phase-1 facts.",
			Episodes: []types.Episode{
				episode(
					"Benchmark update",
					"Orion 2 Coder, a fine-tune of Orion 2 by NovaMind Labs, is now "+
						"the best model for coding, overtaking Helios AI's Titan 2.",
					"evolution/phase-3",
					p3,
					groupID,
				),
			},
		},
	}
}
