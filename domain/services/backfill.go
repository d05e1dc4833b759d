package services

import (
	"sort"
	"time"

	"matchpool/domain/entities"
)

// BackfillService synthesizes default predictions for enrolled users who
// never predicted a match. It runs once at the started -> ended edge,
// before settlement, so every enrolled user participates in the pool.
type BackfillService struct{}

// NewBackfillService creates a new BackfillService
func NewBackfillService() *BackfillService {
	return &BackfillService{}
}

// ComputeDefaults returns the predictions to insert for enrolled users
// absent from the existing set. Backfilled predictions target the losing
// team, or the lexicographically-first team on a draw, and carry
// IsDefault = true. Existing predictions, default ones included, are
// never overwritten, so re-running backfill for a settled match yields
// nothing.
func (s *BackfillService) ComputeDefaults(match *entities.Match, enrolled []string, existing []*entities.Prediction, now time.Time) []*entities.Prediction {
	if len(enrolled) == 0 {
		return nil
	}

	predicted := make(map[string]bool, len(existing))
	for _, p := range existing {
		predicted[p.Username] = true
	}

	team := match.DefaultTeam()

	var defaults []*entities.Prediction
	for _, username := range enrolled {
		if predicted[username] {
			continue
		}
		predicted[username] = true
		defaults = append(defaults, &entities.Prediction{
			MatchID:   match.ID,
			Username:  username,
			Team:      team,
			PlacedAt:  now,
			IsDefault: true,
		})
	}

	sort.Slice(defaults, func(i, j int) bool {
		return defaults[i].Username < defaults[j].Username
	})

	return defaults
}
