package scoring

import (
	"fmt"
	"math"
	"sort"
	"time"

	"NewsCollector/internal/domain"
)

const (
	DefaultHorizon = 7 * 24 * time.Hour
	DefaultFloor   = 0.01
)

// DefaultTierWeights is indexed by tier-1.
var DefaultTierWeights = []float64{1.0, 0.8, 0.6, 0.45, 0.3}

// Settings configures a Scorer.
type Settings struct {
	Horizon     time.Duration
	Floor       float64
	TierWeights []float64
}

// Scorer computes engagement x tier x recency scores.
type Scorer struct {
	horizon  time.Duration
	halfLife float64
	floor    float64
	weights  []float64
}

// New validates settings and builds a Scorer.
func New(s Settings) (*Scorer, error) {
	if s.Horizon <= 0 {
		s.Horizon = DefaultHorizon
	}
	if s.Floor == 0 {
		s.Floor = DefaultFloor
	}
	if s.Floor <= 0 || s.Floor >= 1 {
		return nil, fmt.Errorf("recency floor must be in (0,1), got %v", s.Floor)
	}
	if len(s.TierWeights) == 0 {
		s.TierWeights = DefaultTierWeights
	}
	for i, w := range s.TierWeights {
		if w <= 0 {
			return nil, fmt.Errorf("tier %d weight must be positive", i+1)
		}
		if i > 0 && w >= s.TierWeights[i-1] {
			return nil, fmt.Errorf("tier weights must decrease: tier %d has %v", i+1, w)
		}
	}
	// The decaying term falls to 1% of its start at the horizon.
	halfLife := s.Horizon.Hours() / math.Log2(100)
	return &Scorer{
		horizon:  s.Horizon,
		halfLife: halfLife,
		floor:    s.Floor,
		weights:  append([]float64(nil), s.TierWeights...),
	}, nil
}

// TierWeight returns the multiplier for a tier; out of range tiers clamp to the table ends.
func (s *Scorer) TierWeight(tier int) float64 {
	switch {
	case tier < 1:
		return s.weights[0]
	case tier > len(s.weights):
		return s.weights[len(s.weights)-1]
	default:
		return s.weights[tier-1]
	}
}

// RecencyDecay is 1 at age zero and approaches the floor without reaching zero.
func (s *Scorer) RecencyDecay(age time.Duration) float64 {
	if age < 0 {
		age = 0
	}
	return s.floor + (1-s.floor)*math.Exp2(-age.Hours()/s.halfLife)
}

// EngagementNormalized compresses raw engagement so one viral item cannot dominate.
func EngagementNormalized(engagement int) float64 {
	return 1 + math.Log10(1+float64(max(engagement, 0)))
}

// Score computes the score of an item at a moment in time.
func (s *Scorer) Score(item domain.NewsItem, now time.Time) float64 {
	age := now.Sub(item.ReferenceTime())
	if item.ReferenceTime().IsZero() {
		age = 0
	}
	return EngagementNormalized(item.Engagement) * s.TierWeight(item.SourceTier) * s.RecencyDecay(age)
}

// Apply sets the score of every item in place.
func (s *Scorer) Apply(items []domain.NewsItem, now time.Time) {
	for i := range items {
		items[i].Score = s.Score(items[i], now)
	}
}

// Rank rescores and orders items by score descending, oldest detection first among ties.
func (s *Scorer) Rank(items []domain.NewsItem, now time.Time) {
	s.Apply(items, now)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].DetectedAt.Before(items[j].DetectedAt)
	})
}
